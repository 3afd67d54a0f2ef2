package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/palko-app/rentmanager/internal/apiserver/database"
	"github.com/palko-app/rentmanager/internal/apiserver/middleware"
	"github.com/palko-app/rentmanager/internal/apiserver/service"
	"github.com/palko-app/rentmanager/internal/common/dto"
	"github.com/palko-app/rentmanager/internal/exchange"
	"github.com/palko-app/rentmanager/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PortalHandler serves the tenant-facing portal. Every route is behind
// the tenant gate, so a Tenant record is always present in the context.
type PortalHandler struct {
	db        database.Database
	billing   *service.BillingService
	readings  *service.ReadingService
	blob      storage.Store
	converter exchange.Converter
	logger    *zap.Logger
}

// NewPortalHandler creates a new PortalHandler
func NewPortalHandler(db database.Database, billing *service.BillingService, readings *service.ReadingService, blob storage.Store, converter exchange.Converter, logger *zap.Logger) *PortalHandler {
	return &PortalHandler{
		db:        db,
		billing:   billing,
		readings:  readings,
		blob:      blob,
		converter: converter,
		logger:    logger,
	}
}

// Dashboard returns the tenant's landing page projection
func (h *PortalHandler) Dashboard(c *gin.Context) {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tenant not resolved"})
		return
	}

	dashboard, err := h.billing.Dashboard(c.Request.Context(), tenant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"dashboard": dashboard}
	if dashboard.Agreement != nil {
		resp["monthlyRentRon"] = h.converter.EURToRON(dashboard.Agreement.MonthlyRentEUR)
	}
	c.JSON(http.StatusOK, resp)
}

// RentStatus returns the agreement and payment history
func (h *PortalHandler) RentStatus(c *gin.Context) {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tenant not resolved"})
		return
	}

	status, err := h.billing.RentStatus(c.Request.Context(), tenant.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active rent agreement"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"agreement":           status.Agreement,
		"monthlyRentRon":      h.converter.EURToRON(status.Agreement.MonthlyRentEUR),
		"currentMonthPayment": status.CurrentMonthPayment,
		"payments":            status.Payments,
	})
}

// UtilityBills returns the tenant's bills grouped by status
func (h *PortalHandler) UtilityBills(c *gin.Context) {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tenant not resolved"})
		return
	}

	groups, err := h.billing.GroupBills(c.Request.Context(), tenant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, groups)
}

// DownloadBill streams a bill attachment. A bill without a file or a
// blob store miss is reported as a message, not a server failure.
func (h *PortalHandler) DownloadBill(c *gin.Context) {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tenant not resolved"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bill id"})
		return
	}

	bill, err := h.db.GetBillForTenant(c.Request.Context(), uint(id), tenant.ID)
	if err != nil {
		if database.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "bill not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !bill.HasFile() {
		c.JSON(http.StatusNotFound, gin.H{"error": "no file attached to this bill"})
		return
	}

	rc, err := h.blob.Get(c.Request.Context(), bill.FileKey)
	if err != nil {
		h.logger.Warn("bill attachment unavailable",
			zap.Uint("bill_id", bill.ID),
			zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "bill file unavailable"})
		return
	}
	defer rc.Close()

	filename := fmt.Sprintf("%s_%s%s",
		bill.UtilityType.Name,
		bill.DueDate.Format("2006-01-02"),
		filepath.Ext(bill.FileKey))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.logger.Warn("bill attachment stream interrupted",
			zap.Uint("bill_id", bill.ID),
			zap.Error(err))
	}
}

// Meters returns the tenant's meter overview and reading history
func (h *PortalHandler) Meters(c *gin.Context) {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tenant not resolved"})
		return
	}

	overview, err := h.readings.Overview(c.Request.Context(), tenant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	history, err := h.db.ListReadingsByTenant(c.Request.Context(), tenant.ID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meters":   overview,
		"readings": history,
	})
}

// SubmitReading runs the reading submission workflow. Validation and
// duplicate outcomes complete the request normally with a message and
// the refreshed overview, mirroring the redirect-with-message flow.
func (h *PortalHandler) SubmitReading(c *gin.Context) {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tenant not resolved"})
		return
	}

	var req dto.SubmitReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := dto.SubmitReadingResponse{Success: true, Message: "Reading submitted successfully."}
	_, err := h.readings.Submit(c.Request.Context(), tenant, req.MeterTypeID, req.ReadingValue, req.Notes)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrNotFound):
		result = dto.SubmitReadingResponse{Success: false, Message: "Invalid meter type selected."}
	case errors.Is(err, service.ErrInvalidInput):
		result = dto.SubmitReadingResponse{Success: false, Message: "Invalid reading value."}
	case errors.Is(err, service.ErrDuplicateSubmission):
		result = dto.SubmitReadingResponse{Success: false, Message: "You have already submitted a reading today for this meter type."}
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	overview, err := h.readings.Overview(c.Request.Context(), tenant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": result.Success,
		"message": result.Message,
		"meters":  overview,
	})
}
