package handler

import (
	"net/http"
	"time"

	"github.com/palko-app/rentmanager/internal/apiserver/database"
	"github.com/palko-app/rentmanager/internal/common/dto"
	"github.com/palko-app/rentmanager/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ---- Rent agreements ----

// ListAgreements handles listing all rent agreements
func (h *AdminHandler) ListAgreements(c *gin.Context) {
	agreements, err := h.db.ListAgreements(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, agreements)
}

// CreateAgreement handles creating a rent agreement
func (h *AdminHandler) CreateAgreement(c *gin.Context) {
	var req dto.AgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agreement := &database.RentAgreement{TenantID: req.TenantID, IsActive: true}
	if err := applyAgreementRequest(agreement, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.db.GetTenantByID(c.Request.Context(), req.TenantID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
		return
	}

	if err := h.db.CreateAgreement(c.Request.Context(), agreement); err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "tenant already has an agreement"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": agreement.ID})
}

// UpdateAgreement handles updating a rent agreement
func (h *AdminHandler) UpdateAgreement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req dto.AgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agreement, err := h.db.GetAgreementByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "agreement not found"})
		return
	}

	if err := applyAgreementRequest(agreement, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	agreement.UpdatedAt = time.Now()

	if err := h.db.UpdateAgreement(c.Request.Context(), agreement); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "agreement updated successfully"})
}

// DeleteAgreement handles deleting a rent agreement
func (h *AdminHandler) DeleteAgreement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if _, err := h.db.GetAgreementByID(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "agreement not found"})
		return
	}

	if err := h.db.DeleteAgreement(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "agreement deleted successfully"})
}

// applyAgreementRequest validates and copies request fields onto the
// agreement. The end date, when present, must not precede the start
// date.
func applyAgreementRequest(agreement *database.RentAgreement, req *dto.AgreementRequest) error {
	rent, err := parseAmount(req.MonthlyRentEUR)
	if err != nil {
		return err
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return err
	}
	agreement.MonthlyRentEUR = rent
	agreement.StartDate = start
	agreement.EndDate = nil
	if req.EndDate != "" {
		end, err := parseDate(req.EndDate)
		if err != nil {
			return err
		}
		if end.Before(start) {
			return errEndBeforeStart
		}
		agreement.EndDate = &end
	}
	if req.IsActive != nil {
		agreement.IsActive = *req.IsActive
	}
	return nil
}

// ---- Rent payments ----

// ListPayments handles listing payments, optionally for one agreement
func (h *AdminHandler) ListPayments(c *gin.Context) {
	agreementID, err := queryUint(c, "agreementId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid agreementId"})
		return
	}
	if agreementID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "agreementId is required"})
		return
	}

	payments, err := h.db.ListPayments(c.Request.Context(), agreementID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, payments)
}

// CreatePayment records a rent payment. Both currency amounts are
// stored exactly as submitted; no cross-check against the exchange
// rate is performed.
func (h *AdminHandler) CreatePayment(c *gin.Context) {
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment := &database.RentPayment{AgreementID: req.AgreementID, Status: database.PaymentPending}
	if err := applyPaymentRequest(payment, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.db.GetAgreementByID(c.Request.Context(), req.AgreementID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "agreement not found"})
		return
	}

	if err := h.db.CreatePayment(c.Request.Context(), payment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": payment.ID})
}

// UpdatePayment handles updating a rent payment
func (h *AdminHandler) UpdatePayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.db.GetPaymentByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}

	if err := applyPaymentRequest(payment, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payment.UpdatedAt = time.Now()

	if err := h.db.UpdatePayment(c.Request.Context(), payment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "payment updated successfully"})
}

// DeletePayment handles deleting a rent payment
func (h *AdminHandler) DeletePayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if _, err := h.db.GetPaymentByID(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}

	if err := h.db.DeletePayment(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "payment deleted successfully"})
}

func applyPaymentRequest(payment *database.RentPayment, req *dto.PaymentRequest) error {
	amountEUR, err := parseAmount(req.AmountEUR)
	if err != nil {
		return err
	}
	amountRON, err := parseAmount(req.AmountRON)
	if err != nil {
		return err
	}
	rate, err := parseAmount(req.ExchangeRate)
	if err != nil {
		return err
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return err
	}

	payment.AmountEUR = amountEUR
	payment.AmountRON = amountRON
	payment.ExchangeRate = rate
	payment.DueDate = dueDate
	payment.Notes = req.Notes

	payment.PaymentDate = nil
	if req.PaymentDate != "" {
		paid, err := parseDate(req.PaymentDate)
		if err != nil {
			return err
		}
		payment.PaymentDate = &paid
	}

	if req.Status != "" {
		status := database.PaymentStatus(req.Status)
		switch status {
		case database.PaymentPending, database.PaymentPaid, database.PaymentOverdue:
			payment.Status = status
		default:
			return errInvalidStatus
		}
	}
	return nil
}

// ---- Utility bills ----

// ListBills handles listing all utility bills
func (h *AdminHandler) ListBills(c *gin.Context) {
	bills, err := h.db.ListBills(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bills)
}

// CreateBill handles creating a utility bill
func (h *AdminHandler) CreateBill(c *gin.Context) {
	var req dto.BillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bill := &database.UtilityBill{
		UtilityTypeID: req.UtilityTypeID,
		TenantID:      req.TenantID,
		Status:        database.BillUnpaid,
	}
	if err := applyBillRequest(bill, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.db.GetUtilityTypeByID(c.Request.Context(), req.UtilityTypeID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "utility type not found"})
		return
	}
	if _, err := h.db.GetTenantByID(c.Request.Context(), req.TenantID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
		return
	}

	if err := h.db.CreateBill(c.Request.Context(), bill); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": bill.ID})
}

// UpdateBill handles updating a utility bill
func (h *AdminHandler) UpdateBill(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req dto.BillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bill, err := h.db.GetBillByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "bill not found"})
		return
	}

	if err := applyBillRequest(bill, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	bill.UpdatedAt = time.Now()

	if err := h.db.UpdateBill(c.Request.Context(), bill); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "bill updated successfully"})
}

// DeleteBill removes a bill and its attachment, if any. A failed
// attachment delete is logged but does not keep the row around.
func (h *AdminHandler) DeleteBill(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	bill, err := h.db.GetBillByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "bill not found"})
		return
	}

	if err := h.db.DeleteBill(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if bill.HasFile() {
		if err := h.blob.Delete(c.Request.Context(), bill.FileKey); err != nil {
			h.logger.Warn("failed to delete bill attachment",
				zap.Uint("bill_id", bill.ID),
				zap.String("file_key", bill.FileKey),
				zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "bill deleted successfully"})
}

// UploadBillFile attaches a document to a bill via multipart upload.
// Re-uploading replaces the previous attachment.
func (h *AdminHandler) UploadBillFile(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	bill, err := h.db.GetBillByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "bill not found"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	key := storage.NewKey(fileHeader.Filename)
	if err := h.blob.Put(c.Request.Context(), key, f); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	oldKey := bill.FileKey
	bill.FileKey = key
	bill.UpdatedAt = time.Now()
	if err := h.db.UpdateBill(c.Request.Context(), bill); err != nil {
		// roll back the orphaned blob
		if delErr := h.blob.Delete(c.Request.Context(), key); delErr != nil {
			h.logger.Warn("failed to clean up orphaned bill attachment",
				zap.String("file_key", key), zap.Error(delErr))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if oldKey != "" {
		if err := h.blob.Delete(c.Request.Context(), oldKey); err != nil {
			h.logger.Warn("failed to delete replaced bill attachment",
				zap.Uint("bill_id", bill.ID),
				zap.String("file_key", oldKey),
				zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "file uploaded successfully"})
}

func applyBillRequest(bill *database.UtilityBill, req *dto.BillRequest) error {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return err
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return err
	}

	bill.Amount = amount
	bill.DueDate = dueDate
	bill.InvoiceNumber = req.InvoiceNumber
	bill.Notes = req.Notes

	bill.BillDate = dueDate
	if req.BillDate != "" {
		billDate, err := parseDate(req.BillDate)
		if err != nil {
			return err
		}
		bill.BillDate = billDate
	}

	bill.PaidOn = nil
	if req.PaidOn != "" {
		paidOn, err := parseDate(req.PaidOn)
		if err != nil {
			return err
		}
		bill.PaidOn = &paidOn
	}

	if req.Status != "" {
		status := database.BillStatus(req.Status)
		switch status {
		case database.BillUnpaid, database.BillPaid, database.BillOverdue:
			bill.Status = status
		default:
			return errInvalidStatus
		}
	}
	return nil
}
