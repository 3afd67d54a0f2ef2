package handler

import (
	"net/http"
	"time"

	"github.com/palko-app/rentmanager/internal/apiserver/database"
	"github.com/palko-app/rentmanager/internal/common/dto"

	"github.com/gin-gonic/gin"
)

// ---- Utility types ----

// ListUtilityTypes handles listing utility types
func (h *AdminHandler) ListUtilityTypes(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	types, err := h.db.ListUtilityTypes(c.Request.Context(), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, types)
}

// CreateUtilityType handles creating a utility type
func (h *AdminHandler) CreateUtilityType(c *gin.Context) {
	var req dto.UtilityTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ut := &database.UtilityType{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		ut.IsActive = *req.IsActive
	}

	if err := h.db.CreateUtilityType(c.Request.Context(), ut); err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "utility type already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": ut.ID})
}

// UpdateUtilityType handles updating a utility type
func (h *AdminHandler) UpdateUtilityType(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req dto.UtilityTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ut, err := h.db.GetUtilityTypeByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "utility type not found"})
		return
	}

	ut.Name = req.Name
	ut.Description = req.Description
	if req.IsActive != nil {
		ut.IsActive = *req.IsActive
	}
	ut.UpdatedAt = time.Now()

	if err := h.db.UpdateUtilityType(c.Request.Context(), ut); err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "utility type already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "utility type updated successfully"})
}

// DeleteUtilityType handles deleting a utility type
func (h *AdminHandler) DeleteUtilityType(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if _, err := h.db.GetUtilityTypeByID(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "utility type not found"})
		return
	}

	if err := h.db.DeleteUtilityType(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "utility type deleted successfully"})
}

// ---- Meter types ----

// ListMeterTypes handles listing meter types
func (h *AdminHandler) ListMeterTypes(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	types, err := h.db.ListMeterTypes(c.Request.Context(), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, types)
}

// CreateMeterType handles creating a meter type
func (h *AdminHandler) CreateMeterType(c *gin.Context) {
	var req dto.MeterTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validReadingDay(req.ReadingDayStart) || !validReadingDay(req.ReadingDayEnd) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reading days must be between 1 and 31"})
		return
	}

	mt := &database.MeterType{
		Name:            req.Name,
		Unit:            req.Unit,
		ReadingDayStart: req.ReadingDayStart,
		ReadingDayEnd:   req.ReadingDayEnd,
		IsActive:        true,
	}
	if req.IsActive != nil {
		mt.IsActive = *req.IsActive
	}

	if err := h.db.CreateMeterType(c.Request.Context(), mt); err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "meter type already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": mt.ID})
}

// UpdateMeterType handles updating a meter type
func (h *AdminHandler) UpdateMeterType(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req dto.MeterTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validReadingDay(req.ReadingDayStart) || !validReadingDay(req.ReadingDayEnd) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reading days must be between 1 and 31"})
		return
	}

	mt, err := h.db.GetMeterTypeByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meter type not found"})
		return
	}

	mt.Name = req.Name
	mt.Unit = req.Unit
	mt.ReadingDayStart = req.ReadingDayStart
	mt.ReadingDayEnd = req.ReadingDayEnd
	if req.IsActive != nil {
		mt.IsActive = *req.IsActive
	}
	mt.UpdatedAt = time.Now()

	if err := h.db.UpdateMeterType(c.Request.Context(), mt); err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "meter type already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "meter type updated successfully"})
}

// DeleteMeterType handles deleting a meter type
func (h *AdminHandler) DeleteMeterType(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if _, err := h.db.GetMeterTypeByID(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meter type not found"})
		return
	}

	if err := h.db.DeleteMeterType(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "meter type deleted successfully"})
}

func validReadingDay(day int) bool {
	return day >= 1 && day <= 31
}

// ---- Meter readings ----

// ListReadings handles listing all submitted readings
func (h *AdminHandler) ListReadings(c *gin.Context) {
	readings, err := h.db.ListReadings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, readings)
}

// MarkReadingProcessed flags a reading as handled by the back office.
// Marking an already processed reading is a no-op.
func (h *AdminHandler) MarkReadingProcessed(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	reading, err := h.db.GetReadingByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "reading not found"})
		return
	}

	if !reading.IsProcessed {
		reading.IsProcessed = true
		reading.UpdatedAt = time.Now()
		if err := h.db.UpdateReading(c.Request.Context(), reading); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "reading marked as processed"})
}

// ---- System settings ----

// ListSettings handles listing all system settings
func (h *AdminHandler) ListSettings(c *gin.Context) {
	settings, err := h.db.ListSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpsertSetting creates or updates a setting by key
func (h *AdminHandler) UpsertSetting(c *gin.Context) {
	var req dto.SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	setting := &database.SystemSetting{
		Key:         req.Key,
		Value:       req.Value,
		Description: req.Description,
	}
	if err := h.db.UpsertSetting(c.Request.Context(), setting); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, setting)
}
