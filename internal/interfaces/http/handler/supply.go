package handler

import (
	"github.com/gin-gonic/gin"
	supplyapp "github.com/teasupply/backend/internal/application/supply"
)

// SupplyHandler handles supply record API endpoints
type SupplyHandler struct {
	BaseHandler
	supplyService *supplyapp.SupplyService
}

// NewSupplyHandler creates a new SupplyHandler
func NewSupplyHandler(supplyService *supplyapp.SupplyService) *SupplyHandler {
	return &SupplyHandler{supplyService: supplyService}
}

// Create registers a new supply record
func (h *SupplyHandler) Create(c *gin.Context) {
	var req supplyapp.CreateSupplyRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	record, err := h.supplyService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

// Update edits a supply record within its edit window
func (h *SupplyHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	var req supplyapp.UpdateSupplyRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	record, err := h.supplyService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Delete removes a supply record within its edit window
func (h *SupplyHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	if err := h.supplyService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Get returns one supply record
func (h *SupplyHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	record, err := h.supplyService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// List returns supply records matching the query filters
func (h *SupplyHandler) List(c *gin.Context) {
	var filter supplyapp.SupplyRecordListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	records, total, err := h.supplyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, records, total, page, pageSize)
}

// UpdatePaymentStatus flips the settlement flag on a supply record.
// Not gated by the edit window.
func (h *SupplyHandler) UpdatePaymentStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	var req struct {
		PaymentStatus string `json:"payment_status" binding:"required,oneof=unpaid paid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	record, err := h.supplyService.UpdatePaymentStatus(c.Request.Context(), id, req.PaymentStatus)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}
