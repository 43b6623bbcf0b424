package handler

import (
	"github.com/gin-gonic/gin"
	paymentapp "github.com/teasupply/backend/internal/application/payment"
)

// PaymentHandler handles payment and reconciliation API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService        *paymentapp.PaymentService
	reconciliationService *paymentapp.ReconciliationService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(
	paymentService *paymentapp.PaymentService,
	reconciliationService *paymentapp.ReconciliationService,
) *PaymentHandler {
	return &PaymentHandler{
		paymentService:        paymentService,
		reconciliationService: reconciliationService,
	}
}

// Create records a payment transaction against a supply record
func (h *PaymentHandler) Create(c *gin.Context) {
	var req paymentapp.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	p, err := h.paymentService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// UpdateStatus transitions a payment between lifecycle states
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	paymentID := c.Param("id")
	if paymentID == "" {
		h.BadRequest(c, "Missing payment ID")
		return
	}

	var req paymentapp.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	p, err := h.paymentService.UpdateStatus(c.Request.Context(), paymentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Webhook processes an inbound gateway notification. Redelivered events
// are acknowledged without being reprocessed.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var req paymentapp.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if err := h.paymentService.HandleWebhook(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"received": true})
}

// List returns the unified ledger: real payments merged with supply
// records that have no payment row, newest first
func (h *PaymentHandler) List(c *gin.Context) {
	var filter paymentapp.ListPaymentsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	entries, err := h.reconciliationService.ListPayments(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// Statistics returns the merged aggregate view over both ledger sides
func (h *PaymentHandler) Statistics(c *gin.Context) {
	var filter paymentapp.ListPaymentsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	stats, err := h.reconciliationService.Statistics(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
