package handler

import (
	"github.com/gin-gonic/gin"
	stockapp "github.com/teasupply/backend/internal/application/stock"
)

// StockHandler handles inventory lot and production record API endpoints
type StockHandler struct {
	BaseHandler
	stockService *stockapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *stockapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// CreateInventoryLot allocates a lot by deducting supply records FIFO
func (h *StockHandler) CreateInventoryLot(c *gin.Context) {
	var req stockapp.CreateInventoryLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	lot, err := h.stockService.CreateInventoryLot(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, lot)
}

// UpdateInventoryLot edits a lot's quantity within its edit window
func (h *StockHandler) UpdateInventoryLot(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid lot ID")
		return
	}

	var req stockapp.UpdateInventoryLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	lot, err := h.stockService.UpdateInventoryLot(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lot)
}

// GetInventoryLot returns one inventory lot
func (h *StockHandler) GetInventoryLot(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid lot ID")
		return
	}

	lot, err := h.stockService.GetInventoryLot(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lot)
}

// ListInventoryLots returns inventory lots, newest first
func (h *StockHandler) ListInventoryLots(c *gin.Context) {
	var filter stockapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	lots, total, err := h.stockService.ListInventoryLots(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, lots, total, pageOrDefault(filter.Page), pageSizeOrDefault(filter.PageSize))
}

// CreateProductionRecord records a production run, deducting lots FIFO
func (h *StockHandler) CreateProductionRecord(c *gin.Context) {
	var req stockapp.CreateProductionRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	record, err := h.stockService.CreateProductionRecord(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

// ListProductionRecords returns production records, newest first
func (h *StockHandler) ListProductionRecords(c *gin.Context) {
	var filter stockapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	records, total, err := h.stockService.ListProductionRecords(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, records, total, pageOrDefault(filter.Page), pageSizeOrDefault(filter.PageSize))
}

// Summary returns the remaining totals across supply and inventory
func (h *StockHandler) Summary(c *gin.Context) {
	summary, err := h.stockService.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

func pageOrDefault(page int) int {
	if page == 0 {
		return 1
	}
	return page
}

func pageSizeOrDefault(pageSize int) int {
	if pageSize == 0 {
		return 20
	}
	return pageSize
}
