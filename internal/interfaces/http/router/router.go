package router

import (
	"github.com/gin-gonic/gin"
	"github.com/teasupply/backend/internal/infrastructure/auth"
	"github.com/teasupply/backend/internal/interfaces/http/handler"
	"github.com/teasupply/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler registered by the router
type Handlers struct {
	System   *handler.SystemHandler
	Supply   *handler.SupplyHandler
	Stock    *handler.StockHandler
	Payment  *handler.PaymentHandler
	Supplier *handler.SupplierHandler
}

// Setup registers all routes on the engine under /api/v1.
//
// Route groups are prefixed and guarded by role: supplier principals
// manage their own supply records, staff run the stock side, managers
// see the payment ledger, and the supplier directory is admin only.
// Admins pass every role gate, and managers pass staff gates.
func Setup(engine *gin.Engine, h Handlers, jwtService *auth.JWTService) {
	engine.GET("/health", h.System.Health)

	api := engine.Group("/api/v1")

	// Gateway callbacks authenticate by event identity, not by JWT
	api.POST("/payments/webhook", h.Payment.Webhook)

	authed := api.Group("", middleware.JWTAuth(jwtService))

	supplier := authed.Group("/supplier", middleware.RequireRole(auth.RoleSupplier))
	supplier.POST("/supply-records", h.Supply.Create)
	supplier.GET("/supply-records", h.Supply.List)
	supplier.GET("/supply-records/:id", h.Supply.Get)
	supplier.PUT("/supply-records/:id", h.Supply.Update)
	supplier.DELETE("/supply-records/:id", h.Supply.Delete)

	staff := authed.Group("/staff", middleware.RequireRole(auth.RoleStaff))
	staff.POST("/inventory-lots", h.Stock.CreateInventoryLot)
	staff.GET("/inventory-lots", h.Stock.ListInventoryLots)
	staff.GET("/inventory-lots/:id", h.Stock.GetInventoryLot)
	staff.PUT("/inventory-lots/:id", h.Stock.UpdateInventoryLot)
	staff.POST("/production-records", h.Stock.CreateProductionRecord)
	staff.GET("/production-records", h.Stock.ListProductionRecords)
	staff.GET("/stock/summary", h.Stock.Summary)

	manager := authed.Group("/manager", middleware.RequireRole(auth.RoleManager))
	manager.GET("/payments", h.Payment.List)
	manager.GET("/payments/statistics", h.Payment.Statistics)
	manager.POST("/payments", h.Payment.Create)
	manager.PUT("/payments/:id/status", h.Payment.UpdateStatus)
	manager.PUT("/supply-records/:id/payment-status", h.Supply.UpdatePaymentStatus)

	admin := authed.Group("/admin", middleware.RequireRole(auth.RoleAdmin))
	admin.POST("/suppliers", h.Supplier.Create)
	admin.GET("/suppliers", h.Supplier.List)
	admin.GET("/suppliers/:id", h.Supplier.Get)
	admin.GET("/suppliers/:id/full", h.Supplier.GetFull)
	admin.PUT("/suppliers/:id", h.Supplier.Update)
	admin.POST("/suppliers/:id/deactivate", h.Supplier.Deactivate)
	admin.POST("/suppliers/:id/activate", h.Supplier.Activate)
	admin.POST("/suppliers/generate-code", h.Supplier.GenerateCode)
	admin.POST("/suppliers/reset-codes", h.Supplier.ResetCodes)
	admin.POST("/suppliers/deactivate-dormant", h.Supplier.DeactivateDormant)
}
