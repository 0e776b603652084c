package handler

import (
	"github.com/cloud-wave-best-zizon/inventory-service/internal/events"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	Products     *ProductHandler
	Transactions *TransactionHandler
	Alerts       *AlertHandler
	Dashboard    *DashboardHandler
	ML           *MLHandler
	Reports      *ReportHandler
	Events       *EventsHandler
	Health       *HealthHandler
}

func NewHandlers(inventory *service.InventoryService, broadcaster *events.Broadcaster, health *HealthHandler, logger *zap.Logger) Handlers {
	return Handlers{
		Products:     NewProductHandler(inventory, logger),
		Transactions: NewTransactionHandler(inventory, logger),
		Alerts:       NewAlertHandler(inventory, logger),
		Dashboard:    NewDashboardHandler(inventory, logger),
		ML:           NewMLHandler(inventory, logger),
		Reports:      NewReportHandler(inventory, logger),
		Events:       NewEventsHandler(broadcaster, logger),
		Health:       health,
	}
}

// RegisterRoutes mounts the API under /api/v1.
func RegisterRoutes(router gin.IRouter, h Handlers) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", h.Products.ListProducts)
		v1.POST("/products", h.Products.CreateProduct)
		v1.GET("/products/search", h.Products.SearchProducts)
		v1.GET("/products/low-stock", h.Products.LowStock)
		v1.GET("/products/:id", h.Products.GetProduct)
		v1.PUT("/products/:id", h.Products.UpdateProduct)
		v1.DELETE("/products/:id", h.Products.DeleteProduct)

		v1.GET("/transactions", h.Transactions.ListTransactions)
		v1.POST("/transactions", h.Transactions.CreateTransaction)
		v1.GET("/transactions/product/:productId", h.Transactions.ProductTransactions)
		v1.GET("/transactions/:id", h.Transactions.GetTransaction)

		v1.GET("/alerts", h.Alerts.ListAlerts)
		v1.GET("/alerts/active", h.Alerts.ActiveAlerts)
		v1.POST("/alerts/:id/resolve", h.Alerts.ResolveAlert)

		v1.GET("/dashboard/stats", h.Dashboard.Stats)
		v1.GET("/dashboard/charts", h.Dashboard.Charts)

		v1.GET("/ml/predictions", h.ML.Predictions)
		v1.POST("/ml/train", h.ML.Train)
		v1.GET("/ml/forecast/:productId", h.ML.Forecast)

		v1.POST("/reports/generate", h.Reports.Generate)
		v1.GET("/reports", h.Reports.ListReports)
		v1.GET("/reports/:id/download", h.Reports.Download)

		v1.GET("/events", h.Events.Stream)
		v1.GET("/health", h.Health.Health)
	}
}
