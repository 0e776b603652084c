package handler

import (
	"net/http"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	inventory *service.InventoryService
	logger    *zap.Logger
}

func NewDashboardHandler(inventory *service.InventoryService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{inventory: inventory, logger: logger}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.inventory.DashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "compute dashboard stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *DashboardHandler) Charts(c *gin.Context) {
	charts, err := h.inventory.DashboardCharts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "compute dashboard charts")
		return
	}
	c.JSON(http.StatusOK, charts)
}
