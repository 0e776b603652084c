package handler

import (
	"net/http"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AlertHandler struct {
	inventory *service.InventoryService
	logger    *zap.Logger
}

func NewAlertHandler(inventory *service.InventoryService, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{inventory: inventory, logger: logger}
}

func (h *AlertHandler) ListAlerts(c *gin.Context) {
	alerts, err := h.inventory.ListAlerts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "list alerts")
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *AlertHandler) ActiveAlerts(c *gin.Context) {
	alerts, err := h.inventory.ActiveAlerts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "list active alerts")
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *AlertHandler) ResolveAlert(c *gin.Context) {
	alert, err := h.inventory.ResolveAlert(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "resolve alert")
		return
	}
	c.JSON(http.StatusOK, alert)
}
