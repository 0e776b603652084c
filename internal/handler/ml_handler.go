package handler

import (
	"net/http"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MLHandler struct {
	inventory *service.InventoryService
	logger    *zap.Logger
}

func NewMLHandler(inventory *service.InventoryService, logger *zap.Logger) *MLHandler {
	return &MLHandler{inventory: inventory, logger: logger}
}

func (h *MLHandler) Predictions(c *gin.Context) {
	predictions, err := h.inventory.Predictions(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "load predictions")
		return
	}
	c.JSON(http.StatusOK, predictions)
}

func (h *MLHandler) Train(c *gin.Context) {
	run, err := h.inventory.TrainModel(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "train model")
		return
	}
	c.JSON(http.StatusAccepted, run)
}

func (h *MLHandler) Forecast(c *gin.Context) {
	prediction, err := h.inventory.Forecast(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondError(c, h.logger, err, "load forecast")
		return
	}
	c.JSON(http.StatusOK, prediction)
}
