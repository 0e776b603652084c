package handler

import (
	"errors"
	"net/http"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportHandler struct {
	inventory *service.InventoryService
	logger    *zap.Logger
}

func NewReportHandler(inventory *service.InventoryService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{inventory: inventory, logger: logger}
}

func (h *ReportHandler) Generate(c *gin.Context) {
	var req domain.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	r, err := h.inventory.GenerateReport(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "generate report")
		return
	}
	c.JSON(http.StatusAccepted, r)
}

func (h *ReportHandler) ListReports(c *gin.Context) {
	reports, err := h.inventory.ListReports(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "list reports")
		return
	}
	c.JSON(http.StatusOK, reports)
}

// Download reports the state of a report. File rendering lives outside this
// service, so a ready report answers 501 with its metadata.
func (h *ReportHandler) Download(c *gin.Context) {
	r, err := h.inventory.ReadyReport(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrReportNotReady) {
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Report is not ready",
			"status": r.Status,
			"report": r,
		})
		return
	}
	if err != nil {
		respondError(c, h.logger, err, "download report")
		return
	}
	c.JSON(http.StatusNotImplemented, gin.H{
		"error":  "Report file rendering is not available",
		"report": r,
	})
}
