package handler

import (
	"net/http"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	inventory *service.InventoryService
	logger    *zap.Logger
}

func NewTransactionHandler(inventory *service.InventoryService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{inventory: inventory, logger: logger}
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req domain.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	result, err := h.inventory.RecordTransaction(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "record transaction")
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	txs, err := h.inventory.SearchTransactions(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err, "list transactions")
		return
	}
	c.JSON(http.StatusOK, txs)
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	tx, err := h.inventory.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "get transaction")
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *TransactionHandler) ProductTransactions(c *gin.Context) {
	txs, err := h.inventory.ProductTransactions(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondError(c, h.logger, err, "list product transactions")
		return
	}
	c.JSON(http.StatusOK, txs)
}
