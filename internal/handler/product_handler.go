package handler

import (
	"net/http"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	inventory *service.InventoryService
	logger    *zap.Logger
}

func NewProductHandler(inventory *service.InventoryService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		inventory: inventory,
		logger:    logger,
	}
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req domain.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	product, err := h.inventory.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// ListProducts also serves ?q= searches.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.inventory.SearchProducts(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err, "list products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) SearchProducts(c *gin.Context) {
	h.ListProducts(c)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.inventory.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "get product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req domain.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	product, err := h.inventory.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err, "update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.inventory.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "delete product")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) LowStock(c *gin.Context) {
	products, err := h.inventory.LowStockProducts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "list low stock products")
		return
	}
	c.JSON(http.StatusOK, products)
}
