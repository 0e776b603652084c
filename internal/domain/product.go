package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type StockStatus string

const (
	StatusInStock    StockStatus = "in-stock"
	StatusLowStock   StockStatus = "low-stock"
	StatusOutOfStock StockStatus = "out-of-stock"
)

// NeedsAttention reports whether the status should surface on the dashboard
// and drive alert generation.
func (s StockStatus) NeedsAttention() bool {
	return s == StatusLowStock || s == StatusOutOfStock
}

type Product struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"            validate:"required,max=64"`
	Name          string          `json:"name"           validate:"required,max=255"`
	Category      string          `json:"category"       validate:"required,max=128"`
	Quantity      int             `json:"quantity"       validate:"gte=0"`
	MinThreshold  int             `json:"min_threshold"  validate:"gte=0"`
	Price         decimal.Decimal `json:"price"`
	Supplier      string          `json:"supplier"       validate:"max=255"`
	LastRestocked time.Time       `json:"last_restocked"`
	Status        StockStatus     `json:"status"`
	// AlertedStatus is the status stock alerts were last evaluated at. Empty
	// means no evaluation has happened yet.
	AlertedStatus StockStatus `json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ClassifyStatus is the only place stock status is decided.
func ClassifyStatus(quantity, minThreshold int) StockStatus {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= minThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Refresh recomputes Status from Quantity and MinThreshold. Call it after
// every quantity or threshold change.
func (p *Product) Refresh() {
	p.Status = ClassifyStatus(p.Quantity, p.MinThreshold)
}

// Value is quantity * price, unrounded.
func (p Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// SelectAttentionNeeded returns, in input order, every product whose
// classified status is low-stock or out-of-stock. The input is not modified.
func SelectAttentionNeeded(products []Product) []Product {
	selected := make([]Product, 0)
	for _, p := range products {
		if ClassifyStatus(p.Quantity, p.MinThreshold).NeedsAttention() {
			selected = append(selected, p)
		}
	}
	return selected
}

type CreateProductRequest struct {
	SKU           string          `json:"sku"            binding:"required"`
	Name          string          `json:"name"           binding:"required"`
	Category      string          `json:"category"       binding:"required"`
	Quantity      int             `json:"quantity"`
	MinThreshold  int             `json:"min_threshold"`
	Price         decimal.Decimal `json:"price"`
	Supplier      string          `json:"supplier"`
	LastRestocked *time.Time      `json:"last_restocked"`
}

// UpdateProductRequest carries a partial update; nil fields are left alone.
type UpdateProductRequest struct {
	SKU          *string          `json:"sku"`
	Name         *string          `json:"name"`
	Category     *string          `json:"category"`
	Quantity     *int             `json:"quantity"`
	MinThreshold *int             `json:"min_threshold"`
	Price        *decimal.Decimal `json:"price"`
	Supplier     *string          `json:"supplier"`
}

// Apply copies the non-nil fields onto p and refreshes its status.
func (r UpdateProductRequest) Apply(p *Product) {
	if r.SKU != nil {
		p.SKU = *r.SKU
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
	if r.Quantity != nil {
		p.Quantity = *r.Quantity
	}
	if r.MinThreshold != nil {
		p.MinThreshold = *r.MinThreshold
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Supplier != nil {
		p.Supplier = *r.Supplier
	}
	p.Refresh()
}

type CategorySummary struct {
	Category     string          `json:"category"`
	ProductCount int             `json:"product_count"`
	Units        int             `json:"units"`
	Value        decimal.Decimal `json:"value"`
}
