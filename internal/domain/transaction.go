package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionPurchase   TransactionType = "purchase"
	TransactionSale       TransactionType = "sale"
	TransactionAdjustment TransactionType = "adjustment"
)

// Transaction is an append-only record of stock movement. Build it with
// NewTransaction so Total always equals Quantity * Price.
type Transaction struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"   validate:"required"`
	ProductName string          `json:"product_name"`
	Type        TransactionType `json:"type"         validate:"required,oneof=purchase sale adjustment"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	Date        time.Time       `json:"date"`
	User        string          `json:"user"         validate:"required,max=128"`
	Notes       string          `json:"notes,omitempty" validate:"max=1024"`
}

func NewTransaction(id string, product Product, txType TransactionType, quantity int, price decimal.Decimal, date time.Time, user, notes string) Transaction {
	return Transaction{
		ID:          id,
		ProductID:   product.ID,
		ProductName: product.Name,
		Type:        txType,
		Quantity:    quantity,
		Price:       price,
		Total:       price.Mul(decimal.NewFromInt(int64(quantity))),
		Date:        date,
		User:        user,
		Notes:       notes,
	}
}

// StockDelta is the signed change this transaction applies to on-hand
// quantity. Adjustments carry their own sign.
func (t Transaction) StockDelta() int {
	switch t.Type {
	case TransactionPurchase:
		return t.Quantity
	case TransactionSale:
		return -t.Quantity
	default:
		return t.Quantity
	}
}

type CreateTransactionRequest struct {
	ProductID string           `json:"product_id" binding:"required"`
	Type      TransactionType  `json:"type"       binding:"required"`
	Quantity  int              `json:"quantity"   binding:"required"`
	Price     *decimal.Decimal `json:"price"`
	User      string           `json:"user"       binding:"required"`
	Notes     string           `json:"notes"`
}
