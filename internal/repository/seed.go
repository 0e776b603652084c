package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
	"github.com/shopspring/decimal"
)

type seedProduct struct {
	sku, name, category, supplier string
	quantity, minThreshold        int
	price                         string
	restockedDaysAgo              int
}

var demoProducts = []seedProduct{
	{"PRD-001", "Wireless Mouse", "Electronics", "TechSupply Co.", 145, 50, "29.99", 3},
	{"PRD-002", "USB-C Cable 2m", "Electronics", "CableWorld", 23, 30, "12.99", 12},
	{"PRD-003", "Ergonomic Office Chair", "Furniture", "ComfortSeating Ltd.", 0, 10, "199.99", 40},
	{"PRD-004", "Standing Desk", "Furniture", "ComfortSeating Ltd.", 34, 15, "449.00", 9},
	{"PRD-005", "A5 Notebook", "Stationery", "PaperMill Inc.", 520, 100, "3.49", 1},
	{"PRD-006", "Mechanical Keyboard", "Electronics", "TechSupply Co.", 8, 20, "89.99", 21},
}

type seedTransaction struct {
	sku      string
	txType   domain.TransactionType
	quantity int
	daysAgo  int
	user     string
}

var demoTransactions = []seedTransaction{
	{"PRD-001", domain.TransactionSale, 12, 0, "john.doe"},
	{"PRD-005", domain.TransactionPurchase, 200, 1, "jane.smith"},
	{"PRD-002", domain.TransactionSale, 7, 2, "john.doe"},
	{"PRD-004", domain.TransactionSale, 2, 4, "mike.lee"},
	{"PRD-006", domain.TransactionSale, 5, 6, "jane.smith"},
	{"PRD-001", domain.TransactionPurchase, 100, 8, "mike.lee"},
	{"PRD-003", domain.TransactionSale, 4, 9, "john.doe"},
	{"PRD-004", domain.TransactionSale, 1, 11, "mike.lee"},
	{"PRD-006", domain.TransactionAdjustment, -1, 13, "jane.smith"},
}

// Seed loads a small demo catalogue and transaction history. Quantities are
// written as-is; the transactions are history and are not replayed against
// stock.
func Seed(ctx context.Context, store Store, now time.Time, newID func() string) ([]domain.Product, error) {
	bySKU := make(map[string]domain.Product, len(demoProducts))
	products := make([]domain.Product, 0, len(demoProducts))

	for i, sp := range demoProducts {
		created := now.Add(time.Duration(i-len(demoProducts)) * time.Minute)
		p := domain.Product{
			ID:            newID(),
			SKU:           sp.sku,
			Name:          sp.name,
			Category:      sp.category,
			Quantity:      sp.quantity,
			MinThreshold:  sp.minThreshold,
			Price:         decimal.RequireFromString(sp.price),
			Supplier:      sp.supplier,
			LastRestocked: now.AddDate(0, 0, -sp.restockedDaysAgo),
			CreatedAt:     created,
			UpdatedAt:     created,
		}
		p.Refresh()
		if err := store.Products.Create(ctx, &p); err != nil {
			return nil, fmt.Errorf("seed product %s: %w", sp.sku, err)
		}
		bySKU[sp.sku] = p
		products = append(products, p)
	}

	for _, st := range demoTransactions {
		p := bySKU[st.sku]
		t := domain.NewTransaction(newID(), p, st.txType, st.quantity, p.Price, now.AddDate(0, 0, -st.daysAgo), st.user, "")
		if err := store.Transactions.Create(ctx, &t); err != nil {
			return nil, fmt.Errorf("seed transaction: %w", err)
		}
	}
	return products, nil
}
