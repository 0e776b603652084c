package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProduct() Product {
	return Product{SKU: "SKU-1", Name: "Widget", Category: "Tools", Quantity: 3, MinThreshold: 1, Price: decimal.RequireFromString("2.00")}
}

func TestValidateProduct_OK(t *testing.T) {
	assert.NoError(t, ValidateProduct(validProduct()))
}

func TestValidateProduct_NegativeQuantityNamesField(t *testing.T) {
	p := validProduct()
	p.Quantity = -1

	err := ValidateProduct(p)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "quantity", verr.Field)
}

func TestValidateProduct_NegativePrice(t *testing.T) {
	p := validProduct()
	p.Price = decimal.RequireFromString("-0.01")

	var verr *ValidationError
	require.True(t, errors.As(ValidateProduct(p), &verr))
	assert.Equal(t, "price", verr.Field)
}

func TestValidateProduct_CollectsEveryField(t *testing.T) {
	err := ValidateProduct(Product{MinThreshold: -4})

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"sku", "name", "category", "min_threshold"}, fields)
}

func TestValidateTransaction(t *testing.T) {
	p := Product{ID: "p1", Name: "Widget"}
	now := time.Now()
	price := decimal.RequireFromString("4.00")

	assert.NoError(t, ValidateTransaction(NewTransaction("t1", p, TransactionSale, 2, price, now, "alice", "")))
	assert.NoError(t, ValidateTransaction(NewTransaction("t2", p, TransactionAdjustment, -2, price, now, "alice", "shrinkage")))

	var verr *ValidationError
	err := ValidateTransaction(NewTransaction("t3", p, TransactionSale, 0, price, now, "alice", ""))
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "quantity", verr.Field)

	tampered := NewTransaction("t4", p, TransactionPurchase, 2, price, now, "alice", "")
	tampered.Total = decimal.RequireFromString("9.00")
	require.True(t, errors.As(ValidateTransaction(tampered), &verr))
	assert.Equal(t, "total", verr.Field)

	bogus := NewTransaction("t5", p, TransactionType("gift"), 1, price, now, "alice", "")
	require.True(t, errors.As(ValidateTransaction(bogus), &verr))
	assert.Equal(t, "type", verr.Field)
}

func TestTransaction_TotalAndDelta(t *testing.T) {
	p := Product{ID: "p1"}
	tx := NewTransaction("t", p, TransactionSale, 3, decimal.RequireFromString("2.50"), time.Now(), "bob", "")
	assert.Equal(t, "7.50", tx.Total.StringFixed(2))
	assert.Equal(t, -3, tx.StockDelta())

	assert.Equal(t, 3, NewTransaction("t", p, TransactionPurchase, 3, decimal.Zero, time.Now(), "bob", "").StockDelta())
	assert.Equal(t, -4, NewTransaction("t", p, TransactionAdjustment, -4, decimal.Zero, time.Now(), "bob", "").StockDelta())
}

func TestValidateReportRequest(t *testing.T) {
	assert.NoError(t, ValidateReportRequest(GenerateReportRequest{Type: ReportSales, Format: FormatCSV}))

	var verr *ValidationError
	require.True(t, errors.As(ValidateReportRequest(GenerateReportRequest{Type: ReportSales, Format: "xlsx"}), &verr))
	assert.Equal(t, "format", verr.Field)
}
