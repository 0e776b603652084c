package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const growthWindow = 7 * 24 * time.Hour

var hundred = decimal.NewFromInt(100)

type DashboardStats struct {
	TotalProducts     int             `json:"total_products"`
	LowStockItems     int             `json:"low_stock_items"`
	OutOfStockItems   int             `json:"out_of_stock_items"`
	TotalValue        decimal.Decimal `json:"total_value"`
	TodayTransactions int             `json:"today_transactions"`
	WeeklyGrowth      decimal.Decimal `json:"weekly_growth"`
	AsOf              time.Time       `json:"as_of"`
}

// ComputeStats builds a dashboard snapshot.
//
// The calendar day for TodayTransactions is taken in asOf's location, so the
// caller fixes the timezone by choosing it. WeeklyGrowth compares sales
// revenue over (asOf-7d, asOf] with (asOf-14d, asOf-7d] and is zero when the
// earlier window had no sales. Money values are rounded half-even to cents.
func ComputeStats(products []Product, transactions []Transaction, asOf time.Time) DashboardStats {
	stats := DashboardStats{
		TotalProducts: len(products),
		TotalValue:    decimal.Zero,
		WeeklyGrowth:  decimal.Zero,
		AsOf:          asOf,
	}

	total := decimal.Zero
	for _, p := range products {
		switch ClassifyStatus(p.Quantity, p.MinThreshold) {
		case StatusLowStock:
			stats.LowStockItems++
		case StatusOutOfStock:
			stats.OutOfStockItems++
		}
		total = total.Add(p.Value())
	}
	stats.TotalValue = total.RoundBank(2)

	loc := asOf.Location()
	y, m, d := asOf.Date()
	currentStart := asOf.Add(-growthWindow)
	priorStart := currentStart.Add(-growthWindow)
	current, prior := decimal.Zero, decimal.Zero

	for _, t := range transactions {
		ty, tm, td := t.Date.In(loc).Date()
		if ty == y && tm == m && td == d {
			stats.TodayTransactions++
		}
		if t.Type != TransactionSale {
			continue
		}
		switch {
		case t.Date.After(currentStart) && !t.Date.After(asOf):
			current = current.Add(t.Total)
		case t.Date.After(priorStart) && !t.Date.After(currentStart):
			prior = prior.Add(t.Total)
		}
	}
	stats.WeeklyGrowth = GrowthPercent(current, prior)

	return stats
}

// GrowthPercent is (current-prior)/prior*100 rounded half-even to two places,
// or zero when prior is zero.
func GrowthPercent(current, prior decimal.Decimal) decimal.Decimal {
	if prior.IsZero() {
		return decimal.Zero
	}
	return current.Sub(prior).DivRound(prior, 8).Mul(hundred).RoundBank(2)
}

// CategoryBreakdown groups products per category, sorted by category name.
func CategoryBreakdown(products []Product) []CategorySummary {
	byCategory := make(map[string]*CategorySummary)
	for _, p := range products {
		s, ok := byCategory[p.Category]
		if !ok {
			s = &CategorySummary{Category: p.Category, Value: decimal.Zero}
			byCategory[p.Category] = s
		}
		s.ProductCount++
		s.Units += p.Quantity
		s.Value = s.Value.Add(p.Value())
	}

	out := make([]CategorySummary, 0, len(byCategory))
	for _, s := range byCategory {
		s.Value = s.Value.RoundBank(2)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

type DailyTotal struct {
	Date         string          `json:"date"`
	Sales        decimal.Decimal `json:"sales"`
	Purchases    decimal.Decimal `json:"purchases"`
	Transactions int             `json:"transactions"`
}

// DailyTotals buckets transactions into the given number of calendar days
// ending on asOf's day, oldest first. Days are taken in asOf's location.
func DailyTotals(transactions []Transaction, asOf time.Time, days int) []DailyTotal {
	if days <= 0 {
		return []DailyTotal{}
	}
	loc := asOf.Location()
	y, m, d := asOf.Date()
	first := time.Date(y, m, d, 0, 0, 0, 0, loc).AddDate(0, 0, -(days - 1))

	out := make([]DailyTotal, days)
	index := make(map[string]int, days)
	for i := range out {
		day := first.AddDate(0, 0, i).Format(time.DateOnly)
		out[i] = DailyTotal{Date: day, Sales: decimal.Zero, Purchases: decimal.Zero}
		index[day] = i
	}

	for _, t := range transactions {
		i, ok := index[t.Date.In(loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		out[i].Transactions++
		switch t.Type {
		case TransactionSale:
			out[i].Sales = out[i].Sales.Add(t.Total)
		case TransactionPurchase:
			out[i].Purchases = out[i].Purchases.Add(t.Total)
		}
	}
	for i := range out {
		out[i].Sales = out[i].Sales.RoundBank(2)
		out[i].Purchases = out[i].Purchases.RoundBank(2)
	}
	return out
}
