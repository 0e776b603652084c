package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// ForecastHorizonDays is the window predicted demand covers.
const ForecastHorizonDays = 30

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendStable     Trend = "stable"
	TrendDecreasing Trend = "decreasing"
)

type MLPrediction struct {
	ProductID          string  `json:"product_id"`
	ProductName        string  `json:"product_name"`
	PredictedDemand    int     `json:"predicted_demand"`
	CurrentStock       int     `json:"current_stock"`
	RecommendedReorder int     `json:"recommended_reorder"`
	Confidence         float64 `json:"confidence"`
	Trend              Trend   `json:"trend"`
	StockCoverage      int     `json:"stock_coverage"`
}

// RecommendReorder orders exactly enough to cover predicted demand.
// Confidence and trend do not take part.
func RecommendReorder(p MLPrediction) int {
	if p.PredictedDemand <= p.CurrentStock {
		return 0
	}
	return p.PredictedDemand - p.CurrentStock
}

// ReorderPolicy adds a fixed safety margin on top of forecast demand:
//
//	reorder = max(0, ceil(demand * (1 + margin)) - stock)
//
// A zero margin is identical to RecommendReorder.
type ReorderPolicy struct {
	SafetyMargin decimal.Decimal
}

func (rp ReorderPolicy) Recommend(p MLPrediction) int {
	if rp.SafetyMargin.IsZero() {
		return RecommendReorder(p)
	}
	target := decimal.NewFromInt(int64(p.PredictedDemand)).
		Mul(decimal.NewFromInt(1).Add(rp.SafetyMargin)).
		Ceil().
		IntPart()
	if target <= int64(p.CurrentStock) {
		return 0
	}
	return int(target) - p.CurrentStock
}

// StockCoverage is current stock as a rounded percentage of predicted demand.
func StockCoverage(p MLPrediction) int {
	if p.CurrentStock <= 0 {
		return 0
	}
	if p.PredictedDemand <= 0 {
		return 100
	}
	return int(math.Round(float64(p.CurrentStock) / float64(p.PredictedDemand) * 100))
}
