package domain

import (
	"fmt"
	"time"
)

type AlertType string

const (
	AlertLowStock   AlertType = "low-stock"
	AlertOutOfStock AlertType = "out-of-stock"
	AlertReorder    AlertType = "reorder"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

type Alert struct {
	ID              string     `json:"id"`
	ProductID       string     `json:"product_id"`
	ProductName     string     `json:"product_name"`
	Type            AlertType  `json:"type"`
	Message         string     `json:"message"`
	CurrentQuantity int        `json:"current_quantity"`
	Threshold       int        `json:"threshold"`
	Severity        Severity   `json:"severity"`
	CreatedAt       time.Time  `json:"created_at"`
	Resolved        bool       `json:"resolved"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
}

// Resolve moves the alert to resolved. Resolving twice keeps the first
// resolution time.
func (a *Alert) Resolve(now time.Time) {
	if a.Resolved {
		return
	}
	a.Resolved = true
	a.ResolvedAt = &now
}

// AlertDecision is what the caller must persist after an evaluation.
// AlertedStatus, when set, is the status to record on the product once the
// alerts are stored.
type AlertDecision struct {
	Open          []Alert
	Resolve       []Alert
	AlertedStatus StockStatus
}

// Empty reports whether the decision has no alert to write.
func (d AlertDecision) Empty() bool {
	return len(d.Open) == 0 && len(d.Resolve) == 0
}

// EvaluateStockAlerts runs the open/resolve state machine for one product.
// open holds the product's currently unresolved alerts; newID supplies ids for
// alerts that need to be created.
//
// An alert opens only on a transition: from in-stock into low-stock or
// out-of-stock, or between those two. p.AlertedStatus is the status of the
// previous evaluation. A product that stays low keeps whatever alerts it has,
// so one resolved by hand stays resolved. Returning to in-stock resolves every
// open stock alert.
func EvaluateStockAlerts(p Product, open []Alert, now time.Time, newID func() string) AlertDecision {
	status := ClassifyStatus(p.Quantity, p.MinThreshold)
	d := AlertDecision{AlertedStatus: status}

	if status == StatusInStock {
		for _, a := range open {
			if a.Resolved || a.Type == AlertReorder {
				continue
			}
			a.Resolve(now)
			d.Resolve = append(d.Resolve, a)
		}
		return d
	}

	previous := p.AlertedStatus
	if previous == "" {
		previous = StatusInStock
	}
	if status == previous {
		return d
	}

	want := AlertLowStock
	if status == StatusOutOfStock {
		want = AlertOutOfStock
	}
	if hasOpen(open, want) {
		return d
	}

	d.Open = append(d.Open, Alert{
		ID:              newID(),
		ProductID:       p.ID,
		ProductName:     p.Name,
		Type:            want,
		Message:         stockMessage(p, status),
		CurrentQuantity: p.Quantity,
		Threshold:       p.MinThreshold,
		Severity:        stockSeverity(p, status),
		CreatedAt:       now,
	})
	return d
}

// EvaluateReorderAlert opens a reorder alert when the forecast asks for stock
// and resolves the open one once the recommendation drops to zero.
func EvaluateReorderAlert(pred MLPrediction, reorder int, threshold int, open []Alert, now time.Time, newID func() string) AlertDecision {
	var d AlertDecision
	if reorder <= 0 {
		for _, a := range open {
			if a.Resolved || a.Type != AlertReorder {
				continue
			}
			a.Resolve(now)
			d.Resolve = append(d.Resolve, a)
		}
		return d
	}
	if hasOpen(open, AlertReorder) {
		return d
	}
	d.Open = append(d.Open, Alert{
		ID:              newID(),
		ProductID:       pred.ProductID,
		ProductName:     pred.ProductName,
		Type:            AlertReorder,
		Message:         fmt.Sprintf("Order %d units of %s to meet predicted demand for the next %d days", reorder, pred.ProductName, ForecastHorizonDays),
		CurrentQuantity: pred.CurrentStock,
		Threshold:       threshold,
		Severity:        SeverityLow,
		CreatedAt:       now,
	})
	return d
}

func hasOpen(alerts []Alert, t AlertType) bool {
	for _, a := range alerts {
		if !a.Resolved && a.Type == t {
			return true
		}
	}
	return false
}

func stockSeverity(p Product, status StockStatus) Severity {
	if status == StatusOutOfStock {
		return SeverityHigh
	}
	if p.Quantity*2 <= p.MinThreshold {
		return SeverityHigh
	}
	return SeverityMedium
}

func stockMessage(p Product, status StockStatus) string {
	if status == StatusOutOfStock {
		return fmt.Sprintf("%s (%s) is out of stock", p.Name, p.SKU)
	}
	return fmt.Sprintf("%s (%s) is running low: %d units left, minimum is %d", p.Name, p.SKU, p.Quantity, p.MinThreshold)
}
