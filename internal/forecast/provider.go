package forecast

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
)

var ErrNoForecast = errors.New("no forecast for product")

// Estimate is the model output for one product over domain.ForecastHorizonDays.
type Estimate struct {
	ProductID       string
	PredictedDemand int
	Confidence      float64
	Trend           domain.Trend
}

type TrainingRun struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	ProductsFit int       `json:"products_fit"`
}

// Provider supplies demand forecasts. Stock levels and reorder quantities are
// filled in by the caller.
type Provider interface {
	Estimates(ctx context.Context) ([]Estimate, error)
	Estimate(ctx context.Context, productID string) (Estimate, error)
	Train(ctx context.Context) (TrainingRun, error)
}

// StaticProvider serves fixed estimates held in memory. Train only records
// that a run happened.
type StaticProvider struct {
	mu        sync.RWMutex
	estimates map[string]Estimate
	now       func() time.Time
	newID     func() string
}

func NewStaticProvider(now func() time.Time, newID func() string) *StaticProvider {
	return &StaticProvider{
		estimates: make(map[string]Estimate),
		now:       now,
		newID:     newID,
	}
}

func (p *StaticProvider) Set(e Estimate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.estimates[e.ProductID] = e
}

// Estimates returns every estimate ordered by product id.
func (p *StaticProvider) Estimates(_ context.Context) ([]Estimate, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Estimate, 0, len(p.estimates))
	for _, e := range p.estimates {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (p *StaticProvider) Estimate(_ context.Context, productID string) (Estimate, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	e, ok := p.estimates[productID]
	if !ok {
		return Estimate{}, ErrNoForecast
	}
	return e, nil
}

func (p *StaticProvider) Train(ctx context.Context) (TrainingRun, error) {
	if err := ctx.Err(); err != nil {
		return TrainingRun{}, err
	}
	started := p.now()

	p.mu.Lock()
	defer p.mu.Unlock()
	run := TrainingRun{
		ID:          p.newID(),
		StartedAt:   started,
		FinishedAt:  p.now(),
		ProductsFit: len(p.estimates),
	}
	return run, nil
}

// SeedFromProducts derives a plausible estimate for each product from its
// threshold so local runs have something to show.
func SeedFromProducts(p *StaticProvider, products []domain.Product) {
	trends := []domain.Trend{domain.TrendIncreasing, domain.TrendStable, domain.TrendDecreasing}
	for i, prod := range products {
		demand := prod.MinThreshold * 3
		if demand == 0 {
			demand = 10
		}
		p.Set(Estimate{
			ProductID:       prod.ID,
			PredictedDemand: demand,
			Confidence:      0.7 + float64(i%3)*0.1,
			Trend:           trends[i%len(trends)],
		})
	}
}
