package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/repository"
	"go.uber.org/zap"
)

const renderTimeout = 2 * time.Minute

var (
	ErrGeneratorClosed = errors.New("report generator is closed")
	ErrNotRenderable   = errors.New("report type cannot be rendered")
)

// Generator accepts report requests and returns the record tracking them.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerateReportRequest) (*domain.Report, error)
}

// Renderer produces the artifact for a report. Rendering proper lives
// outside this service.
type Renderer interface {
	Render(ctx context.Context, r domain.Report) error
}

type RendererFunc func(ctx context.Context, r domain.Report) error

func (f RendererFunc) Render(ctx context.Context, r domain.Report) error {
	return f(ctx, r)
}

// DeferredRenderer accepts any known report type and hands the actual work to
// whatever consumes the ready record.
type DeferredRenderer struct{}

func (DeferredRenderer) Render(ctx context.Context, r domain.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch r.Type {
	case domain.ReportInventory, domain.ReportSales, domain.ReportPurchases, domain.ReportMLInsights:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrNotRenderable, r.Type)
	}
}

type Option func(*AsyncGenerator)

func WithClock(now func() time.Time) Option {
	return func(g *AsyncGenerator) { g.now = now }
}

func WithIDs(newID func() string) Option {
	return func(g *AsyncGenerator) { g.newID = newID }
}

// WithOnFinish registers a callback run after a report reaches ready or failed.
func WithOnFinish(fn func(domain.Report)) Option {
	return func(g *AsyncGenerator) { g.onFinish = fn }
}

// AsyncGenerator persists a generating record, renders it on a bounded pool
// of workers and moves the record to ready or failed.
type AsyncGenerator struct {
	reports  repository.ReportRepository
	renderer Renderer
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
	onFinish func(domain.Report)

	jobs   chan domain.Report
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewAsyncGenerator(reports repository.ReportRepository, renderer Renderer, workers int, logger *zap.Logger, opts ...Option) *AsyncGenerator {
	if workers < 1 {
		workers = 1
	}
	g := &AsyncGenerator{
		reports:  reports,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
		newID:    func() string { return fmt.Sprintf("report-%d", time.Now().UnixNano()) },
		jobs:     make(chan domain.Report, workers*4),
	}
	for _, opt := range opts {
		opt(g)
	}

	for i := 0; i < workers; i++ {
		g.wg.Add(1)
		go g.worker(i)
	}
	return g
}

func (g *AsyncGenerator) Generate(ctx context.Context, req domain.GenerateReportRequest) (*domain.Report, error) {
	if err := domain.ValidateReportRequest(req); err != nil {
		return nil, err
	}

	now := g.now()
	r := domain.Report{
		ID:          g.newID(),
		Name:        fmt.Sprintf("%s-%s.%s", req.Type, now.UTC().Format("20060102-150405"), req.Format),
		Type:        req.Type,
		Format:      req.Format,
		Status:      domain.ReportGenerating,
		GeneratedAt: now,
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.closed {
		return nil, ErrGeneratorClosed
	}

	if err := g.reports.Create(ctx, &r); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	select {
	case g.jobs <- r:
	case <-ctx.Done():
		g.finish(r, ctx.Err())
		return nil, ctx.Err()
	}

	g.logger.Info("Report queued",
		zap.String("report_id", r.ID),
		zap.String("type", string(r.Type)),
		zap.String("format", string(r.Format)))
	return &r, nil
}

func (g *AsyncGenerator) worker(n int) {
	defer g.wg.Done()
	for r := range g.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
		err := g.renderer.Render(ctx, r)
		cancel()
		g.finish(r, err)
	}
	g.logger.Debug("Report worker stopped", zap.Int("worker", n))
}

func (g *AsyncGenerator) finish(r domain.Report, renderErr error) {
	if !r.Finish(g.now(), renderErr) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := g.reports.Update(ctx, &r); err != nil {
		g.logger.Error("Failed to save finished report",
			zap.String("report_id", r.ID),
			zap.Error(err))
		return
	}

	if renderErr != nil {
		g.logger.Warn("Report generation failed",
			zap.String("report_id", r.ID),
			zap.Error(renderErr))
	} else {
		g.logger.Info("Report ready", zap.String("report_id", r.ID))
	}

	if g.onFinish != nil {
		g.onFinish(r)
	}
}

// Close stops accepting requests and waits for queued reports to finish.
func (g *AsyncGenerator) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	close(g.jobs)
	g.mu.Unlock()

	g.wg.Wait()
}
