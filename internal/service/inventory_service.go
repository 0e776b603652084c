package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/cache"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/events"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/forecast"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/report"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlertNotFound       = errors.New("alert not found")
	ErrReportNotFound      = errors.New("report not found")
	ErrReportNotReady      = errors.New("report is not ready")
	ErrForecastNotFound    = errors.New("no forecast for product")
	ErrDuplicateSKU        = errors.New("sku already in use")
	ErrInsufficientStock   = errors.New("insufficient stock")
)

const publishTimeout = 5 * time.Second

type Options struct {
	// Source tags published events so a consumer can skip its own.
	Source        string
	Location      *time.Location
	ReorderPolicy domain.ReorderPolicy
	Now           func() time.Time
	NewID         func() string
}

type InventoryService struct {
	store     repository.Store
	forecasts forecast.Provider
	reports   report.Generator
	publisher events.Publisher
	cache     cache.StatsCache
	logger    *zap.Logger

	source string
	loc    *time.Location
	policy domain.ReorderPolicy
	now    func() time.Time
	newID  func() string

	// alertMu serializes alert evaluation so the read of open alerts and the
	// write of new ones cannot interleave for the same product.
	alertMu sync.Mutex

	// statsGen counts stats invalidations. A snapshot computed across an
	// invalidation is not cached.
	statsGen atomic.Uint64
}

func NewInventoryService(
	store repository.Store,
	forecasts forecast.Provider,
	reports report.Generator,
	publisher events.Publisher,
	statsCache cache.StatsCache,
	logger *zap.Logger,
	opts Options,
) *InventoryService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if statsCache == nil {
		statsCache = cache.NopStatsCache{}
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &InventoryService{
		store:     store,
		forecasts: forecasts,
		reports:   reports,
		publisher: publisher,
		cache:     statsCache,
		logger:    logger,
		source:    opts.Source,
		loc:       opts.Location,
		policy:    opts.ReorderPolicy,
		now:       opts.Now,
		newID:     opts.NewID,
	}
}

// clock returns the current time in the configured stats location.
func (s *InventoryService) clock() time.Time {
	return s.now().In(s.loc)
}

// publish sends a change event. Delivery failures are logged, never returned:
// the write they describe has already been committed.
func (s *InventoryService) publish(ctx context.Context, entity events.Entity, action events.Action, entityID string, payload any) {
	ev, err := events.NewChangeEvent(s.newID(), s.source, entity, action, entityID, payload, s.now())
	if err != nil {
		s.logger.Error("Failed to build change event",
			zap.String("entity", string(entity)),
			zap.String("entity_id", entityID),
			zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("Failed to publish change event",
			zap.String("event_type", ev.Type()),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}

func (s *InventoryService) invalidateStats(ctx context.Context) {
	s.statsGen.Add(1)
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate dashboard stats cache", zap.Error(err))
	}
}

// mapErr translates repository sentinels into service ones. notFound is the
// error to report for repository.ErrNotFound.
func mapErr(err error, notFound error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrDuplicateSKU):
		return ErrDuplicateSKU
	case errors.Is(err, repository.ErrInsufficientStock):
		return ErrInsufficientStock
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
