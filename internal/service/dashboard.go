package service

import (
	"context"
	"time"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
	"go.uber.org/zap"
)

const chartDays = 7

type DashboardCharts struct {
	Categories []domain.CategorySummary `json:"categories"`
	Daily      []domain.DailyTotal      `json:"daily"`
}

// DashboardStats computes the snapshot for today in the configured location.
// Snapshots are cached per calendar day until the next write invalidates
// them. Cache failures count as misses. Within one process a snapshot that
// raced a write is returned but not cached.
func (s *InventoryService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	asOf := s.clock()
	day := asOf.Format(time.DateOnly)

	cached, err := s.cache.Get(ctx, day)
	if err != nil {
		s.logger.Warn("Failed to read dashboard stats cache", zap.String("day", day), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	gen := s.statsGen.Load()
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := s.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}

	stats := domain.ComputeStats(products, txs, asOf)
	if s.statsGen.Load() != gen {
		s.logger.Debug("Dashboard stats changed while computing, not caching", zap.String("day", day))
		return &stats, nil
	}
	if err := s.cache.Set(ctx, day, stats); err != nil {
		s.logger.Warn("Failed to write dashboard stats cache", zap.String("day", day), zap.Error(err))
	}
	return &stats, nil
}

func (s *InventoryService) DashboardCharts(ctx context.Context) (*DashboardCharts, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := s.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardCharts{
		Categories: domain.CategoryBreakdown(products),
		Daily:      domain.DailyTotals(txs, s.clock(), chartDays),
	}, nil
}
