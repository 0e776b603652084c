package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/forecast"
	"go.uber.org/zap"
)

// Predictions joins every forecast with the product's current stock.
// Forecasts for products that no longer exist are skipped.
func (s *InventoryService) Predictions(ctx context.Context) ([]domain.MLPrediction, error) {
	estimates, err := s.forecasts.Estimates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load forecasts: %w", err)
	}
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	predictions := make([]domain.MLPrediction, 0, len(estimates))
	for _, e := range estimates {
		p, ok := byID[e.ProductID]
		if !ok {
			continue
		}
		predictions = append(predictions, s.prediction(e, p))
	}
	return predictions, nil
}

func (s *InventoryService) Forecast(ctx context.Context, productID string) (*domain.MLPrediction, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	estimate, err := s.forecasts.Estimate(ctx, productID)
	if errors.Is(err, forecast.ErrNoForecast) {
		return nil, ErrForecastNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load forecast: %w", err)
	}
	pred := s.prediction(estimate, *product)
	return &pred, nil
}

// TrainModel refits the forecasts and brings reorder alerts in line with
// the new recommendations.
func (s *InventoryService) TrainModel(ctx context.Context) (*forecast.TrainingRun, error) {
	run, err := s.forecasts.Train(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to train forecast model: %w", err)
	}
	s.logger.Info("Forecast model trained",
		zap.String("run_id", run.ID),
		zap.Int("products_fit", run.ProductsFit))

	if err := s.SyncReorderAlerts(ctx); err != nil {
		s.logger.Error("Failed to sync reorder alerts", zap.Error(err))
	}
	return &run, nil
}

// SyncReorderAlerts opens a reorder alert for every product whose
// recommendation is positive and resolves the ones that dropped to zero.
func (s *InventoryService) SyncReorderAlerts(ctx context.Context) error {
	predictions, err := s.Predictions(ctx)
	if err != nil {
		return err
	}

	s.alertMu.Lock()
	defer s.alertMu.Unlock()

	var errs []error
	for _, pred := range predictions {
		product, err := s.store.Products.Get(ctx, pred.ProductID)
		if err != nil {
			errs = append(errs, mapErr(err, ErrProductNotFound, "get product"))
			continue
		}
		open, err := s.store.Alerts.ListOpenByProduct(ctx, pred.ProductID)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to list open alerts for %s: %w", pred.ProductID, err))
			continue
		}
		decision := domain.EvaluateReorderAlert(pred, pred.RecommendedReorder, product.MinThreshold, open, s.now(), s.newID)
		if err := s.applyDecision(ctx, decision); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *InventoryService) prediction(e forecast.Estimate, p domain.Product) domain.MLPrediction {
	pred := domain.MLPrediction{
		ProductID:       p.ID,
		ProductName:     p.Name,
		PredictedDemand: e.PredictedDemand,
		CurrentStock:    p.Quantity,
		Confidence:      e.Confidence,
		Trend:           e.Trend,
	}
	pred.RecommendedReorder = s.policy.Recommend(pred)
	pred.StockCoverage = domain.StockCoverage(pred)
	return pred
}
