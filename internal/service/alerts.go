package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/events"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/repository"
	"go.uber.org/zap"
)

func (s *InventoryService) ListAlerts(ctx context.Context) ([]domain.Alert, error) {
	alerts, err := s.store.Alerts.List(ctx)
	if err != nil {
		return nil, mapErr(err, ErrAlertNotFound, "list alerts")
	}
	return alerts, nil
}

// ActiveAlerts returns unresolved alerts, newest first.
func (s *InventoryService) ActiveAlerts(ctx context.Context) ([]domain.Alert, error) {
	alerts, err := s.store.Alerts.ListOpen(ctx)
	if err != nil {
		return nil, mapErr(err, ErrAlertNotFound, "list active alerts")
	}
	return alerts, nil
}

// ResolveAlert marks an alert resolved by hand. Resolving an already
// resolved alert returns it unchanged.
func (s *InventoryService) ResolveAlert(ctx context.Context, id string) (*domain.Alert, error) {
	s.alertMu.Lock()
	defer s.alertMu.Unlock()

	alert, err := s.store.Alerts.Get(ctx, id)
	if err != nil {
		return nil, mapErr(err, ErrAlertNotFound, "get alert")
	}
	if alert.Resolved {
		return alert, nil
	}

	alert.Resolve(s.now())
	if err := s.store.Alerts.Update(ctx, alert); err != nil {
		return nil, mapErr(err, ErrAlertNotFound, "resolve alert")
	}

	s.logger.Info("Alert resolved",
		zap.String("alert_id", alert.ID),
		zap.String("product_id", alert.ProductID),
		zap.String("type", string(alert.Type)))
	s.publish(ctx, events.EntityAlert, events.ActionResolved, alert.ID, alert)
	return alert, nil
}

// ReconcileProduct re-runs stock alert evaluation against the stored
// product and records the status it was evaluated at, so only a status change
// opens a new alert. A product that no longer exists has its open alerts
// resolved.
func (s *InventoryService) ReconcileProduct(ctx context.Context, productID string) error {
	s.alertMu.Lock()
	defer s.alertMu.Unlock()

	product, err := s.store.Products.Get(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.resolveOpenAlertsLocked(ctx, productID)
	}
	if err != nil {
		return fmt.Errorf("failed to get product %s: %w", productID, err)
	}

	open, err := s.store.Alerts.ListOpenByProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to list open alerts for %s: %w", productID, err)
	}

	decision := domain.EvaluateStockAlerts(*product, open, s.now(), s.newID)
	if err := s.applyDecision(ctx, decision); err != nil {
		return err
	}
	if decision.AlertedStatus == product.AlertedStatus {
		return nil
	}
	if err := s.store.Products.SetAlertedStatus(ctx, productID, decision.AlertedStatus); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.resolveOpenAlertsLocked(ctx, productID)
		}
		return fmt.Errorf("failed to record alerted status for %s: %w", productID, err)
	}
	return nil
}

// ReconcileAll reconciles every product and returns the joined failures.
func (s *InventoryService) ReconcileAll(ctx context.Context) error {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, p := range products {
		if err := s.ReconcileProduct(ctx, p.ID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// reconcile runs after a write that already succeeded, so failures are only
// logged.
func (s *InventoryService) reconcile(ctx context.Context, productID string) {
	if err := s.ReconcileProduct(ctx, productID); err != nil {
		s.logger.Error("Failed to reconcile alerts",
			zap.String("product_id", productID),
			zap.Error(err))
	}
}

func (s *InventoryService) resolveOpenAlerts(ctx context.Context, productID string) error {
	s.alertMu.Lock()
	defer s.alertMu.Unlock()
	return s.resolveOpenAlertsLocked(ctx, productID)
}

func (s *InventoryService) resolveOpenAlertsLocked(ctx context.Context, productID string) error {
	open, err := s.store.Alerts.ListOpenByProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to list open alerts for %s: %w", productID, err)
	}
	now := s.now()
	var decision domain.AlertDecision
	for _, a := range open {
		a.Resolve(now)
		decision.Resolve = append(decision.Resolve, a)
	}
	return s.applyDecision(ctx, decision)
}

// applyDecision persists an evaluation result. Callers hold alertMu.
func (s *InventoryService) applyDecision(ctx context.Context, d domain.AlertDecision) error {
	if d.Empty() {
		return nil
	}
	var errs []error
	for i := range d.Open {
		a := d.Open[i]
		if err := s.store.Alerts.Create(ctx, &a); err != nil {
			errs = append(errs, fmt.Errorf("failed to open alert for %s: %w", a.ProductID, err))
			continue
		}
		s.logger.Info("Alert opened",
			zap.String("alert_id", a.ID),
			zap.String("product_id", a.ProductID),
			zap.String("type", string(a.Type)),
			zap.String("severity", string(a.Severity)))
		s.publish(ctx, events.EntityAlert, events.ActionCreated, a.ID, a)
	}
	for i := range d.Resolve {
		a := d.Resolve[i]
		if err := s.store.Alerts.Update(ctx, &a); err != nil {
			errs = append(errs, fmt.Errorf("failed to resolve alert %s: %w", a.ID, err))
			continue
		}
		s.logger.Info("Alert resolved",
			zap.String("alert_id", a.ID),
			zap.String("product_id", a.ProductID),
			zap.String("type", string(a.Type)))
		s.publish(ctx, events.EntityAlert, events.ActionResolved, a.ID, a)
	}
	return errors.Join(errs...)
}
