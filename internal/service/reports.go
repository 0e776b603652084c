package service

import (
	"context"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/events"
)

// GenerateReport queues a report and returns it in the generating state.
func (s *InventoryService) GenerateReport(ctx context.Context, req domain.GenerateReportRequest) (*domain.Report, error) {
	r, err := s.reports.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EntityReport, events.ActionCreated, r.ID, r)
	return r, nil
}

func (s *InventoryService) ListReports(ctx context.Context) ([]domain.Report, error) {
	reports, err := s.store.Reports.List(ctx)
	if err != nil {
		return nil, mapErr(err, ErrReportNotFound, "list reports")
	}
	return reports, nil
}

func (s *InventoryService) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	r, err := s.store.Reports.Get(ctx, id)
	if err != nil {
		return nil, mapErr(err, ErrReportNotFound, "get report")
	}
	return r, nil
}

// ReadyReport returns the report if it can be downloaded, ErrReportNotReady
// while it is generating or after it failed.
func (s *InventoryService) ReadyReport(ctx context.Context, id string) (*domain.Report, error) {
	r, err := s.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != domain.ReportReady {
		return r, ErrReportNotReady
	}
	return r, nil
}

// ReportFinished publishes the final state of a report. Wire it to the
// generator's finish hook.
func (s *InventoryService) ReportFinished(r domain.Report) {
	s.publish(context.Background(), events.EntityReport, events.ActionUpdated, r.ID, r)
}
