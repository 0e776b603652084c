package domain

import "time"

type ReportType string

const (
	ReportInventory  ReportType = "inventory"
	ReportSales      ReportType = "sales"
	ReportPurchases  ReportType = "purchases"
	ReportMLInsights ReportType = "ml-insights"
)

type ReportFormat string

const (
	FormatCSV ReportFormat = "csv"
	FormatPDF ReportFormat = "pdf"
)

type ReportStatus string

const (
	ReportGenerating ReportStatus = "generating"
	ReportReady      ReportStatus = "ready"
	ReportFailed     ReportStatus = "failed"
)

type Report struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        ReportType   `json:"type"`
	Format      ReportFormat `json:"format"`
	Status      ReportStatus `json:"status"`
	GeneratedAt time.Time    `json:"generated_at"`
	Error       string       `json:"error,omitempty"`
}

// Finish moves a generating report to ready, or to failed when err is set.
// Reports that already finished are left untouched.
func (r *Report) Finish(now time.Time, err error) bool {
	if r.Status != ReportGenerating {
		return false
	}
	r.GeneratedAt = now
	if err != nil {
		r.Status = ReportFailed
		r.Error = err.Error()
		return true
	}
	r.Status = ReportReady
	return true
}

type GenerateReportRequest struct {
	Type   ReportType   `json:"type"   binding:"required" validate:"required,oneof=inventory sales purchases ml-insights"`
	Format ReportFormat `json:"format" binding:"required" validate:"required,oneof=csv pdf"`
}
