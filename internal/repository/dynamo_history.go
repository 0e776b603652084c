package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	absentID  = expression.AttributeNotExists(expression.Name("id"))
	presentID = expression.AttributeExists(expression.Name("id"))
)

// Transactions

type DynamoTransactionRepository struct {
	api   DynamoAPI
	table string
}

type transactionRecord struct {
	ID          string `dynamodbav:"id"`
	ProductID   string `dynamodbav:"product_id"`
	ProductName string `dynamodbav:"product_name"`
	Type        string `dynamodbav:"type"`
	Quantity    int    `dynamodbav:"quantity"`
	Price       string `dynamodbav:"price"`
	Total       string `dynamodbav:"total"`
	Date        string `dynamodbav:"date"`
	User        string `dynamodbav:"user"`
	Notes       string `dynamodbav:"notes,omitempty"`
	SearchKey   string `dynamodbav:"search_key"`
}

func newTransactionRecord(t *domain.Transaction) transactionRecord {
	return transactionRecord{
		ID:          t.ID,
		ProductID:   t.ProductID,
		ProductName: t.ProductName,
		Type:        string(t.Type),
		Quantity:    t.Quantity,
		Price:       t.Price.String(),
		Total:       t.Total.String(),
		Date:        formatTime(t.Date),
		User:        t.User,
		Notes:       t.Notes,
		SearchKey:   strings.ToLower(t.ProductName + "\x1f" + t.User),
	}
}

func (r transactionRecord) toDomain() (*domain.Transaction, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: bad price %q: %w", r.ID, r.Price, err)
	}
	total, err := decimal.NewFromString(r.Total)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: bad total %q: %w", r.ID, r.Total, err)
	}
	return &domain.Transaction{
		ID:          r.ID,
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		Type:        domain.TransactionType(r.Type),
		Quantity:    r.Quantity,
		Price:       price,
		Total:       total,
		Date:        parseTime(r.Date),
		User:        r.User,
		Notes:       r.Notes,
	}, nil
}

// Create refuses to overwrite an existing id; transactions are immutable.
func (r *DynamoTransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	return putItem(ctx, r.api, r.table, newTransactionRecord(t), absentID, ErrAlreadyExists)
}

func (r *DynamoTransactionRepository) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	var rec transactionRecord
	if err := getItem(ctx, r.api, r.table, id, &rec); err != nil {
		return nil, err
	}
	return rec.toDomain()
}

func (r *DynamoTransactionRepository) List(ctx context.Context) ([]domain.Transaction, error) {
	return r.scan(ctx, nil)
}

func (r *DynamoTransactionRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Transaction, error) {
	return r.scan(ctx, filterPtr(expression.Name("product_id").Equal(expression.Value(productID))))
}

func (r *DynamoTransactionRepository) Search(ctx context.Context, query string) ([]domain.Transaction, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return r.List(ctx)
	}
	return r.scan(ctx, filterPtr(expression.Contains(expression.Name("search_key"), q)))
}

func (r *DynamoTransactionRepository) scan(ctx context.Context, filter *expression.ConditionBuilder) ([]domain.Transaction, error) {
	items, err := scanAll(ctx, r.api, r.table, filter)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Transaction, 0, len(items))
	for _, item := range items {
		var rec transactionRecord
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
		}
		t, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	sortTransactions(out)
	return out, nil
}

// Alerts

type DynamoAlertRepository struct {
	api   DynamoAPI
	table string
}

type alertRecord struct {
	ID              string `dynamodbav:"id"`
	ProductID       string `dynamodbav:"product_id"`
	ProductName     string `dynamodbav:"product_name"`
	Type            string `dynamodbav:"type"`
	Message         string `dynamodbav:"message"`
	CurrentQuantity int    `dynamodbav:"current_quantity"`
	Threshold       int    `dynamodbav:"threshold"`
	Severity        string `dynamodbav:"severity"`
	CreatedAt       string `dynamodbav:"created_at"`
	Resolved        bool   `dynamodbav:"resolved"`
	ResolvedAt      string `dynamodbav:"resolved_at,omitempty"`
}

func newAlertRecord(a *domain.Alert) alertRecord {
	rec := alertRecord{
		ID:              a.ID,
		ProductID:       a.ProductID,
		ProductName:     a.ProductName,
		Type:            string(a.Type),
		Message:         a.Message,
		CurrentQuantity: a.CurrentQuantity,
		Threshold:       a.Threshold,
		Severity:        string(a.Severity),
		CreatedAt:       formatTime(a.CreatedAt),
		Resolved:        a.Resolved,
	}
	if a.ResolvedAt != nil {
		rec.ResolvedAt = formatTime(*a.ResolvedAt)
	}
	return rec
}

func (r alertRecord) toDomain() domain.Alert {
	a := domain.Alert{
		ID:              r.ID,
		ProductID:       r.ProductID,
		ProductName:     r.ProductName,
		Type:            domain.AlertType(r.Type),
		Message:         r.Message,
		CurrentQuantity: r.CurrentQuantity,
		Threshold:       r.Threshold,
		Severity:        domain.Severity(r.Severity),
		CreatedAt:       parseTime(r.CreatedAt),
		Resolved:        r.Resolved,
	}
	if r.ResolvedAt != "" {
		t := parseTime(r.ResolvedAt)
		a.ResolvedAt = &t
	}
	return a
}

func (r *DynamoAlertRepository) Create(ctx context.Context, a *domain.Alert) error {
	return putItem(ctx, r.api, r.table, newAlertRecord(a), absentID, ErrAlreadyExists)
}

func (r *DynamoAlertRepository) Get(ctx context.Context, id string) (*domain.Alert, error) {
	var rec alertRecord
	if err := getItem(ctx, r.api, r.table, id, &rec); err != nil {
		return nil, err
	}
	a := rec.toDomain()
	return &a, nil
}

func (r *DynamoAlertRepository) Update(ctx context.Context, a *domain.Alert) error {
	return putItem(ctx, r.api, r.table, newAlertRecord(a), presentID, ErrNotFound)
}

func (r *DynamoAlertRepository) List(ctx context.Context) ([]domain.Alert, error) {
	return r.scan(ctx, nil)
}

func (r *DynamoAlertRepository) ListOpen(ctx context.Context) ([]domain.Alert, error) {
	return r.scan(ctx, filterPtr(expression.Name("resolved").Equal(expression.Value(false))))
}

func (r *DynamoAlertRepository) ListOpenByProduct(ctx context.Context, productID string) ([]domain.Alert, error) {
	return r.scan(ctx, filterPtr(expression.Name("resolved").Equal(expression.Value(false)).
		And(expression.Name("product_id").Equal(expression.Value(productID)))))
}

func (r *DynamoAlertRepository) scan(ctx context.Context, filter *expression.ConditionBuilder) ([]domain.Alert, error) {
	items, err := scanAll(ctx, r.api, r.table, filter)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Alert, 0, len(items))
	for _, item := range items {
		var rec alertRecord
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal alert: %w", err)
		}
		out = append(out, rec.toDomain())
	}
	sortAlerts(out)
	return out, nil
}

// Reports

type DynamoReportRepository struct {
	api   DynamoAPI
	table string
}

type reportRecord struct {
	ID          string `dynamodbav:"id"`
	Name        string `dynamodbav:"name"`
	Type        string `dynamodbav:"type"`
	Format      string `dynamodbav:"format"`
	Status      string `dynamodbav:"status"`
	GeneratedAt string `dynamodbav:"generated_at"`
	Error       string `dynamodbav:"error,omitempty"`
}

func newReportRecord(rep *domain.Report) reportRecord {
	return reportRecord{
		ID:          rep.ID,
		Name:        rep.Name,
		Type:        string(rep.Type),
		Format:      string(rep.Format),
		Status:      string(rep.Status),
		GeneratedAt: formatTime(rep.GeneratedAt),
		Error:       rep.Error,
	}
}

func (r reportRecord) toDomain() domain.Report {
	return domain.Report{
		ID:          r.ID,
		Name:        r.Name,
		Type:        domain.ReportType(r.Type),
		Format:      domain.ReportFormat(r.Format),
		Status:      domain.ReportStatus(r.Status),
		GeneratedAt: parseTime(r.GeneratedAt),
		Error:       r.Error,
	}
}

func (r *DynamoReportRepository) Create(ctx context.Context, rep *domain.Report) error {
	return putItem(ctx, r.api, r.table, newReportRecord(rep), absentID, ErrAlreadyExists)
}

func (r *DynamoReportRepository) Get(ctx context.Context, id string) (*domain.Report, error) {
	var rec reportRecord
	if err := getItem(ctx, r.api, r.table, id, &rec); err != nil {
		return nil, err
	}
	rep := rec.toDomain()
	return &rep, nil
}

func (r *DynamoReportRepository) Update(ctx context.Context, rep *domain.Report) error {
	return putItem(ctx, r.api, r.table, newReportRecord(rep), presentID, ErrNotFound)
}

func (r *DynamoReportRepository) List(ctx context.Context) ([]domain.Report, error) {
	items, err := scanAll(ctx, r.api, r.table, nil)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Report, 0, len(items))
	for _, item := range items {
		var rec reportRecord
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		out = append(out, rec.toDomain())
	}
	sortReports(out)
	return out, nil
}
