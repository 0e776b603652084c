package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrAlreadyExists     = errors.New("record already exists")
	ErrDuplicateSKU      = errors.New("sku already in use")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	Get(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	// List returns products oldest first.
	List(ctx context.Context) ([]domain.Product, error)
	// Search matches query case-insensitively against name, SKU and category.
	Search(ctx context.Context, query string) ([]domain.Product, error)
	// AdjustQuantity adds delta to the on-hand quantity in one atomic step and
	// returns the updated product. A result below zero fails with
	// ErrInsufficientStock and leaves the product untouched. restockedAt, when
	// set, replaces LastRestocked.
	AdjustQuantity(ctx context.Context, id string, delta int, restockedAt *time.Time, now time.Time) (*domain.Product, error)
	// SetAlertedStatus records the status stock alerts were last evaluated
	// at. Update never changes it.
	SetAlertedStatus(ctx context.Context, id string, status domain.StockStatus) error
}

// TransactionRepository is append-only.
type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	Get(ctx context.Context, id string) (*domain.Transaction, error)
	// List returns transactions newest first.
	List(ctx context.Context) ([]domain.Transaction, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Transaction, error)
	// Search matches query case-insensitively against product name and user.
	Search(ctx context.Context, query string) ([]domain.Transaction, error)
}

// AlertRepository keeps resolved alerts for audit; there is no delete.
type AlertRepository interface {
	Create(ctx context.Context, a *domain.Alert) error
	Get(ctx context.Context, id string) (*domain.Alert, error)
	Update(ctx context.Context, a *domain.Alert) error
	// List returns alerts newest first.
	List(ctx context.Context) ([]domain.Alert, error)
	ListOpen(ctx context.Context) ([]domain.Alert, error)
	ListOpenByProduct(ctx context.Context, productID string) ([]domain.Alert, error)
}

type ReportRepository interface {
	Create(ctx context.Context, r *domain.Report) error
	Get(ctx context.Context, id string) (*domain.Report, error)
	Update(ctx context.Context, r *domain.Report) error
	// List returns reports newest first.
	List(ctx context.Context) ([]domain.Report, error)
}

// Store bundles the repositories one backend provides.
type Store struct {
	Products     ProductRepository
	Transactions TransactionRepository
	Alerts       AlertRepository
	Reports      ReportRepository
}
