package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
)

// MemoryStore keeps every entity in process. Values are copied on the way in
// and out so callers never share state with the store.
type MemoryStore struct {
	mu           sync.RWMutex
	products     map[string]domain.Product
	transactions map[string]domain.Transaction
	alerts       map[string]domain.Alert
	reports      map[string]domain.Report
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:     make(map[string]domain.Product),
		transactions: make(map[string]domain.Transaction),
		alerts:       make(map[string]domain.Alert),
		reports:      make(map[string]domain.Report),
	}
}

// Store exposes the memory store through the repository interfaces.
func (m *MemoryStore) Store() Store {
	return Store{
		Products:     memoryProducts{m},
		Transactions: memoryTransactions{m},
		Alerts:       memoryAlerts{m},
		Reports:      memoryReports{m},
	}
}

func matches(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

type memoryProducts struct{ m *MemoryStore }

func (r memoryProducts) Create(_ context.Context, p *domain.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.products[p.ID]; ok {
		return ErrAlreadyExists
	}
	if r.skuTaken(p.SKU, "") {
		return ErrDuplicateSKU
	}
	r.m.products[p.ID] = *p
	return nil
}

func (r memoryProducts) skuTaken(sku, exceptID string) bool {
	for id, existing := range r.m.products {
		if id != exceptID && strings.EqualFold(existing.SKU, sku) {
			return true
		}
	}
	return false
}

func (r memoryProducts) Get(_ context.Context, id string) (*domain.Product, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	p, ok := r.m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r memoryProducts) Update(_ context.Context, p *domain.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	existing, ok := r.m.products[p.ID]
	if !ok {
		return ErrNotFound
	}
	if r.skuTaken(p.SKU, p.ID) {
		return ErrDuplicateSKU
	}
	stored := *p
	stored.AlertedStatus = existing.AlertedStatus
	r.m.products[p.ID] = stored
	return nil
}

func (r memoryProducts) SetAlertedStatus(_ context.Context, id string, status domain.StockStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	p, ok := r.m.products[id]
	if !ok {
		return ErrNotFound
	}
	p.AlertedStatus = status
	r.m.products[id] = p
	return nil
}

func (r memoryProducts) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.products, id)
	return nil
}

func (r memoryProducts) List(ctx context.Context) ([]domain.Product, error) {
	return r.Search(ctx, "")
}

func (r memoryProducts) Search(_ context.Context, query string) ([]domain.Product, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := make([]domain.Product, 0, len(r.m.products))
	for _, p := range r.m.products {
		if matches(query, p.Name, p.SKU, p.Category) {
			out = append(out, p)
		}
	}
	sortProducts(out)
	return out, nil
}

func (r memoryProducts) AdjustQuantity(_ context.Context, id string, delta int, restockedAt *time.Time, now time.Time) (*domain.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	p, ok := r.m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	if p.Quantity+delta < 0 {
		return nil, ErrInsufficientStock
	}
	p.Quantity += delta
	if restockedAt != nil {
		p.LastRestocked = *restockedAt
	}
	p.UpdatedAt = now
	p.Refresh()
	r.m.products[id] = p
	return &p, nil
}

func sortProducts(ps []domain.Product) {
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.Before(ps[j].CreatedAt)
		}
		return ps[i].ID < ps[j].ID
	})
}

type memoryTransactions struct{ m *MemoryStore }

func (r memoryTransactions) Create(_ context.Context, t *domain.Transaction) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.transactions[t.ID]; ok {
		return ErrAlreadyExists
	}
	r.m.transactions[t.ID] = *t
	return nil
}

func (r memoryTransactions) Get(_ context.Context, id string) (*domain.Transaction, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	t, ok := r.m.transactions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (r memoryTransactions) List(_ context.Context) ([]domain.Transaction, error) {
	return r.filter(func(domain.Transaction) bool { return true }), nil
}

func (r memoryTransactions) ListByProduct(_ context.Context, productID string) ([]domain.Transaction, error) {
	return r.filter(func(t domain.Transaction) bool { return t.ProductID == productID }), nil
}

func (r memoryTransactions) Search(_ context.Context, query string) ([]domain.Transaction, error) {
	return r.filter(func(t domain.Transaction) bool { return matches(query, t.ProductName, t.User) }), nil
}

func (r memoryTransactions) filter(keep func(domain.Transaction) bool) []domain.Transaction {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := make([]domain.Transaction, 0)
	for _, t := range r.m.transactions {
		if keep(t) {
			out = append(out, t)
		}
	}
	sortTransactions(out)
	return out
}

func sortTransactions(ts []domain.Transaction) {
	sort.Slice(ts, func(i, j int) bool {
		if !ts[i].Date.Equal(ts[j].Date) {
			return ts[i].Date.After(ts[j].Date)
		}
		return ts[i].ID < ts[j].ID
	})
}

type memoryAlerts struct{ m *MemoryStore }

func (r memoryAlerts) Create(_ context.Context, a *domain.Alert) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.alerts[a.ID]; ok {
		return ErrAlreadyExists
	}
	r.m.alerts[a.ID] = cloneAlert(*a)
	return nil
}

func (r memoryAlerts) Get(_ context.Context, id string) (*domain.Alert, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	a, ok := r.m.alerts[id]
	if !ok {
		return nil, ErrNotFound
	}
	a = cloneAlert(a)
	return &a, nil
}

func (r memoryAlerts) Update(_ context.Context, a *domain.Alert) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.alerts[a.ID]; !ok {
		return ErrNotFound
	}
	r.m.alerts[a.ID] = cloneAlert(*a)
	return nil
}

func (r memoryAlerts) List(_ context.Context) ([]domain.Alert, error) {
	return r.filter(func(domain.Alert) bool { return true }), nil
}

func (r memoryAlerts) ListOpen(_ context.Context) ([]domain.Alert, error) {
	return r.filter(func(a domain.Alert) bool { return !a.Resolved }), nil
}

func (r memoryAlerts) ListOpenByProduct(_ context.Context, productID string) ([]domain.Alert, error) {
	return r.filter(func(a domain.Alert) bool { return !a.Resolved && a.ProductID == productID }), nil
}

func (r memoryAlerts) filter(keep func(domain.Alert) bool) []domain.Alert {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := make([]domain.Alert, 0)
	for _, a := range r.m.alerts {
		if keep(a) {
			out = append(out, cloneAlert(a))
		}
	}
	sortAlerts(out)
	return out
}

func cloneAlert(a domain.Alert) domain.Alert {
	if a.ResolvedAt != nil {
		t := *a.ResolvedAt
		a.ResolvedAt = &t
	}
	return a
}

func sortAlerts(as []domain.Alert) {
	sort.Slice(as, func(i, j int) bool {
		if !as[i].CreatedAt.Equal(as[j].CreatedAt) {
			return as[i].CreatedAt.After(as[j].CreatedAt)
		}
		return as[i].ID < as[j].ID
	})
}

type memoryReports struct{ m *MemoryStore }

func (r memoryReports) Create(_ context.Context, rep *domain.Report) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.reports[rep.ID]; ok {
		return ErrAlreadyExists
	}
	r.m.reports[rep.ID] = *rep
	return nil
}

func (r memoryReports) Get(_ context.Context, id string) (*domain.Report, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	rep, ok := r.m.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rep, nil
}

func (r memoryReports) Update(_ context.Context, rep *domain.Report) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.reports[rep.ID]; !ok {
		return ErrNotFound
	}
	r.m.reports[rep.ID] = *rep
	return nil
}

func (r memoryReports) List(_ context.Context) ([]domain.Report, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := make([]domain.Report, 0, len(r.m.reports))
	for _, rep := range r.m.reports {
		out = append(out, rep)
	}
	sortReports(out)
	return out, nil
}

func sortReports(rs []domain.Report) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].GeneratedAt.Equal(rs[j].GeneratedAt) {
			return rs[i].GeneratedAt.After(rs[j].GeneratedAt)
		}
		return rs[i].ID < rs[j].ID
	})
}
