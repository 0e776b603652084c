package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/events"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/forecast"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/report"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ChangeEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type())
	}
	return out
}

type memoryCache struct {
	mu          sync.Mutex
	entries     map[string]domain.DashboardStats
	sets        int
	invalidated int
	getErr      error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]domain.DashboardStats)}
}

func (c *memoryCache) Get(_ context.Context, day string) (*domain.DashboardStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	s, ok := c.entries[day]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (c *memoryCache) Set(_ context.Context, day string, stats domain.DashboardStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[day] = stats
	c.sets++
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]domain.DashboardStats)
	c.invalidated++
	return nil
}

type fixture struct {
	svc       *InventoryService
	store     repository.Store
	forecasts *forecast.StaticProvider
	publisher *recordingPublisher
	cache     *memoryCache
	release   func()
}

func newFixture(t *testing.T, configure ...func(*Options)) *fixture {
	t.Helper()

	store := repository.NewMemoryStore().Store()
	clock := func() time.Time { return testNow }
	f := &fixture{
		store:     store,
		forecasts: forecast.NewStaticProvider(clock, uuid.NewString),
		publisher: &recordingPublisher{},
		cache:     newMemoryCache(),
	}

	gate := make(chan struct{})
	var once sync.Once
	f.release = func() { once.Do(func() { close(gate) }) }
	renderer := report.RendererFunc(func(ctx context.Context, _ domain.Report) error {
		select {
		case <-gate:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	var svc *InventoryService
	gen := report.NewAsyncGenerator(store.Reports, renderer, 1, zap.NewNop(),
		report.WithClock(clock),
		report.WithOnFinish(func(r domain.Report) { svc.ReportFinished(r) }))
	t.Cleanup(func() {
		f.release()
		gen.Close()
	})

	opts := Options{Source: "test", Now: clock}
	for _, fn := range configure {
		fn(&opts)
	}
	svc = NewInventoryService(store, f.forecasts, gen, f.publisher, f.cache, zap.NewNop(), opts)
	f.svc = svc
	return f
}

func (f *fixture) product(t *testing.T, sku string, quantity, threshold int) *domain.Product {
	t.Helper()
	p, err := f.svc.CreateProduct(context.Background(), domain.CreateProductRequest{
		SKU:          sku,
		Name:         "Item " + sku,
		Category:     "Electronics",
		Quantity:     quantity,
		MinThreshold: threshold,
		Price:        decimal.RequireFromString("10.00"),
		Supplier:     "Acme",
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) record(t *testing.T, productID string, txType domain.TransactionType, quantity int) *TransactionResult {
	t.Helper()
	res, err := f.svc.RecordTransaction(context.Background(), domain.CreateTransactionRequest{
		ProductID: productID,
		Type:      txType,
		Quantity:  quantity,
		User:      "jane",
	})
	require.NoError(t, err)
	return res
}

func TestRecordTransaction_AlertLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p := f.product(t, "SKU-1", 2, 10)
	assert.Equal(t, domain.StatusLowStock, p.Status)

	active, err := f.svc.ActiveAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, domain.AlertLowStock, active[0].Type)
	assert.Equal(t, 2, active[0].CurrentQuantity)
	assert.Equal(t, domain.SeverityHigh, active[0].Severity)

	res := f.record(t, p.ID, domain.TransactionPurchase, 20)
	assert.Equal(t, 22, res.Product.Quantity)
	assert.Equal(t, 2, res.PreviousQuantity)
	assert.Equal(t, domain.StatusInStock, res.Product.Status)
	assert.True(t, res.Product.LastRestocked.Equal(testNow))
	assert.Equal(t, "200", res.Transaction.Total.String())

	active, err = f.svc.ActiveAlerts(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	f.record(t, p.ID, domain.TransactionSale, 1)

	all, err := f.svc.ListAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Resolved)
	require.NotNil(t, all[0].ResolvedAt)
}

func TestRecordTransaction_OutOfStockOpensSecondAlert(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "SKU-1", 6, 5)

	f.record(t, p.ID, domain.TransactionSale, 2)
	f.record(t, p.ID, domain.TransactionSale, 1)
	res := f.record(t, p.ID, domain.TransactionSale, 3)
	assert.Equal(t, domain.StatusOutOfStock, res.Product.Status)

	active, err := f.svc.ActiveAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	types := []domain.AlertType{active[0].Type, active[1].Type}
	assert.ElementsMatch(t, []domain.AlertType{domain.AlertLowStock, domain.AlertOutOfStock}, types)
}

func TestRecordTransaction_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "SKU-1", 5, 1)

	_, err := f.svc.RecordTransaction(ctx, domain.CreateTransactionRequest{
		ProductID: p.ID, Type: domain.TransactionSale, Quantity: 6, User: "jane",
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	got, err := f.svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)

	txs, err := f.svc.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestRecordTransaction_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "SKU-1", 5, 1)

	_, err := f.svc.RecordTransaction(ctx, domain.CreateTransactionRequest{
		ProductID: p.ID, Type: domain.TransactionSale, Quantity: 0, User: "jane",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Field)

	_, err = f.svc.RecordTransaction(ctx, domain.CreateTransactionRequest{
		ProductID: "missing", Type: domain.TransactionSale, Quantity: 1, User: "jane",
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestRecordTransaction_Price(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "SKU-1", 5, 1)

	res := f.record(t, p.ID, domain.TransactionSale, 2)
	assert.Equal(t, "10", res.Transaction.Price.String())
	assert.Equal(t, "Item SKU-1", res.Transaction.ProductName)

	price := decimal.RequireFromString("7.50")
	res2, err := f.svc.RecordTransaction(context.Background(), domain.CreateTransactionRequest{
		ProductID: p.ID, Type: domain.TransactionAdjustment, Quantity: -1, Price: &price, User: "jane", Notes: "damaged",
	})
	require.NoError(t, err)
	assert.Equal(t, "-7.5", res2.Transaction.Total.String())
	assert.Equal(t, 2, res2.Product.Quantity)

	history, err := f.svc.ProductTransactions(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestCreateProduct_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.product(t, "SKU-1", 5, 1)

	_, err := f.svc.CreateProduct(ctx, domain.CreateProductRequest{
		SKU: "sku-1", Name: "Other", Category: "Misc",
	})
	assert.ErrorIs(t, err, ErrDuplicateSKU)

	_, err = f.svc.CreateProduct(ctx, domain.CreateProductRequest{
		SKU: "SKU-2", Category: "Misc",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestUpdateProduct_ThresholdChangeOpensAlert(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "SKU-1", 8, 5)

	threshold := 10
	updated, err := f.svc.UpdateProduct(ctx, p.ID, domain.UpdateProductRequest{MinThreshold: &threshold})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusLowStock, updated.Status)

	active, err := f.svc.ActiveAlerts(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	_, err = f.svc.UpdateProduct(ctx, "missing", domain.UpdateProductRequest{MinThreshold: &threshold})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProduct_ResolvesAlerts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "SKU-1", 0, 5)
	f.record(t, p.ID, domain.TransactionPurchase, 1)

	require.NoError(t, f.svc.DeleteProduct(ctx, p.ID))

	_, err := f.svc.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
	active, err := f.svc.ActiveAlerts(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	history, err := f.svc.ProductTransactions(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	assert.ErrorIs(t, f.svc.DeleteProduct(ctx, p.ID), ErrProductNotFound)
}

func TestLowStockProducts(t *testing.T) {
	f := newFixture(t)
	low := f.product(t, "SKU-1", 3, 5)
	f.product(t, "SKU-2", 50, 5)
	out := f.product(t, "SKU-3", 0, 5)

	got, err := f.svc.LowStockProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	ids := []string{got[0].ID, got[1].ID}
	assert.ElementsMatch(t, []string{low.ID, out.ID}, ids)
}

func TestResolveAlert(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.product(t, "SKU-1", 1, 5)

	active, err := f.svc.ActiveAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)

	resolved, err := f.svc.ResolveAlert(ctx, active[0].ID)
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)

	again, err := f.svc.ResolveAlert(ctx, active[0].ID)
	require.NoError(t, err)
	assert.Equal(t, resolved.ResolvedAt, again.ResolvedAt)

	_, err = f.svc.ResolveAlert(ctx, "missing")
	assert.ErrorIs(t, err, ErrAlertNotFound)

	assert.Contains(t, f.publisher.types(), "alert.resolved")
}

func TestResolvedAlertStaysResolved(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "SKU-1", 5, 10)

	active, err := f.svc.ActiveAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	_, err = f.svc.ResolveAlert(ctx, active[0].ID)
	require.NoError(t, err)

	assertNoneOpen := func() {
		t.Helper()
		open, err := f.svc.ActiveAlerts(ctx)
		require.NoError(t, err)
		assert.Empty(t, open)
	}

	res := f.record(t, p.ID, domain.TransactionSale, 1)
	assert.Equal(t, domain.StatusLowStock, res.Product.Status)
	assertNoneOpen()

	require.NoError(t, f.svc.ReconcileAll(ctx))
	assertNoneOpen()

	name := "Renamed"
	_, err = f.svc.UpdateProduct(ctx, p.ID, domain.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assertNoneOpen()

	f.record(t, p.ID, domain.TransactionPurchase, 20)
	f.record(t, p.ID, domain.TransactionSale, 20)
	open, err := f.svc.ActiveAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, domain.AlertLowStock, open[0].Type)
	assert.NotEqual(t, active[0].ID, open[0].ID)

	all, err := f.svc.ListAlerts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReconcileProduct_PicksUpExternalChanges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "SKU-1", 20, 5)

	_, err := f.store.Products.AdjustQuantity(ctx, p.ID, -18, nil, testNow)
	require.NoError(t, err)
	require.NoError(t, f.svc.ReconcileProduct(ctx, p.ID))
	require.NoError(t, f.svc.ReconcileProduct(ctx, p.ID))

	active, err := f.svc.ActiveAlerts(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	require.NoError(t, f.store.Products.Delete(ctx, p.ID))
	require.NoError(t, f.svc.ReconcileAll(ctx))
	require.NoError(t, f.svc.ReconcileProduct(ctx, p.ID))
	active, err = f.svc.ActiveAlerts(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestDashboardStats_Cached(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "SKU-1", 10, 5)
	f.record(t, p.ID, domain.TransactionSale, 2)

	stats, err := f.svc.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, 1, stats.TodayTransactions)
	assert.Equal(t, "80", stats.TotalValue.String())
	assert.Equal(t, 1, f.cache.sets)

	require.NoError(t, f.store.Products.Create(ctx, &domain.Product{ID: "raw", SKU: "RAW", Name: "Raw", Category: "X", CreatedAt: testNow}))
	stats, err = f.svc.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalProducts)

	f.product(t, "SKU-2", 10, 5)
	stats, err = f.svc.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalProducts)
	assert.Equal(t, 1, stats.OutOfStockItems)
}

// racingTransactions runs onList before listing, standing in for a write that
// lands while dashboard stats are being computed.
type racingTransactions struct {
	repository.TransactionRepository
	onList func()
}

func (r racingTransactions) List(ctx context.Context) ([]domain.Transaction, error) {
	if r.onList != nil {
		r.onList()
	}
	return r.TransactionRepository.List(ctx)
}

func TestDashboardStats_NotCachedWhenWriteRaces(t *testing.T) {
	ctx := context.Background()
	base := repository.NewMemoryStore().Store()
	statsCache := newMemoryCache()

	var svc *InventoryService
	var p *domain.Product
	raced := false
	store := base
	store.Transactions = racingTransactions{TransactionRepository: base.Transactions, onList: func() {
		if raced {
			return
		}
		raced = true
		_, err := svc.RecordTransaction(ctx, domain.CreateTransactionRequest{
			ProductID: p.ID, Type: domain.TransactionSale, Quantity: 1, User: "jane",
		})
		require.NoError(t, err)
	}}
	svc = NewInventoryService(store, nil, nil, nil, statsCache, zap.NewNop(), Options{
		Now: func() time.Time { return testNow },
	})

	var err error
	p, err = svc.CreateProduct(ctx, domain.CreateProductRequest{
		SKU: "SKU-1", Name: "Item", Category: "Electronics", Quantity: 10, MinThreshold: 5,
		Price: decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)

	_, err = svc.DashboardStats(ctx)
	require.NoError(t, err)
	assert.True(t, raced)
	assert.Equal(t, 0, statsCache.sets)

	stats, err := svc.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, statsCache.sets)
	assert.Equal(t, "90", stats.TotalValue.String())
	assert.Equal(t, 1, stats.TodayTransactions)
}

func TestDashboardStats_CacheFailureIsMiss(t *testing.T) {
	f := newFixture(t)
	f.product(t, "SKU-1", 10, 5)
	f.cache.getErr = errors.New("connection refused")

	stats, err := f.svc.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalProducts)
}

func TestDashboardStats_DayInConfiguredLocation(t *testing.T) {
	late := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
	f := newFixture(t, func(o *Options) {
		o.Location = time.FixedZone("KST", 9*60*60)
		o.Now = func() time.Time { return late }
	})

	_, err := f.svc.DashboardStats(context.Background())
	require.NoError(t, err)
	_, ok := f.cache.entries["2025-03-11"]
	assert.True(t, ok)
}

func TestDashboardCharts(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "SKU-1", 10, 5)
	f.record(t, p.ID, domain.TransactionSale, 2)

	charts, err := f.svc.DashboardCharts(context.Background())
	require.NoError(t, err)
	require.Len(t, charts.Categories, 1)
	require.Len(t, charts.Daily, chartDays)
	assert.Equal(t, "20", charts.Daily[chartDays-1].Sales.String())
}

func TestPredictions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, func(o *Options) {
		o.ReorderPolicy = domain.ReorderPolicy{SafetyMargin: decimal.RequireFromString("0.1")}
	})
	p := f.product(t, "SKU-1", 20, 5)
	f.forecasts.Set(forecast.Estimate{ProductID: p.ID, PredictedDemand: 50, Confidence: 0.8, Trend: domain.TrendIncreasing})
	f.forecasts.Set(forecast.Estimate{ProductID: "gone", PredictedDemand: 5})

	preds, err := f.svc.Predictions(ctx)
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, 20, preds[0].CurrentStock)
	assert.Equal(t, 35, preds[0].RecommendedReorder)
	assert.Equal(t, 40, preds[0].StockCoverage)
	assert.Equal(t, "Item SKU-1", preds[0].ProductName)

	pred, err := f.svc.Forecast(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 35, pred.RecommendedReorder)

	_, err = f.svc.Forecast(ctx, "gone")
	assert.ErrorIs(t, err, ErrProductNotFound)

	other := f.product(t, "SKU-2", 20, 5)
	_, err = f.svc.Forecast(ctx, other.ID)
	assert.ErrorIs(t, err, ErrForecastNotFound)
}

func TestTrainModel_SyncsReorderAlerts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "SKU-1", 20, 5)
	f.forecasts.Set(forecast.Estimate{ProductID: p.ID, PredictedDemand: 50, Confidence: 0.9, Trend: domain.TrendStable})

	run, err := f.svc.TrainModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, run.ProductsFit)

	_, err = f.svc.TrainModel(ctx)
	require.NoError(t, err)

	active, err := f.svc.ActiveAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, domain.AlertReorder, active[0].Type)
	assert.Equal(t, domain.SeverityLow, active[0].Severity)

	f.record(t, p.ID, domain.TransactionPurchase, 40)
	active, err = f.svc.ActiveAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)

	require.NoError(t, f.svc.SyncReorderAlerts(ctx))
	active, err = f.svc.ActiveAlerts(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestReports(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.GenerateReport(ctx, domain.GenerateReportRequest{Type: "weekly", Format: domain.FormatCSV})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	r, err := f.svc.GenerateReport(ctx, domain.GenerateReportRequest{Type: domain.ReportSales, Format: domain.FormatPDF})
	require.NoError(t, err)
	assert.Equal(t, domain.ReportGenerating, r.Status)

	_, err = f.svc.ReadyReport(ctx, r.ID)
	assert.ErrorIs(t, err, ErrReportNotReady)
	_, err = f.svc.ReadyReport(ctx, "missing")
	assert.ErrorIs(t, err, ErrReportNotFound)

	f.release()
	require.Eventually(t, func() bool {
		_, err := f.svc.ReadyReport(ctx, r.ID)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	reports, err := f.svc.ListReports(ctx)
	require.NoError(t, err)
	assert.Len(t, reports, 1)

	require.Eventually(t, func() bool {
		for _, typ := range f.publisher.types() {
			if typ == "report.updated" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWritesPublishEvents(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")

	p := f.product(t, "SKU-1", 1, 5)
	f.record(t, p.ID, domain.TransactionSale, 1)

	assert.Equal(t, []string{
		"product.created",
		"alert.created",
		"transaction.created",
		"product.updated",
		"alert.created",
	}, f.publisher.types())
	assert.GreaterOrEqual(t, f.cache.invalidated, 2)

	for _, ev := range f.publisher.events {
		assert.Equal(t, "test", ev.Source)
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "KB-1", 10, 5)
	f.product(t, "MS-1", 10, 5)
	f.record(t, p.ID, domain.TransactionSale, 1)

	got, err := f.svc.SearchProducts(ctx, "kb-")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, p.ID, got[0].ID)

	all, err := f.svc.SearchProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	txs, err := f.svc.SearchTransactions(ctx, "JANE")
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	tx, err := f.svc.GetTransaction(ctx, txs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, tx.ProductID)
	_, err = f.svc.GetTransaction(ctx, "missing")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}
