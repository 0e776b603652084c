package service

import (
	"context"
	"time"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/events"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransactionResult is a recorded transaction plus the product it moved.
type TransactionResult struct {
	Transaction      domain.Transaction `json:"transaction"`
	Product          domain.Product     `json:"product"`
	PreviousQuantity int                `json:"previous_quantity"`
}

// RecordTransaction applies the transaction's stock delta and stores it.
// Purchases stamp LastRestocked. A delta that would take stock below zero
// fails with ErrInsufficientStock and nothing is written.
func (s *InventoryService) RecordTransaction(ctx context.Context, req domain.CreateTransactionRequest) (*TransactionResult, error) {
	now := s.now()
	price := decimal.Zero
	if req.Price != nil {
		price = *req.Price
	}
	tx := domain.NewTransaction(s.newID(), domain.Product{ID: req.ProductID}, req.Type, req.Quantity, price, now, req.User, req.Notes)
	if err := domain.ValidateTransaction(tx); err != nil {
		return nil, err
	}

	product, err := s.store.Products.Get(ctx, req.ProductID)
	if err != nil {
		return nil, mapErr(err, ErrProductNotFound, "get product")
	}
	if req.Price == nil {
		price = product.Price
	}
	tx = domain.NewTransaction(tx.ID, *product, req.Type, req.Quantity, price, now, req.User, req.Notes)

	delta := tx.StockDelta()
	var restockedAt *time.Time
	if tx.Type == domain.TransactionPurchase {
		restockedAt = &now
	}

	updated, err := s.store.Products.AdjustQuantity(ctx, product.ID, delta, restockedAt, now)
	if err != nil {
		err = mapErr(err, ErrProductNotFound, "adjust stock")
		if err == ErrInsufficientStock {
			s.logger.Warn("Insufficient stock",
				zap.String("product_id", product.ID),
				zap.Int("available", product.Quantity),
				zap.Int("requested_delta", delta))
		}
		return nil, err
	}

	if err := s.store.Transactions.Create(ctx, &tx); err != nil {
		s.logger.Error("Failed to save transaction, reverting stock",
			zap.String("product_id", product.ID),
			zap.Int("delta", delta),
			zap.Error(err))
		if _, revertErr := s.store.Products.AdjustQuantity(ctx, product.ID, -delta, nil, s.now()); revertErr != nil {
			s.logger.Error("Failed to revert stock",
				zap.String("product_id", product.ID),
				zap.Error(revertErr))
		}
		return nil, mapErr(err, ErrTransactionNotFound, "save transaction")
	}

	s.logger.Info("Transaction recorded",
		zap.String("transaction_id", tx.ID),
		zap.String("product_id", product.ID),
		zap.String("type", string(tx.Type)),
		zap.Int("delta", delta),
		zap.Int("new_quantity", updated.Quantity),
		zap.String("status", string(updated.Status)))

	s.publish(ctx, events.EntityTransaction, events.ActionCreated, tx.ID, tx)
	s.publish(ctx, events.EntityProduct, events.ActionUpdated, updated.ID, updated)
	s.invalidateStats(ctx)
	s.reconcile(ctx, updated.ID)

	return &TransactionResult{
		Transaction:      tx,
		Product:          *updated,
		PreviousQuantity: updated.Quantity - delta,
	}, nil
}

func (s *InventoryService) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	tx, err := s.store.Transactions.Get(ctx, id)
	if err != nil {
		return nil, mapErr(err, ErrTransactionNotFound, "get transaction")
	}
	return tx, nil
}

func (s *InventoryService) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	txs, err := s.store.Transactions.List(ctx)
	if err != nil {
		return nil, mapErr(err, ErrTransactionNotFound, "list transactions")
	}
	return txs, nil
}

func (s *InventoryService) SearchTransactions(ctx context.Context, query string) ([]domain.Transaction, error) {
	if query == "" {
		return s.ListTransactions(ctx)
	}
	txs, err := s.store.Transactions.Search(ctx, query)
	if err != nil {
		return nil, mapErr(err, ErrTransactionNotFound, "search transactions")
	}
	return txs, nil
}

// ProductTransactions returns a product's history, newest first. History of
// deleted products is still returned.
func (s *InventoryService) ProductTransactions(ctx context.Context, productID string) ([]domain.Transaction, error) {
	txs, err := s.store.Transactions.ListByProduct(ctx, productID)
	if err != nil {
		return nil, mapErr(err, ErrTransactionNotFound, "list product transactions")
	}
	return txs, nil
}
