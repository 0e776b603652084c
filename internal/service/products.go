package service

import (
	"context"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/events"
	"go.uber.org/zap"
)

func (s *InventoryService) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	now := s.now()
	product := &domain.Product{
		ID:            s.newID(),
		SKU:           req.SKU,
		Name:          req.Name,
		Category:      req.Category,
		Quantity:      req.Quantity,
		MinThreshold:  req.MinThreshold,
		Price:         req.Price,
		Supplier:      req.Supplier,
		LastRestocked: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.LastRestocked != nil {
		product.LastRestocked = *req.LastRestocked
	}
	product.Refresh()

	if err := domain.ValidateProduct(*product); err != nil {
		return nil, err
	}

	if err := s.store.Products.Create(ctx, product); err != nil {
		return nil, mapErr(err, ErrProductNotFound, "create product")
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID),
		zap.String("sku", product.SKU),
		zap.Int("quantity", product.Quantity),
		zap.String("status", string(product.Status)))

	s.publish(ctx, events.EntityProduct, events.ActionCreated, product.ID, product)
	s.invalidateStats(ctx)
	s.reconcile(ctx, product.ID)
	return product, nil
}

func (s *InventoryService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.store.Products.Get(ctx, id)
	if err != nil {
		return nil, mapErr(err, ErrProductNotFound, "get product")
	}
	return product, nil
}

func (s *InventoryService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.store.Products.List(ctx)
	if err != nil {
		return nil, mapErr(err, ErrProductNotFound, "list products")
	}
	return products, nil
}

// SearchProducts lists every product when query is empty.
func (s *InventoryService) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	if query == "" {
		return s.ListProducts(ctx)
	}
	products, err := s.store.Products.Search(ctx, query)
	if err != nil {
		return nil, mapErr(err, ErrProductNotFound, "search products")
	}
	return products, nil
}

func (s *InventoryService) UpdateProduct(ctx context.Context, id string, req domain.UpdateProductRequest) (*domain.Product, error) {
	product, err := s.store.Products.Get(ctx, id)
	if err != nil {
		return nil, mapErr(err, ErrProductNotFound, "get product")
	}

	req.Apply(product)
	product.UpdatedAt = s.now()
	if err := domain.ValidateProduct(*product); err != nil {
		return nil, err
	}

	if err := s.store.Products.Update(ctx, product); err != nil {
		return nil, mapErr(err, ErrProductNotFound, "update product")
	}

	s.logger.Info("Product updated",
		zap.String("product_id", product.ID),
		zap.Int("quantity", product.Quantity),
		zap.String("status", string(product.Status)))

	s.publish(ctx, events.EntityProduct, events.ActionUpdated, product.ID, product)
	s.invalidateStats(ctx)
	s.reconcile(ctx, product.ID)
	return product, nil
}

// DeleteProduct removes the product and resolves its open alerts. Its
// transactions stay as history.
func (s *InventoryService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.store.Products.Delete(ctx, id); err != nil {
		return mapErr(err, ErrProductNotFound, "delete product")
	}

	s.logger.Info("Product deleted", zap.String("product_id", id))

	s.publish(ctx, events.EntityProduct, events.ActionDeleted, id, nil)
	s.invalidateStats(ctx)
	if err := s.resolveOpenAlerts(ctx, id); err != nil {
		s.logger.Error("Failed to resolve alerts of deleted product",
			zap.String("product_id", id),
			zap.Error(err))
	}
	return nil
}

// LowStockProducts returns the products needing attention, oldest first.
func (s *InventoryService) LowStockProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return domain.SelectAttentionNeeded(products), nil
}
