package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	kindProduct  = "product"
	kindSKUGuard = "sku"
)

// DynamoProductRepository stores products and, in the same table, one guard
// item per SKU so that uniqueness can be enforced with conditional writes.
type DynamoProductRepository struct {
	api   DynamoAPI
	table string
}

type productRecord struct {
	ID            string `dynamodbav:"id"`
	Kind          string `dynamodbav:"kind"`
	SKU           string `dynamodbav:"sku"`
	Name          string `dynamodbav:"name"`
	Category      string `dynamodbav:"category"`
	Quantity      int    `dynamodbav:"quantity"`
	MinThreshold  int    `dynamodbav:"min_threshold"`
	Price         string `dynamodbav:"price"`
	Supplier      string `dynamodbav:"supplier"`
	LastRestocked string `dynamodbav:"last_restocked,omitempty"`
	AlertedStatus string `dynamodbav:"alerted_status,omitempty"`
	SearchKey     string `dynamodbav:"search_key"`
	CreatedAt     string `dynamodbav:"created_at"`
	UpdatedAt     string `dynamodbav:"updated_at"`
}

type skuGuardRecord struct {
	ID        string `dynamodbav:"id"`
	Kind      string `dynamodbav:"kind"`
	ProductID string `dynamodbav:"product_id"`
}

func skuGuardID(sku string) string {
	return "sku#" + strings.ToLower(sku)
}

func newProductRecord(p *domain.Product) productRecord {
	return productRecord{
		ID:            p.ID,
		Kind:          kindProduct,
		SKU:           p.SKU,
		Name:          p.Name,
		Category:      p.Category,
		Quantity:      p.Quantity,
		MinThreshold:  p.MinThreshold,
		Price:         p.Price.String(),
		Supplier:      p.Supplier,
		LastRestocked: formatTime(p.LastRestocked),
		AlertedStatus: string(p.AlertedStatus),
		SearchKey:     strings.ToLower(strings.Join([]string{p.Name, p.SKU, p.Category}, "\x1f")),
		CreatedAt:     formatTime(p.CreatedAt),
		UpdatedAt:     formatTime(p.UpdatedAt),
	}
}

// toDomain converts the record back. Status is not stored; it is always
// derived from quantity and threshold on read.
func (r productRecord) toDomain() (*domain.Product, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return nil, fmt.Errorf("product %s: bad price %q: %w", r.ID, r.Price, err)
	}
	p := &domain.Product{
		ID:            r.ID,
		SKU:           r.SKU,
		Name:          r.Name,
		Category:      r.Category,
		Quantity:      r.Quantity,
		MinThreshold:  r.MinThreshold,
		Price:         price,
		Supplier:      r.Supplier,
		LastRestocked: parseTime(r.LastRestocked),
		AlertedStatus: domain.StockStatus(r.AlertedStatus),
		CreatedAt:     parseTime(r.CreatedAt),
		UpdatedAt:     parseTime(r.UpdatedAt),
	}
	p.Refresh()
	return p, nil
}

func (r *DynamoProductRepository) Create(ctx context.Context, p *domain.Product) error {
	item, err := attributevalue.MarshalMap(newProductRecord(p))
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}
	guard, err := attributevalue.MarshalMap(skuGuardRecord{ID: skuGuardID(p.SKU), Kind: kindSKUGuard, ProductID: p.ID})
	if err != nil {
		return fmt.Errorf("failed to marshal sku guard: %w", err)
	}
	absent, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("id"))).
		Build()
	if err != nil {
		return err
	}

	_, err = r.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:                aws.String(r.table),
				Item:                     item,
				ConditionExpression:      absent.Condition(),
				ExpressionAttributeNames: absent.Names(),
			}},
			{Put: &types.Put{
				TableName:                aws.String(r.table),
				Item:                     guard,
				ConditionExpression:      absent.Condition(),
				ExpressionAttributeNames: absent.Names(),
			}},
		},
	})
	if err != nil {
		if failed, ok := cancelledBy(err); ok {
			switch {
			case len(failed) > 0 && failed[0]:
				return ErrAlreadyExists
			case len(failed) > 1 && failed[1]:
				return ErrDuplicateSKU
			}
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *DynamoProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	var rec productRecord
	if err := getItem(ctx, r.api, r.table, id, &rec); err != nil {
		return nil, err
	}
	if rec.Kind != kindProduct {
		return nil, ErrNotFound
	}
	return rec.toDomain()
}

func (r *DynamoProductRepository) Update(ctx context.Context, p *domain.Product) error {
	existing, err := r.Get(ctx, p.ID)
	if err != nil {
		return err
	}

	rec := newProductRecord(p)
	rec.AlertedStatus = string(existing.AlertedStatus)

	present := expression.AttributeExists(expression.Name("id"))
	if strings.EqualFold(existing.SKU, p.SKU) {
		return putItem(ctx, r.api, r.table, rec, present, ErrNotFound)
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}
	guard, err := attributevalue.MarshalMap(skuGuardRecord{ID: skuGuardID(p.SKU), Kind: kindSKUGuard, ProductID: p.ID})
	if err != nil {
		return fmt.Errorf("failed to marshal sku guard: %w", err)
	}
	exists, err := expression.NewBuilder().WithCondition(present).Build()
	if err != nil {
		return err
	}
	absent, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("id"))).
		Build()
	if err != nil {
		return err
	}

	_, err = r.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:                aws.String(r.table),
				Item:                     item,
				ConditionExpression:      exists.Condition(),
				ExpressionAttributeNames: exists.Names(),
			}},
			{Put: &types.Put{
				TableName:                aws.String(r.table),
				Item:                     guard,
				ConditionExpression:      absent.Condition(),
				ExpressionAttributeNames: absent.Names(),
			}},
			{Delete: &types.Delete{
				TableName: aws.String(r.table),
				Key:       idKey(skuGuardID(existing.SKU)),
			}},
		},
	})
	if err != nil {
		if failed, ok := cancelledBy(err); ok {
			switch {
			case len(failed) > 0 && failed[0]:
				return ErrNotFound
			case len(failed) > 1 && failed[1]:
				return ErrDuplicateSKU
			}
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (r *DynamoProductRepository) Delete(ctx context.Context, id string) error {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	exists, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name("id"))).
		Build()
	if err != nil {
		return err
	}

	_, err = r.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Delete: &types.Delete{
				TableName:                aws.String(r.table),
				Key:                      idKey(id),
				ConditionExpression:      exists.Condition(),
				ExpressionAttributeNames: exists.Names(),
			}},
			{Delete: &types.Delete{
				TableName: aws.String(r.table),
				Key:       idKey(skuGuardID(existing.SKU)),
			}},
		},
	})
	if err != nil {
		if failed, ok := cancelledBy(err); ok && len(failed) > 0 && failed[0] {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (r *DynamoProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	return r.scan(ctx, expression.Name("kind").Equal(expression.Value(kindProduct)))
}

func (r *DynamoProductRepository) Search(ctx context.Context, query string) ([]domain.Product, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return r.List(ctx)
	}
	return r.scan(ctx, expression.Name("kind").Equal(expression.Value(kindProduct)).
		And(expression.Contains(expression.Name("search_key"), q)))
}

func (r *DynamoProductRepository) scan(ctx context.Context, filter expression.ConditionBuilder) ([]domain.Product, error) {
	items, err := scanAll(ctx, r.api, r.table, filterPtr(filter))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(items))
	for _, item := range items {
		var rec productRecord
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal product: %w", err)
		}
		p, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	sortProducts(out)
	return out, nil
}

// AdjustQuantity applies delta with a single conditional UpdateItem so
// concurrent writers cannot drive stock below zero.
func (r *DynamoProductRepository) AdjustQuantity(ctx context.Context, id string, delta int, restockedAt *time.Time, now time.Time) (*domain.Product, error) {
	update := expression.Set(
		expression.Name("quantity"),
		expression.Plus(expression.Name("quantity"), expression.Value(delta)),
	).Set(
		expression.Name("updated_at"),
		expression.Value(formatTime(now)),
	)
	if restockedAt != nil {
		update = update.Set(expression.Name("last_restocked"), expression.Value(formatTime(*restockedAt)))
	}

	condition := expression.AttributeExists(expression.Name("id")).
		And(expression.Name("kind").Equal(expression.Value(kindProduct)))
	if delta < 0 {
		condition = condition.And(expression.Name("quantity").GreaterThanEqual(expression.Value(-delta)))
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(condition).
		Build()
	if err != nil {
		return nil, err
	}

	result, err := r.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       idKey(id),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			if _, getErr := r.Get(ctx, id); errors.Is(getErr, ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, ErrInsufficientStock
		}
		return nil, fmt.Errorf("failed to adjust quantity: %w", err)
	}

	var rec productRecord
	if err := attributevalue.UnmarshalMap(result.Attributes, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	return rec.toDomain()
}

func (r *DynamoProductRepository) SetAlertedStatus(ctx context.Context, id string, status domain.StockStatus) error {
	expr, err := expression.NewBuilder().
		WithUpdate(expression.Set(expression.Name("alerted_status"), expression.Value(string(status)))).
		WithCondition(expression.AttributeExists(expression.Name("id")).
			And(expression.Name("kind").Equal(expression.Value(kindProduct)))).
		Build()
	if err != nil {
		return err
	}

	_, err = r.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       idKey(id),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to set alerted status: %w", err)
	}
	return nil
}
