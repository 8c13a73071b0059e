package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductRepository exposes the typed product read the gateway needs beyond
// the generic store: batch price lookup for cart pricing.
type ProductRepository interface {
	PricesByIDs(ctx context.Context, ids []string) (map[string]decimal.Decimal, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// PricesByIDs fetches the current catalog price for every distinct product id
// given. Ids with no matching product are simply absent from the result.
func (r *productRepository) PricesByIDs(ctx context.Context, ids []string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(
		"SELECT id, price::text FROM products WHERE id IN (%s)",
		strings.Join(placeholders, ", "),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product prices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    string
			price string
		)
		if err := rows.Scan(&id, &price); err != nil {
			return nil, fmt.Errorf("failed to scan product price: %w", err)
		}

		d, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("invalid price for product %s: %w", id, err)
		}
		prices[id] = d
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product prices: %w", err)
	}

	return prices, nil
}
