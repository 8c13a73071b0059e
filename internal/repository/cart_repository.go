package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopgate/internal/domain"

	"github.com/shopspring/decimal"
)

// CartRepository persists carts together with their owned items.
type CartRepository interface {
	CreateWithItems(ctx context.Context, userID string, total decimal.Decimal, status string, items []domain.CartItemInput) (*domain.Cart, error)
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository.
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

// CreateWithItems inserts a cart and its items in a single transaction. The
// item set persisted is exactly the set passed in; an empty set yields a cart
// with no items.
func (r *cartRepository) CreateWithItems(ctx context.Context, userID string, total decimal.Decimal, status string, items []domain.CartItemInput) (_ *domain.Cart, txErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rbErr))
			}
		}
	}()

	cart := &domain.Cart{
		UserID:   userID,
		Status:   status,
		Products: []domain.CartItem{},
	}

	err = tx.QueryRowContext(
		ctx,
		`INSERT INTO carts (user_id, status, total) VALUES ($1, $2, $3) RETURNING id, created_at`,
		userID,
		status,
		total,
	).Scan(&cart.ID, &cart.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	cart.Total = total.InexactFloat64()

	for _, item := range items {
		ci := domain.CartItem{
			CartID:    cart.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}

		err = tx.QueryRowContext(
			ctx,
			`INSERT INTO cart_items (cart_id, product_id, quantity) VALUES ($1, $2, $3) RETURNING id`,
			ci.CartID,
			ci.ProductID,
			ci.Quantity,
		).Scan(&ci.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create cart item: %w", err)
		}

		cart.Products = append(cart.Products, ci)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cart: %w", err)
	}

	return cart, nil
}
