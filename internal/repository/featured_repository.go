package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"shopgate/internal/domain"
)

// FeaturedProductRepository serves the enriched featuredProduct listing: each
// entry joined with its product, which is itself joined with category, stock
// and reviews.
type FeaturedProductRepository interface {
	ListWithProduct(ctx context.Context) ([]domain.FeaturedProduct, error)
}

type featuredProductRepository struct {
	db *sql.DB
}

// NewFeaturedProductRepository creates a new instance of FeaturedProductRepository.
func NewFeaturedProductRepository(db *sql.DB) FeaturedProductRepository {
	return &featuredProductRepository{db: db}
}

func (r *featuredProductRepository) ListWithProduct(ctx context.Context) ([]domain.FeaturedProduct, error) {
	query := `
		SELECT f.id, f.product_id, f.position,
		       p.id, p.name, p.description, p.price, p.category_id, p.images, p.created_at, p.updated_at,
		       c.id, c.name, c.description, c.image, c.created_at,
		       s.id, s.product_id, s.quantity, s.updated_at
		FROM featured_products f
		JOIN products p ON p.id = f.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		LEFT JOIN stocks s ON s.product_id = p.id
		ORDER BY f.position, f.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}
	defer rows.Close()

	featured := []domain.FeaturedProduct{}
	for rows.Next() {
		var (
			f          domain.FeaturedProduct
			p          domain.Product
			categoryID sql.NullString
			rawImages  []byte

			catID, catName, catDescription, catImage sql.NullString
			catCreatedAt                             sql.NullTime

			stockID        sql.NullInt64
			stockProductID sql.NullString
			stockQuantity  sql.NullInt64
			stockUpdatedAt sql.NullTime
		)

		err := rows.Scan(
			&f.ID, &f.ProductID, &f.Position,
			&p.ID, &p.Name, &p.Description, &p.Price, &categoryID, &rawImages, &p.CreatedAt, &p.UpdatedAt,
			&catID, &catName, &catDescription, &catImage, &catCreatedAt,
			&stockID, &stockProductID, &stockQuantity, &stockUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan featured product: %w", err)
		}

		p.CategoryID = categoryID.String
		p.Images = []string{}
		if len(rawImages) > 0 {
			if err := json.Unmarshal(rawImages, &p.Images); err != nil {
				return nil, fmt.Errorf("invalid images for product %s: %w", p.ID, err)
			}
		}
		p.Reviews = []domain.Review{}

		if catID.Valid {
			p.Category = &domain.Category{
				ID:          catID.String,
				Name:        catName.String,
				Description: catDescription.String,
				Image:       catImage.String,
				CreatedAt:   catCreatedAt.Time,
			}
		}

		if stockID.Valid {
			p.Stock = &domain.Stock{
				ID:        stockID.Int64,
				ProductID: stockProductID.String,
				Quantity:  int(stockQuantity.Int64),
				UpdatedAt: stockUpdatedAt.Time,
			}
		}

		f.Product = &p
		featured = append(featured, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating featured products: %w", err)
	}

	if err := r.attachReviews(ctx, featured); err != nil {
		return nil, err
	}

	return featured, nil
}

// attachReviews loads the reviews for every featured product in one query and
// distributes them; products with no reviews keep an empty list.
func (r *featuredProductRepository) attachReviews(ctx context.Context, featured []domain.FeaturedProduct) error {
	if len(featured) == 0 {
		return nil
	}

	placeholders := make([]string, len(featured))
	args := make([]any, len(featured))
	for i, f := range featured {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = f.ProductID
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, product_id, content_id, rating, comment, created_at
		FROM reviews
		WHERE product_id IN (%s)
		ORDER BY id
	`, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to fetch reviews for featured products: %w", err)
	}
	defer rows.Close()

	byProduct := map[string][]domain.Review{}
	for rows.Next() {
		var (
			rv        domain.Review
			userID    sql.NullString
			productID sql.NullString
			contentID sql.NullInt64
			comment   sql.NullString
		)
		if err := rows.Scan(&rv.ID, &userID, &productID, &contentID, &rv.Rating, &comment, &rv.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan review: %w", err)
		}
		rv.UserID = userID.String
		rv.ProductID = productID.String
		rv.ContentID = contentID.Int64
		rv.Comment = comment.String
		byProduct[rv.ProductID] = append(byProduct[rv.ProductID], rv)
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating reviews: %w", err)
	}

	for i := range featured {
		if reviews, ok := byProduct[featured[i].ProductID]; ok {
			featured[i].Product.Reviews = reviews
		}
	}

	return nil
}
