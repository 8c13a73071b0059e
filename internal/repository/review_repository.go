package repository

import (
	"context"
	"database/sql"
	"fmt"

	"shopgate/internal/domain"
)

// ReviewRepository serves the two enriched review reads: the full listing
// joined with a restricted author projection, and the by-content lookup where
// the incoming id is reinterpreted as a contentId foreign key.
type ReviewRepository interface {
	ListWithAuthor(ctx context.Context) ([]domain.Review, error)
	ListByContent(ctx context.Context, contentID int64) ([]domain.Review, error)
}

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new instance of ReviewRepository.
func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// ListWithAuthor returns every review joined with the authoring user's id,
// email, name and avatar only. Sensitive user fields never leave the query.
func (r *reviewRepository) ListWithAuthor(ctx context.Context) ([]domain.Review, error) {
	query := `
		SELECT r.id, r.user_id, r.product_id, r.content_id, r.rating, r.comment, r.created_at,
		       u.id, u.email, u.name, u.avatar_url
		FROM reviews r
		LEFT JOIN users u ON u.id = r.user_id
		ORDER BY r.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		rv, err := scanReviewWithAuthor(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

// ListByContent returns all reviews whose contentId matches. A contentId with
// no reviews yields an empty collection, not an error.
func (r *reviewRepository) ListByContent(ctx context.Context, contentID int64) ([]domain.Review, error) {
	query := `
		SELECT id, user_id, product_id, content_id, rating, comment, created_at
		FROM reviews
		WHERE content_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews by content: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var (
			rv        domain.Review
			userID    sql.NullString
			productID sql.NullString
			cid       sql.NullInt64
			comment   sql.NullString
		)
		if err := rows.Scan(&rv.ID, &userID, &productID, &cid, &rv.Rating, &comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		rv.UserID = userID.String
		rv.ProductID = productID.String
		rv.ContentID = cid.Int64
		rv.Comment = comment.String
		reviews = append(reviews, rv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

func scanReviewWithAuthor(rows *sql.Rows) (domain.Review, error) {
	var (
		rv        domain.Review
		userID    sql.NullString
		productID sql.NullString
		contentID sql.NullInt64
		comment   sql.NullString

		authorID, authorEmail, authorName, authorAvatar sql.NullString
	)

	err := rows.Scan(
		&rv.ID, &userID, &productID, &contentID, &rv.Rating, &comment, &rv.CreatedAt,
		&authorID, &authorEmail, &authorName, &authorAvatar,
	)
	if err != nil {
		return domain.Review{}, fmt.Errorf("failed to scan review: %w", err)
	}

	rv.UserID = userID.String
	rv.ProductID = productID.String
	rv.ContentID = contentID.Int64
	rv.Comment = comment.String

	if authorID.Valid {
		rv.User = &domain.UserProfile{
			ID:        authorID.String,
			Email:     authorEmail.String,
			Name:      authorName.String,
			AvatarURL: authorAvatar.String,
		}
	}

	return rv, nil
}
