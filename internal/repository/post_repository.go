package repository

import (
	"context"
	"database/sql"
	"fmt"

	"shopgate/internal/domain"
)

// PostRepository serves the enriched post listing with the restricted author
// projection.
type PostRepository interface {
	ListWithAuthor(ctx context.Context) ([]domain.Post, error)
}

type postRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new instance of PostRepository.
func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) ListWithAuthor(ctx context.Context) ([]domain.Post, error) {
	query := `
		SELECT p.id, p.user_id, p.title, p.content, p.image, p.created_at,
		       u.id, u.email, u.name, u.avatar_url
		FROM posts p
		LEFT JOIN users u ON u.id = p.user_id
		ORDER BY p.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		var (
			p       domain.Post
			userID  sql.NullString
			content sql.NullString
			image   sql.NullString

			authorID, authorEmail, authorName, authorAvatar sql.NullString
		)

		err := rows.Scan(
			&p.ID, &userID, &p.Title, &content, &image, &p.CreatedAt,
			&authorID, &authorEmail, &authorName, &authorAvatar,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}

		p.UserID = userID.String
		p.Content = content.String
		p.Image = image.String

		if authorID.Valid {
			p.User = &domain.UserProfile{
				ID:        authorID.String,
				Email:     authorEmail.String,
				Name:      authorName.String,
				AvatarURL: authorAvatar.String,
			}
		}

		posts = append(posts, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}
