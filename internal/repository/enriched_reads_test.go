package repository

import (
	"context"
	"testing"
)

func seedEnrichedFixture(t *testing.T) {
	t.Helper()

	stmts := []string{
		`INSERT INTO users (id, email, name, password, avatar_url)
		 VALUES ('author-1', 'author@example.com', 'Avery', 'secret-hash', 'https://cdn.test/avery.png')`,
		`INSERT INTO categories (id, name, description) VALUES ('cat-1', 'Drinks', 'cold ones')`,
		`INSERT INTO products (id, name, description, price, category_id, images)
		 VALUES ('feat-p1', 'Cola', 'fizzy', 2.50, 'cat-1', '["https://cdn.test/cola.png"]')`,
		`INSERT INTO products (id, name, price) VALUES ('feat-p2', 'Mystery', 9.99)`,
		`INSERT INTO stocks (product_id, quantity) VALUES ('feat-p1', 12)`,
		`INSERT INTO featured_products (product_id, position) VALUES ('feat-p1', 1), ('feat-p2', 2)`,
		`INSERT INTO reviews (user_id, product_id, content_id, rating, comment)
		 VALUES ('author-1', 'feat-p1', 77, 5, 'lovely'),
		        ('author-1', 'feat-p1', 78, 4, 'fine'),
		        (NULL, 'feat-p2', 77, 2, NULL)`,
		`INSERT INTO posts (user_id, title, content) VALUES ('author-1', 'Hello', 'first post')`,
		`INSERT INTO posts (title, content) VALUES ('Anonymous', 'no author')`,
	}

	for _, stmt := range stmts {
		if _, err := testDB.Exec(stmt); err != nil {
			t.Fatalf("could not seed fixture: %v", err)
		}
	}

	t.Cleanup(func() {
		for _, stmt := range []string{
			"DELETE FROM posts",
			"DELETE FROM reviews",
			"DELETE FROM featured_products",
			"DELETE FROM stocks WHERE product_id LIKE 'feat-%'",
			"DELETE FROM products WHERE id LIKE 'feat-%'",
			"DELETE FROM categories WHERE id = 'cat-1'",
			"DELETE FROM users WHERE id = 'author-1'",
		} {
			_, _ = testDB.Exec(stmt)
		}
	})
}

func TestFeaturedRepository_ListWithProduct(t *testing.T) {
	seedEnrichedFixture(t)

	repo := NewFeaturedProductRepository(testDB)
	featured, err := repo.ListWithProduct(context.Background())
	if err != nil {
		t.Fatalf("ListWithProduct returned error: %v", err)
	}

	if len(featured) != 2 {
		t.Fatalf("got %d featured products, want 2", len(featured))
	}

	first := featured[0]
	if first.ProductID != "feat-p1" {
		t.Fatalf("first featured product = %s, want feat-p1 (position order)", first.ProductID)
	}
	if first.Product == nil {
		t.Fatal("featured product missing its product")
	}
	if first.Product.Name != "Cola" || first.Product.Price != 2.5 {
		t.Errorf("product = %+v", first.Product)
	}
	if len(first.Product.Images) != 1 || first.Product.Images[0] != "https://cdn.test/cola.png" {
		t.Errorf("images = %v", first.Product.Images)
	}
	if first.Product.Category == nil || first.Product.Category.Name != "Drinks" {
		t.Errorf("category = %+v", first.Product.Category)
	}
	if first.Product.Stock == nil || first.Product.Stock.Quantity != 12 {
		t.Errorf("stock = %+v", first.Product.Stock)
	}
	if len(first.Product.Reviews) != 2 {
		t.Errorf("got %d reviews, want 2", len(first.Product.Reviews))
	}

	// The second product has no category and no stock but still lists, with
	// its single anonymous review attached.
	second := featured[1]
	if second.Product == nil {
		t.Fatal("second featured product missing its product")
	}
	if second.Product.Category != nil {
		t.Errorf("category = %+v, want nil", second.Product.Category)
	}
	if second.Product.Stock != nil {
		t.Errorf("stock = %+v, want nil", second.Product.Stock)
	}
	if len(second.Product.Reviews) != 1 {
		t.Errorf("got %d reviews, want 1", len(second.Product.Reviews))
	}
	if len(second.Product.Images) != 0 {
		t.Errorf("images = %v, want empty list", second.Product.Images)
	}
}

func TestReviewRepository_ListWithAuthor(t *testing.T) {
	seedEnrichedFixture(t)

	repo := NewReviewRepository(testDB)
	reviews, err := repo.ListWithAuthor(context.Background())
	if err != nil {
		t.Fatalf("ListWithAuthor returned error: %v", err)
	}

	if len(reviews) != 3 {
		t.Fatalf("got %d reviews, want 3", len(reviews))
	}

	withAuthor := 0
	for _, rv := range reviews {
		if rv.User == nil {
			continue
		}
		withAuthor++
		if rv.User.ID != "author-1" || rv.User.Email != "author@example.com" {
			t.Errorf("author = %+v", rv.User)
		}
		if rv.User.AvatarURL != "https://cdn.test/avery.png" {
			t.Errorf("avatar = %q", rv.User.AvatarURL)
		}
	}
	if withAuthor != 2 {
		t.Errorf("got %d authored reviews, want 2", withAuthor)
	}
}

func TestReviewRepository_ListByContent(t *testing.T) {
	seedEnrichedFixture(t)

	repo := NewReviewRepository(testDB)
	ctx := context.Background()

	reviews, err := repo.ListByContent(ctx, 77)
	if err != nil {
		t.Fatalf("ListByContent returned error: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("got %d reviews for content 77, want 2", len(reviews))
	}
	for _, rv := range reviews {
		if rv.ContentID != 77 {
			t.Errorf("review %d has contentId %d", rv.ID, rv.ContentID)
		}
	}

	none, err := repo.ListByContent(ctx, 999)
	if err != nil {
		t.Fatalf("ListByContent(999) returned error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("got %d reviews for unknown content, want 0", len(none))
	}
}

func TestPostRepository_ListWithAuthor(t *testing.T) {
	seedEnrichedFixture(t)

	repo := NewPostRepository(testDB)
	posts, err := repo.ListWithAuthor(context.Background())
	if err != nil {
		t.Fatalf("ListWithAuthor returned error: %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts))
	}

	if posts[0].User == nil {
		t.Fatal("first post missing its author projection")
	}
	if posts[0].User.Name != "Avery" {
		t.Errorf("author name = %q, want Avery", posts[0].User.Name)
	}
	if posts[1].User != nil {
		t.Errorf("anonymous post carries author %+v", posts[1].User)
	}
}
