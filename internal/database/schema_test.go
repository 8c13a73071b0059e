package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var migrationsByTable = map[string]string{
	"users":              "00001_create_users_table.sql",
	"refresh_tokens":     "00002_create_refresh_tokens_table.sql",
	"categories":         "00003_create_categories_table.sql",
	"products":           "00004_create_products_table.sql",
	"carts":              "00005_create_carts_table.sql",
	"cart_items":         "00006_create_cart_items_table.sql",
	"stocks":             "00007_create_stocks_table.sql",
	"reviews":            "00008_create_reviews_table.sql",
	"posts":              "00009_create_posts_table.sql",
	"featured_products":  "00010_create_featured_products_table.sql",
	"coupons":            "00011_create_coupons_table.sql",
	"notifications":      "00012_create_notifications_table.sql",
	"payments":           "00013_create_payments_table.sql",
	"refunds":            "00014_create_refunds_table.sql",
	"shipping_addresses": "00015_create_shipping_addresses_table.sql",
}

func TestMigrationFilesExist(t *testing.T) {
	migrationsDir := "../../migrations"

	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatal("Migrations directory does not exist")
	}

	for table, file := range migrationsByTable {
		path := filepath.Join(migrationsDir, file)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s for table %s does not exist", file, table)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	migrationsDir := "../../migrations"

	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		content, err := os.ReadFile(filepath.Join(migrationsDir, file.Name()))
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", file.Name(), err)
			continue
		}

		contentStr := string(content)

		if !strings.Contains(contentStr, "-- +goose Up") {
			t.Errorf("Migration file %s missing '-- +goose Up' directive", file.Name())
		}
		if !strings.Contains(contentStr, "-- +goose Down") {
			t.Errorf("Migration file %s missing '-- +goose Down' directive", file.Name())
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestMigrationFilesCreateExpectedTables(t *testing.T) {
	migrationsDir := "../../migrations"

	for tableName, migrationFile := range migrationsByTable {
		path := filepath.Join(migrationsDir, migrationFile)
		content, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", migrationFile, err)
			continue
		}

		contentStr := string(content)

		if !strings.Contains(contentStr, "CREATE TABLE IF NOT EXISTS "+tableName) {
			t.Errorf("Migration file %s does not create table %s", migrationFile, tableName)
		}
		if !strings.Contains(contentStr, "DROP TABLE IF EXISTS "+tableName) {
			t.Errorf("Migration file %s does not drop table %s in down section", migrationFile, tableName)
		}
	}
}

func TestTextualIdentifierTables(t *testing.T) {
	migrationsDir := "../../migrations"

	// users, categories and products are addressed by opaque string ids.
	for _, table := range []string{"users", "categories", "products"} {
		content, err := os.ReadFile(filepath.Join(migrationsDir, migrationsByTable[table]))
		if err != nil {
			t.Fatalf("Failed to read %s migration: %v", table, err)
		}
		if !strings.Contains(string(content), "id TEXT PRIMARY KEY") {
			t.Errorf("%s table should have a TEXT primary key", table)
		}
	}
}

func TestCartItemsHaveNoProductForeignKey(t *testing.T) {
	migrationsDir := "../../migrations"

	content, err := os.ReadFile(filepath.Join(migrationsDir, migrationsByTable["cart_items"]))
	if err != nil {
		t.Fatalf("Failed to read cart_items migration: %v", err)
	}

	// Cart lines may reference products that no longer exist; only the cart
	// relation itself is enforced.
	contentStr := string(content)
	if strings.Contains(contentStr, "product_id TEXT NOT NULL REFERENCES") {
		t.Error("cart_items.product_id must not carry a foreign key")
	}
	if !strings.Contains(contentStr, "REFERENCES carts(id)") {
		t.Error("cart_items.cart_id should reference carts")
	}
}

func TestCartsDefaultToPending(t *testing.T) {
	migrationsDir := "../../migrations"

	content, err := os.ReadFile(filepath.Join(migrationsDir, migrationsByTable["carts"]))
	if err != nil {
		t.Fatalf("Failed to read carts migration: %v", err)
	}
	if !strings.Contains(string(content), "DEFAULT 'pending'") {
		t.Error("carts.status should default to pending")
	}
}

func TestProductsDefaults(t *testing.T) {
	migrationsDir := "../../migrations"

	content, err := os.ReadFile(filepath.Join(migrationsDir, migrationsByTable["products"]))
	if err != nil {
		t.Fatalf("Failed to read products migration: %v", err)
	}

	contentStr := string(content)
	if !strings.Contains(contentStr, "DEFAULT 'Unnamed Product'") {
		t.Error("products.name should default to Unnamed Product")
	}
	if !strings.Contains(contentStr, "images JSONB NOT NULL DEFAULT '[]'") {
		t.Error("products.images should be JSONB defaulting to an empty list")
	}
	if strings.Contains(contentStr, "FOREIGN KEY (category_id)") || strings.Contains(contentStr, "category_id TEXT REFERENCES") {
		t.Error("products.category_id must not carry a foreign key")
	}
}
