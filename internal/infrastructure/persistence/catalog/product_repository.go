// Package catalog provides read stores for the product catalog
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LumenKind/lumenkind-go/internal/domain/entities/catalog"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/logging"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/persistence/database"
)

// ProductRepository reads product rows from the catalog database
type ProductRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewProductRepository creates a product repository
func NewProductRepository(db *database.DB, logger *logging.ChanneledLogger) *ProductRepository {
	return &ProductRepository{db: db, logger: logger}
}

// EnsureSchema creates the products table if it does not exist
func (r *ProductRepository) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		ingredients TEXT NOT NULL DEFAULT '[]',
		attributes TEXT NOT NULL DEFAULT '[]',
		skin_types TEXT NOT NULL DEFAULT '[]',
		cruelty_free INTEGER NOT NULL DEFAULT 0,
		vegan INTEGER NOT NULL DEFAULT 0
	)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}
	return nil
}

// GetAll returns every product in the catalog
func (r *ProductRepository) GetAll(ctx context.Context) ([]*catalog.Product, error) {
	return r.query(ctx, `SELECT id, name, category, ingredients, attributes, skin_types, cruelty_free, vegan FROM products`)
}

// GetByCategory returns products in one category
func (r *ProductRepository) GetByCategory(ctx context.Context, category string) ([]*catalog.Product, error) {
	return r.query(ctx, `SELECT id, name, category, ingredients, attributes, skin_types, cruelty_free, vegan FROM products WHERE category = ?`, category)
}

func (r *ProductRepository) query(ctx context.Context, query string, args ...any) ([]*catalog.Product, error) {
	start := time.Now()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*catalog.Product
	for rows.Next() {
		var (
			p                                  catalog.Product
			ingredients, attributes, skinTypes string
			crueltyFree, vegan                 int
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &ingredients, &attributes, &skinTypes, &crueltyFree, &vegan); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		p.Ingredients = parseStringList(ingredients)
		p.Attributes = parseStringList(attributes)
		p.SkinTypes = parseStringList(skinTypes)
		p.CrueltyFree = crueltyFree != 0
		p.Vegan = vegan != 0
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate product rows: %w", err)
	}

	if r.logger != nil {
		r.logger.Database().Debug("Products loaded", "count", len(products), "duration", time.Since(start))
	}
	return products, nil
}

// parseStringList tolerates malformed JSON by returning an empty list.
func parseStringList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
