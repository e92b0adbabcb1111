// Package repositories defines data access contracts for the engine's
// read-only external collaborators.
package repositories

import (
	"context"

	"github.com/LumenKind/lumenkind-go/internal/domain/entities/catalog"
)

// ProductRepository provides read-only access to the product catalog.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]*catalog.Product, error)
	GetByCategory(ctx context.Context, category string) ([]*catalog.Product, error)
}

// NoteRepository provides read-only access to the note/log store.
type NoteRepository interface {
	GetRecent(ctx context.Context, limit int) ([]*catalog.Note, error)
}
