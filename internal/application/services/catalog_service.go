package services

import (
	"context"

	"github.com/LumenKind/lumenkind-go/internal/domain/entities/catalog"
	"github.com/LumenKind/lumenkind-go/internal/domain/repositories"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/logging"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/performance"
)

// defaultNoteLimit bounds the notes endpoint when no limit is given.
const defaultNoteLimit = 25

// CatalogService reads products and editorial notes from the local
// read store. The engine never mutates catalog data.
type CatalogService struct {
	products    repositories.ProductRepository
	notes       repositories.NoteRepository
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewCatalogService creates a new catalog read service
func NewCatalogService(products repositories.ProductRepository, notes repositories.NoteRepository, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *CatalogService {
	return &CatalogService{
		products:    products,
		notes:       notes,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// CatalogResult holds the result of catalog read operations
type CatalogResult struct {
	Products []*catalog.Product `json:"products,omitempty"`
	Notes    []*catalog.Note    `json:"notes,omitempty"`
	Success  bool               `json:"success"`
	Error    string             `json:"error,omitempty"`
}

// GetProducts returns catalog products, optionally filtered by category.
func (s *CatalogService) GetProducts(ctx context.Context, category string) *CatalogResult {
	marker := s.perfTracker.StartOperation("catalog_get_products", "")
	defer marker.Complete()

	var (
		products []*catalog.Product
		err      error
	)
	if category != "" {
		products, err = s.products.GetByCategory(ctx, category)
	} else {
		products, err = s.products.GetAll(ctx)
	}
	if err != nil {
		marker.SetError(err)
		if s.logger != nil {
			s.logger.Database().Error("Failed to load products", "category", category, "error", err.Error())
		}
		return &CatalogResult{Success: false, Error: "failed to load products"}
	}

	if products == nil {
		products = make([]*catalog.Product, 0)
	}
	marker.SetSuccess(true)
	return &CatalogResult{Products: products, Success: true}
}

// GetNotes returns the most recent editorial notes.
func (s *CatalogService) GetNotes(ctx context.Context, limit int) *CatalogResult {
	marker := s.perfTracker.StartOperation("catalog_get_notes", "")
	defer marker.Complete()

	if limit <= 0 {
		limit = defaultNoteLimit
	}

	notes, err := s.notes.GetRecent(ctx, limit)
	if err != nil {
		marker.SetError(err)
		if s.logger != nil {
			s.logger.Database().Error("Failed to load notes", "error", err.Error())
		}
		return &CatalogResult{Success: false, Error: "failed to load notes"}
	}

	if notes == nil {
		notes = make([]*catalog.Note, 0)
	}
	marker.SetSuccess(true)
	return &CatalogResult{Notes: notes, Success: true}
}
