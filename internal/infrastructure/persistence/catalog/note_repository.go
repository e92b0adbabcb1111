package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/LumenKind/lumenkind-go/internal/domain/entities/catalog"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/logging"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/persistence/database"
)

// NoteRepository reads editorial notes (ingredient spotlights, routine
// tips) from the catalog database
type NoteRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewNoteRepository creates a note repository
func NewNoteRepository(db *database.DB, logger *logging.ChanneledLogger) *NoteRepository {
	return &NoteRepository{db: db, logger: logger}
}

// EnsureSchema creates the notes table if it does not exist
func (r *NoteRepository) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create notes table: %w", err)
	}
	return nil
}

// GetRecent returns the newest notes, most recent first
func (r *NoteRepository) GetRecent(ctx context.Context, limit int) ([]*catalog.Note, error) {
	start := time.Now()

	rows, err := r.db.QueryContext(ctx, `SELECT id, kind, body, created_at FROM notes ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []*catalog.Note
	for rows.Next() {
		var (
			n         catalog.Note
			createdAt int64
		)
		if err := rows.Scan(&n.ID, &n.Kind, &n.Body, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan note row: %w", err)
		}
		n.CreatedAt = time.UnixMilli(createdAt).UTC()
		notes = append(notes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate note rows: %w", err)
	}

	if r.logger != nil {
		r.logger.Database().Debug("Notes loaded", "count", len(notes), "duration", time.Since(start))
	}
	return notes, nil
}
