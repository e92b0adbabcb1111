// Package session provides durable storage for session records
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LumenKind/lumenkind-go/internal/domain/entities/session"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/persistence/database"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/logging"
)

// BlobRepository persists session records as JSON blobs keyed by
// session ID. Corrupt or expired blobs read as absent.
type BlobRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewBlobRepository creates a session blob repository
func NewBlobRepository(db *database.DB, logger *logging.ChanneledLogger) *BlobRepository {
	return &BlobRepository{db: db, logger: logger}
}

// EnsureSchema creates the session_blobs table if it does not exist
func (r *BlobRepository) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS session_blobs (
		session_id TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create session_blobs table: %w", err)
	}
	return nil
}

// Load reads a session record by session ID. Returns (nil, false) when
// the row is absent, the payload fails to parse, or the record is past
// its expiry window. Expired rows are deleted on read.
func (r *BlobRepository) Load(ctx context.Context, sessionID string) (*session.Record, bool, error) {
	start := time.Now()

	var payload string
	query := `SELECT payload FROM session_blobs WHERE session_id = ?`
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load session blob: %w", err)
	}

	var record session.Record
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		if r.logger != nil {
			r.logger.Database().Warn("Discarding corrupt session blob", "sessionId", logging.SanitizeSessionID(sessionID), "error", err.Error())
		}
		_ = r.deleteRow(ctx, sessionID)
		return nil, false, nil
	}

	if record.Expired(time.Now().UTC()) {
		if r.logger != nil {
			r.logger.Database().Debug("Discarding expired session blob", "sessionId", logging.SanitizeSessionID(sessionID))
		}
		_ = r.deleteRow(ctx, sessionID)
		return nil, false, nil
	}

	if r.logger != nil {
		r.logger.Database().Debug("Session blob loaded", "sessionId", logging.SanitizeSessionID(sessionID), "duration", time.Since(start))
	}
	return &record, true, nil
}

// Save upserts a session record blob
func (r *BlobRepository) Save(ctx context.Context, sessionID string, record *session.Record) error {
	start := time.Now()

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}

	query := `INSERT INTO session_blobs (session_id, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, sessionID, string(payload), time.Now().UTC().UnixMilli()); err != nil {
		return fmt.Errorf("failed to save session blob: %w", err)
	}

	if r.logger != nil {
		r.logger.Database().Debug("Session blob saved", "sessionId", logging.SanitizeSessionID(sessionID), "bytes", len(payload), "duration", time.Since(start))
	}
	return nil
}

// Delete removes a session record blob
func (r *BlobRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.deleteRow(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session blob: %w", err)
	}
	return nil
}

func (r *BlobRepository) deleteRow(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session_blobs WHERE session_id = ?`, sessionID)
	return err
}
