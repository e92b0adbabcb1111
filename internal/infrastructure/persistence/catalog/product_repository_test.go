package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LumenKind/lumenkind-go/internal/infrastructure/persistence/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.NewConnection("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestProductQueryAndDefaults(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	repo := NewProductRepository(db, nil)
	require.NoError(t, repo.EnsureSchema(ctx))

	_, err := db.ExecContext(ctx,
		`INSERT INTO products (id, name, category, ingredients, attributes, skin_types, cruelty_free, vegan)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		"p1", "Clarifying Serum", "serum", `["salicylic acid"]`, `["fragrance-free"]`, `["oily"]`, 1, 0)
	require.NoError(t, err)

	// Malformed list payloads degrade to empty, not errors.
	_, err = db.ExecContext(ctx,
		`INSERT INTO products (id, name, ingredients) VALUES (?, ?, ?)`,
		"p2", "Mystery Cream", `{broken`)
	require.NoError(t, err)

	products, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)

	byID := map[string]int{products[0].ID: 0, products[1].ID: 1}
	serum := products[byID["p1"]]
	assert.Equal(t, []string{"salicylic acid"}, serum.Ingredients)
	assert.True(t, serum.CrueltyFree)
	assert.False(t, serum.Vegan)

	mystery := products[byID["p2"]]
	assert.Empty(t, mystery.Ingredients)

	serums, err := repo.GetByCategory(ctx, "serum")
	require.NoError(t, err)
	require.Len(t, serums, 1)
	assert.Equal(t, "p1", serums[0].ID)
}

func TestNotesNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	repo := NewNoteRepository(db, nil)
	require.NoError(t, repo.EnsureSchema(ctx))

	base := time.Now().UTC()
	for i, id := range []string{"old", "mid", "new"} {
		_, err := db.ExecContext(ctx,
			`INSERT INTO notes (id, kind, body, created_at) VALUES (?, ?, ?, ?)`,
			id, "tip", "body "+id, base.Add(time.Duration(i)*time.Minute).UnixMilli())
		require.NoError(t, err)
	}

	notes, err := repo.GetRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "new", notes[0].ID)
	assert.Equal(t, "mid", notes[1].ID)
}
