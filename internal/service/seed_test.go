package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"giftlink/backend/db"
	"giftlink/backend/internal/service"
	"giftlink/backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedJSON = `[
	{"id": "872", "name": "Oak Dining Table", "category": "Living", "condition": "Good", "age_days": 2920, "age_years": 8, "date_added": 1711258625},
	{"id": "873", "name": "Desk Lamp", "category": "Office", "condition": "New", "age_days": 365, "age_years": 1},
	{"id": "874", "category": "Office"}
]`

func TestSeedGifts(t *testing.T) {
	ctx := context.Background()

	gdb, err := db.Open(db.SQLite("file:" + t.Name() + "?mode=memory&cache=shared"))
	require.NoError(t, err)
	gifts := store.NewGormGifts(gdb)

	path := filepath.Join(t.TempDir(), "gifts.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0o600))

	n, err := service.SeedGifts(ctx, gifts, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	g, err := gifts.ByID(ctx, "872")
	require.NoError(t, err)
	assert.Equal(t, "Oak Dining Table", g.Name)
	assert.EqualValues(t, 1711258625, g.DateAdded)

	g, err = gifts.ByID(ctx, "873")
	require.NoError(t, err)
	assert.NotZero(t, g.DateAdded)

	// A second run leaves the collection alone
	n, err = service.SeedGifts(ctx, gifts, path)
	require.NoError(t, err)
	assert.Zero(t, n)

	total, err := gifts.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	// The file isn't even read once gifts exist
	_, err = service.SeedGifts(ctx, gifts, filepath.Join(t.TempDir(), "missing.json"))
	assert.NoError(t, err)
}
