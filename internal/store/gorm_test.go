package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"giftlink/backend/db"
	"giftlink/backend/internal/model"
	"giftlink/backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := db.Open(db.SQLite(dsn))
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return gdb
}

func intPtr(i int) *int { return &i }

func TestGormUsers(t *testing.T) {
	ctx := context.Background()
	users := store.NewGormUsers(openTestDB(t))

	u := &model.User{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, users.Create(ctx, u))
	assert.Len(t, u.ID, 16)

	got, err := users.ByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Nil(t, got.UpdatedAt)

	_, err = users.ByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	dup := &model.User{FirstName: "A", LastName: "B", Email: "ada@example.com", PasswordHash: "x", CreatedAt: time.Now()}
	assert.ErrorIs(t, users.Create(ctx, dup), store.ErrDuplicate)

	first := "Augusta"
	require.NoError(t, users.Update(ctx, u.ID, store.UserUpdate{FirstName: &first, UpdatedAt: time.Now()}))

	got, err = users.ByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Augusta", got.FirstName)
	assert.Equal(t, "Lovelace", got.LastName)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.NotNil(t, got.UpdatedAt)

	err = users.Update(ctx, "missing", store.UserUpdate{FirstName: &first, UpdatedAt: time.Now()})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func seedGifts(t *testing.T, gifts store.GiftStore) {
	t.Helper()

	err := gifts.Import(context.Background(), []model.Gift{
		{AppID: "872", Name: "Oak Dining Table", Category: "Living", Condition: "Good", AgeYears: 8},
		{AppID: "873", Name: "Desk Lamp", Category: "Office", Condition: "New", AgeYears: 1},
		{AppID: "874", Name: "Lamp Shade 100%", Category: "Living", Condition: "Like New", AgeYears: 5},
		{AppID: "875", Name: "Bookshelf", Category: "Office", Condition: "Good", AgeYears: 5.5},
	})
	require.NoError(t, err)
}

func TestGormGiftsSearch(t *testing.T) {
	ctx := context.Background()
	gifts := store.NewGormGifts(openTestDB(t))
	seedGifts(t, gifts)

	names := func(gs []model.Gift) []string {
		out := make([]string, len(gs))
		for i, g := range gs {
			out[i] = g.Name
		}
		return out
	}

	tests := []struct {
		name   string
		filter store.GiftFilter
		want   []string
	}{
		{"no filters", store.GiftFilter{}, []string{"Oak Dining Table", "Desk Lamp", "Lamp Shade 100%", "Bookshelf"}},
		{"name is case insensitive", store.GiftFilter{Name: "LAMP"}, []string{"Desk Lamp", "Lamp Shade 100%"}},
		{"wildcards are literal", store.GiftFilter{Name: "%"}, []string{"Lamp Shade 100%"}},
		{"underscore is literal", store.GiftFilter{Name: "_"}, []string{}},
		{"category", store.GiftFilter{Category: "Office"}, []string{"Desk Lamp", "Bookshelf"}},
		{"category is exact", store.GiftFilter{Category: "office"}, []string{}},
		{"condition", store.GiftFilter{Condition: "Good"}, []string{"Oak Dining Table", "Bookshelf"}},
		{"max age", store.GiftFilter{MaxAgeYears: intPtr(5)}, []string{"Desk Lamp", "Lamp Shade 100%"}},
		{"filters combine", store.GiftFilter{Name: "lamp", Category: "Living", MaxAgeYears: intPtr(5)}, []string{"Lamp Shade 100%"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gifts.Search(ctx, tt.filter)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, names(got))
		})
	}
}

func TestGormGiftsSearchFoldsNonASCII(t *testing.T) {
	ctx := context.Background()
	gifts := store.NewGormGifts(openTestDB(t))

	require.NoError(t, gifts.Import(ctx, []model.Gift{
		{Name: "Élan Chair", Category: "Living", Condition: "Good"},
		{Name: "ÜBER Lamp", Category: "Office", Condition: "New"},
	}))

	for _, q := range []string{"élan", "ÉLAN", "Élan"} {
		got, err := gifts.Search(ctx, store.GiftFilter{Name: q})
		require.NoError(t, err)
		if assert.Len(t, got, 1, q) {
			assert.Equal(t, "Élan Chair", got[0].Name)
		}
	}

	got, err := gifts.Search(ctx, store.GiftFilter{Name: "über"})
	require.NoError(t, err)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "ÜBER Lamp", got[0].Name)
	}
}

func TestGormGiftsByID(t *testing.T) {
	ctx := context.Background()
	gifts := store.NewGormGifts(openTestDB(t))
	seedGifts(t, gifts)

	g := &model.Gift{Name: "Chair"}
	require.NoError(t, gifts.Create(ctx, g))
	assert.NotEmpty(t, g.ID)
	assert.NotZero(t, g.DateAdded)

	byNative, err := gifts.ByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chair", byNative.Name)

	byApp, err := gifts.ByID(ctx, "873")
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", byApp.Name)

	_, err = gifts.ByID(ctx, "does-not-exist")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGormGiftsAllAndCount(t *testing.T) {
	ctx := context.Background()
	gifts := store.NewGormGifts(openTestDB(t))

	all, err := gifts.All(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	seedGifts(t, gifts)

	n, err := gifts.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	all, err = gifts.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
