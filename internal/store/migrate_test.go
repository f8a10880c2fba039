package store

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ryokou/internal/itinerary"
	rtestutil "github.com/roach88/ryokou/internal/testutil"
)

func TestMigrateInlineImages_WritesFilesAndClearsColumn(t *testing.T) {
	env := createTestStore(t)
	ctx := context.Background()

	insertLegacyItem(t, env.store, "legacy-1", day1, rtestutil.JPEGBytes(t, 10, 10))
	insertLegacyItem(t, env.store, "legacy-2", day1, rtestutil.PNGBytes(t, 6, 6))

	report, err := env.store.MigrateInlineImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, MigrationReport{Scanned: 2, Written: 2}, report)

	for _, id := range []string{"legacy-1", "legacy-2"} {
		assert.True(t, env.images.Exists(id), id)
		inline, err := env.store.InlinePhoto(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, inline, id)

		got, err := env.store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, itinerary.PhotoFile, got.Photo.Kind())
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.ImagesMigrated))
}

func TestMigrateInlineImages_Idempotent(t *testing.T) {
	env := createTestStore(t)
	ctx := context.Background()

	insertLegacyItem(t, env.store, "legacy", day1, rtestutil.JPEGBytes(t, 10, 10))

	_, err := env.store.MigrateInlineImages(ctx)
	require.NoError(t, err)
	first, err := env.images.Load("legacy")
	require.NoError(t, err)
	itemsAfterFirst, err := env.store.FetchAll(ctx)
	require.NoError(t, err)

	report, err := env.store.MigrateInlineImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, MigrationReport{}, report)

	second, err := env.images.Load("legacy")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, env.images.saveCount("legacy"), "second pass must not rewrite the file")

	itemsAfterSecond, err := env.store.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, itemsAfterFirst, itemsAfterSecond)
}

func TestMigrateInlineImages_ExistingFileIsKept(t *testing.T) {
	env := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, env.images.Store.Save("legacy", rtestutil.JPEGBytes(t, 30, 20)))
	before, err := env.images.Load("legacy")
	require.NoError(t, err)
	insertLegacyItem(t, env.store, "legacy", day1, rtestutil.JPEGBytes(t, 5, 5))

	report, err := env.store.MigrateInlineImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, MigrationReport{Scanned: 1, AlreadyPresent: 1}, report)

	after, err := env.images.Load("legacy")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Zero(t, env.images.saveCount("legacy"))

	inline, err := env.store.InlinePhoto(ctx, "legacy")
	require.NoError(t, err)
	assert.Empty(t, inline)
}

func TestMigrateInlineImages_FailedWriteKeepsInlineData(t *testing.T) {
	env := createTestStore(t)
	ctx := context.Background()

	insertLegacyItem(t, env.store, "good", day1, rtestutil.JPEGBytes(t, 4, 4))
	insertLegacyItem(t, env.store, "corrupt", day1, []byte("not an image"))

	report, err := env.store.MigrateInlineImages(ctx)
	require.Error(t, err)
	assert.Equal(t, MigrationReport{Scanned: 2, Written: 1, Failed: 1}, report)

	inline, err := env.store.InlinePhoto(ctx, "corrupt")
	require.NoError(t, err)
	assert.Equal(t, []byte("not an image"), inline)
	assert.False(t, env.images.Exists("corrupt"))
	assert.True(t, env.images.Exists("good"))

	got, err := env.store.Get(ctx, "corrupt")
	require.NoError(t, err)
	assert.Equal(t, itinerary.PhotoInline, got.Photo.Kind())
}

func TestMigrateInlineImages_EmptyBlobIsCleared(t *testing.T) {
	env := createTestStore(t)
	ctx := context.Background()

	insertLegacyItem(t, env.store, "empty", day1, []byte{})

	report, err := env.store.MigrateInlineImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, MigrationReport{Scanned: 1}, report)

	var isNull bool
	require.NoError(t, env.store.db.QueryRow(`SELECT photo_data IS NULL FROM itinerary_items WHERE id = 'empty'`).Scan(&isNull))
	assert.True(t, isNull)
	assert.False(t, env.images.Exists("empty"))
}

func TestMigrateInlineImages_NothingToDo(t *testing.T) {
	env := createTestStore(t)

	report, err := env.store.MigrateInlineImages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MigrationReport{}, report)
}
