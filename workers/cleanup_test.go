package workers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosuvorov/WallPay/models"
	"github.com/kosuvorov/WallPay/storage"
)

func writeBlob(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644))
}

func TestSweepRemovesOnlyOrphans(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &models.Wallpaper{ID: "w1", Filename: "kept.jpg"}))
	writeBlob(t, dir, "kept.jpg")
	writeBlob(t, dir, "orphan.jpg")

	sweeper := NewOrphanSweeper(store, dir, 0)
	removed, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(filepath.Join(dir, "kept.jpg"))
	assert.NoError(t, err, "referenced blob stays")
	_, err = os.Stat(filepath.Join(dir, "orphan.jpg"))
	assert.True(t, os.IsNotExist(err), "orphan is gone")
}

func TestSweepLeavesRecentFiles(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewMemoryStore()

	// A fresh file may be an upload whose catalog row is not committed yet.
	writeBlob(t, dir, "in-flight.jpg")

	sweeper := NewOrphanSweeper(store, dir, time.Hour)
	removed, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	_, err = os.Stat(filepath.Join(dir, "in-flight.jpg"))
	assert.NoError(t, err)
}

func TestSweepEmptyCatalogRemovesAgedFiles(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewMemoryStore()

	writeBlob(t, dir, "stale-1.jpg")
	writeBlob(t, dir, "stale-2.jpg")

	sweeper := NewOrphanSweeper(store, dir, 0)
	removed, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
}
