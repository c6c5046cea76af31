package restaurant

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileRepositoryMissingFileIsEmpty(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "restaurants.json"))

	data, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFileRepositoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileRepository(filepath.Join(dir, "nested", "restaurants.json"))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []byte(`{"r1":{"id":"r1"}}`)))
	data, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"r1":{"id":"r1"}}`, string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestStoreOverFilesWritesDatedBackup(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileRepository(filepath.Join(dir, "restaurants.json"))
	s, err := NewStore(context.Background(), repo, zap.NewNop(),
		WithBackups(NewFileBackup(filepath.Join(dir, "backups"))),
	)
	require.NoError(t, err)

	_, err = s.Upsert(context.Background(), "r1", mustPatch(t, `{"name":"Luigi's"}`))
	require.NoError(t, err)

	backups, err := filepath.Glob(filepath.Join(dir, "backups", "restaurants-*.json"))
	require.NoError(t, err)
	require.Len(t, backups, 1)

	saved, err := os.ReadFile(filepath.Join(dir, "restaurants.json"))
	require.NoError(t, err)
	backup, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.Equal(t, saved, backup)
}

func TestStoreLoadsLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restaurants.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"r1","name":"Luigi's"},{"name":"orphan"}]`), 0o644))

	s, err := NewStore(context.Background(), NewFileRepository(path), zap.NewNop())
	require.NoError(t, err)

	assert.Len(t, s.List(), 1)
	rec, ok := s.Get("r1")
	require.True(t, ok)
	assert.Equal(t, "Luigi's", rec.Name)
}
