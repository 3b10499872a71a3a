package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Ivanfun/ivan-excel-type-checker/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *OutputStore {
	t.Helper()
	store, err := NewOutputStore(filepath.Join(t.TempDir(), "out"), true)
	require.NoError(t, err)
	return store
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestPublishAndResolve(t *testing.T) {
	store := newStore(t)
	src := writeTemp(t, "workbook bytes")

	name, err := store.Publish(src, "result_data.xlsx")
	require.NoError(t, err)
	assert.True(t, len(name) > len("result_data.xlsx"), "published name should carry a uniqueness token")
	assert.Equal(t, ".xlsx", filepath.Ext(name))

	path, err := store.Resolve(name)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "workbook bytes", string(data))
}

func TestPublishSameFilenameNoCollision(t *testing.T) {
	store := newStore(t)
	src := writeTemp(t, "x")

	first, err := store.Publish(src, "result_data.xlsx")
	require.NoError(t, err)
	second, err := store.Publish(src, "result_data.xlsx")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestResolveRejectsTraversal(t *testing.T) {
	store := newStore(t)

	for _, name := range []string{"../secret", "a/b.xlsx", "", "..", "/etc/passwd"} {
		_, err := store.Resolve(name)
		require.Error(t, err, "name %q must not resolve", name)
	}
}

func TestResolveMissingFile(t *testing.T) {
	store := newStore(t)

	_, err := store.Resolve("result_absent.xlsx")
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestNewOutputStoreClearsStaleFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.MkdirAll(dir, 0755))
	stale := filepath.Join(dir, "result_old.xlsx")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	_, err := NewOutputStore(dir, true)
	require.NoError(t, err)
	_, statErr := os.Stat(stale)
	assert.True(t, os.IsNotExist(statErr))
}

func TestScopedDirLifecycle(t *testing.T) {
	dir, err := NewScopedDir()
	require.NoError(t, err)

	inside := dir.Join("upload.xlsx")
	assert.Equal(t, dir.Path(), filepath.Dir(inside))
	require.NoError(t, os.WriteFile(inside, []byte("data"), 0644))

	require.NoError(t, dir.Release())
	_, statErr := os.Stat(dir.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestScopedDirJoinStripsPath(t *testing.T) {
	dir, err := NewScopedDir()
	require.NoError(t, err)
	defer dir.Release()

	assert.Equal(t, filepath.Join(dir.Path(), "evil.xlsx"), dir.Join("../../evil.xlsx"))
}
