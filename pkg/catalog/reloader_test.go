package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeCatalogFile(t *testing.T, path, doc string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
}

func TestReloader_ReplacesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.yml")
	writeCatalogFile(t, path, "- name: first\n  query: SELECT 1")

	initial, err := LoadFile(path)
	require.NoError(t, err)
	store := NewStore(initial)
	r := NewReloader(store, path, time.Minute, zap.NewNop())

	writeCatalogFile(t, path, "- name: first\n  query: SELECT 1\n- name: second\n  query: SELECT 2")
	r.reload()

	require.Equal(t, 2, store.Snapshot().Len())
	_, ok := store.Snapshot().Lookup("second")
	require.True(t, ok)
}

func TestReloader_FailureKeepsPreviousSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.yml")
	writeCatalogFile(t, path, "- name: first\n  query: SELECT 1")

	initial, err := LoadFile(path)
	require.NoError(t, err)
	store := NewStore(initial)
	r := NewReloader(store, path, time.Minute, zap.NewNop())

	writeCatalogFile(t, path, "{{{not yaml")
	r.reload()
	require.Same(t, initial, store.Snapshot(), "a bad reload must retain the previous catalog")

	require.NoError(t, os.Remove(path))
	r.reload()
	require.Same(t, initial, store.Snapshot(), "an unreadable file must retain the previous catalog")
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
}
