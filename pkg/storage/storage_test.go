package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	local, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	stores := map[string]Store{
		"local":  local,
		"memory": NewMemoryStore(),
	}

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save("abc/invoice.pdf", []byte("%PDF-1.3")))
			assert.True(t, s.Exists("abc/invoice.pdf"))
			assert.False(t, s.Exists("abc/qr.png"))

			rc, size, err := s.Open("abc/invoice.pdf")
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, "%PDF-1.3", string(data))
			assert.Equal(t, int64(8), size)

			_, _, err = s.Open("abc/qr.png")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.Error(t, s.Save("../escape.pdf", []byte("x")))
			assert.False(t, s.Exists("../abc/invoice.pdf"))
		})
	}
}

func TestCleanKey(t *testing.T) {
	k, err := CleanKey("id/invoice.pdf")
	require.NoError(t, err)
	assert.Equal(t, "id/invoice.pdf", k)

	for _, bad := range []string{"", "..", "../x", "a/../../x", "a/./b", "a//b"} {
		_, err := CleanKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewStoreFromConfig(t *testing.T) {
	s, err := NewStoreFromConfig("memory", "")
	require.NoError(t, err)
	assert.NotNil(t, s)

	_, err = NewStoreFromConfig("local", "")
	assert.Error(t, err)

	_, err = NewStoreFromConfig("s3", "bucket")
	assert.Error(t, err)
}

func TestPrune(t *testing.T) {
	root := t.TempDir()
	local, err := NewLocalStore(root)
	require.NoError(t, err)

	stores := map[string]Store{
		"local":  local,
		"memory": NewMemoryStore(),
	}

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save("old/invoice.pdf", []byte("%PDF-1.3")))
			require.NoError(t, s.Save("old/qr.png", []byte("png")))

			removed, err := s.Prune(time.Now().Add(-time.Hour))
			require.NoError(t, err)
			assert.Zero(t, removed)
			assert.True(t, s.Exists("old/invoice.pdf"))

			removed, err = s.Prune(time.Now().Add(time.Hour))
			require.NoError(t, err)
			assert.Equal(t, 2, removed)
			assert.False(t, s.Exists("old/invoice.pdf"))
			assert.False(t, s.Exists("old/qr.png"))
		})
	}

	_, err = os.Stat(filepath.Join(root, "old"))
	assert.True(t, os.IsNotExist(err), "emptied export directory should be removed")
}

func TestLocalPruneKeepsFreshFiles(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root)
	require.NoError(t, err)

	require.NoError(t, s.Save("stale/invoice.pdf", []byte("old")))
	require.NoError(t, s.Save("fresh/invoice.pdf", []byte("new")))

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(root, "stale", "invoice.pdf"), past, past))
	require.NoError(t, os.Chtimes(filepath.Join(root, "stale"), past, past))

	removed, err := s.Prune(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.False(t, s.Exists("stale/invoice.pdf"))
	assert.True(t, s.Exists("fresh/invoice.pdf"))
}
