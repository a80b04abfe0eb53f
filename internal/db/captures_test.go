package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *CaptureStore {
	t.Helper()
	store, err := NewCaptureStore(filepath.Join(t.TempDir(), "nested", "captures.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddAndGet(t *testing.T) {
	store := newTestStore(t)

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c, err := store.Add(Capture{
		Direction: "client",
		Label:     "login",
		Frame:     []byte{0x53, 0x05, 0x00},
		Path:      []string{"UserMessage", "Client", "LoadStaticZone"},
		CreatedAt: created,
	})
	require.NoError(t, err)
	assert.NotZero(t, c.ID)

	got, err := store.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestAddSetsTimestamp(t *testing.T) {
	store := newTestStore(t)
	c, err := store.Add(Capture{Direction: "server", Frame: []byte{19}})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), c.CreatedAt, time.Minute)
}

func TestDecodeErrorIsKept(t *testing.T) {
	store := newTestStore(t)
	c, err := store.Add(Capture{Direction: "server", Frame: []byte{0xff}, DecodeErr: "unknown discriminant"})
	require.NoError(t, err)

	got, err := store.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "unknown discriminant", got.DecodeErr)
	assert.Nil(t, got.Path)
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get(404)
	assert.ErrorIs(t, err, ErrCaptureNotFound)
}

func TestListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	for i, dir := range []string{"client", "server", "client"} {
		_, err := store.Add(Capture{Direction: dir, Frame: []byte{byte(i)}})
		require.NoError(t, err)
	}

	all, err := store.List("", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []byte{2}, all[0].Frame)
	assert.Equal(t, []byte{0}, all[2].Frame)

	clients, err := store.List("client", 10)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	for _, c := range clients {
		assert.Equal(t, "client", c.Direction)
	}

	limited, err := store.List("", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestListEmpty(t *testing.T) {
	store := newTestStore(t)
	list, err := store.List("server", 5)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReopenKeepsCaptures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captures.db")
	store, err := NewCaptureStore(path)
	require.NoError(t, err)
	c, err := store.Add(Capture{Direction: "client", Frame: []byte{1, 2}})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewCaptureStore(path)
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, path, store.Path())
	got, err := store.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, got.Frame)
}
