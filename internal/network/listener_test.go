package network

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/energizer-project/lupackets/internal/db"
	"github.com/energizer-project/lupackets/internal/lu/world"
	"github.com/energizer-project/lupackets/internal/packets"
)

func startListener(t *testing.T) (*CaptureListener, *db.CaptureStore) {
	t.Helper()
	store, err := db.NewCaptureStore(filepath.Join(t.TempDir(), "captures.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	l := NewCaptureListener("127.0.0.1:0", packets.NewRecorder(store, nil))
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, l.Listen(ctx))

	done := make(chan error, 1)
	go func() { done <- l.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("listener did not stop")
		}
	})
	return l, store
}

func dial(t *testing.T, l *CaptureListener, direction string) *Connection {
	t.Helper()
	conn, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	c := NewConnection(conn)
	t.Cleanup(func() { c.Close() })

	require.NoError(t, c.WriteFrame([]byte(direction)))
	return c
}

func waitForCaptures(t *testing.T, store *db.CaptureStore, n int) []db.Capture {
	t.Helper()
	var list []db.Capture
	require.Eventually(t, func() bool {
		var err error
		list, err = store.List("", 10)
		return err == nil && len(list) >= n
	}, 5*time.Second, 20*time.Millisecond)
	return list
}

func TestCaptureStream(t *testing.T) {
	l, store := startListener(t)
	c := dial(t, l, "server")

	ack, err := c.ReadFrame(time.Second)
	require.NoError(t, err)
	assert.Equal(t, Ack, ack)

	good, err := world.EncodeServerFrame(world.NewServerFrame(world.CharacterListRequest{}))
	require.NoError(t, err)
	require.NoError(t, c.WriteFrame(good))
	require.NoError(t, c.WriteFrame([]byte{0xfe}))

	list := waitForCaptures(t, store, 2)
	// newest first
	assert.NotEmpty(t, list[0].DecodeErr)
	assert.Equal(t, []string{"UserMessage", "World", "CharacterListRequest"}, list[1].Path)
	assert.Equal(t, "server", list[1].Direction)
	assert.Contains(t, list[1].Label, "127.0.0.1")
}

func TestUnknownDirectionIsDropped(t *testing.T) {
	l, store := startListener(t)
	c := dial(t, l, "sideways")

	// the listener closes without acknowledging
	_, err := c.ReadFrame(2 * time.Second)
	assert.Error(t, err)

	list, err := store.List("", 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestServeRequiresListen(t *testing.T) {
	l := NewCaptureListener("127.0.0.1:0", nil)
	assert.Nil(t, l.Addr())
	assert.Error(t, l.Serve(context.Background()))
}

func TestConnectionClose(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()
	c := NewConnection(a)
	assert.False(t, c.IsClosed())
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.True(t, c.IsClosed())
	assert.Error(t, c.WriteFrame([]byte{1}))
}

func TestConnectionTracksActivity(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()
	c := NewConnection(a)
	defer c.Close()
	assert.Equal(t, 0, c.Frames())
	assert.Equal(t, c.ConnectedAt(), c.LastActivity())

	go packets.WriteFrame(b, []byte{83, 0})
	frame, err := c.ReadFrame(time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte{83, 0}, frame)
	assert.Equal(t, 1, c.Frames())
	assert.False(t, c.LastActivity().Before(c.ConnectedAt()))
}
