// Package network accepts capture streams over TCP. A capture client opens
// a connection, announces the direction of the frames it will send, then
// streams length-prefixed frames; each one is decoded and recorded.
package network

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/energizer-project/lupackets/internal/packets"
)

// Connection wraps one capture stream.
type Connection struct {
	mu   sync.Mutex
	conn net.Conn

	connectedAt  time.Time
	lastActivity time.Time
	frames       int

	closed bool
}

// NewConnection wraps an existing net.Conn.
func NewConnection(conn net.Conn) *Connection {
	now := time.Now()
	return &Connection{
		conn:         conn,
		connectedAt:  now,
		lastActivity: now,
	}
}

// ReadFrame reads one length-prefixed frame. Blocks until a frame is
// available or timeout expires.
func (c *Connection) ReadFrame(timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(timeout))
	}

	frame, err := packets.ReadFrame(c.conn)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.lastActivity = time.Now()
	c.frames++
	c.mu.Unlock()

	return frame, nil
}

// WriteFrame sends one length-prefixed frame.
func (c *Connection) WriteFrame(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("connection is closed")
	}

	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := packets.WriteFrame(c.conn, frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// Close closes the connection. It is safe to call more than once.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// IsClosed reports whether Close was called.
func (c *Connection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Frames returns the number of frames read so far.
func (c *Connection) Frames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// ConnectedAt returns when the connection was accepted.
func (c *Connection) ConnectedAt() time.Time {
	return c.connectedAt
}

// LastActivity returns the time of the last frame read.
func (c *Connection) LastActivity() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActivity
}

// RemoteAddr returns the peer address.
func (c *Connection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
