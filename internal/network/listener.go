package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/energizer-project/lupackets/internal/catalog"
	"github.com/energizer-project/lupackets/internal/packets"
	"github.com/energizer-project/lupackets/internal/util"
)

const (
	// AnnounceTimeout bounds the wait for the direction announcement.
	AnnounceTimeout = 10 * time.Second
	// ReadTimeout closes streams that stay silent this long.
	ReadTimeout = 5 * time.Minute
)

// Ack is written back after the announcement is accepted.
var Ack = []byte("ok")

// CaptureListener accepts capture streams and records their frames.
type CaptureListener struct {
	addr     string
	recorder *packets.Recorder
	logger   zerolog.Logger

	mu       sync.Mutex
	listener net.Listener
}

// NewCaptureListener creates a listener on addr, for example
// "127.0.0.1:5081".
func NewCaptureListener(addr string, recorder *packets.Recorder) *CaptureListener {
	return &CaptureListener{
		addr:     addr,
		recorder: recorder,
		logger:   util.ComponentLogger("capture_listener"),
	}
}

// Listen binds the socket. Serve must be called to accept connections.
func (l *CaptureListener) Listen(ctx context.Context) error {
	lc := ReuseAddrListenConfig()
	ln, err := lc.Listen(ctx, "tcp", l.addr)
	if err != nil {
		return fmt.Errorf("failed to start capture listener on %s: %w", l.addr, err)
	}

	l.mu.Lock()
	l.listener = ln
	l.mu.Unlock()

	l.logger.Info().Str("addr", ln.Addr().String()).Msg("capture listener started")
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (l *CaptureListener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listener == nil {
		return nil
	}
	return l.listener.Addr()
}

// Serve accepts connections until ctx is cancelled.
func (l *CaptureListener) Serve(ctx context.Context) error {
	l.mu.Lock()
	ln := l.listener
	l.mu.Unlock()
	if ln == nil {
		return fmt.Errorf("capture listener is not bound")
	}

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				l.logger.Info().Msg("capture listener stopping")
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			l.logger.Error().Err(err).Msg("failed to accept connection")
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			l.handleConnection(ctx, NewConnection(conn))
		}()
	}
}

// Start binds and serves until ctx is cancelled.
func (l *CaptureListener) Start(ctx context.Context) error {
	if err := l.Listen(ctx); err != nil {
		return err
	}
	return l.Serve(ctx)
}

// handleConnection reads the direction announcement, acknowledges it, then
// records every frame until the stream ends.
func (l *CaptureListener) handleConnection(ctx context.Context, conn *Connection) {
	done := make(chan struct{})
	defer close(done)
	defer conn.Close()

	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	remote := conn.RemoteAddr().String()
	logger := l.logger.With().Str("remote", remote).Logger()

	announce, err := conn.ReadFrame(AnnounceTimeout)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read direction announcement")
		return
	}

	dir := catalog.Direction(announce)
	if _, ok := l.recorder.Parser(dir); !ok {
		logger.Warn().Str("announce", string(announce)).Msg("unknown capture direction")
		return
	}
	if err := conn.WriteFrame(Ack); err != nil {
		logger.Warn().Err(err).Msg("failed to acknowledge announcement")
		return
	}

	logger = logger.With().Str("direction", string(dir)).Logger()
	logger.Info().Msg("capture stream opened")

	for {
		frame, err := conn.ReadFrame(ReadTimeout)
		if err != nil {
			if conn.IsClosed() || errors.Is(err, io.EOF) {
				logger.Info().
					Int("frames", conn.Frames()-1).
					Dur("duration", time.Since(conn.ConnectedAt())).
					Msg("capture stream closed")
				return
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				logger.Warn().
					Time("last_activity", conn.LastActivity()).
					Msg("capture stream idle, closing")
				return
			}
			logger.Error().Err(err).Msg("read error, closing capture stream")
			return
		}

		if _, _, err := l.recorder.Record(dir, remote, frame); err != nil {
			logger.Error().Err(err).Msg("failed to record frame")
			return
		}
	}
}
