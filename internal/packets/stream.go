package packets

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxFrameSize bounds frames read from a capture stream.
const MaxFrameSize = 1 << 20

// ReadFrame reads one length-prefixed frame from a capture stream.
// Format: [4-byte LE length][frame bytes...]
func ReadFrame(r io.Reader) ([]byte, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, fmt.Errorf("failed to read frame length: %w", err)
	}

	if length == 0 {
		return nil, fmt.Errorf("received zero-length frame")
	}

	if length > MaxFrameSize {
		return nil, fmt.Errorf("frame too large: %d bytes (max %d)", length, MaxFrameSize)
	}

	frame := make([]byte, length)
	if _, err := io.ReadFull(r, frame); err != nil {
		return nil, fmt.Errorf("failed to read frame (%d bytes): %w", length, err)
	}
	return frame, nil
}

// WriteFrame writes one length-prefixed frame to a capture stream.
func WriteFrame(w io.Writer, frame []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(frame))); err != nil {
		return fmt.Errorf("failed to write frame length: %w", err)
	}
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("failed to write frame data: %w", err)
	}
	return nil
}
