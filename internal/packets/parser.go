// Package packets is the connection-facing side of the codec: it decodes
// whole frames for one direction, logs what it saw, and names the variant
// chosen at every layer.
package packets

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/energizer-project/lupackets/internal/catalog"
	"github.com/energizer-project/lupackets/internal/lu/world"
	"github.com/energizer-project/lupackets/internal/wire"
)

// Decoded is one parsed frame.
type Decoded struct {
	Direction catalog.Direction `json:"direction"`
	Path      []string          `json:"path"`
	Message   any               `json:"message"`
	Size      int               `json:"size"`
	Trailing  int               `json:"trailing,omitempty"`
	// Unrecognized is set when an open union fell back to raw bytes.
	Unrecognized bool `json:"unrecognized,omitempty"`
}

// Parser decodes frames received by one side of a world connection.
type Parser struct {
	dir    catalog.Direction
	logger zerolog.Logger
}

// NewParser creates a parser for frames received by dir.
func NewParser(dir catalog.Direction) (*Parser, error) {
	if dir != catalog.ClientReceived && dir != catalog.ServerReceived {
		return nil, fmt.Errorf("unknown direction %q", dir)
	}
	return &Parser{
		dir:    dir,
		logger: log.With().Str("component", "lu_parser").Str("direction", string(dir)).Logger(),
	}, nil
}

// Direction returns the side this parser decodes for.
func (p *Parser) Direction() catalog.Direction {
	return p.dir
}

// Parse decodes one complete frame. Bytes left over after the frame are
// reported in Trailing and do not fail the parse.
func (p *Parser) Parse(frame []byte) (*Decoded, error) {
	if len(frame) == 0 {
		return nil, fmt.Errorf("empty frame")
	}

	r := wire.NewReader(frame)
	d := &Decoded{Direction: p.dir, Size: len(frame)}

	switch p.dir {
	case catalog.ClientReceived:
		f, err := world.ClientFrames.Decode(r)
		if err != nil {
			return nil, p.failed(frame, err)
		}
		d.Message = f
		d.Path = DescribeClient(f)
		if m, ok := world.ClientMessageOf(f); ok {
			if u, ok := m.(world.UnknownClientMessage); ok {
				d.Unrecognized = true
				p.logger.Warn().
					Uint32("message_id", u.ID).
					Int("payload_len", len(u.Raw)).
					Msg("unrecognized world message")
			}
		}
	default:
		f, err := world.ServerFrames.Decode(r)
		if err != nil {
			return nil, p.failed(frame, err)
		}
		d.Message = f
		d.Path = DescribeServer(f)
	}

	if n := r.Len(); n > 0 {
		d.Trailing = n
		p.logger.Debug().Int("trailing", n).Strs("path", d.Path).Msg("trailing bytes after frame")
	}

	p.logger.Trace().Strs("path", d.Path).Int("size", d.Size).Msg("frame decoded")
	return d, nil
}

func (p *Parser) failed(frame []byte, err error) error {
	ev := p.logger.Debug().Err(err).Int("size", len(frame))
	var de *wire.DecodeError
	if errors.As(err, &de) {
		ev = ev.Str("path", de.Path).Int("offset", de.Offset)
	}
	ev.Msg("frame decode failed")
	return fmt.Errorf("failed to decode %s frame: %w", p.dir, err)
}

// ParseHex decodes a hex dump such as "53 05 00" or "530500" into bytes.
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t', ':', '-':
			return -1
		}
		return r
	}, s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex frame: %w", err)
	}
	return b, nil
}
