package packets

import (
	"fmt"

	"github.com/energizer-project/lupackets/internal/catalog"
	"github.com/energizer-project/lupackets/internal/db"
)

// CaptureSink receives every capture a Recorder stores.
type CaptureSink interface {
	PublishCapture(c db.Capture, d *Decoded)
}

// Recorder decodes frames and stores them, decodable or not.
type Recorder struct {
	store   *db.CaptureStore
	sink    CaptureSink
	parsers map[catalog.Direction]*Parser
}

// NewRecorder creates a recorder. sink may be nil.
func NewRecorder(store *db.CaptureStore, sink CaptureSink) *Recorder {
	r := &Recorder{
		store:   store,
		sink:    sink,
		parsers: make(map[catalog.Direction]*Parser, 2),
	}
	for _, dir := range []catalog.Direction{catalog.ClientReceived, catalog.ServerReceived} {
		p, _ := NewParser(dir)
		r.parsers[dir] = p
	}
	return r
}

// Parser returns the parser for dir.
func (r *Recorder) Parser(dir catalog.Direction) (*Parser, bool) {
	p, ok := r.parsers[dir]
	return p, ok
}

// Record decodes frame and stores it. A frame that fails to decode is stored
// with its decode error and a nil Decoded is returned with a nil error.
func (r *Recorder) Record(dir catalog.Direction, label string, frame []byte) (db.Capture, *Decoded, error) {
	p, ok := r.parsers[dir]
	if !ok {
		return db.Capture{}, nil, fmt.Errorf("unknown direction %q", dir)
	}

	c := db.Capture{Direction: string(dir), Label: label, Frame: frame}
	decoded, err := p.Parse(frame)
	if err != nil {
		c.DecodeErr = err.Error()
	} else {
		c.Path = decoded.Path
	}

	stored, err := r.store.Add(c)
	if err != nil {
		return db.Capture{}, nil, err
	}

	if r.sink != nil {
		r.sink.PublishCapture(stored, decoded)
	}
	return stored, decoded, nil
}
