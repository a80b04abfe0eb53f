package wire

import (
	"errors"
	"fmt"
)

var (
	ErrTruncatedInput      = errors.New("wire: truncated input")
	ErrUnknownDiscriminant = errors.New("wire: unknown discriminant")
	ErrLengthInconsistency = errors.New("wire: length inconsistency")
	ErrCapacityExceeded    = errors.New("wire: string exceeds capacity")
	// ErrEmbeddedNUL rejects fixed-capacity strings that a peer would read
	// back cut short at the NUL.
	ErrEmbeddedNUL = errors.New("wire: string contains NUL")
)

// DecodeError reports the field or variant path that failed to decode and
// the frame offset at which the failing element started.
type DecodeError struct {
	Path   string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("wire: decode %s at offset %d: %v", e.Path, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError reports the field or variant path that failed to encode.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("wire: encode %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// DecodeFailure attaches path context to err. If err already carries a path
// the new segment is prepended and the innermost offset is kept.
func DecodeFailure(path string, offset int, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return &DecodeError{Path: joinPath(path, de.Path), Offset: de.Offset, Err: de.Err}
	}
	return &DecodeError{Path: path, Offset: offset, Err: err}
}

// EncodeFailure is the encode-side counterpart of DecodeFailure.
func EncodeFailure(path string, err error) error {
	var ee *EncodeError
	if errors.As(err, &ee) {
		return &EncodeError{Path: joinPath(path, ee.Path), Err: ee.Err}
	}
	return &EncodeError{Path: path, Err: err}
}

func joinPath(outer, inner string) string {
	switch {
	case outer == "":
		return inner
	case inner == "":
		return outer
	case inner[0] == '[':
		return outer + inner
	default:
		return outer + "." + inner
	}
}
