package archive

import (
	"errors"
	"fmt"
)

// ErrMissingBody reports a content object without a text member.
var ErrMissingBody = errors.New("content has no text body")

// UnsupportedEncodingError reports a body encoding the decoder does not know.
// Callers must treat it as fatal: skipping the entry would leave a corrupt or
// incomplete segment set behind.
type UnsupportedEncodingError struct {
	Encoding string
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("unsupported content encoding %q", e.Encoding)
}

// StreamParseError reports a structural failure while scanning the archive.
// The stream position is untrustworthy after one, so extraction stops.
type StreamParseError struct {
	Offset int64
	Err    error
}

func (e *StreamParseError) Error() string {
	return fmt.Sprintf("parse archive at byte %d: %v", e.Offset, e.Err)
}

func (e *StreamParseError) Unwrap() error {
	return e.Err
}
