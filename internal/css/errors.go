// internal/css/errors.go
package css

import (
	"errors"
	"fmt"
)

// Sentinel categories for malformed stylesheets. A *ParseError wraps one
// of these so callers can match with errors.Is.
var (
	ErrUnknownUnit    = errors.New("unknown length unit")
	ErrBadColor       = errors.New("invalid color literal")
	ErrTruncated      = errors.New("unexpected end of stylesheet")
	ErrEmptySelector  = errors.New("rule has no valid selectors")
	ErrBadDeclaration = errors.New("malformed declaration")
)

// ParseError reports a malformed stylesheet. It is always surfaced to the
// caller before any layout runs; parsing never panics.
type ParseError struct {
	Offset int // byte offset into the input
	Msg    string
	Err    error // one of the sentinel categories above, or nil
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("css: %s at offset %d", e.Msg, e.Offset)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
