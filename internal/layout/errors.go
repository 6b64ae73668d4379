// internal/layout/errors.go
package layout

import "errors"

// ErrUnsupported marks boxes whose layout mode is not implemented.
// Inline formatting is the main case today.
var ErrUnsupported = errors.New("layout: unsupported box type")

// InvariantError reports a violated structural precondition, such as a
// root element with display:none. These indicate caller bugs, not bad
// documents.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "layout: invariant violated: " + e.Msg
}
