package arpa

import (
	"errors"
	"fmt"
)

// ErrInternal marks a broken reader invariant rather than bad input.
var ErrInternal = errors.New("arpa: internal invariant violated")

// ParseError reports a structural problem in ARPA input. Line is 1-based.
type ParseError struct {
	Line   int
	Reason string
	Text   string
}

func (e *ParseError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("arpa: line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("arpa: line %d: %s: %q", e.Line, e.Reason, e.Text)
}
