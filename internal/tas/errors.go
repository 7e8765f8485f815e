package tas

import (
	"errors"
	"fmt"
)

// Errors returned by tas operations.
var (
	// ErrMalformedToken indicates a FrameInput action token could not be parsed.
	ErrMalformedToken = errors.New("malformed action token")

	// ErrFrameOutOfRange indicates a frame index beyond the script's total frame count.
	ErrFrameOutOfRange = errors.New("frame out of range")

	// ErrInvalidKey indicates an action key that is not a single ASCII letter.
	ErrInvalidKey = errors.New("invalid action key")
)

// ParseError describes a malformed action token. Parsing stops at the first
// ParseError and no partial Document is returned.
type ParseError struct {
	// Line is the 1-indexed physical line of the token.
	Line int
	// Token is the offending token, trimmed.
	Token string
	// Context is the raw remainder of the line after the frame count.
	Context string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: unexpected input %q in %q", e.Line, e.Token, e.Context)
}

// Is reports whether target is ErrMalformedToken.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedToken
}
