package parser

import (
	"errors"
	"fmt"
)

// ErrParse is the base class of every parsing failure. Callers that only
// want to know "was this a malformed report" (to fall back to plain journal
// logging) match against it with errors.Is.
var ErrParse = errors.New("shift report parse error")

var (
	// ErrEmptyMessage is returned for input that is empty after trimming.
	ErrEmptyMessage = fmt.Errorf("%w: empty message", ErrParse)
	// ErrBadTotal is returned when the declared melt total is not an integer.
	ErrBadTotal = fmt.Errorf("%w: declared melt total is not a number", ErrParse)
	// ErrCountMismatch is returned by the strict dialect when the declared
	// total differs from the number of parsed melts.
	ErrCountMismatch = fmt.Errorf("%w: declared and parsed melt counts differ", ErrParse)
	// ErrMissingHeaderField is returned by the strict dialect when a
	// required header field is absent.
	ErrMissingHeaderField = fmt.Errorf("%w: required header field missing", ErrParse)
)
