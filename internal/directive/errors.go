package directive

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownDirective is reported for a line whose key matches no bound spelling.
	ErrUnknownDirective = errors.New("unknown directive")
	// ErrMalformedValue is reported when a value does not have the bound kind,
	// or text remains after it.
	ErrMalformedValue = errors.New("malformed value")
	// ErrMissingName is reported when a block never sets its name.
	ErrMissingName = errors.New("missing name directive")
	// ErrRepeatedName is reported when a block sets its name more than once.
	ErrRepeatedName = errors.New("name directive repeated")
	// ErrEmptyBlock is reported for text with no directives at all.
	ErrEmptyBlock = errors.New("no directives found")
	// ErrUnbalancedBraces is reported by SplitBlocks.
	ErrUnbalancedBraces = errors.New("unbalanced braces")
)

// ParseError describes why a block of directive text was rejected.
// Line is 1-based and zero when the failure is not tied to a line.
type ParseError struct {
	Line   int
	Text   string // offending line, trimmed
	Key    string // key as written, if one was found
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.Err.Error()
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s (%q)", e.Line, msg, e.Text)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func lineError(line int, text, key string, err error, reason string) *ParseError {
	return &ParseError{Line: line, Text: text, Key: key, Err: err, Reason: reason}
}
