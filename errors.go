package texgen

import (
	"errors"
	"fmt"
)

// ErrState is returned when a LinePattern operation is not allowed in the
// pattern's current state.
var ErrState = errors.New("invalid line pattern state")

// ClassificationError reports an operand that is not a kind of the pattern
// lattice. Name is the operand's descriptive name.
type ClassificationError struct {
	Op   string
	Name string
}

func (e ClassificationError) Error() string {
	return fmt.Sprintf("%s: not a pattern kind: %s", e.Op, e.Name)
}

// AlignmentError reports a sample line that cannot be aligned with the
// samples seen before. Sample is the 0-based number of the offending sample,
// Pos the word position where alignment failed or -1.
type AlignmentError struct {
	Sample int
	Pos    int
	Reason string
}

func (e AlignmentError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("sample %d: %s", e.Sample, e.Reason)
	}
	return fmt.Sprintf("sample %d pos %d: %s", e.Sample, e.Pos, e.Reason)
}

// SnippetError reports a malformed snippet. Col is the byte offset into the
// snippet where the problem was detected.
type SnippetError struct {
	Col int
	err error
}

func (e SnippetError) Error() string {
	return fmt.Sprintf("snippet col %d:%s", e.Col, e.err)
}

func (e SnippetError) Unwrap() error { return e.err }

func snippetErrorf(col int, format string, a ...any) SnippetError {
	return SnippetError{Col: col, err: fmt.Errorf(format, a...)}
}
