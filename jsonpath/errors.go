package jsonpath

import (
	"fmt"
	"strings"
)

// ParseError is raised by every parse entry point on malformed syntax,
// an unresolved function name, an arity mismatch, a filter-expression
// type-rule violation, an invalid escape, or unexpected trailing input.
// It always carries the byte offset within Input at which parsing failed.
type ParseError struct {
	Msg    string
	Input  string
	Offset int
}

func (e *ParseError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("jsonpath: syntax error at offset %d: %s", e.Offset, e.Msg)
	}
	// +1 for the opening quote that %q adds before the input
	posMarker := strings.Repeat(" ", e.Offset+1) + "^"
	return fmt.Sprintf("jsonpath: syntax error (at offset %d): %s\n%q\n%s", e.Offset, e.Msg, e.Input, posMarker)
}

func newParseErrorf(input string, offset int, format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Input: input, Offset: offset}
}

// EvalError is reserved for cases that are impossible to reach while
// evaluating an AST the parser produced - an unknown enum tag reached
// only through a bug. A well-typed AST must evaluate without raising;
// missing members, empty selections and failed regex matches are normal
// results, not EvalErrors.
type EvalError struct {
	Msg string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("jsonpath: evaluation error: %s", e.Msg)
}
