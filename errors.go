// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package extjson

import (
	"fmt"
	"strings"
)

// SyntaxError is the concrete type of errors reported for malformed input,
// both lexical (a bad escape, an unterminated string, an invalid number) and
// structural (a missing name or colon, an unexpected token).
type SyntaxError struct {
	Pos     Position // where the error was detected
	Text    string   // the offending input, if known
	Message string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	if s.Text == "" {
		return fmt.Sprintf("at %s (offset %d): %s", s.Pos, s.Pos.Offset, s.Message)
	}
	return fmt.Sprintf("at %s (offset %d): %s: %q", s.Pos, s.Pos.Offset, s.Message, s.Text)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// StateError reports a Reader or Writer method called in a state where it
// is not permitted, or when the current value or context does not match
// the method.
type StateError struct {
	Method string  // the method that was called
	Want   []State // the states in which the call is legal
	Got    State   // the state at the time of the call

	// If set, Detail describes a violation not expressed by Want and Got.
	Detail string
}

// Error satisfies the error interface.
func (s *StateError) Error() string {
	if s.Detail != "" {
		return fmt.Sprintf("%s: %s", s.Method, s.Detail)
	}
	want := make([]string, len(s.Want))
	for i, w := range s.Want {
		want[i] = w.String()
	}
	return fmt.Sprintf("%s can only be called when state is %s, not when state is %s",
		s.Method, strings.Join(want, " or "), s.Got)
}

// MarkError reports misuse of Mark and Reset.
type MarkError struct{ Message string }

// Error satisfies the error interface.
func (m *MarkError) Error() string { return m.Message }

// IOError wraps a failure of the underlying character source or sink.
type IOError struct {
	Op  string // "read" or "write"
	Err error
}

// Error satisfies the error interface.
func (e *IOError) Error() string { return fmt.Sprintf("cannot %s: %v", e.Op, e.Err) }

// Unwrap supports error wrapping.
func (e *IOError) Unwrap() error { return e.Err }
