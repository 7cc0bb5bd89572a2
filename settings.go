// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package extjson

import (
	"fmt"
	"strings"
)

// OutputMode selects how a Writer renders values that have no literal
// syntax in JSON.
type OutputMode byte

const (
	// Relaxed renders regular expressions as /pattern/options literals and
	// other typed values as strings or bare words. This is the default.
	Relaxed OutputMode = iota

	// Strict renders typed values as wrapper documents with $-prefixed keys,
	// such as {"$regex": "a+", "$options": "i"}, that are valid JSON.
	Strict
)

func (m OutputMode) String() string {
	switch m {
	case Relaxed:
		return "relaxed"
	case Strict:
		return "strict"
	}
	return fmt.Sprintf("OutputMode(%d)", byte(m))
}

// ParseOutputMode parses the name of an output mode, ignoring case.
func ParseOutputMode(s string) (OutputMode, error) {
	switch strings.ToLower(s) {
	case "relaxed", "":
		return Relaxed, nil
	case "strict":
		return Strict, nil
	}
	return Relaxed, fmt.Errorf("unknown output mode %q", s)
}

// ReaderSettings control how a Reader interprets its input.
type ReaderSettings struct {
	// If true, a document whose first name is an extended JSON key such as
	// $oid, $date or $regex is read as a single value of the corresponding
	// type, and must have the shape of that wrapper. Otherwise every
	// document is reported as an embedded document, whatever its names.
	Extended bool
}

// DefaultReaderSettings returns the default settings, which do not
// recognize wrapper documents.
func DefaultReaderSettings() *ReaderSettings { return &ReaderSettings{} }

// WriterSettings control the layout of text produced by a Writer.
type WriterSettings struct {
	// If true, each document field begins on a new line, indented by one
	// IndentUnit per level of nesting. A name is followed by ": " rather
	// than ":", and the closing brace of a non-empty document begins a new
	// line at the indentation of its parent. Arrays are not broken across
	// lines.
	Indent bool

	IndentUnit string // the text of one level of indentation
	NewLine    string // the text of a line break
	OutputMode OutputMode
}

// DefaultWriterSettings returns the default settings: no indentation, an
// indent unit of two spaces, a newline of "\n", and Relaxed output.
func DefaultWriterSettings() *WriterSettings {
	return &WriterSettings{IndentUnit: "  ", NewLine: "\n", OutputMode: Relaxed}
}
