// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/creachadair/extjson"
)

// errorKind categorizes the failures reported by the program.
type errorKind string

const (
	kindInput  errorKind = "input"
	kindConfig errorKind = "config"
	kindSyntax errorKind = "syntax"
	kindOutput errorKind = "output"
)

// appError is a failure with the context needed to report it.
type appError struct {
	Kind    errorKind
	Message string
	Err     error
}

func newError(kind errorKind, msg string, err error) *appError {
	return &appError{Kind: kind, Message: msg, Err: err}
}

func (e *appError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *appError) Unwrap() error { return e.Err }

// Exit codes.
const (
	exitFailure = 1 // I/O or configuration failure
	exitInvalid = 2 // the input is not valid
)

// exitCode returns the process exit status for err.
func exitCode(err error) int {
	var ae *appError
	if errors.As(err, &ae) && ae.Kind == kindSyntax {
		return exitInvalid
	}
	return exitFailure
}

// userMessage renders err as a one-line message for the user.
func userMessage(err error) string {
	var serr *extjson.SyntaxError
	if errors.As(err, &serr) {
		return fmt.Sprintf("Syntax error at line %d, column %d: %s",
			serr.Pos.Line, serr.Pos.Column, serr.Message)
	}
	var ae *appError
	if errors.As(err, &ae) {
		switch ae.Kind {
		case kindInput:
			return fmt.Sprintf("Input error: %s: %v", ae.Message, ae.Err)
		case kindConfig:
			return fmt.Sprintf("Configuration error: %s: %v", ae.Message, ae.Err)
		case kindSyntax:
			return fmt.Sprintf("Invalid input: %v", ae.Err)
		case kindOutput:
			return fmt.Sprintf("Output error: %s: %v", ae.Message, ae.Err)
		}
	}
	return fmt.Sprintf("Error: %v", err)
}
