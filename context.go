// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package extjson

import "go.mongodb.org/mongo-driver/bson/bsontype"

// EndOfDocument is the type reported by Reader.ReadType when the current
// document or array has no more elements, or the input has no more values.
const EndOfDocument bsontype.Type = 0x00

// ContextKind identifies the kind of structure a Reader or Writer is
// positioned in.
type ContextKind byte

// Constants defining the valid ContextKind values.
const (
	TopLevel      ContextKind = iota // outside any document or array
	Document                         // inside a document
	Array                            // inside an array
	ScopeDocument                    // inside the scope of a code-with-scope value
)

var contextStr = [...]string{
	TopLevel:      "TOP_LEVEL",
	Document:      "DOCUMENT",
	Array:         "ARRAY",
	ScopeDocument: "SCOPE_DOCUMENT",
}

func (c ContextKind) String() string {
	if int(c) >= len(contextStr) {
		return "INVALID"
	}
	return contextStr[c]
}

// State is the state of a Reader or Writer. It determines which methods
// may be called next.
type State byte

// Constants defining the valid State values. A Reader uses all but
// StateScopeDocument; a Writer uses StateInitial, StateName, StateValue,
// StateScopeDocument, StateDone, and StateClosed.
const (
	StateInitial       State = iota // nothing has been read or written
	StateType                       // the next call determines the value type
	StateName                       // the next call handles a field name
	StateValue                      // the next call handles a value
	StateScopeDocument              // the next value is a scope document
	StateEndOfDocument              // the end of a document has been reached
	StateEndOfArray                 // the end of an array has been reached
	StateDone                       // a complete top-level value was handled
	StateClosed                     // the instance is closed
)

var stateStr = [...]string{
	StateInitial:       "INITIAL",
	StateType:          "TYPE",
	StateName:          "NAME",
	StateValue:         "VALUE",
	StateScopeDocument: "SCOPE_DOCUMENT",
	StateEndOfDocument: "END_OF_DOCUMENT",
	StateEndOfArray:    "END_OF_ARRAY",
	StateDone:          "DONE",
	StateClosed:        "CLOSED",
}

func (s State) String() string {
	if int(s) >= len(stateStr) {
		return "INVALID"
	}
	return stateStr[s]
}

// nextState returns the state that follows a complete value in context c.
func nextState(c ContextKind) State {
	switch c {
	case TopLevel:
		return StateDone
	case Document, ScopeDocument:
		return StateName
	default:
		return StateValue
	}
}
