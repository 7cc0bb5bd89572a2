// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package extjson

import (
	"fmt"
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind is the type of a lexical token in the extended JSON grammar.
type Kind byte

// Constants defining the valid Kind values.
const (
	Invalid           Kind = iota // invalid token
	BeginObject                   // left brace "{"
	EndObject                     // right brace "}"
	BeginArray                    // left square bracket "["
	EndArray                      // right square bracket "]"
	LeftParen                     // left parenthesis "("
	RightParen                    // right parenthesis ")"
	Colon                         // colon ":"
	Comma                         // comma ","
	String                        // quoted string, single or double quotes
	UnquotedString                // identifier or literal: true, null, $x, ...
	Int32                         // integer in the signed 32-bit range
	Int64                         // integer outside the signed 32-bit range
	Double                        // number with fraction and/or exponent
	RegularExpression             // regular expression: /pattern/options
	EndOfFile                     // end of input
)

var kindStr = [...]string{
	Invalid:           "invalid token",
	BeginObject:       `"{"`,
	EndObject:         `"}"`,
	BeginArray:        `"["`,
	EndArray:          `"]"`,
	LeftParen:         `"("`,
	RightParen:        `")"`,
	Colon:             `":"`,
	Comma:             `","`,
	String:            "string",
	UnquotedString:    "unquoted string",
	Int32:             "int32",
	Int64:             "int64",
	Double:            "double",
	RegularExpression: "regular expression",
	EndOfFile:         "end of input",
}

func (k Kind) String() string {
	v := int(k)
	if v >= len(kindStr) {
		return kindStr[Invalid]
	}
	return kindStr[v]
}

// A Token is a single lexical unit: a kind and a kind-dependent value.
// Tokens are immutable. The accessor methods panic if the token does not
// carry a value of the requested type.
type Token struct {
	Kind Kind

	text  string // String, UnquotedString, punctuation, EndOfFile
	num   int64  // Int32, Int64
	fnum  float64
	regex primitive.Regex
}

func textToken(k Kind, text string) Token { return Token{Kind: k, text: text} }
func intToken(k Kind, v int64) Token      { return Token{Kind: k, num: v} }
func doubleToken(v float64) Token         { return Token{Kind: Double, fnum: v} }
func regexToken(re primitive.Regex) Token { return Token{Kind: RegularExpression, regex: re} }

func (t Token) mustBe(want ...Kind) {
	for _, k := range want {
		if t.Kind == k {
			return
		}
	}
	panic(fmt.Sprintf("token is %v, not %v", t.Kind, want))
}

// Text returns the decoded text of a String or UnquotedString token, or the
// lexeme of a punctuation token.
func (t Token) Text() string {
	switch t.Kind {
	case Int32, Int64, Double, RegularExpression, Invalid:
		panic(fmt.Sprintf("token %v has no text", t.Kind))
	}
	return t.text
}

// Int32 returns the value of an Int32 token.
func (t Token) Int32() int32 { t.mustBe(Int32); return int32(t.num) }

// Int64 returns the value of an Int32 or Int64 token.
func (t Token) Int64() int64 { t.mustBe(Int32, Int64); return t.num }

// Float64 returns the value of a Double token.
func (t Token) Float64() float64 { t.mustBe(Double); return t.fnum }

// Regex returns the pattern and options of a RegularExpression token.
func (t Token) Regex() primitive.Regex { t.mustBe(RegularExpression); return t.regex }

// String renders a human-readable summary of t, used in error messages.
func (t Token) String() string {
	switch t.Kind {
	case Int32, Int64:
		return strconv.FormatInt(t.num, 10)
	case Double:
		return formatDouble(t.fnum)
	case RegularExpression:
		return "/" + t.regex.Pattern + "/" + t.regex.Options
	case String:
		return Quote(t.text)
	case Invalid:
		return t.Kind.String()
	}
	return t.text
}

// formatDouble renders v in the shortest form that reads back as the same
// double. The result always has a decimal point or an exponent, so that it
// does not read back as an integer.
func formatDouble(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'e' {
			return s
		}
	}
	return s + ".0"
}
