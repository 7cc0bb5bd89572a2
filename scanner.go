// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package extjson

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/creachadair/extjson/internal/escape"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go4.org/mem"
)

// A Scanner reads lexical tokens from an input stream. Each call to Next
// returns the next token, or reports an error. The scanner has no knowledge
// of the nesting structure of its input.
type Scanner struct {
	src *source
	buf strings.Builder // text of the current lexeme
}

// NewScanner constructs a new lexical scanner that consumes input from r.
func NewScanner(r io.Reader) *Scanner { return &Scanner{src: newSource(r)} }

// Pos reports the current position of the scanner in its input.
func (s *Scanner) Pos() Position { return s.src.pos }

// Next returns the next token of the input, or reports an error. At the end
// of the input Next returns a token of kind EndOfFile and a nil error.
func (s *Scanner) Next() (Token, error) {
	s.buf.Reset()

	ch, err := s.src.read()
	for err == nil && unicode.IsSpace(ch) {
		ch, err = s.src.read()
	}
	if err == io.EOF {
		return textToken(EndOfFile, "<eof>"), nil
	} else if err != nil {
		return Token{}, s.ioError(err)
	}

	if k, ok := selfDelim(ch); ok {
		return textToken(k, string(ch)), nil
	}
	switch {
	case ch == '"' || ch == '\'':
		return s.scanString(ch)
	case ch == '/':
		return s.scanRegex()
	case isNumStart(ch):
		return s.scanNumber(ch)
	case isNameStart(ch):
		return s.scanUnquoted(ch)
	}
	return Token{}, s.failText(string(ch), "invalid input")
}

// scanString reads a quoted string whose opening quote has been consumed.
// Escape sequences are checked as they are read, and the raw text is decoded
// when the closing quote is found.
func (s *Scanner) scanString(quote rune) (Token, error) {
	var raw []byte
	for {
		ch, err := s.src.read()
		if err == io.EOF {
			return Token{}, s.failText(string(raw), "end of input in string")
		} else if err != nil {
			return Token{}, s.ioError(err)
		}

		if ch == quote {
			dec, err := escape.Unquote(mem.B(raw))
			if err != nil {
				return Token{}, s.failText(string(raw), "invalid string: %v", err)
			}
			return textToken(String, string(dec)), nil
		}
		raw = utf8.AppendRune(raw, ch)
		if ch != '\\' {
			continue
		}

		// We are awaiting the completion of a \-escape.
		esc, err := s.src.read()
		if err == io.EOF {
			return Token{}, s.failText(string(raw), "end of input in string")
		} else if err != nil {
			return Token{}, s.ioError(err)
		}
		switch esc {
		case '"', '\'', '\\', '/', 'b', 'f', 'n', 'r', 't':
			raw = append(raw, byte(esc))
		case 'u':
			digits, ok, err := s.readHex4()
			if err != nil {
				return Token{}, err
			} else if !ok {
				raw = raw[:len(raw)-1] // input ended within the escape; drop it
				continue
			}
			raw = append(append(raw, 'u'), digits...)
		default:
			return Token{}, s.failText(`\`+string(esc), "invalid escape sequence")
		}
	}
}

// readHex4 reads the four hexadecimal digits of a \u escape. It reports
// false without error if the input ends before four digits are read.
func (s *Scanner) readHex4() (string, bool, error) {
	var digits [4]rune
	for i := range digits {
		ch, err := s.src.read()
		if err == io.EOF {
			return "", false, nil
		} else if err != nil {
			return "", false, s.ioError(err)
		}
		digits[i] = ch
	}
	text := string(digits[:])
	if _, err := strconv.ParseUint(text, 16, 16); err != nil {
		return "", false, s.failText(`\u`+text, "invalid Unicode escape")
	}
	return text, true, nil
}

type regexState byte

const (
	inPattern regexState = iota
	inEscape
	inOptions
	regexDone
	regexInvalid
)

// scanRegex reads a regular expression whose opening slash has been
// consumed. The lexeme is /pattern/options.
func (s *Scanner) scanRegex() (Token, error) {
	var pattern, options strings.Builder
	state := inPattern
	for {
		ch, err := s.src.read()
		if err != nil && err != io.EOF {
			return Token{}, s.ioError(err)
		}
		eof := err == io.EOF

		switch state {
		case inPattern:
			if eof {
				return Token{}, s.failText("/"+pattern.String(), "end of input in regular expression")
			}
			switch ch {
			case '/':
				state = inOptions
			case '\\':
				state = inEscape
				pattern.WriteRune(ch)
			default:
				pattern.WriteRune(ch)
			}
		case inEscape:
			if eof {
				return Token{}, s.failText("/"+pattern.String(), "end of input in regular expression")
			}
			state = inPattern
			pattern.WriteRune(ch)
		case inOptions:
			switch {
			case eof || isTerminator(ch):
				state = regexDone
			case ch == 'i' || ch == 'm' || ch == 'x' || ch == 's':
				options.WriteRune(ch)
			default:
				state = regexInvalid
			}
		}

		switch state {
		case regexDone:
			s.src.unread()
			return regexToken(primitive.Regex{
				Pattern: pattern.String(),
				Options: options.String(),
			}), nil
		case regexInvalid:
			return Token{}, s.failText(string(ch), "invalid regular expression option")
		}
	}
}

type numberState byte

const (
	sawLeadingMinus numberState = iota
	sawLeadingZero
	sawIntegerDigits
	sawDecimalPoint
	sawFractionDigits
	sawExponentLetter
	sawExponentSign
	sawExponentDigits
	sawMinusI
	numberDone
	numberInvalid
)

// scanNumber reads a number beginning with start, which is a digit or a
// minus sign. The following variants of lexemes are possible:
//
//	12  -345  -0  -0.0  0e1  0e-1  -0e-1  1E+12  -Infinity
func (s *Scanner) scanNumber(start rune) (Token, error) {
	s.buf.WriteRune(start)

	var state numberState
	switch start {
	case '-':
		state = sawLeadingMinus
	case '0':
		state = sawLeadingZero
	default:
		state = sawIntegerDigits
	}
	isDouble := false

	for {
		ch, err := s.src.read()
		if err != nil && err != io.EOF {
			return Token{}, s.ioError(err)
		}
		eof := err == io.EOF
		term := eof || isTerminator(ch)

		switch state {
		case sawLeadingMinus:
			switch {
			case eof:
				state = numberInvalid
			case ch == '0':
				state = sawLeadingZero
			case ch == 'I':
				state = sawMinusI
			case isDigit(ch):
				state = sawIntegerDigits
			default:
				state = numberInvalid
			}

		case sawLeadingZero, sawIntegerDigits:
			switch {
			case term:
				state = numberDone
			case ch == '.':
				state = sawDecimalPoint
			case ch == 'e' || ch == 'E':
				state = sawExponentLetter
			case isDigit(ch):
				state = sawIntegerDigits
			default:
				state = numberInvalid
			}

		case sawDecimalPoint:
			isDouble = true
			if !eof && isDigit(ch) {
				state = sawFractionDigits
			} else {
				state = numberInvalid
			}

		case sawFractionDigits:
			switch {
			case term:
				state = numberDone
			case ch == 'e' || ch == 'E':
				state = sawExponentLetter
			case isDigit(ch):
				// stay
			default:
				state = numberInvalid
			}

		case sawExponentLetter:
			isDouble = true
			switch {
			case eof:
				state = numberInvalid
			case ch == '+' || ch == '-':
				state = sawExponentSign
			case isDigit(ch):
				state = sawExponentDigits
			default:
				state = numberInvalid
			}

		case sawExponentSign:
			if !eof && isDigit(ch) {
				state = sawExponentDigits
			} else {
				state = numberInvalid
			}

		case sawExponentDigits:
			switch {
			case term:
				state = numberDone
			case isDigit(ch):
				// stay
			default:
				state = numberInvalid
			}

		case sawMinusI:
			// The "-I" prefix has been seen; the only valid completion is
			// "-Infinity" followed by a terminator.
			if ok, err := s.matchRest(ch, eof, "nfinity"); err != nil {
				return Token{}, err
			} else if ok {
				return doubleToken(math.Inf(-1)), nil
			}
			return Token{}, s.failText(s.buf.String(), "invalid number")
		}

		switch state {
		case numberDone:
			s.src.unread()
			return s.numberToken(isDouble)
		case numberInvalid:
			if !eof {
				s.buf.WriteRune(ch)
			}
			return Token{}, s.failText(s.buf.String(), "invalid number")
		}
		s.buf.WriteRune(ch)
	}
}

// matchRest reports whether the input starting with ch matches rest
// exactly, followed by a terminator. The terminator is pushed back.
func (s *Scanner) matchRest(ch rune, eof bool, rest string) (bool, error) {
	for _, want := range rest {
		if eof || ch != want {
			if !eof {
				s.buf.WriteRune(ch)
			}
			return false, nil
		}
		s.buf.WriteRune(ch)
		var err error
		ch, err = s.src.read()
		if err != nil && err != io.EOF {
			return false, s.ioError(err)
		}
		eof = err == io.EOF
	}
	if !eof && !isTerminator(ch) {
		s.buf.WriteRune(ch)
		return false, nil
	}
	s.src.unread()
	return true, nil
}

func (s *Scanner) numberToken(isDouble bool) (Token, error) {
	text := s.buf.String()
	if isDouble {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return Token{}, s.failText(text, "invalid number")
		}
		return doubleToken(v), nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, s.failText(text, "integer out of range")
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return intToken(Int64, v), nil
	}
	return intToken(Int32, v), nil
}

// scanUnquoted reads an unquoted identifier or literal beginning with first.
func (s *Scanner) scanUnquoted(first rune) (Token, error) {
	s.buf.WriteRune(first)
	for {
		ch, err := s.src.read()
		if err == io.EOF {
			break
		} else if err != nil {
			return Token{}, s.ioError(err)
		}
		if !isNameRune(ch) {
			s.src.unread()
			break
		}
		s.buf.WriteRune(ch)
	}
	return textToken(UnquotedString, s.buf.String()), nil
}

func (s *Scanner) failText(text, msg string, args ...any) error {
	return &SyntaxError{Pos: s.src.pos, Text: text, Message: fmt.Sprintf(msg, args...)}
}

func (s *Scanner) ioError(err error) error { return &IOError{Op: "read", Err: err} }

// isTerminator reports whether ch ends a number or regular expression.
func isTerminator(ch rune) bool {
	return ch == ',' || ch == '}' || ch == ']' || ch == ')' || unicode.IsSpace(ch)
}

func isNumStart(ch rune) bool  { return ch == '-' || isDigit(ch) }
func isDigit(ch rune) bool     { return '0' <= ch && ch <= '9' }
func isNameStart(ch rune) bool { return ch == '$' || ch == '_' || unicode.IsLetter(ch) }
func isNameRune(ch rune) bool  { return isNameStart(ch) || unicode.IsDigit(ch) }

var self = [...]Kind{BeginObject, EndObject, BeginArray, EndArray, LeftParen, RightParen, Colon, Comma}

func selfDelim(ch rune) (Kind, bool) {
	i := strings.IndexRune("{}[]():,", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}
