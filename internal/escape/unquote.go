// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of extended JSON strings.
package escape

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// Unquote decodes a byte slice containing the encoding of a string. The
// input must have the enclosing quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents, and a
// pair of \u escapes encoding a UTF-16 surrogate pair is combined into a
// single rune. Invalid escapes are replaced by the Unicode replacement rune.
// A \u escape cut short by the end of the input is discarded. Unquote
// reports an error for a backslash at the end of the input.
func Unquote(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		dec = mem.Append(dec, src)
		return dec, nil
	}

	putByte := func(bs ...byte) { dec = append(dec, bs...) }
	putRune := func(r rune) { dec = utf8.AppendRune(dec, r) }
	var hi rune // pending high surrogate, or 0
	flush := func() {
		if hi != 0 {
			putRune(utf8.RuneError)
			hi = 0
		}
	}
	for src.Len() != 0 {
		if i > 0 {
			flush()
		}
		dec = mem.Append(dec, src.SliceTo(i))

		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}
		r, n := mem.DecodeRune(src)
		src = src.SliceFrom(n)

		if r == 'u' {
			if src.Len() < 4 {
				break // truncated; discard it
			}
			v, err := parseHex(src.SliceTo(4))
			src = src.SliceFrom(4)
			switch {
			case err != nil:
				flush()
				putRune(utf8.RuneError)
			case hi != 0 && 0xdc00 <= v && v <= 0xdfff:
				putRune(utf16.DecodeRune(hi, rune(v)))
				hi = 0
			case 0xd800 <= v && v <= 0xdbff:
				flush()
				hi = rune(v)
			default:
				flush()
				putRune(rune(v)) // a lone low surrogate becomes U+FFFD
			}
		} else {
			flush()
			switch r {
			case '"', '\'', '\\', '/':
				putByte(byte(r))
			case 'b':
				putByte('\b')
			case 'f':
				putByte('\f')
			case 'n':
				putByte('\n')
			case 'r':
				putByte('\r')
			case 't':
				putByte('\t')
			default:
				putRune(utf8.RuneError)
			}
		}

		// Look for the next escape sequence, and if one is not found we can blit
		// the rest of the input and go home.
		i = mem.IndexByte(src, '\\')
		if i < 0 {
			if src.Len() != 0 {
				flush()
			}
			dec = mem.Append(dec, src)
			break
		}
	}
	flush()
	return dec, nil
}

func parseHex(data mem.RO) (int64, error) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += int64(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += int64(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += int64(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
	}
	return v, nil
}
