// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package escape

import (
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// verbatim lists the categories of runes that are copied without escaping.
var verbatim = []*unicode.RangeTable{
	unicode.L, unicode.M, unicode.N, unicode.Zs, unicode.P, unicode.S,
}

// Quote encodes a string to escape characters for inclusion in a quoted
// string. Letters, marks, numbers, space separators, punctuation, and
// symbols are copied verbatim. The quotation mark, backslash, and common
// control characters get two-character escapes. Everything else is written
// as a \uXXXX escape, using a surrogate pair outside the Basic Multilingual
// Plane.
func Quote(src mem.RO) []byte {
	buf := make([]byte, 0, src.Len())
	putByte := func(bs ...byte) { buf = append(buf, bs...) }
	putHex := func(r rune) {
		putByte('\\', 'u',
			hexDigit[(r>>12)&15], hexDigit[(r>>8)&15], hexDigit[(r>>4)&15], hexDigit[r&15])
	}

	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		src = src.SliceFrom(n)

		switch {
		case r == '\\' || r == '"':
			putByte('\\', byte(r))
		case r < ' ' && controlEsc[r] != 0:
			putByte('\\', controlEsc[r])
		case unicode.IsOneOf(verbatim, r):
			var rbuf [utf8.UTFMax]byte
			n := utf8.EncodeRune(rbuf[:], r)
			putByte(rbuf[:n]...)
		case r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			putHex(hi)
			putHex(lo)
		default:
			putHex(r)
		}
	}
	return buf
}
