// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package extjson

import (
	"errors"

	"github.com/creachadair/extjson/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a double-quoted string value, as written by a Writer.
func Quote(src string) string {
	return `"` + string(escape.Quote(mem.S(src))) + `"`
}

// Unquote decodes a quoted string value. The enclosing quotation marks,
// which may be either double or single quotes, are removed, and escape
// sequences are replaced with their unescaped equivalents.
//
// Invalid escapes are replaced by the Unicode replacement rune. Unquote
// reports an error for an incomplete escape sequence.
func Unquote(src string) (string, error) {
	if len(src) < 2 || (src[0] != '"' && src[0] != '\'') || src[len(src)-1] != src[0] {
		return "", errors.New("missing quotations")
	}
	dec, err := escape.Unquote(mem.S(src[1 : len(src)-1]))
	if err != nil {
		return "", err
	}
	return string(dec), nil
}
