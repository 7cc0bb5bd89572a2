// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package extjson_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/creachadair/extjson"
	"github.com/creachadair/extjson/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

func TestScanner(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		// Empty inputs
		{"", nil},
		{"  ", nil},
		{"\n\n  \n", nil},
		{"\t  \r\n \t  \r\n", nil},

		// Punctuation
		{"{ [ ] } ( ) , :", []string{"{", "[", "]", "}", "(", ")", ",", ":"}},
		{"{}[]():,", []string{"{", "}", "[", "]", "(", ")", ":", ","}},

		// Unquoted strings
		{"true false null undefined", []string{
			"unquoted string true", "unquoted string false",
			"unquoted string null", "unquoted string undefined",
		}},
		{"$oid _id x1 Infinity NaN", []string{
			"unquoted string $oid", "unquoted string _id", "unquoted string x1",
			"unquoted string Infinity", "unquoted string NaN",
		}},

		// Strings
		{`"" "a b c" 'single' "it's" 'say "hi"'`, []string{
			`string ""`, `string "a b c"`, `string "single"`, `string "it's"`,
			`string "say \"hi\""`,
		}},
		{`"\"\'\\\/\b\f\n\r\t"`, []string{`string "\"'\\/\b\f\n\r\t"`}},
		{`"Aé€"`, []string{`string "Aé€"`}},

		// Surrogate pairs, paired and unpaired
		{`"\ud83d\ude00"`, []string{"string \"\U0001f600\""}},
		{`"\ud83dx"`, []string{"string \"\ufffdx\""}},

		// Numbers
		{`0 -1 5139 2147483647 -2147483648`, []string{
			"int32 0", "int32 -1", "int32 5139", "int32 2147483647", "int32 -2147483648",
		}},
		{`2147483648 -2147483649 9223372036854775807`, []string{
			"int64 2147483648", "int64 -2147483649", "int64 9223372036854775807",
		}},
		{`1.0 1e5 -0.5 3.6E+4 -0.001E-100 0e1 -0e-1`, []string{
			"double 1.0", "double 100000.0", "double -0.5", "double 36000.0",
			"double -1e-103", "double 0.0", "double -0.0",
		}},
		{`-Infinity`, []string{"double -Infinity"}},
		{`01`, []string{"int32 1"}},

		// Regular expressions
		{`/ab+c/ /x\/y/im /a b/s`, []string{
			"regular expression /ab+c/", `regular expression /x\/y/im`,
			"regular expression /a b/s",
		}},

		// Mixed types
		{`{"a":1,"b":[true,null]}`, []string{
			"{", `string "a"`, ":", "int32 1", ",", `string "b"`, ":",
			"[", "unquoted string true", ",", "unquoted string null", "]", "}",
		}},
		{`ObjectId("507f1f77bcf86cd799439011")`, []string{
			"unquoted string ObjectId", "(", `string "507f1f77bcf86cd799439011"`, ")",
		}},
		{`[1,-2.5,/r/i]`, []string{
			"[", "int32 1", ",", "double -2.5", ",", "regular expression /r/i", "]",
		}},
	}

	for _, test := range tests {
		got, err := testutil.Tokens(test.input)
		if err != nil {
			t.Errorf("Next failed: %v", err)
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestScanner_values(t *testing.T) {
	mustScan := func(t *testing.T, input string, want extjson.Kind) extjson.Token {
		t.Helper()
		tok, err := extjson.NewScanner(strings.NewReader(input)).Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		} else if tok.Kind != want {
			t.Fatalf("Next token: got %v, want %v", tok.Kind, want)
		}
		return tok
	}

	t.Run("Int32", func(t *testing.T) {
		if got := mustScan(t, "2147483647", extjson.Int32).Int32(); got != math.MaxInt32 {
			t.Errorf("Int32: got %d, want %d", got, math.MaxInt32)
		}
	})
	t.Run("Int64", func(t *testing.T) {
		if got := mustScan(t, "2147483648", extjson.Int64).Int64(); got != math.MaxInt32+1 {
			t.Errorf("Int64: got %d, want %d", got, math.MaxInt32+1)
		}
		if got := mustScan(t, "-7", extjson.Int32).Int64(); got != -7 {
			t.Errorf("Int64 of Int32: got %d, want -7", got)
		}
	})
	t.Run("Double", func(t *testing.T) {
		if got := mustScan(t, "1e5", extjson.Double).Float64(); got != 1e5 {
			t.Errorf("Float64: got %v, want 1e5", got)
		}
		if got := mustScan(t, "-Infinity", extjson.Double).Float64(); !math.IsInf(got, -1) {
			t.Errorf("Float64: got %v, want -Inf", got)
		}
		if got := mustScan(t, "1e400", extjson.Double).Float64(); !math.IsInf(got, 1) {
			t.Errorf("Float64: got %v, want +Inf", got)
		}
	})
	t.Run("String", func(t *testing.T) {
		const want = "a\tb c\n"
		if got := mustScan(t, `"a\tb c\n"`, extjson.String).Text(); got != want {
			t.Errorf("Text: got %#q, want %#q", got, want)
		}
	})
	t.Run("Regex", func(t *testing.T) {
		re := mustScan(t, `/^a.*z$/mi,`, extjson.RegularExpression).Regex()
		if re.Pattern != "^a.*z$" || re.Options != "mi" {
			t.Errorf("Regex: got %+v, want pattern ^a.*z$ options mi", re)
		}
	})
	t.Run("Unquoted", func(t *testing.T) {
		if got := mustScan(t, "$date:", extjson.UnquotedString).Text(); got != "$date" {
			t.Errorf("Text: got %q, want $date", got)
		}
	})
}

func TestScanner_errors(t *testing.T) {
	tests := []struct {
		input   string
		text    string
		message string
		offset  int
	}{
		{`@`, "@", "invalid input", 1},
		{`  #`, "#", "invalid input", 3},
		{`"abc`, "abc", "end of input in string", 4},
		{`'abc"`, `abc"`, "end of input in string", 5},
		{`"\q"`, `\q`, "invalid escape sequence", 3},
		{`"\u12zz"`, `\u12zz`, "invalid Unicode escape", 7},
		{`"\u12`, "", "end of input in string", 5},
		{`/abc`, "/abc", "end of input in regular expression", 4},
		{`/abc/g`, "g", "invalid regular expression option", 6},
		{`1.`, "1.", "invalid number", 2},
		{`1.x`, "1.x", "invalid number", 3},
		{`1e`, "1e", "invalid number", 2},
		{`1e+`, "1e+", "invalid number", 3},
		{`12a`, "12a", "invalid number", 3},
		{`-`, "-", "invalid number", 1},
		{`-Inf`, "-Inf", "invalid number", 4},
		{`-Infinityx`, "-Infinityx", "invalid number", 10},
		{`99999999999999999999`, "99999999999999999999", "integer out of range", 20},
	}
	for _, test := range tests {
		s := extjson.NewScanner(strings.NewReader(test.input))
		tok, err := s.Next()
		var serr *extjson.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Next(%#q): got (%v, %v), want *SyntaxError", test.input, tok, err)
			continue
		}
		if serr.Text != test.text || serr.Message != test.message || serr.Pos.Offset != test.offset {
			t.Errorf("Next(%#q): got text %#q, message %q, offset %d; want %#q, %q, %d",
				test.input, serr.Text, serr.Message, serr.Pos.Offset,
				test.text, test.message, test.offset)
		}
	}
}

func TestScanner_position(t *testing.T) {
	s := extjson.NewScanner(strings.NewReader("{\n  \"a\": 15,\n  \"bc\": [x]\n}"))
	type pos struct{ Line, Column int }
	var got []pos
	for {
		tok, err := s.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		} else if tok.Kind == extjson.EndOfFile {
			break
		}
		p := s.Pos()
		got = append(got, pos{p.Line, p.Column})
	}
	want := []pos{
		{1, 1},
		{2, 5}, {2, 6}, {2, 9}, {2, 10},
		{3, 6}, {3, 7}, {3, 9}, {3, 10}, {3, 11},
		{4, 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Positions (-want, +got):\n%s", diff)
	}
}

func TestScanner_ioError(t *testing.T) {
	bad := errors.New("device on fire")
	s := extjson.NewScanner(&failReader{data: `"abc`, err: bad})
	_, err := s.Next()
	var ioe *extjson.IOError
	if !errors.As(err, &ioe) || ioe.Op != "read" {
		t.Fatalf("Next: got %v, want *IOError for read", err)
	}
	if !errors.Is(err, bad) {
		t.Errorf("Next: got %v, want it to wrap %v", err, bad)
	}
}

// failReader delivers data and then reports err.
type failReader struct {
	data string
	err  error
}

func (f *failReader) Read(buf []byte) (int, error) {
	if f.data == "" {
		return 0, f.err
	}
	n := copy(buf, f.data)
	f.data = f.data[n:]
	return n, nil
}

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", `""`},
		{" ", `" "`},
		{"a\t\nb", `"a\t\nb"`},
		{"\b\f\r", `"\b\f\r"`},
		{`"\`, `"\"\\"`},
		{"it's/ok", `"it's/ok"`},
		{"\x00\x01\x1f\x7f", `"\u0000\u0001\u001f\u007f"`},

		// Letters, marks, symbols, and space separators are copied.
		{"é€π", `"é€π"`},
		{"\u0301\u00a0", "\"\u0301\u00a0\""},
		{"\U0001f600", "\"\U0001f600\""},

		// Other categories are escaped.
		{"\u2028\u00ad", `"\u2028\u00ad"`},
		{"\ue000", `"\ue000"`},
		{"\U000e0001", `"\udb40\udc01"`},
		{"\U0010ffff", `"\udbff\udfff"`},
	}
	for _, test := range tests {
		if got := extjson.Quote(test.input); got != test.want {
			t.Errorf("Quote(%q): got %#q, want %#q", test.input, got, test.want)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input, want string
		ok          bool
	}{
		{`""`, "", true},
		{`''`, "", true},
		{`"abc"`, "abc", true},
		{`'a"b'`, `a"b`, true},
		{`"a\'b"`, "a'b", true},
		{`"\"\\\/\b\f\n\r\t"`, "\"\\/\b\f\n\r\t", true},
		{`"é€"`, "é€", true},
		{`"😀!"`, "😀!", true},
		{`"\ude00"`, "\ufffd", true},
		{`"\ud83d"`, "\ufffd", true},
		{`"\q"`, "\ufffd", true},
		{`"a\u12"`, "a", true},

		{``, "", false},
		{`"`, "", false},
		{`"abc'`, "", false},
		{`abc`, "", false},
		{`"abc\"`, "", false},
	}
	for _, test := range tests {
		got, err := extjson.Unquote(test.input)
		if (err == nil) != test.ok {
			t.Errorf("Unquote(%#q): got error %v, want ok=%v", test.input, err, test.ok)
		} else if got != test.want {
			t.Errorf("Unquote(%#q): got %q, want %q", test.input, got, test.want)
		}
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	for _, s := range []string{
		"", "plain", "tab\there", "quote\" and \\ backslash", "line\nbreak",
		"\x00\x1f", "\U0010ffff\U000e0001", "mixed \u00e9 \U0001f600 \u2028 end",
	} {
		q := extjson.Quote(s)
		got, err := extjson.Unquote(q)
		if err != nil {
			t.Errorf("Unquote(%#q) failed: %v", q, err)
		} else if got != s {
			t.Errorf("Unquote(Quote(%q)): got %q", s, got)
		}

		// The scanner must decode the quoted form identically.
		tok, err := extjson.NewScanner(strings.NewReader(q)).Next()
		if err != nil {
			t.Errorf("Scan %#q failed: %v", q, err)
		} else if tok.Text() != s {
			t.Errorf("Scan %#q: got %q, want %q", q, tok.Text(), s)
		}
	}
}

func TestScanner_strings(t *testing.T) {
	// The scanner decodes strings as Unquote does, but rejects the malformed
	// escapes that Unquote replaces.
	for _, lit := range []string{
		`"a\u0041b"`, `'é\''`, `"\ud83d\ude00"`, `"\ud83dx"`, `"\ude00\ud83d"`,
		`"\ud83d\u0041"`, `"\\u0041"`, `"tail\\"`,
	} {
		want, err := extjson.Unquote(lit)
		if err != nil {
			t.Fatalf("Unquote(%#q) failed: %v", lit, err)
		}
		tok, err := extjson.NewScanner(strings.NewReader(lit)).Next()
		if err != nil {
			t.Errorf("Scan %#q failed: %v", lit, err)
		} else if tok.Text() != want {
			t.Errorf("Scan %#q: got %q, want %q", lit, tok.Text(), want)
		}
	}

	for _, lit := range []string{`"\q"`, `"\u00zz"`, `"\u12"`} {
		if _, err := extjson.Unquote(lit); err != nil {
			t.Errorf("Unquote(%#q) failed: %v", lit, err)
		}
		var serr *extjson.SyntaxError
		if tok, err := extjson.NewScanner(strings.NewReader(lit)).Next(); !errors.As(err, &serr) {
			t.Errorf("Scan %#q: got (%v, %v), want *SyntaxError", lit, tok, err)
		}
	}
}
