// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/creachadair/extjson"
	"github.com/creachadair/extjson/ast"
	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParse(t *testing.T) {
	input, err := os.ReadFile("../testdata/input.json")
	if err != nil {
		t.Fatalf("Reading test input: %v", err)
	}

	start := time.Now()
	rd := extjson.NewReaderWithSettings(bytes.NewReader(input), &extjson.ReaderSettings{Extended: true})
	vs, err := ast.DecodeAll(rd)
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	t.Logf("Parsed %d bytes into %d values [%v elapsed]",
		len(input), len(vs), elapsed)
	if len(vs) != 1 {
		t.Fatalf("Got %d values, want 1", len(vs))
	}

	// Inspect some of the structure of the test value to make sure we got
	// something approximating sense.
	//
	// If the testdata file changes, this may need to be updated.
	//
	// [
	//  {
	//   "_id": {"$oid": "..."},
	//   "name": "user-0",
	//   ...
	//  },
	//  ...
	// ]
	lst, ok := vs[0].(ast.Array)
	if !ok {
		t.Fatalf("Root is %T, not array", vs[0])
	} else if len(lst) < 2 {
		t.Fatalf("Array has %d elements, want several", len(lst))
	}
	obj, ok := lst[1].(ast.Document)
	if !ok {
		t.Fatalf("Array entry is %T, not document", lst[1])
	}
	check[ast.ObjectID](t, obj, "_id", func(v ast.ObjectID) {
		if got, want := primitive.ObjectID(v).Hex(), "507f1f77bcf86cd799439012"; got != want {
			t.Errorf("ID: got %s, want %s", got, want)
		}
	})
	check[ast.String](t, obj, "name", func(v ast.String) {
		if v != "user-1" {
			t.Errorf("Name: got %q, want user-1", v)
		}
	})
	check[ast.Int64](t, obj, "visits", nil)
	check[ast.DateTime](t, obj, "created", func(v ast.DateTime) {
		if v != 1600086400000 {
			t.Errorf("Created: got %d, want 1600086400000", v)
		}
	})
	check[ast.Double](t, obj, "score", nil)
	check[ast.Bool](t, obj, "active", nil)
	check[ast.Null](t, obj, "note", nil)
	check[ast.Document](t, obj, "address", func(v ast.Document) {
		check[ast.Array](t, v, "geo", nil)
	})
}

func check[T any](t *testing.T, obj ast.Document, key string, f func(T)) {
	t.Helper()
	if v := obj.Find(key); v == nil {
		t.Fatalf("Key %q not found", key)
	} else if tv, ok := v.Value.(T); !ok {
		var zero T
		t.Fatalf("Key %q value is %T, not %T", key, v.Value, zero)
	} else if f != nil {
		f(tv)
	}
}

func TestParse_values(t *testing.T) {
	vs, err := ast.Parse(strings.NewReader(`1 {"a": [true, NumberLong(3)]} "x" /r/`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []ast.Value{
		ast.Int32(1),
		ast.Document{{Key: "a", Value: ast.Array{ast.Bool(true), ast.Int64(3)}}},
		ast.String("x"),
		ast.Regex{Pattern: "r"},
	}
	if diff := cmp.Diff(want, vs); diff != "" {
		t.Errorf("Parse (-want, +got):\n%s", diff)
	}

	// Values parsed before an error are returned.
	vs, err = ast.Parse(strings.NewReader(`1 2 {`))
	if err == nil {
		t.Error("Parse: got nil error, want a syntax error")
	}
	if diff := cmp.Diff([]ast.Value{ast.Int32(1), ast.Int32(2)}, vs); diff != "" {
		t.Errorf("Parse partial (-want, +got):\n%s", diff)
	}
}

func TestParseSingle(t *testing.T) {
	if v, err := ast.ParseSingle(strings.NewReader(" [1] ")); err != nil {
		t.Errorf("ParseSingle: unexpected error: %v", err)
	} else if diff := cmp.Diff(ast.Value(ast.Array{ast.Int32(1)}), v); diff != "" {
		t.Errorf("ParseSingle (-want, +got):\n%s", diff)
	}
	for _, bad := range []string{"", "  ", "1 2", "[1] [2]", "{"} {
		if v, err := ast.ParseSingle(strings.NewReader(bad)); err == nil {
			t.Errorf("ParseSingle(%q): got %v, want error", bad, v)
		}
	}

	// Wrapper documents are only recognized when the reader is asked to.
	const input = `{"$numberLong": "5"}`
	plain := ast.Document{ast.Field("$numberLong", "5")}
	if v, err := ast.ParseSingle(strings.NewReader(input)); err != nil {
		t.Errorf("ParseSingle: unexpected error: %v", err)
	} else if diff := cmp.Diff(ast.Value(plain), v); diff != "" {
		t.Errorf("ParseSingle (-want, +got):\n%s", diff)
	}
	rd := extjson.NewReaderWithSettings(strings.NewReader(input), &extjson.ReaderSettings{Extended: true})
	if v, err := ast.DecodeSingle(rd); err != nil || v != ast.Int64(5) {
		t.Errorf("DecodeSingle: got (%v, %v), want 5", v, err)
	}
}

func TestDecode(t *testing.T) {
	r := extjson.NewReader(strings.NewReader(`{"skip": 1, "keep": {"x": [null]}, "last": 2}`))
	if err := r.ReadStartDocument(); err != nil {
		t.Fatalf("ReadStartDocument: %v", err)
	}
	if err := r.SkipValue(); err != nil {
		t.Fatalf("SkipValue: %v", err)
	}

	// Decode reads the type and discards the name.
	v, err := ast.Decode(r)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := ast.Document{ast.Field("x", ast.Array{ast.Null{}})}
	if diff := cmp.Diff(ast.Value(want), v); diff != "" {
		t.Errorf("Decode (-want, +got):\n%s", diff)
	}

	// Decode also works after the type has been read.
	if _, err := r.ReadType(); err != nil {
		t.Fatalf("ReadType: %v", err)
	}
	if v, err := ast.Decode(r); err != nil || v != ast.Int32(2) {
		t.Errorf("Decode: got (%v, %v), want 2", v, err)
	}

	// At the end of the document there is no value.
	if v, err := ast.Decode(r); err == nil {
		t.Errorf("Decode: got %v, want error", v)
	}
	if err := r.ReadEndDocument(); err != nil {
		t.Errorf("ReadEndDocument: %v", err)
	}
	if _, err := ast.Decode(r); err != io.EOF {
		t.Errorf("Decode at end: got %v, want %v", err, io.EOF)
	}
}

func TestFormat(t *testing.T) {
	doc := ast.Document{
		ast.Field("a", 1),
		ast.Field("b", ast.Document{ast.Field("c", []any{"d"})}),
		ast.Field("e", int64(1<<40)),
	}
	set := extjson.DefaultWriterSettings()
	set.Indent = true
	set.OutputMode = extjson.Strict
	got, err := ast.Format(doc, set)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	want := `{
  "a": 1,
  "b": {
    "c": ["d"]
  },
  "e": {"$numberLong": "1099511627776"}
}`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Format (-want, +got):\n%s", diff)
	}

	if _, err := ast.Format(ast.Document{{Key: "bad"}}, nil); err == nil {
		t.Error("Format with nil member value: got nil error")
	}
}
