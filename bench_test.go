// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package extjson_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/creachadair/extjson"
	"github.com/creachadair/extjson/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func BenchmarkScanner(b *testing.B) {
	input, err := os.ReadFile("testdata/input.json")
	if err != nil {
		b.Fatalf("Reading test input: %v", err)
	}
	b.Logf("Benchmark input: %d bytes", len(input))

	b.Run("Decoder", func(b *testing.B) {
		for b.Loop() {
			dec := json.NewDecoder(bytes.NewReader(input))
			for {
				_, err := dec.Token()
				if err == io.EOF {
					break
				} else if err != nil {
					b.Fatalf("Unexpected error: %v", err)
				}
			}
		}
	})

	b.Run("Scanner", func(b *testing.B) {
		for b.Loop() {
			s := extjson.NewScanner(bytes.NewReader(input))
			for {
				tok, err := s.Next()
				if err != nil {
					b.Fatalf("Unexpected error: %v", err)
				} else if tok.Kind == extjson.EndOfFile {
					break
				}
			}
		}
	})
}

func BenchmarkReader(b *testing.B) {
	input, err := os.ReadFile("testdata/input.json")
	if err != nil {
		b.Fatalf("Reading test input: %v", err)
	}

	b.Run("Walk", func(b *testing.B) {
		for b.Loop() {
			if _, err := testutil.Walk(extjson.NewReaderWithSettings(bytes.NewReader(input), extended)); err != nil {
				b.Fatalf("Walk failed: %v", err)
			}
		}
	})

	b.Run("Skip", func(b *testing.B) {
		for b.Loop() {
			r := extjson.NewReader(bytes.NewReader(input))
			if err := r.SkipValue(); err != nil {
				b.Fatalf("SkipValue failed: %v", err)
			}
		}
	})

	// For comparison, the driver's own extended JSON decoder.
	doc := append(append([]byte(`{"records":`), input...), '}')
	b.Run("UnmarshalExtJSON", func(b *testing.B) {
		for b.Loop() {
			var v bson.D
			if err := bson.UnmarshalExtJSON(doc, false, &v); err != nil {
				b.Fatalf("UnmarshalExtJSON failed: %v", err)
			}
		}
	})
}
