// Package testutil defines support code for unit tests.
package testutil

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/creachadair/extjson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Tokens scans input to the end and returns a summary of each token. A
// punctuation token is rendered as its text, and other tokens as their kind
// and value separated by a space. The end-of-input token is not included.
func Tokens(input string) ([]string, error) {
	s := extjson.NewScanner(strings.NewReader(input))
	var out []string
	for {
		tok, err := s.Next()
		if err != nil {
			return out, err
		}
		switch tok.Kind {
		case extjson.EndOfFile:
			return out, nil
		case extjson.BeginObject, extjson.EndObject, extjson.BeginArray, extjson.EndArray,
			extjson.LeftParen, extjson.RightParen, extjson.Colon, extjson.Comma:
			out = append(out, tok.String())
		default:
			out = append(out, tok.Kind.String()+" "+tok.String())
		}
	}
}

// Walk reads values from r until the end of its input, and returns a
// compact rendering of them separated by spaces. A document is rendered as
// {name:value ...}, an array as [value ...], and a scalar as type(value),
// for example int32(1) or string("a").
func Walk(r *extjson.Reader) (string, error) {
	var vals []string
	for {
		t, err := r.ReadType()
		if err != nil {
			return strings.Join(vals, " "), err
		} else if t == extjson.EndOfDocument {
			return strings.Join(vals, " "), nil
		}
		v, err := WalkValue(r)
		if err != nil {
			return strings.Join(vals, " "), err
		}
		vals = append(vals, v)
	}
}

// WalkValue renders the current value of r, whose type has been read.
func WalkValue(r *extjson.Reader) (string, error) {
	switch t := r.CurrentType(); t {
	case bsontype.EmbeddedDocument:
		if err := r.ReadStartDocument(); err != nil {
			return "", err
		}
		var mem []string
		for {
			t, err := r.ReadType()
			if err != nil {
				return "", err
			} else if t == extjson.EndOfDocument {
				break
			}
			name, err := r.ReadName()
			if err != nil {
				return "", err
			}
			v, err := WalkValue(r)
			if err != nil {
				return "", err
			}
			mem = append(mem, name+":"+v)
		}
		return "{" + strings.Join(mem, " ") + "}", r.ReadEndDocument()

	case bsontype.Array:
		if err := r.ReadStartArray(); err != nil {
			return "", err
		}
		var elts []string
		for {
			t, err := r.ReadType()
			if err != nil {
				return "", err
			} else if t == extjson.EndOfDocument {
				break
			}
			v, err := WalkValue(r)
			if err != nil {
				return "", err
			}
			elts = append(elts, v)
		}
		return "[" + strings.Join(elts, " ") + "]", r.ReadEndArray()

	case bsontype.String:
		return wrap("string(%q)", r.ReadString)
	case bsontype.Int32:
		return wrap("int32(%d)", r.ReadInt32)
	case bsontype.Int64:
		return wrap("int64(%d)", r.ReadInt64)
	case bsontype.Double:
		return wrap("double(%v)", r.ReadDouble)
	case bsontype.Boolean:
		return wrap("bool(%v)", r.ReadBoolean)
	case bsontype.Null:
		return "null", r.ReadNull()
	case bsontype.Undefined:
		return "undefined", r.ReadUndefined()
	case bsontype.DateTime:
		return wrap("date(%d)", r.ReadDateTime)
	case bsontype.ObjectID:
		id, err := r.ReadObjectID()
		return "oid(" + id.Hex() + ")", err
	case bsontype.Decimal128:
		return wrap("decimal(%v)", r.ReadDecimal128)
	case bsontype.Regex:
		re, err := r.ReadRegex()
		return "regex(/" + re.Pattern + "/" + re.Options + ")", err
	case bsontype.Binary:
		b, err := r.ReadBinary()
		return fmt.Sprintf("binary(%02x,%s)", b.Subtype, base64.StdEncoding.EncodeToString(b.Data)), err
	default:
		return "", fmt.Errorf("unexpected type %v", t)
	}
}

func wrap[T any](format string, read func() (T, error)) (string, error) {
	v, err := read()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(format, v), nil
}
