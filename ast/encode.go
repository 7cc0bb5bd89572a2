// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"
	"strings"

	"github.com/creachadair/extjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Encode writes v to w. Inside a document, the caller must first write the
// name of the member.
func Encode(w *extjson.Writer, v Value) error {
	switch t := v.(type) {
	case Document:
		if err := w.WriteStartDocument(); err != nil {
			return err
		}
		for _, m := range t {
			if m == nil {
				return fmt.Errorf("nil member in document")
			}
			if err := w.WriteName(m.Key); err != nil {
				return err
			}
			if err := Encode(w, m.Value); err != nil {
				return fmt.Errorf("member %q: %w", m.Key, err)
			}
		}
		return w.WriteEndDocument()
	case Array:
		if err := w.WriteStartArray(); err != nil {
			return err
		}
		for i, elt := range t {
			if err := Encode(w, elt); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		return w.WriteEndArray()
	case String:
		return w.WriteString(string(t))
	case Int32:
		return w.WriteInt32(int32(t))
	case Int64:
		return w.WriteInt64(int64(t))
	case Double:
		return w.WriteDouble(float64(t))
	case Bool:
		return w.WriteBoolean(bool(t))
	case Null:
		return w.WriteNull()
	case Undefined:
		return w.WriteUndefined()
	case DateTime:
		return w.WriteDateTime(primitive.DateTime(t))
	case ObjectID:
		return w.WriteObjectID(primitive.ObjectID(t))
	case Binary:
		return w.WriteBinary(primitive.Binary(t))
	case Regex:
		return w.WriteRegex(primitive.Regex(t))
	case Decimal128:
		return w.WriteDecimal128(primitive.Decimal128(t))
	case nil:
		return fmt.Errorf("nil value")
	default:
		return fmt.Errorf("unsupported value %T", v)
	}
}

// Format renders v as text using the given settings. If set == nil, the
// defaults are used.
func Format(v Value, set *extjson.WriterSettings) (string, error) {
	var sb strings.Builder
	w := extjson.NewWriter(&sb, set)
	if err := Encode(w, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}
