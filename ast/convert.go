// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"
	"math"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToValue converts a Go value into an equivalent Value. It panics if v
// cannot be converted; use FromBSON to report an error instead.
func ToValue(v any) Value {
	out, err := FromBSON(v)
	if err != nil {
		panic(err)
	}
	return out
}

// FromBSON converts a Go value into an equivalent Value. It accepts the
// values produced by the MongoDB driver when decoding into bson.D, bson.M,
// or any, as well as Go strings, Booleans, numbers, byte slices, times,
// slices, string-keyed maps, and Values. The keys of a map are sorted.
func FromBSON(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case *Member:
		return Document{t}, nil

	case bson.D:
		doc := make(Document, len(t))
		for i, e := range t {
			ev, err := FromBSON(e.Value)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", e.Key, err)
			}
			doc[i] = &Member{Key: e.Key, Value: ev}
		}
		return doc, nil
	case bson.E:
		return FromBSON(bson.D{t})
	case bson.M:
		return fromMap(t)
	case map[string]any:
		return fromMap(t)
	case bson.A:
		return fromSlice(t)
	case []any:
		return fromSlice(t)

	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int32:
		return Int32(t), nil
	case int64:
		return Int64(t), nil
	case int:
		if t >= math.MinInt32 && t <= math.MaxInt32 {
			return Int32(t), nil
		}
		return Int64(t), nil
	case float64:
		return Double(t), nil
	case float32:
		return Double(t), nil
	case []byte:
		return Binary{Data: t}, nil
	case time.Time:
		return DateTime(primitive.NewDateTimeFromTime(t)), nil

	case primitive.Null:
		return Null{}, nil
	case primitive.Undefined:
		return Undefined{}, nil
	case primitive.DateTime:
		return DateTime(t), nil
	case primitive.ObjectID:
		return ObjectID(t), nil
	case primitive.Binary:
		return Binary(t), nil
	case primitive.Regex:
		return Regex(t), nil
	case primitive.Decimal128:
		return Decimal128(t), nil
	default:
		return nil, fmt.Errorf("cannot convert %T to a value", v)
	}
}

func fromMap[M ~map[string]any](m M) (Value, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	doc := make(Document, len(keys))
	for i, k := range keys {
		v, err := FromBSON(m[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		doc[i] = &Member{Key: k, Value: v}
	}
	return doc, nil
}

func fromSlice[S ~[]any](s S) (Value, error) {
	arr := make(Array, len(s))
	for i, elt := range s {
		v, err := FromBSON(elt)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		arr[i] = v
	}
	return arr, nil
}

// ToBSON converts v into the equivalent value of the MongoDB driver: a
// Document becomes a bson.D, an Array becomes a bson.A, and scalars become
// Go or primitive values. A Null becomes nil. ToBSON reports an error if v
// contains a nil member or value.
func ToBSON(v Value) (any, error) {
	switch t := v.(type) {
	case Document:
		out := make(bson.D, len(t))
		for i, m := range t {
			if m == nil {
				return nil, fmt.Errorf("nil member in document")
			}
			mv, err := ToBSON(m.Value)
			if err != nil {
				return nil, fmt.Errorf("member %q: %w", m.Key, err)
			}
			out[i] = bson.E{Key: m.Key, Value: mv}
		}
		return out, nil
	case Array:
		out := make(bson.A, len(t))
		for i, elt := range t {
			ev, err := ToBSON(elt)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = ev
		}
		return out, nil
	case String:
		return string(t), nil
	case Int32:
		return int32(t), nil
	case Int64:
		return int64(t), nil
	case Double:
		return float64(t), nil
	case Bool:
		return bool(t), nil
	case Null:
		return nil, nil
	case Undefined:
		return primitive.Undefined{}, nil
	case DateTime:
		return primitive.DateTime(t), nil
	case ObjectID:
		return primitive.ObjectID(t), nil
	case Binary:
		return primitive.Binary(t), nil
	case Regex:
		return primitive.Regex(t), nil
	case Decimal128:
		return primitive.Decimal128(t), nil
	}
	return nil, fmt.Errorf("nil value")
}
