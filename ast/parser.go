// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"errors"
	"fmt"
	"io"

	"github.com/creachadair/extjson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Parse parses and returns all the values from r, using a Reader with
// default settings. If an error occurs, Parse returns the values read up to
// that point along with the error.
func Parse(r io.Reader) ([]Value, error) { return DecodeAll(extjson.NewReader(r)) }

// ParseSingle parses and returns a single value from r, using a Reader with
// default settings. It reports an error if r is empty or contains more than
// one value.
func ParseSingle(r io.Reader) (Value, error) { return DecodeSingle(extjson.NewReader(r)) }

// DecodeAll reads the remaining values from r. If an error occurs, DecodeAll
// returns the values read up to that point along with the error.
func DecodeAll(r *extjson.Reader) ([]Value, error) {
	var vs []Value
	for {
		v, err := Decode(r)
		if err == io.EOF {
			return vs, nil
		} else if err != nil {
			return vs, err
		}
		vs = append(vs, v)
	}
}

// DecodeSingle reads a single value from r, and reports an error if r holds
// no value or more than one.
func DecodeSingle(r *extjson.Reader) (Value, error) {
	v, err := Decode(r)
	if err == io.EOF {
		return nil, errors.New("no value found")
	} else if err != nil {
		return nil, err
	}
	if _, err := Decode(r); err == nil {
		return nil, errors.New("extra data after value")
	} else if err != io.EOF {
		return nil, err
	}
	return v, nil
}

// Decode reads the next value from r. If r is positioned at the top level
// and its input is exhausted, Decode reports io.EOF.
//
// If the type of the next value has already been read, Decode reads that
// value. Inside a document Decode discards the name of the member.
func Decode(r *extjson.Reader) (Value, error) {
	t := r.CurrentType()
	switch r.State() {
	case extjson.StateInitial, extjson.StateDone, extjson.StateType:
		var err error
		t, err = r.ReadType()
		if err != nil {
			return nil, err
		}
	}
	if t == extjson.EndOfDocument {
		if r.Context() == extjson.TopLevel {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("no value before end of %v", r.Context())
	}
	if r.State() == extjson.StateName {
		if err := r.SkipName(); err != nil {
			return nil, err
		}
	}
	return decodeValue(r, t)
}

func decodeValue(r *extjson.Reader, t bsontype.Type) (Value, error) {
	switch t {
	case bsontype.EmbeddedDocument:
		if err := r.ReadStartDocument(); err != nil {
			return nil, err
		}
		doc := Document{}
		for {
			t, err := r.ReadType()
			if err != nil {
				return nil, err
			} else if t == extjson.EndOfDocument {
				break
			}
			name, err := r.ReadName()
			if err != nil {
				return nil, err
			}
			v, err := decodeValue(r, t)
			if err != nil {
				return nil, err
			}
			doc = append(doc, &Member{Key: name, Value: v})
		}
		return doc, r.ReadEndDocument()

	case bsontype.Array:
		if err := r.ReadStartArray(); err != nil {
			return nil, err
		}
		arr := Array{}
		for {
			t, err := r.ReadType()
			if err != nil {
				return nil, err
			} else if t == extjson.EndOfDocument {
				break
			}
			v, err := decodeValue(r, t)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, r.ReadEndArray()

	case bsontype.String:
		v, err := r.ReadString()
		return result(String(v), err)
	case bsontype.Int32:
		v, err := r.ReadInt32()
		return result(Int32(v), err)
	case bsontype.Int64:
		v, err := r.ReadInt64()
		return result(Int64(v), err)
	case bsontype.Double:
		v, err := r.ReadDouble()
		return result(Double(v), err)
	case bsontype.Boolean:
		v, err := r.ReadBoolean()
		return result(Bool(v), err)
	case bsontype.Null:
		return result(Null{}, r.ReadNull())
	case bsontype.Undefined:
		return result(Undefined{}, r.ReadUndefined())
	case bsontype.DateTime:
		v, err := r.ReadDateTime()
		return result(DateTime(v), err)
	case bsontype.ObjectID:
		v, err := r.ReadObjectID()
		return result(ObjectID(v), err)
	case bsontype.Binary:
		v, err := r.ReadBinary()
		return result(Binary(v), err)
	case bsontype.Regex:
		v, err := r.ReadRegex()
		return result(Regex(v), err)
	case bsontype.Decimal128:
		v, err := r.ReadDecimal128()
		return result(Decimal128(v), err)
	default:
		return nil, fmt.Errorf("unsupported value type %v", t)
	}
}

func result(v Value, err error) (Value, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}
