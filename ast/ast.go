// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package ast defines a tree of extended JSON values, with functions to
// decode trees from a Reader, encode them to a Writer, and convert them to
// and from the value types of the MongoDB Go driver.
package ast

import (
	"fmt"
	"strings"

	"github.com/creachadair/extjson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// A Value is an arbitrary extended JSON value. The concrete types that
// implement Value are all defined in this package.
type Value interface {
	// Type reports the BSON type of the value.
	Type() bsontype.Type

	// JSON renders the value as compact Relaxed extended JSON.
	JSON() string

	isValue()
}

// A Document is an ordered collection of named members.
type Document []*Member

// Find returns the first member of d with the given key, or nil.
func (d Document) Find(key string) *Member {
	for _, m := range d {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// Len reports the number of members in d.
func (d Document) Len() int { return len(d) }

func (d Document) String() string { return fmt.Sprintf("Document(len=%d)", len(d)) }

// A Member is a single key-value pair belonging to a Document.
type Member struct {
	Key   string
	Value Value
}

func (m Member) String() string { return fmt.Sprintf("Member(key=%q)", m.Key) }

// Field constructs a document member with the given key and value. The
// value is converted as by ToValue.
func Field(key string, value any) *Member {
	return &Member{Key: key, Value: ToValue(value)}
}

// An Array is a sequence of values.
type Array []Value

// Len reports the number of elements in a.
func (a Array) Len() int { return len(a) }

func (a Array) String() string { return fmt.Sprintf("Array(len=%d)", len(a)) }

// A String is a string value.
type String string

// An Int32 is a 32-bit integer value.
type Int32 int32

// An Int64 is a 64-bit integer value.
type Int64 int64

// A Double is a floating-point value.
type Double float64

// A Bool is a Boolean value.
type Bool bool

// Null is the type of the null value.
type Null struct{}

// Undefined is the type of the undefined value.
type Undefined struct{}

// A DateTime is a date, in milliseconds since the Unix epoch.
type DateTime primitive.DateTime

// An ObjectID is an object identifier.
type ObjectID primitive.ObjectID

// Binary is binary data with a subtype.
type Binary primitive.Binary

// A Regex is a regular expression pattern with options.
type Regex primitive.Regex

// A Decimal128 is a decimal floating-point value.
type Decimal128 primitive.Decimal128

func (Document) Type() bsontype.Type   { return bsontype.EmbeddedDocument }
func (Array) Type() bsontype.Type      { return bsontype.Array }
func (String) Type() bsontype.Type     { return bsontype.String }
func (Int32) Type() bsontype.Type      { return bsontype.Int32 }
func (Int64) Type() bsontype.Type      { return bsontype.Int64 }
func (Double) Type() bsontype.Type     { return bsontype.Double }
func (Bool) Type() bsontype.Type       { return bsontype.Boolean }
func (Null) Type() bsontype.Type       { return bsontype.Null }
func (Undefined) Type() bsontype.Type  { return bsontype.Undefined }
func (DateTime) Type() bsontype.Type   { return bsontype.DateTime }
func (ObjectID) Type() bsontype.Type   { return bsontype.ObjectID }
func (Binary) Type() bsontype.Type     { return bsontype.Binary }
func (Regex) Type() bsontype.Type      { return bsontype.Regex }
func (Decimal128) Type() bsontype.Type { return bsontype.Decimal128 }

func (d Document) JSON() string   { return render(d) }
func (a Array) JSON() string      { return render(a) }
func (s String) JSON() string     { return render(s) }
func (z Int32) JSON() string      { return render(z) }
func (z Int64) JSON() string      { return render(z) }
func (f Double) JSON() string     { return render(f) }
func (b Bool) JSON() string       { return render(b) }
func (n Null) JSON() string       { return render(n) }
func (u Undefined) JSON() string  { return render(u) }
func (t DateTime) JSON() string   { return render(t) }
func (o ObjectID) JSON() string   { return render(o) }
func (b Binary) JSON() string     { return render(b) }
func (r Regex) JSON() string      { return render(r) }
func (d Decimal128) JSON() string { return render(d) }

func (Document) isValue()   {}
func (Array) isValue()      {}
func (String) isValue()     {}
func (Int32) isValue()      {}
func (Int64) isValue()      {}
func (Double) isValue()     {}
func (Bool) isValue()       {}
func (Null) isValue()       {}
func (Undefined) isValue()  {}
func (DateTime) isValue()   {}
func (ObjectID) isValue()   {}
func (Binary) isValue()     {}
func (Regex) isValue()      {}
func (Decimal128) isValue() {}

// render formats v as compact Relaxed text. A value constructed by this
// package always encodes without error.
func render(v Value) string {
	var sb strings.Builder
	if err := Encode(extjson.NewWriter(&sb, nil), v); err != nil {
		panic(fmt.Sprintf("ast: encoding %T: %v", v, err))
	}
	return sb.String()
}
