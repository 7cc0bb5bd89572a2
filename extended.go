// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package extjson

import (
	"encoding/base64"
	"math"
	"slices"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// readExtended checks whether the document whose open brace was just read
// is a wrapper for a single typed value, such as {"$oid": "..."}. If so, it
// consumes the wrapper and records the type and value, and reports true.
// Otherwise it leaves the input unchanged and reports false.
func (r *Reader) readExtended() bool {
	name := r.popToken()
	if name.Kind != String && name.Kind != UnquotedString {
		r.pushToken(name)
		return false
	}
	switch name.Text() {
	case "$oid":
		r.curType, r.value = bsontype.ObjectID, r.parseObjectID(r.extendedString())
	case "$date":
		r.curType, r.value = bsontype.DateTime, r.extendedDate()
	case "$numberLong":
		r.curType, r.value = bsontype.Int64, r.parseInt64(r.extendedString())
	case "$numberInt":
		text := r.extendedString()
		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			r.syntaxError(err, text, "invalid int32 value")
		}
		r.curType, r.value = bsontype.Int32, int32(v)
	case "$numberDouble":
		text := r.extendedString()
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			r.syntaxError(err, text, "invalid double value")
		}
		r.curType, r.value = bsontype.Double, v
	case "$numberDecimal":
		r.curType, r.value = bsontype.Decimal128, r.parseDecimal(r.extendedString())
	case "$regex":
		r.curType, r.value = bsontype.Regex, r.extendedRegex()
	case "$regularExpression":
		r.expect(Colon)
		r.expect(BeginObject)
		f := r.extendedFields("pattern", "options")
		r.expect(EndObject)
		r.curType, r.value = bsontype.Regex, primitive.Regex{Pattern: f["pattern"], Options: f["options"]}
	case "$binary":
		r.curType, r.value = bsontype.Binary, r.extendedBinary()
	case "$undefined":
		r.expect(Colon)
		if tok := r.expect(UnquotedString); tok.Text() != "true" {
			r.syntaxError(nil, tok.Text(), "expected true")
		}
		r.expect(EndObject)
		r.curType = bsontype.Undefined
	default:
		r.pushToken(name)
		return false
	}
	return true
}

// extendedString reads the remainder of a wrapper whose value is a string,
// through the closing brace.
func (r *Reader) extendedString() string {
	r.expect(Colon)
	text := r.expect(String).Text()
	r.expect(EndObject)
	return text
}

func (r *Reader) extendedDate() primitive.DateTime {
	r.expect(Colon)
	var v primitive.DateTime
	switch tok := r.popToken(); tok.Kind {
	case String:
		v = r.parseDate(tok.Text())
	case Int32, Int64:
		v = primitive.DateTime(tok.Int64())
	case BeginObject:
		if key := r.expect(String, UnquotedString); key.Text() != "$numberLong" {
			r.syntaxError(nil, key.Text(), "expected $numberLong")
		}
		v = primitive.DateTime(r.parseInt64(r.extendedString()))
	default:
		r.syntaxError(nil, tok.String(), "expected a date but found %v", tok.Kind)
	}
	r.expect(EndObject)
	return v
}

func (r *Reader) extendedRegex() primitive.Regex {
	r.expect(Colon)
	re := primitive.Regex{Pattern: r.expect(String).Text()}
	if r.expect(Comma, EndObject).Kind == EndObject {
		return re
	}
	if key := r.expect(String, UnquotedString); key.Text() != "$options" {
		r.syntaxError(nil, key.Text(), "expected $options")
	}
	re.Options = r.extendedString()
	return re
}

// extendedBinary reads a $binary wrapper in either the legacy form, with a
// separate $type key, or the form {"base64": "...", "subType": "xx"}.
func (r *Reader) extendedBinary() primitive.Binary {
	r.expect(Colon)
	tok := r.expect(String, BeginObject)
	if tok.Kind == BeginObject {
		f := r.extendedFields("base64", "subType")
		r.expect(EndObject)
		return primitive.Binary{Subtype: r.parseSubtype(f["subType"]), Data: r.parseBase64(f["base64"])}
	}
	bin := primitive.Binary{Data: r.parseBase64(tok.Text())}
	if r.expect(Comma, EndObject).Kind == EndObject {
		return bin
	}
	if key := r.expect(String, UnquotedString); key.Text() != "$type" {
		r.syntaxError(nil, key.Text(), "expected $type")
	}
	bin.Subtype = r.parseSubtype(r.extendedString())
	return bin
}

// extendedFields reads the members of a nested wrapper document, whose
// values must be strings, through its closing brace. Each of keys must
// appear exactly once and no others are allowed.
func (r *Reader) extendedFields(keys ...string) map[string]string {
	out := make(map[string]string, len(keys))
	for {
		key := r.expect(String, UnquotedString, EndObject)
		if key.Kind == EndObject {
			break
		}
		name := key.Text()
		if _, dup := out[name]; dup || !slices.Contains(keys, name) {
			r.syntaxError(nil, name, "unexpected key")
		}
		r.expect(Colon)
		out[name] = r.expect(String).Text()
		if r.expect(Comma, EndObject).Kind == EndObject {
			break
		}
	}
	for _, k := range keys {
		if _, ok := out[k]; !ok {
			r.syntaxError(nil, "", "missing %s", k)
		}
	}
	return out
}

// readConstructor reads the arguments of a shell-style constructor such as
// ObjectId("..."), whose name has been read and whose open parenthesis is
// next. It reports false if name is not a known constructor.
func (r *Reader) readConstructor(name string) bool {
	switch name {
	case "ObjectId":
		r.expect(LeftParen)
		r.curType, r.value = bsontype.ObjectID, r.parseObjectID(r.expect(String).Text())
	case "ISODate":
		r.expect(LeftParen)
		r.curType, r.value = bsontype.DateTime, r.parseDate(r.expect(String).Text())
	case "NumberLong":
		r.expect(LeftParen)
		tok := r.expect(String, Int32, Int64)
		if tok.Kind == String {
			r.curType, r.value = bsontype.Int64, r.parseInt64(tok.Text())
		} else {
			r.curType, r.value = bsontype.Int64, tok.Int64()
		}
	case "NumberInt":
		r.expect(LeftParen)
		r.curType, r.value = bsontype.Int32, r.expect(Int32).Int32()
	case "NumberDecimal":
		r.expect(LeftParen)
		r.curType, r.value = bsontype.Decimal128, r.parseDecimal(r.expect(String).Text())
	case "BinData":
		r.expect(LeftParen)
		sub := r.expect(Int32).Int32()
		if sub < 0 || sub > math.MaxUint8 {
			r.syntaxError(nil, strconv.Itoa(int(sub)), "invalid binary subtype")
		}
		r.expect(Comma)
		data := r.parseBase64(r.expect(String).Text())
		r.curType, r.value = bsontype.Binary, primitive.Binary{Subtype: byte(sub), Data: data}
	default:
		return false
	}
	r.expect(RightParen)
	return true
}

// expect reads a token and reports a syntax error if it is not one of the
// specified kinds.
func (r *Reader) expect(kinds ...Kind) Token {
	tok := r.popToken()
	for _, k := range kinds {
		if tok.Kind == k {
			return tok
		}
	}
	r.syntaxError(nil, tok.String(), "expected %v but found %v", kinds[0], tok.Kind)
	panic("unreachable")
}

func (r *Reader) parseObjectID(text string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(text)
	if err != nil {
		r.syntaxError(err, text, "invalid object ID")
	}
	return id
}

func (r *Reader) parseInt64(text string) int64 {
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		r.syntaxError(err, text, "invalid int64 value")
	}
	return v
}

func (r *Reader) parseDecimal(text string) primitive.Decimal128 {
	d, err := primitive.ParseDecimal128(text)
	if err != nil {
		r.syntaxError(err, text, "invalid decimal value")
	}
	return d
}

func (r *Reader) parseBase64(text string) []byte {
	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		r.syntaxError(err, text, "invalid base64 data")
	}
	return data
}

func (r *Reader) parseSubtype(text string) byte {
	v, err := strconv.ParseUint(text, 16, 8)
	if err != nil || len(text) > 2 {
		r.syntaxError(err, text, "invalid binary subtype")
	}
	return byte(v)
}

// dateLayouts are the accepted layouts for dates written as strings. The
// first is the layout produced by the Writer.
var dateLayouts = []string{
	"2006-01-02T15:04-0700",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999Z07:00",
	"2006-01-02T15:04:05.999Z0700",
}

func (r *Reader) parseDate(text string) primitive.DateTime {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return primitive.NewDateTimeFromTime(t)
		}
	}
	r.syntaxError(nil, text, "invalid date")
	panic("unreachable")
}
