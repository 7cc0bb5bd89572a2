// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package extjson

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// A Reader is a pull parser for a stream of extended JSON values. The caller
// asks for the type of the next value with ReadType, and then consumes the
// value with the matching Read method, or discards it with SkipValue.
// Documents and arrays are entered and exited explicitly.
//
// A Reader is not safe for concurrent use. After any method reports an
// error, the Reader must not be used further.
type Reader struct {
	s      *Scanner
	stk    []ContextKind // context stack; the last element is current
	state  State
	pushed *Token // one token of lookahead, or nil

	curType bsontype.Type
	curName string
	value   any // decoded payload of the current scalar

	mark *readerMark
	ext  bool // recognize extended JSON wrapper documents
}

// binaryGeneric is the subtype of binary data read from a plain string.
const binaryGeneric byte = 0x00

type readerMark struct {
	pushed  *Token
	curType bsontype.Type
	curName string
	value   any
	state   State
	stk     []ContextKind
}

// NewReader constructs a Reader that consumes input from r, with default
// settings.
func NewReader(r io.Reader) *Reader { return NewReaderFromScanner(NewScanner(r), nil) }

// NewReaderWithSettings constructs a Reader that consumes input from r. If
// set == nil, default settings are used.
func NewReaderWithSettings(r io.Reader, set *ReaderSettings) *Reader {
	return NewReaderFromScanner(NewScanner(r), set)
}

// NewReaderFromScanner constructs a Reader that consumes tokens from s. If
// set == nil, default settings are used.
func NewReaderFromScanner(s *Scanner, set *ReaderSettings) *Reader {
	if set == nil {
		set = DefaultReaderSettings()
	}
	return &Reader{s: s, stk: []ContextKind{TopLevel}, state: StateInitial, ext: set.Extended}
}

// State reports the current state of the reader.
func (r *Reader) State() State { return r.state }

// CurrentType reports the type of the value most recently reported by ReadType.
func (r *Reader) CurrentType() bsontype.Type { return r.curType }

// CurrentName reports the most recently read field name.
func (r *Reader) CurrentName() string { return r.curName }

// Context reports the kind of the innermost structure containing the reader.
func (r *Reader) Context() ContextKind { return r.top() }

// Depth reports the number of documents and arrays the reader is inside.
func (r *Reader) Depth() int { return len(r.stk) - 1 }

// Pos reports the position of the reader in its input.
func (r *Reader) Pos() Position { return r.s.Pos() }

// Close marks the reader closed. Subsequent reads report a *StateError.
// Close does not close the underlying input.
func (r *Reader) Close() error { r.state = StateClosed; return nil }

// ReadType advances to the next value and reports its type. Inside a
// document, the field name is consumed and is available from CurrentName.
// ReadType reports EndOfDocument at the end of a document or array, and at
// the end of the input when no further top-level value is available.
func (r *Reader) ReadType() (_ bsontype.Type, err error) {
	defer r.recoverError(&err)
	return r.readType(), nil
}

// ReadName returns the name of the current document field.
func (r *Reader) ReadName() (_ string, err error) {
	defer r.recoverError(&err)
	r.readName("ReadName")
	return r.curName, nil
}

// SkipName discards the name of the current document field.
func (r *Reader) SkipName() (err error) {
	defer r.recoverError(&err)
	r.readName("SkipName")
	return nil
}

// ReadString reads a string value.
func (r *Reader) ReadString() (_ string, err error) {
	defer r.recoverError(&err)
	r.checkValue("ReadString", bsontype.String)
	r.finishValue()
	return r.value.(string), nil
}

// ReadInt32 reads a 32-bit integer value.
func (r *Reader) ReadInt32() (_ int32, err error) {
	defer r.recoverError(&err)
	r.checkValue("ReadInt32", bsontype.Int32)
	r.finishValue()
	return r.value.(int32), nil
}

// ReadInt64 reads a 64-bit integer value. It also accepts a 32-bit integer,
// and a string of decimal digits such as the Writer produces for integers
// outside the 32-bit range.
func (r *Reader) ReadInt64() (_ int64, err error) {
	defer r.recoverError(&err)
	r.checkValue("ReadInt64", bsontype.Int64, bsontype.Int32, bsontype.String)
	r.finishValue()
	switch v := r.value.(type) {
	case int32:
		return int64(v), nil
	case string:
		return r.parseInt64(v), nil
	}
	return r.value.(int64), nil
}

// ReadDouble reads a double value.
func (r *Reader) ReadDouble() (_ float64, err error) {
	defer r.recoverError(&err)
	r.checkValue("ReadDouble", bsontype.Double)
	r.finishValue()
	return r.value.(float64), nil
}

// ReadBoolean reads a Boolean value.
func (r *Reader) ReadBoolean() (_ bool, err error) {
	defer r.recoverError(&err)
	r.checkValue("ReadBoolean", bsontype.Boolean)
	r.finishValue()
	return r.value.(bool), nil
}

// ReadNull reads a null value.
func (r *Reader) ReadNull() (err error) {
	defer r.recoverError(&err)
	r.checkValue("ReadNull", bsontype.Null)
	r.finishValue()
	return nil
}

// ReadUndefined reads an undefined value.
func (r *Reader) ReadUndefined() (err error) {
	defer r.recoverError(&err)
	r.checkValue("ReadUndefined", bsontype.Undefined)
	r.finishValue()
	return nil
}

// ReadRegex reads a regular expression value.
func (r *Reader) ReadRegex() (_ primitive.Regex, err error) {
	defer r.recoverError(&err)
	r.checkValue("ReadRegex", bsontype.Regex)
	r.finishValue()
	return r.value.(primitive.Regex), nil
}

// ReadDateTime reads a date. In addition to the extended forms, a date may
// be written as a string in ISO 8601 format, or as an integer count of
// milliseconds since the Unix epoch.
func (r *Reader) ReadDateTime() (_ primitive.DateTime, err error) {
	defer r.recoverError(&err)
	r.checkValue("ReadDateTime", bsontype.DateTime, bsontype.String, bsontype.Int32, bsontype.Int64)
	r.finishValue()
	switch v := r.value.(type) {
	case int32:
		return primitive.DateTime(v), nil
	case int64:
		return primitive.DateTime(v), nil
	case string:
		return r.parseDate(v), nil
	}
	return r.value.(primitive.DateTime), nil
}

// ReadObjectID reads an object identifier. In addition to the extended
// forms, an object ID may be written as a string of 24 hexadecimal digits.
func (r *Reader) ReadObjectID() (_ primitive.ObjectID, err error) {
	defer r.recoverError(&err)
	r.checkValue("ReadObjectID", bsontype.ObjectID, bsontype.String)
	r.finishValue()
	if text, ok := r.value.(string); ok {
		return r.parseObjectID(text), nil
	}
	return r.value.(primitive.ObjectID), nil
}

// ReadBinary reads binary data. In addition to the extended forms, binary
// data may be written as a base64 string, whose subtype is generic (0x00).
func (r *Reader) ReadBinary() (_ primitive.Binary, err error) {
	defer r.recoverError(&err)
	r.checkValue("ReadBinary", bsontype.Binary, bsontype.String)
	r.finishValue()
	if text, ok := r.value.(string); ok {
		return primitive.Binary{Subtype: binaryGeneric, Data: r.parseBase64(text)}, nil
	}
	return r.value.(primitive.Binary), nil
}

// ReadDecimal128 reads a decimal value. In addition to the extended forms,
// a decimal may be written as a string or as a number.
func (r *Reader) ReadDecimal128() (_ primitive.Decimal128, err error) {
	defer r.recoverError(&err)
	r.checkValue("ReadDecimal128", bsontype.Decimal128, bsontype.String,
		bsontype.Int32, bsontype.Int64, bsontype.Double)
	r.finishValue()
	switch v := r.value.(type) {
	case string:
		return r.parseDecimal(v), nil
	case int32:
		return r.parseDecimal(strconv.FormatInt(int64(v), 10)), nil
	case int64:
		return r.parseDecimal(strconv.FormatInt(v, 10)), nil
	case float64:
		return r.parseDecimal(formatDouble(v)), nil
	}
	return r.value.(primitive.Decimal128), nil
}

// ReadStartDocument enters the current document value.
func (r *Reader) ReadStartDocument() (err error) {
	defer r.recoverError(&err)
	r.readStart("ReadStartDocument", bsontype.EmbeddedDocument, Document)
	return nil
}

// ReadEndDocument exits the current document. It reports an error if the
// document has fields that have not been read or skipped.
func (r *Reader) ReadEndDocument() (err error) {
	defer r.recoverError(&err)
	r.readEnd("ReadEndDocument", Document, StateEndOfDocument)
	return nil
}

// ReadStartArray enters the current array value.
func (r *Reader) ReadStartArray() (err error) {
	defer r.recoverError(&err)
	r.readStart("ReadStartArray", bsontype.Array, Array)
	return nil
}

// ReadEndArray exits the current array. It reports an error if the array
// has elements that have not been read or skipped.
func (r *Reader) ReadEndArray() (err error) {
	defer r.recoverError(&err)
	r.readEnd("ReadEndArray", Array, StateEndOfArray)
	return nil
}

// SkipValue discards the current value. Documents and arrays are skipped
// in their entirety without decoding their contents.
func (r *Reader) SkipValue() (err error) {
	defer r.recoverError(&err)
	r.checkValue("SkipValue")
	r.skipValue()
	return nil
}

// Mark records the current position of the reader, so that a later call to
// Reset can return to it. Only one mark may be outstanding at a time.
func (r *Reader) Mark() error {
	if r.mark != nil {
		return &MarkError{Message: "a mark already exists; it must be reset before a new mark is set"}
	}
	m := &readerMark{
		curType: r.curType,
		curName: r.curName,
		value:   r.value,
		state:   r.state,
		stk:     slices.Clone(r.stk),
	}
	if r.pushed != nil {
		tok := *r.pushed
		m.pushed = &tok
	}
	r.mark = m
	r.s.src.mark()
	return nil
}

// Reset returns the reader to the position recorded by the most recent call
// to Mark, and clears the mark. A closed reader cannot be reset.
func (r *Reader) Reset() error {
	if r.state == StateClosed {
		return &StateError{Method: "Reset", Got: StateClosed, Detail: "the reader is closed"}
	}
	m := r.mark
	if m == nil {
		return &MarkError{Message: "no mark has been set"}
	}
	r.mark = nil
	r.pushed = m.pushed
	r.curType = m.curType
	r.curName = m.curName
	r.value = m.value
	r.state = m.state
	r.stk = m.stk
	r.s.src.reset()
	return nil
}

func (r *Reader) top() ContextKind { return r.stk[len(r.stk)-1] }

func (r *Reader) push(c ContextKind) { r.stk = append(r.stk, c) }

func (r *Reader) pop() { r.stk = r.stk[:len(r.stk)-1] }

// afterValue returns the reader state following a complete value.
func (r *Reader) afterValue() State {
	if r.top() == TopLevel {
		return StateDone
	}
	return StateType
}

// readType implements ReadType. It panics on error.
func (r *Reader) readType() bsontype.Type {
	switch r.state {
	case StateInitial, StateDone, StateScopeDocument:
		r.state = StateType
	case StateType:
	default:
		r.stateError("ReadType", StateType)
	}

	if k := r.top(); k == Document || k == ScopeDocument {
		name := r.popToken()
		switch name.Kind {
		case String, UnquotedString:
			r.curName = name.Text()
		case EndObject:
			r.curType = EndOfDocument
			r.state = StateEndOfDocument
			return EndOfDocument
		default:
			r.syntaxError(nil, name.String(), "expected a name but found %v", name.Kind)
		}
		if tok := r.popToken(); tok.Kind != Colon {
			r.syntaxError(nil, tok.String(), "expected %v but found %v", Colon, tok.Kind)
		}
	}

	tok := r.popToken()
	if r.top() == Array && tok.Kind == EndArray {
		r.curType = EndOfDocument
		r.state = StateEndOfArray
		return EndOfDocument
	}
	r.value = nil
	switch tok.Kind {
	case BeginArray:
		r.curType = bsontype.Array
	case BeginObject:
		if !r.ext || !r.readExtended() {
			// Look at the first name, but leave it for the caller.
			r.pushToken(r.popToken())
			r.curType = bsontype.EmbeddedDocument
		}
	case String:
		r.curType, r.value = bsontype.String, tok.Text()
	case Int32:
		r.curType, r.value = bsontype.Int32, tok.Int32()
	case Int64:
		r.curType, r.value = bsontype.Int64, tok.Int64()
	case Double:
		r.curType, r.value = bsontype.Double, tok.Float64()
	case RegularExpression:
		r.curType, r.value = bsontype.Regex, tok.Regex()
	case UnquotedString:
		switch tok.Text() {
		case "true", "false":
			r.curType, r.value = bsontype.Boolean, tok.Text() == "true"
		case "Infinity":
			r.curType, r.value = bsontype.Double, math.Inf(1)
		case "NaN":
			r.curType, r.value = bsontype.Double, math.NaN()
		case "null":
			r.curType = bsontype.Null
		case "undefined":
			r.curType = bsontype.Undefined
		default:
			next := r.popToken()
			r.pushToken(next)
			if next.Kind != LeftParen || !r.readConstructor(tok.Text()) {
				r.syntaxError(nil, tok.Text(), "expected a value")
			}
		}
	case EndOfFile:
		if r.top() == TopLevel {
			r.curType = EndOfDocument
			r.state = StateDone
			return EndOfDocument
		}
		r.syntaxError(nil, "", "unexpected end of input")
	default:
		r.syntaxError(nil, tok.String(), "expected a value but found %v", tok.Kind)
	}
	if r.curType != bsontype.Array && r.curType != bsontype.EmbeddedDocument {
		r.skipComma() // structured values consume their comma at the end
	}

	if k := r.top(); k == Document || k == ScopeDocument {
		r.state = StateName
	} else {
		r.state = StateValue
	}
	return r.curType
}

// skipComma consumes a comma following a value inside a document or array,
// if there is one.
func (r *Reader) skipComma() {
	if k := r.top(); k == Array || k == Document || k == ScopeDocument {
		if tok := r.popToken(); tok.Kind != Comma {
			r.pushToken(tok)
		}
	}
}

func (r *Reader) readName(method string) {
	if r.state == StateType {
		r.readType()
	}
	if r.state != StateName {
		r.stateError(method, StateName)
	}
	r.state = StateValue
}

// checkValue advances the reader to a value, and verifies that the value has
// one of the specified types. If no types are given, any type is accepted.
func (r *Reader) checkValue(method string, types ...bsontype.Type) {
	switch r.state {
	case StateInitial, StateScopeDocument, StateType:
		r.readType()
	}
	if r.state == StateName {
		r.state = StateValue // skip the name
	}
	if r.state != StateValue {
		r.stateError(method, StateValue)
	}
	if len(types) != 0 && !slices.Contains(types, r.curType) {
		panic(readerError{&StateError{
			Method: method,
			Detail: fmt.Sprintf("current type is %v, not %v", r.curType, types[0]),
		}})
	}
}

// finishValue updates the state after a scalar value has been consumed.
func (r *Reader) finishValue() { r.state = r.afterValue() }

func (r *Reader) readStart(method string, want bsontype.Type, kind ContextKind) {
	r.checkValue(method, want)
	r.push(kind)
	r.state = StateType
}

func (r *Reader) readEnd(method string, kind ContextKind, want State) {
	if r.state == StateClosed {
		r.stateError(method, StateType, want)
	}
	if k := r.top(); k != kind {
		panic(readerError{&StateError{
			Method: method,
			Detail: fmt.Sprintf("current context is %v, not %v", k, kind),
		}})
	}
	if r.state == StateType {
		r.readType()
	}
	if r.state != want {
		r.stateError(method, want)
	}
	r.pop()
	r.skipComma()
	r.state = r.afterValue()
}

// skipValue discards the current value, whose type has been read.
func (r *Reader) skipValue() {
	switch r.curType {
	case bsontype.EmbeddedDocument:
		r.push(Document)
		r.state = StateType
		for r.readType() != EndOfDocument {
			r.state = StateValue // skip the name
			r.skipValue()
		}
		r.readEnd("SkipValue", Document, StateEndOfDocument)
	case bsontype.Array:
		r.push(Array)
		r.state = StateType
		for r.readType() != EndOfDocument {
			r.skipValue()
		}
		r.readEnd("SkipValue", Array, StateEndOfArray)
	default:
		r.finishValue()
	}
}

func (r *Reader) popToken() Token {
	if r.pushed != nil {
		tok := *r.pushed
		r.pushed = nil
		return tok
	}
	tok, err := r.s.Next()
	if err != nil {
		panic(readerError{err})
	}
	return tok
}

// pushToken pushes tok back to be returned by the next popToken. Only one
// token may be pending at a time.
func (r *Reader) pushToken(tok Token) {
	if r.pushed != nil {
		panic("extjson: there is already a pending token")
	}
	r.pushed = &tok
}

func (r *Reader) syntaxError(err error, text, msg string, args ...any) {
	panic(&SyntaxError{
		Pos:     r.s.Pos(),
		Text:    text,
		Message: fmt.Sprintf(msg, args...),
		err:     err,
	})
}

func (r *Reader) stateError(method string, want ...State) {
	panic(readerError{&StateError{Method: method, Want: want, Got: r.state}})
}

func (r *Reader) recoverError(errp *error) {
	if perr := recover(); perr != nil {
		switch err := perr.(type) {
		case *SyntaxError:
			*errp = err
		case readerError:
			*errp = err.error
		default:
			panic(perr)
		}
	}
}

// readerError wraps errors other than syntax errors so that they can be
// distinguished from other panics during recovery.
type readerError struct{ error }

func (e readerError) Unwrap() error { return e.error }
