// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package extjson

import (
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dateLayout is the format of dates written by a Writer. Dates are always
// rendered in UTC.
const dateLayout = "2006-01-02T15:04-0700"

// A Writer renders a sequence of structural and typed-value calls as
// extended JSON text. Inside a document each value is preceded by a call
// to WriteName; inside an array and at the top level values are written
// directly.
//
// After an error writing to the underlying output, every subsequent call
// reports the same error. A Writer is not safe for concurrent use.
type Writer struct {
	w     io.Writer
	set   WriterSettings
	stk   []frame
	state State
	name  string // the pending field name
	err   error  // the first write error, if any
}

// A frame records the writer's progress through one level of nesting.
type frame struct {
	kind        ContextKind
	indent      string // indentation of fields at this level
	hasElements bool   // whether a field or element has been written
}

// NewWriter constructs a Writer that writes to w with the given settings.
// If settings == nil, the defaults are used.
func NewWriter(w io.Writer, settings *WriterSettings) *Writer {
	if settings == nil {
		settings = DefaultWriterSettings()
	}
	return &Writer{
		w:     w,
		set:   *settings,
		stk:   []frame{{kind: TopLevel}},
		state: StateInitial,
	}
}

// State reports the current state of the writer.
func (w *Writer) State() State { return w.state }

// Context reports the kind of the innermost open structure.
func (w *Writer) Context() ContextKind { return w.top().kind }

// Flush flushes the underlying output, if it has a Flush method.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if f, ok := w.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			w.err = &IOError{Op: "write", Err: err}
		}
	}
	return w.err
}

// Close marks the writer closed. It does not flush or close the underlying
// output.
func (w *Writer) Close() error { w.state = StateClosed; return nil }

// WriteName sets the name of the next field of the current document.
func (w *Writer) WriteName(name string) error {
	if w.err != nil {
		return w.err
	} else if w.state != StateName {
		return w.stateError("WriteName", StateName)
	}
	w.name = name
	w.state = StateValue
	return nil
}

// WriteStartDocument begins a new document.
func (w *Writer) WriteStartDocument() error {
	kind := Document
	if w.state == StateScopeDocument {
		kind = ScopeDocument
		w.name = "$scope"
		w.state = StateValue
	}
	if err := w.begin("WriteStartDocument"); err != nil {
		return err
	}
	w.emit("{")
	w.push(kind)
	w.state = StateName
	return w.err
}

// WriteEndDocument ends the current document.
func (w *Writer) WriteEndDocument() error {
	if w.err != nil {
		return w.err
	} else if w.state != StateName {
		return w.stateError("WriteEndDocument", StateName)
	}
	f := w.top()
	if f.kind != Document && f.kind != ScopeDocument {
		return &StateError{
			Method: "WriteEndDocument",
			Detail: fmt.Sprintf("current context is %v, not %v", f.kind, Document),
		}
	}
	kind, nonEmpty := f.kind, f.hasElements
	w.pop()
	if w.set.Indent && nonEmpty {
		w.emit(w.set.NewLine, w.top().indent)
	}
	w.emit("}")

	if kind == ScopeDocument {
		// Also close the document opened by WriteJavaScriptWithScope.
		w.state = StateName
		return w.WriteEndDocument()
	}
	w.finish()
	return w.err
}

// WriteStartArray begins a new array.
func (w *Writer) WriteStartArray() error {
	if err := w.begin("WriteStartArray"); err != nil {
		return err
	}
	w.emit("[")
	w.push(Array)
	w.state = StateValue
	return w.err
}

// WriteEndArray ends the current array.
func (w *Writer) WriteEndArray() error {
	if w.err != nil {
		return w.err
	} else if w.state != StateValue {
		return w.stateError("WriteEndArray", StateValue)
	} else if k := w.top().kind; k != Array {
		return &StateError{
			Method: "WriteEndArray",
			Detail: fmt.Sprintf("current context is %v, not %v", k, Array),
		}
	}
	w.pop()
	w.emit("]")
	w.finish()
	return w.err
}

// WriteString writes a string value.
func (w *Writer) WriteString(s string) error {
	return w.value("WriteString", Quote(s))
}

// WriteInt32 writes a 32-bit integer value.
func (w *Writer) WriteInt32(v int32) error {
	return w.value("WriteInt32", strconv.FormatInt(int64(v), 10))
}

// WriteInt64 writes a 64-bit integer value. A value outside the range of a
// 32-bit integer is written as a string of digits, or in Strict mode as a
// $numberLong wrapper.
func (w *Writer) WriteInt64(v int64) error {
	text := strconv.FormatInt(v, 10)
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return w.value("WriteInt64", text)
	} else if w.set.OutputMode == Strict {
		return w.value("WriteInt64", w.wrapper("$numberLong", Quote(text)))
	}
	return w.value("WriteInt64", Quote(text))
}

// WriteDouble writes a double value in the shortest form that reads back as
// the same value. In Strict mode, infinities and NaN are written as
// $numberDouble wrappers.
func (w *Writer) WriteDouble(v float64) error {
	text := formatDouble(v)
	if w.set.OutputMode == Strict && (math.IsInf(v, 0) || math.IsNaN(v)) {
		text = w.wrapper("$numberDouble", Quote(text))
	}
	return w.value("WriteDouble", text)
}

// WriteBoolean writes a Boolean value.
func (w *Writer) WriteBoolean(v bool) error {
	return w.value("WriteBoolean", strconv.FormatBool(v))
}

// WriteNull writes a null value.
func (w *Writer) WriteNull() error { return w.value("WriteNull", "null") }

// WriteUndefined writes an undefined value.
func (w *Writer) WriteUndefined() error {
	if w.set.OutputMode == Strict {
		return w.value("WriteUndefined", w.wrapper("$undefined", "true"))
	}
	return w.value("WriteUndefined", "undefined")
}

// WriteDateTime writes a date as a string in ISO 8601 format with minute
// precision, in UTC. In Strict mode the date is written as a $date wrapper
// with millisecond precision.
func (w *Writer) WriteDateTime(v primitive.DateTime) error {
	if w.set.OutputMode == Strict {
		return w.value("WriteDateTime", w.wrapper("$date", strconv.FormatInt(int64(v), 10)))
	}
	t := time.UnixMilli(int64(v)).UTC()
	return w.value("WriteDateTime", Quote(t.Format(dateLayout)))
}

// WriteObjectID writes an object identifier as bare hexadecimal digits, or
// in Strict mode as an $oid wrapper.
func (w *Writer) WriteObjectID(id primitive.ObjectID) error {
	if w.set.OutputMode == Strict {
		return w.value("WriteObjectID", w.wrapper("$oid", Quote(id.Hex())))
	}
	return w.value("WriteObjectID", id.Hex())
}

// WriteBinary writes binary data as a base64 string. In Strict mode it is
// written as a $binary wrapper that preserves the subtype.
func (w *Writer) WriteBinary(b primitive.Binary) error {
	data := base64.StdEncoding.EncodeToString(b.Data)
	if w.set.OutputMode == Strict {
		sub := fmt.Sprintf("%02x", b.Subtype)
		return w.value("WriteBinary", w.wrapper("$binary", Quote(data), "$type", Quote(sub)))
	}
	return w.value("WriteBinary", Quote(data))
}

// WriteDecimal128 writes a decimal value as a string, or in Strict mode as
// a $numberDecimal wrapper.
func (w *Writer) WriteDecimal128(d primitive.Decimal128) error {
	if w.set.OutputMode == Strict {
		return w.value("WriteDecimal128", w.wrapper("$numberDecimal", Quote(d.String())))
	}
	return w.value("WriteDecimal128", Quote(d.String()))
}

// WriteRegex writes a regular expression. In Relaxed mode it is written as
// a /pattern/options literal; in Strict mode as a $regex wrapper.
func (w *Writer) WriteRegex(re primitive.Regex) error {
	if w.set.OutputMode == Strict {
		return w.value("WriteRegex", w.wrapper("$regex", Quote(re.Pattern), "$options", Quote(re.Options)))
	}
	pat := re.Pattern
	if pat == "" {
		pat = "(?:)"
	} else {
		pat = strings.ReplaceAll(pat, "/", `\/`)
	}
	return w.value("WriteRegex", "/"+pat+"/"+re.Options)
}

// WriteJavaScriptWithScope begins a code-with-scope value. The code is not
// written. The caller must next write the scope with WriteStartDocument
// and WriteEndDocument.
func (w *Writer) WriteJavaScriptWithScope(code string) error {
	if err := w.begin("WriteJavaScriptWithScope"); err != nil {
		return err
	}
	w.emit("{")
	w.push(Document)
	w.state = StateScopeDocument
	return w.err
}

// The following types have no text representation. Writing them advances
// the state of the writer but produces no output.

// WriteSymbol skips a symbol value.
func (w *Writer) WriteSymbol(string) error { return w.skip("WriteSymbol") }

// WriteJavaScript skips a code value.
func (w *Writer) WriteJavaScript(string) error { return w.skip("WriteJavaScript") }

// WriteTimestamp skips a timestamp value.
func (w *Writer) WriteTimestamp(primitive.Timestamp) error { return w.skip("WriteTimestamp") }

// WriteMinKey skips a min key value.
func (w *Writer) WriteMinKey() error { return w.skip("WriteMinKey") }

// WriteMaxKey skips a max key value.
func (w *Writer) WriteMaxKey() error { return w.skip("WriteMaxKey") }

// WriteDBPointer skips a database pointer value.
func (w *Writer) WriteDBPointer(primitive.DBPointer) error { return w.skip("WriteDBPointer") }

func (w *Writer) top() *frame { return &w.stk[len(w.stk)-1] }

func (w *Writer) push(kind ContextKind) {
	indent := w.top().indent
	if w.set.Indent {
		indent += w.set.IndentUnit
	}
	w.stk = append(w.stk, frame{kind: kind, indent: indent})
}

func (w *Writer) pop() { w.stk = w.stk[:len(w.stk)-1] }

// finish advances the state after a complete value.
func (w *Writer) finish() { w.state = nextState(w.top().kind) }

// checkValue reports an error if a value may not be written in the current
// state.
func (w *Writer) checkValue(method string) error {
	if w.err != nil {
		return w.err
	}
	switch w.state {
	case StateValue:
		return nil
	case StateInitial, StateDone:
		if w.top().kind == TopLevel {
			return nil
		}
	}
	return w.stateError(method, StateValue)
}

// begin checks the state and writes the separator and name, if any, that
// precede a value.
func (w *Writer) begin(method string) error {
	if err := w.checkValue(method); err != nil {
		return err
	}
	f := w.top()
	switch f.kind {
	case Document, ScopeDocument:
		if f.hasElements {
			w.emit(",")
		}
		if w.set.Indent {
			w.emit(w.set.NewLine, f.indent, Quote(w.name), ": ")
		} else {
			w.emit(Quote(w.name), ":")
		}
	case Array:
		if f.hasElements {
			w.emit(w.comma())
		}
	case TopLevel:
		if w.state == StateDone {
			w.emit(w.set.NewLine)
		}
	}
	f.hasElements = true
	return w.err
}

// value writes a complete scalar value with the given text.
func (w *Writer) value(method, text string) error {
	if err := w.begin(method); err != nil {
		return err
	}
	w.emit(text)
	w.finish()
	return w.err
}

// skip advances the state as if a value had been written.
func (w *Writer) skip(method string) error {
	if err := w.checkValue(method); err != nil {
		return err
	}
	w.finish()
	return nil
}

// wrapper renders a single-line document with the given alternating keys
// and pre-rendered values.
func (w *Writer) wrapper(kv ...string) string {
	var sb strings.Builder
	sb.WriteString("{")
	for i := 0; i+1 < len(kv); i += 2 {
		if i > 0 {
			sb.WriteString(w.comma())
		}
		sb.WriteString(Quote(kv[i]))
		if w.set.Indent {
			sb.WriteString(": ")
		} else {
			sb.WriteString(":")
		}
		sb.WriteString(kv[i+1])
	}
	sb.WriteString("}")
	return sb.String()
}

func (w *Writer) comma() string {
	if w.set.Indent {
		return ", "
	}
	return ","
}

// emit writes the concatenation of ss to the output, unless an earlier
// write has failed.
func (w *Writer) emit(ss ...string) {
	for _, s := range ss {
		if w.err != nil {
			return
		}
		if _, err := io.WriteString(w.w, s); err != nil {
			w.err = &IOError{Op: "write", Err: err}
		}
	}
}

func (w *Writer) stateError(method string, want ...State) error {
	return &StateError{Method: method, Want: want, Got: w.state}
}
