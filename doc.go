// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package extjson implements a streaming reader and writer for MongoDB
// extended JSON text.
//
// Extended JSON is a superset of JSON that can represent the additional
// value types of a BSON document: 32- and 64-bit integers, dates, object
// identifiers, binary data, regular expressions, decimals, and undefined.
//
// # Scanning
//
// The Scanner type implements a lexical scanner. Construct a scanner from an
// io.Reader and call its Next method to fetch one Token at a time:
//
//	s := extjson.NewScanner(input)
//	for {
//	   tok, err := s.Next()
//	   if err != nil {
//	      log.Fatalf("Scanning failed: %v", err)
//	   } else if tok.Kind == extjson.EndOfFile {
//	      break
//	   }
//	   log.Printf("Next token: %v", tok)
//	}
//
// In addition to JSON, the scanner accepts single-quoted strings, unquoted
// words such as undefined and NaN, /pattern/options regular expressions,
// and the parentheses of shell-style constructors like ObjectId("...").
//
// # Reading
//
// The Reader type is a pull parser. Call ReadType to advance to the next
// value and learn its type, then call the matching Read method:
//
//	r := extjson.NewReader(input)
//	r.ReadType()          // bsontype.EmbeddedDocument
//	r.ReadStartDocument()
//	r.ReadType()          // bsontype.Int32
//	r.ReadName()          // "a"
//	r.ReadInt32()         // 1
//	r.ReadType()          // extjson.EndOfDocument
//	r.ReadEndDocument()
//
// By default a document is always reported as an embedded document, even if
// its names begin with "$". With ReaderSettings.Extended set, a wrapper
// document such as {"$oid": "..."} or {"$date": 1000} is read as a single
// value of the corresponding type:
//
//	set := &extjson.ReaderSettings{Extended: true}
//	r := extjson.NewReaderWithSettings(input, set)
//
// Syntax errors have concrete type *SyntaxError. Calls made out of order
// report a *StateError. Mark and Reset allow the caller to look ahead in the
// input and then return to an earlier position.
//
// # Writing
//
// The Writer type renders a sequence of calls as text. Its WriterSettings
// control indentation and the OutputMode. In Relaxed mode, which is the
// default, typed values use compact literal forms; in Strict mode they are
// written as wrapper documents such as {"$oid": "..."} that any JSON parser
// can read.
//
//	w := extjson.NewWriter(os.Stdout, nil)
//	w.WriteStartDocument()
//	w.WriteName("a")
//	w.WriteInt32(1)
//	w.WriteEndDocument() // {"a":1}
//
// Errors writing to the output have concrete type *IOError. The first such
// error is reported by every later call.
package extjson
