// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package extjson

import (
	"bufio"
	"io"
)

// A source delivers decoded characters from an input stream, with one
// character of pushback. While a mark is set the source records every
// character it delivers, so that reset can rewind to the mark.
type source struct {
	r *bufio.Reader

	replay []rune // characters to deliver before reading from r
	rec    []rune // characters delivered since mark
	marked bool

	last    rune  // most recently delivered character
	lastErr error // error from the most recent read, if any
	back    bool  // deliver last (or lastErr) again on the next read
	col     int   // column before last was delivered

	pos     Position
	markPos Position
}

func newSource(r io.Reader) *source {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &source{r: br, pos: Position{Line: 1}}
}

// read returns the next character. At the end of input it reports io.EOF.
func (s *source) read() (rune, error) {
	if s.back {
		s.back = false
		if s.lastErr != nil {
			return 0, s.lastErr
		}
		s.deliver(s.last)
		return s.last, nil
	}

	var ch rune
	if len(s.replay) != 0 {
		ch, s.replay = s.replay[0], s.replay[1:]
	} else {
		var err error
		ch, _, err = s.r.ReadRune()
		if err != nil {
			s.lastErr = err
			return 0, err
		}
	}
	s.lastErr = nil
	s.last = ch
	s.deliver(ch)
	return ch, nil
}

func (s *source) deliver(ch rune) {
	s.col = s.pos.advance(ch)
	if s.marked {
		s.rec = append(s.rec, ch)
	}
}

// unread pushes back the result of the most recent read. Only one read may
// be pushed back at a time.
func (s *source) unread() {
	if s.back {
		panic("extjson: there is already a pending character")
	}
	s.back = true
	if s.lastErr != nil {
		return
	}
	s.pos.retreat(s.last, s.col)
	if s.marked && len(s.rec) != 0 {
		s.rec = s.rec[:len(s.rec)-1]
	}
}

// mark begins recording at the current position.
func (s *source) mark() {
	if s.back && s.lastErr == nil {
		// Move the pending character into the replay queue so that it is
		// recorded when it is delivered.
		s.replay = append([]rune{s.last}, s.replay...)
		s.back = false
	}
	s.marked = true
	s.rec = s.rec[:0]
	s.markPos = s.pos
}

// reset rewinds to the position of the most recent mark and stops recording.
func (s *source) reset() {
	pending := s.rec
	if s.back && s.lastErr == nil {
		pending = append(pending, s.last)
	}
	s.back = false
	s.lastErr = nil
	s.replay = append(pending, s.replay...)
	s.rec = nil
	s.marked = false
	s.pos = s.markPos
}
