// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package extjson

import "fmt"

// A Position describes the location of a character in source text.
type Position struct {
	Offset int // character offset, 1-based; 0 before any input is read
	Line   int // line number, 1-based
	Column int // character offset of column in line, 1-based
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// advance updates p to account for having consumed ch. It returns the
// column p had before the update, which unread needs to undo a newline.
func (p *Position) advance(ch rune) int {
	col := p.Column
	p.Offset++
	if ch == '\n' {
		p.Line++
		p.Column = 0
	} else {
		p.Column++
	}
	return col
}

// retreat undoes a call to advance for ch, given the column that advance
// returned.
func (p *Position) retreat(ch rune, col int) {
	p.Offset--
	if ch == '\n' {
		p.Line--
	}
	p.Column = col
}
