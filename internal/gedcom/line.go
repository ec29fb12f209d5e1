package gedcom

import (
	"fmt"
	"strings"
)

// Tag is the symbolic kind of a GEDCOM line. Unknown tags keep their raw text.
type Tag string

const (
	TagHead Tag = "HEAD"
	TagNote Tag = "NOTE"
	TagSour Tag = "SOUR"
	TagConc Tag = "CONC"
	TagCont Tag = "CONT"
	TagTrlr Tag = "TRLR"
)

func (t Tag) String() string {
	return string(t)
}

// Line is one parsed GEDCOM entry. Lines are immutable; use ReplacePointer
// and ReplaceValue to derive a modified copy.
type Line struct {
	level   int
	id      string
	tag     Tag
	pointer string
	value   string
}

// NewLine builds a value line. An empty id means the line is not a record.
func NewLine(level int, id string, tag Tag, value string) *Line {
	return &Line{level: level, id: id, tag: tag, value: value}
}

// NewPointerLine builds a line whose content references the record pointer.
func NewPointerLine(level int, id string, tag Tag, pointer string) *Line {
	return &Line{level: level, id: id, tag: tag, pointer: pointer}
}

// CreateUID builds a level-0 record line with a freshly generated identifier.
func CreateUID(tag Tag, value string) *Line {
	return NewLine(0, NewUID(), tag, value)
}

func (l *Line) Level() int { return l.level }
func (l *Line) ID() string { return l.id }
func (l *Line) HasID() bool { return l.id != "" }
func (l *Line) Tag() Tag { return l.tag }
func (l *Line) Pointer() string { return l.pointer }
func (l *Line) IsPointer() bool { return l.pointer != "" }
func (l *Line) Value() string { return l.value }

// ReplacePointer returns a copy of l that points at record instead of
// carrying inline text.
func (l *Line) ReplacePointer(record *Line) *Line {
	return &Line{level: l.level, id: l.id, tag: l.tag, pointer: record.id}
}

// ReplaceValue returns a copy of l carrying text inline. Identifier and
// pointer are cleared.
func (l *Line) ReplaceValue(text string) *Line {
	return &Line{level: l.level, tag: l.tag, value: text}
}

// withValue keeps every field except the value; used when folding CONC/CONT.
func (l *Line) withValue(value string) *Line {
	return &Line{level: l.level, id: l.id, tag: l.tag, pointer: l.pointer, value: value}
}

func (l *Line) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", l.level)
	if l.id != "" {
		fmt.Fprintf(&b, " @%s@", l.id)
	}
	b.WriteString(" ")
	b.WriteString(string(l.tag))
	switch {
	case l.pointer != "":
		fmt.Fprintf(&b, " @%s@", l.pointer)
	case l.value != "":
		b.WriteString(" ")
		b.WriteString(l.value)
	}
	return b.String()
}
