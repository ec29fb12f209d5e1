// Package unnote rewrites the NOTE entries of a GEDCOM tree: it deletes
// empty notes, inlines singly-referenced note records, or turns inline notes
// into note records.
//
// Every run walks the tree once, queueing its decisions, and only touches the
// tree after the walk has succeeded. A pointer to a missing record aborts the
// run and leaves the tree exactly as it was.
package unnote

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/unnote-dev/unnote/internal/gedcom"
)

// Mode selects the single strategy a run applies.
type Mode string

const (
	ModeDelete Mode = "delete"
	ModeInline Mode = "inline"
	ModeRecord Mode = "record"
)

// ParseMode maps user input onto a Mode, ignoring case and surrounding space.
func ParseMode(value string) (Mode, error) {
	switch mode := Mode(strings.ToLower(strings.TrimSpace(value))); mode {
	case ModeDelete, ModeInline, ModeRecord:
		return mode, nil
	default:
		return "", fmt.Errorf("unsupported mode %q (supported: delete, inline, record)", value)
	}
}

// Report summarizes what a run changed.
type Report struct {
	Mode     Mode `json:"mode"`
	Deleted  int  `json:"deleted"`
	Inlined  int  `json:"inlined"`
	Recorded int  `json:"recorded"`
	Skipped  int  `json:"skipped"`
	Inserted int  `json:"inserted"`
	Removed  int  `json:"removed"`
}

// Changed reports whether the run modified the tree.
func (r Report) Changed() bool {
	return r.Deleted+r.Inlined+r.Recorded > 0
}

type replacement struct {
	node *gedcom.Node
	line *gedcom.Line
}

// Transformer applies one Mode to a tree.
type Transformer struct {
	tree         *gedcom.Tree
	log          *slog.Logger
	createRecord func(tag gedcom.Tag, value string) *gedcom.Line

	counts   map[string]int
	replaces []replacement
	inserts  []*gedcom.Node
	deletes  []*gedcom.Node
	report   Report
}

type Option func(*Transformer)

// WithLogger routes refusal warnings and commit details to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transformer) {
		if logger != nil {
			t.log = logger
		}
	}
}

// WithIDGenerator replaces the identifier source for records created in
// ModeRecord.
func WithIDGenerator(next func() string) Option {
	return func(t *Transformer) {
		t.createRecord = func(tag gedcom.Tag, value string) *gedcom.Line {
			return gedcom.NewLine(0, next(), tag, value)
		}
	}
}

func New(tree *gedcom.Tree, opts ...Option) *Transformer {
	t := &Transformer{
		tree:         tree,
		log:          slog.New(slog.DiscardHandler),
		createRecord: gedcom.CreateUID,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run applies mode to the whole tree and commits the result.
func Run(tree *gedcom.Tree, mode Mode, opts ...Option) (Report, error) {
	return New(tree, opts...).Run(mode)
}

// Run walks the tree with the strategy for mode, then commits queued
// replacements, insertions and deletions in that order. On error nothing
// is committed.
func (t *Transformer) Run(mode Mode) (Report, error) {
	t.reset(mode)

	root := t.tree.Root()
	var err error
	switch mode {
	case ModeDelete:
		err = t.flagEmptyNotes(root)
	case ModeInline:
		t.counts = CountNotePointers(root)
		err = t.inlineNotes(root)
	case ModeRecord:
		err = t.recordNotes(root)
	default:
		return Report{}, fmt.Errorf("unsupported mode %q", mode)
	}
	if err != nil {
		t.reset(mode)
		return Report{}, fmt.Errorf("%s notes: %w", mode, err)
	}

	t.commit()
	return t.report, nil
}

func (t *Transformer) reset(mode Mode) {
	t.counts = nil
	t.replaces = nil
	t.inserts = nil
	t.deletes = nil
	t.report = Report{Mode: mode}
}

// resolve returns the record a pointer NOTE references, or nil for an
// inline NOTE.
func (t *Transformer) resolve(line *gedcom.Line) (*gedcom.Node, error) {
	if !line.IsPointer() {
		return nil, nil
	}
	record, err := t.tree.Node(line.Pointer())
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", line.String(), err)
	}
	return record, nil
}
