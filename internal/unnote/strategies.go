package unnote

import (
	"strings"

	"github.com/unnote-dev/unnote/internal/gedcom"
)

// canRemove reports whether a NOTE may be deleted or merged away. A SOUR
// directly under the NOTE, or under the record it points to, protects it.
func (t *Transformer) canRemove(note, record *gedcom.Node) bool {
	if note.HasChild(gedcom.TagSour) {
		t.log.Warn("will not remove NOTE because it has a SOUR", "note", note.String())
		return false
	}
	if record != nil && record.HasChild(gedcom.TagSour) {
		t.log.Warn("will not remove NOTE because its record has a SOUR", "note", note.String(), "record", record.String())
		return false
	}
	return true
}

func isNote(line *gedcom.Line) bool {
	return line != nil && line.Tag() == gedcom.TagNote
}

func (t *Transformer) flagEmptyNotes(node *gedcom.Node) error {
	for _, child := range node.Children() {
		if err := t.flagEmptyNotes(child); err != nil {
			return err
		}
	}

	line := node.Line()
	if !isNote(line) {
		return nil
	}

	record, err := t.resolve(line)
	if err != nil {
		return err
	}
	value := line.Value()
	if record != nil {
		value = record.Line().Value()
	}
	if strings.TrimSpace(value) != "" {
		return nil
	}

	if !t.canRemove(node, record) {
		t.report.Skipped++
		return nil
	}
	t.deletes = append(t.deletes, node)
	if record != nil {
		t.deletes = append(t.deletes, record)
	}
	t.report.Deleted++
	return nil
}

func (t *Transformer) inlineNotes(node *gedcom.Node) error {
	for _, child := range node.Children() {
		if err := t.inlineNotes(child); err != nil {
			return err
		}
	}

	line := node.Line()
	if !isNote(line) || !line.IsPointer() {
		return nil
	}

	id := line.Pointer()
	if refs := t.counts[id]; refs > 1 {
		t.log.Warn("will not inline NOTE because it has more than one reference", "id", id, "references", refs)
		t.report.Skipped++
		return nil
	}

	record, err := t.resolve(line)
	if err != nil {
		return err
	}
	if !t.canRemove(node, record) {
		t.report.Skipped++
		return nil
	}

	t.replaces = append(t.replaces, replacement{
		node: node,
		line: line.ReplaceValue(strings.TrimSpace(record.Line().Value())),
	})
	t.deletes = append(t.deletes, record)
	t.report.Inlined++
	return nil
}

func (t *Transformer) recordNotes(node *gedcom.Node) error {
	for _, child := range node.Children() {
		if err := t.recordNotes(child); err != nil {
			return err
		}
	}

	line := node.Line()
	if !isNote(line) || line.IsPointer() || line.HasID() {
		return nil
	}

	record := t.createRecord(gedcom.TagNote, line.Value())
	t.inserts = append(t.inserts, gedcom.NewNode(record))
	t.replaces = append(t.replaces, replacement{node: node, line: line.ReplacePointer(record)})
	t.report.Recorded++
	return nil
}
