package unnote

import "github.com/unnote-dev/unnote/internal/gedcom"

func (t *Transformer) commit() {
	for _, r := range t.replaces {
		r.node.SetLine(r.line)
	}

	root := t.tree.Root()
	anchor := firstNoteOrTrailer(root)
	for _, n := range t.inserts {
		root.AddChildBefore(n, anchor)
	}
	t.report.Inserted = len(t.inserts)

	for _, n := range t.deletes {
		if n.Parent() == nil {
			continue
		}
		n.RemoveFromParent()
		t.report.Removed++
	}

	t.tree.Reindex()
	t.log.Info("committed NOTE changes",
		"mode", t.report.Mode,
		"replaced", len(t.replaces),
		"inserted", t.report.Inserted,
		"removed", t.report.Removed,
	)

	t.replaces = nil
	t.inserts = nil
	t.deletes = nil
}

// firstNoteOrTrailer finds the top-level child new NOTE records are inserted
// before. Nil means append.
func firstNoteOrTrailer(root *gedcom.Node) *gedcom.Node {
	for _, top := range root.Children() {
		line := top.Line()
		if line == nil {
			continue
		}
		if line.Tag() == gedcom.TagNote || line.Tag() == gedcom.TagTrlr {
			return top
		}
	}
	return nil
}
