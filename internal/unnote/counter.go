package unnote

import "github.com/unnote-dev/unnote/internal/gedcom"

// CountNotePointers tallies, per record identifier, how many pointer NOTE
// lines in the subtree under root reference it.
func CountNotePointers(root *gedcom.Node) map[string]int {
	counts := make(map[string]int)
	countNotePointers(root, counts)
	return counts
}

func countNotePointers(node *gedcom.Node, counts map[string]int) {
	for _, child := range node.Children() {
		countNotePointers(child, counts)
	}

	line := node.Line()
	if line == nil || line.Tag() != gedcom.TagNote || !line.IsPointer() {
		return
	}
	counts[line.Pointer()]++
}
