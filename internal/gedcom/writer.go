package gedcom

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DefaultConcWidth is the longest value, in runes, written on one line before
// it is continued with CONC.
const DefaultConcWidth = 248

// WriteOptions controls serialization.
type WriteOptions struct {
	// ConcWidth splits values longer than this many runes into CONC lines.
	// Zero disables splitting.
	ConcWidth int
}

// Write serializes the tree. Levels are derived from node depth, multi-line
// values are written with CONT and long values with CONC.
func Write(w io.Writer, tree *Tree, opts WriteOptions) error {
	bw := bufio.NewWriter(w)
	for _, child := range tree.root.children {
		if err := writeNode(bw, child, 0, opts); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write GEDCOM output: %w", err)
	}
	return nil
}

func writeNode(w *bufio.Writer, n *Node, level int, opts WriteOptions) error {
	if err := writeLine(w, n.line, level, opts); err != nil {
		return err
	}
	for _, child := range n.children {
		if err := writeNode(w, child, level+1, opts); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w *bufio.Writer, line *Line, level int, opts WriteOptions) error {
	var head strings.Builder
	fmt.Fprintf(&head, "%d", level)
	if line.id != "" {
		fmt.Fprintf(&head, " @%s@", line.id)
	}
	head.WriteString(" ")
	head.WriteString(string(line.tag))

	if line.pointer != "" {
		_, err := fmt.Fprintf(w, "%s @%s@\n", head.String(), line.pointer)
		return err
	}

	for i, text := range strings.Split(line.value, "\n") {
		prefix := head.String()
		if i > 0 {
			prefix = fmt.Sprintf("%d %s", level+1, TagCont)
		}
		for j, chunk := range splitConc(text, opts.ConcWidth) {
			if j > 0 {
				prefix = fmt.Sprintf("%d %s", level+1, TagConc)
			}
			if err := writeValueLine(w, prefix, chunk); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeValueLine(w *bufio.Writer, prefix, value string) error {
	var err error
	if value == "" {
		_, err = fmt.Fprintf(w, "%s\n", prefix)
	} else {
		_, err = fmt.Fprintf(w, "%s %s\n", prefix, value)
	}
	return err
}

// splitConc cuts text into chunks of at most width runes. A cut is moved
// left when it would start the next chunk with a space, since some readers
// trim CONC values.
func splitConc(text string, width int) []string {
	runes := []rune(text)
	if width <= 0 || len(runes) <= width {
		return []string{text}
	}

	var chunks []string
	for len(runes) > width {
		cut := width
		for cut > 1 && (runes[cut] == ' ' || runes[cut-1] == ' ') {
			cut--
		}
		if cut == 1 && (runes[cut] == ' ' || runes[cut-1] == ' ') {
			cut = width
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	return append(chunks, string(runes))
}
