package gedcom

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const maxLineBytes = 1 << 20

// ParseError describes a malformed input line.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Read parses a GEDCOM stream into a tree. CONC and CONT lines are folded
// into the value of the line they continue, CONT contributing a newline.
func Read(r io.Reader) (*Tree, error) {
	tree := NewTree()
	stack := []*Node{tree.root}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		if lineNo == 1 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}
		raw = strings.TrimRight(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}

		line, err := parseLine(raw)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Message: err.Error()}
		}

		depth := len(stack) - 1
		if line.level > depth {
			return nil, &ParseError{
				Line:    lineNo,
				Message: fmt.Sprintf("level %d skips a level (deepest allowed is %d)", line.level, depth),
			}
		}

		if line.tag == TagConc || line.tag == TagCont {
			parent := stack[line.level]
			if parent.line == nil {
				return nil, &ParseError{Line: lineNo, Message: fmt.Sprintf("%s at level 0", line.tag)}
			}
			value := parent.line.value
			if line.tag == TagCont {
				value += "\n"
			}
			parent.SetLine(parent.line.withValue(value + line.value))
			stack = stack[:line.level+1]
			continue
		}

		node := NewNode(line)
		stack[line.level].AddChild(node)
		stack = append(stack[:line.level+1], node)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read GEDCOM input: %w", err)
	}

	tree.Reindex()
	return tree, nil
}

// parseLine splits "LEVEL [@XREF@] TAG [VALUE|@POINTER@]".
func parseLine(raw string) (*Line, error) {
	rest := strings.TrimLeft(raw, " \t")

	levelText, rest, _ := strings.Cut(rest, " ")
	level, err := strconv.Atoi(levelText)
	if err != nil || level < 0 {
		return nil, fmt.Errorf("invalid level %q", levelText)
	}
	rest = strings.TrimLeft(rest, " ")

	var id string
	if strings.HasPrefix(rest, "@") {
		end := strings.Index(rest[1:], "@")
		if end < 0 {
			return nil, fmt.Errorf("unterminated identifier in %q", raw)
		}
		id = rest[1 : end+1]
		rest = strings.TrimLeft(rest[end+2:], " ")
	}

	tag, value, _ := strings.Cut(rest, " ")
	if tag == "" {
		return nil, fmt.Errorf("missing tag in %q", raw)
	}

	if pointer, ok := pointerTarget(value); ok {
		return NewPointerLine(level, id, Tag(tag), pointer), nil
	}
	return NewLine(level, id, Tag(tag), value), nil
}

// pointerTarget recognises a value of the form @XREF@. Escapes like @#D...@
// are values, not pointers.
func pointerTarget(value string) (string, bool) {
	if len(value) < 3 || value[0] != '@' || value[len(value)-1] != '@' {
		return "", false
	}
	inner := value[1 : len(value)-1]
	if inner[0] == '#' || strings.ContainsAny(inner, "@ ") {
		return "", false
	}
	return inner, true
}
