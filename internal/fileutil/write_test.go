package fileutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "tree.ged")

	written, err := WriteIfChanged(path, []byte("0 TRLR\n"))
	if err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if !written {
		t.Fatalf("expected first write to create the file")
	}

	written, err = WriteIfChanged(path, []byte("0 TRLR\n"))
	if err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	if written {
		t.Fatalf("expected identical content to be skipped")
	}

	written, err = WriteIfChanged(path, []byte("0 HEAD\n0 TRLR\n"))
	if err != nil {
		t.Fatalf("third write failed: %v", err)
	}
	if !written {
		t.Fatalf("expected changed content to be written")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(data) != "0 HEAD\n0 TRLR\n" {
		t.Fatalf("unexpected file content %q", data)
	}
}

func TestHashBytes(t *testing.T) {
	a := HashBytes([]byte("0 TRLR\n"))
	if len(a) != 16 {
		t.Fatalf("expected 16 hex digits, got %q", a)
	}
	if a != HashBytes([]byte("0 TRLR\n")) {
		t.Fatalf("expected stable hash")
	}
	if a == HashBytes([]byte("0 HEAD\n")) {
		t.Fatalf("expected different content to hash differently")
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintJSON(&buf, map[string]int{"removed": 2}); err != nil {
		t.Fatalf("PrintJSON failed: %v", err)
	}
	if buf.String() != "{\n  \"removed\": 2\n}\n" {
		t.Fatalf("unexpected JSON %q", buf.String())
	}
}
