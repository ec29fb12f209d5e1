package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unnote-dev/unnote/internal/gedcom"
)

const inlineFixture = `0 HEAD
1 CHAR UTF-8
0 @I1@ INDI
1 NAME Jane /Roe/
1 NOTE @N1@
0 @I2@ INDI
1 NOTE Hello
1 NOTE
0 @N1@ NOTE only once
0 TRLR
`

func TestRecordModeFromStdin(t *testing.T) {
	clearEnv(t)

	stdout, _, err := runCommand(t, inlineFixture, "--note", "record", "--quiet")
	if err != nil {
		t.Fatalf("record run failed: %v", err)
	}

	tree, err := gedcom.Read(strings.NewReader(stdout))
	if err != nil {
		t.Fatalf("output is not valid GEDCOM: %v\n%s", err, stdout)
	}
	top := tree.Root().Children()
	var tags []string
	for _, n := range top {
		tags = append(tags, string(n.Line().Tag()))
	}
	if got := strings.Join(tags, ","); got != "HEAD,INDI,INDI,NOTE,NOTE,NOTE,TRLR" {
		t.Fatalf("unexpected top-level layout %s:\n%s", got, stdout)
	}

	hello := top[2].Children()[0].Line()
	if !hello.IsPointer() {
		t.Fatalf("expected inline NOTE to become a pointer, got %q", hello.String())
	}
	record, err := tree.Node(hello.Pointer())
	if err != nil {
		t.Fatalf("pointer does not resolve: %v", err)
	}
	if record.Line().Value() != "Hello" {
		t.Fatalf("expected record text Hello, got %q", record.Line().Value())
	}
	if record != top[3] {
		t.Fatalf("expected new records before the existing NOTE record")
	}
}

func TestInlineModeWritesOutputFileOnce(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	input := filepath.Join(root, "in.ged")
	output := filepath.Join(root, "out.ged")
	mustWriteFile(t, input, inlineFixture)

	_, stderr, err := runCommand(t, "", input, "-n", "inline", "-o", output, "--json")
	if err != nil {
		t.Fatalf("inline run failed: %v", err)
	}
	summary := decodeSummary(t, stderr)
	if summary.Inlined != 1 || summary.Removed != 1 || !summary.Written {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Input != input || summary.Output != output {
		t.Fatalf("unexpected paths in summary: %+v", summary)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(data), "1 NOTE only once\n") {
		t.Fatalf("expected pointer to be inlined:\n%s", data)
	}
	if strings.Contains(string(data), "@N1@") {
		t.Fatalf("expected record N1 to be removed:\n%s", data)
	}

	_, stderr, err = runCommand(t, "", input, "-n", "inline", "-o", output, "--json")
	if err != nil {
		t.Fatalf("second inline run failed: %v", err)
	}
	if decodeSummary(t, stderr).Written {
		t.Fatalf("expected identical output not to be rewritten")
	}
}

func TestDeleteModeTextSummary(t *testing.T) {
	clearEnv(t)

	stdout, stderr, err := runCommand(t, inlineFixture, "-d")
	if err != nil {
		t.Fatalf("delete run failed: %v", err)
	}
	if strings.Count(stdout, "1 NOTE") != 2 {
		t.Fatalf("expected only the empty NOTE to be deleted:\n%s", stdout)
	}
	if !strings.Contains(stderr, "delete: deleted=1 inlined=0 recorded=0 skipped=0") {
		t.Fatalf("unexpected summary:\n%s", stderr)
	}
}

func TestModeFlagsAreValidated(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"both", []string{"-d", "-n", "inline"}, "only use one of"},
		{"neither", nil, "missing: --delete or --note"},
		{"note delete", []string{"--note", "delete"}, "unsupported --note value"},
		{"note unknown", []string{"--note", "sideways"}, "unsupported --note value"},
		{"negative width", []string{"-d", "-c", "-1"}, "conc_width must be at least 0"},
		{"bad log level", []string{"-d", "--log-level", "loud"}, "log_level must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCommand(t, inlineFixture, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestModeFromConfigFileAndEnv(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	cfgPath := filepath.Join(root, "unnote.yaml")
	mustWriteFile(t, cfgPath, "mode: record\nlog_level: info\n")

	t.Setenv("UNNOTE_MODE", "delete")
	_, stderr, err := runCommand(t, inlineFixture, "--config", cfgPath, "--quiet")
	if err != nil {
		t.Fatalf("config run failed: %v", err)
	}
	if !strings.Contains(stderr, "committed NOTE changes") || !strings.Contains(stderr, "mode=delete") {
		t.Fatalf("expected environment mode to override the file and info logs to show:\n%s", stderr)
	}

	_, stderr, err = runCommand(t, inlineFixture, "--config", cfgPath, "--quiet", "-n", "inline")
	if err != nil {
		t.Fatalf("flag override run failed: %v", err)
	}
	if !strings.Contains(stderr, "mode=inline") {
		t.Fatalf("expected --note to override config and environment:\n%s", stderr)
	}
}

func TestUnresolvablePointerAborts(t *testing.T) {
	clearEnv(t)
	output := filepath.Join(t.TempDir(), "out.ged")

	_, _, err := runCommand(t, "0 @I1@ INDI\n1 NOTE @GONE@\n0 TRLR\n", "-n", "inline", "-o", output)
	var lookupErr *gedcom.LookupError
	if !errors.As(err, &lookupErr) || lookupErr.ID != "GONE" {
		t.Fatalf("expected lookup error for GONE, got %v", err)
	}
	assertNotExists(t, output)
}

func TestParseErrorsAreReported(t *testing.T) {
	clearEnv(t)

	_, _, err := runCommand(t, "0 HEAD\n3 CHAR UTF-8\n", "-d")
	var parseErr *gedcom.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if !strings.Contains(err.Error(), "<stdin>") {
		t.Fatalf("expected error to name the input, got %v", err)
	}
}

func TestConcWidthFlag(t *testing.T) {
	clearEnv(t)

	stdout, _, err := runCommand(t, "0 @I1@ INDI\n1 NOTE abcdefghij\n0 TRLR\n", "-d", "-c", "4", "--quiet")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	want := "0 @I1@ INDI\n1 NOTE abcd\n2 CONC efgh\n2 CONC ij\n0 TRLR\n"
	if stdout != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", stdout, want)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCommand(t, "", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if stdout != "unnote test\n" {
		t.Fatalf("unexpected version output %q", stdout)
	}
}

func runCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand("test")
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeSummary(t *testing.T, data string) RunSummary {
	t.Helper()
	var summary RunSummary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		t.Fatalf("failed to decode summary: %v\n%s", err, data)
	}
	return summary
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"UNNOTE_MODE", "UNNOTE_CONC_WIDTH", "UNNOTE_LOG_LEVEL", "UNNOTE_LOG_FORMAT"} {
		t.Setenv(key, "")
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Fatalf("expected %s to not exist", path)
	} else if !os.IsNotExist(err) {
		t.Fatalf("expected %s to be absent: %v", path, err)
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
