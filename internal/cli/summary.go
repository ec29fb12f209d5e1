package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/unnote-dev/unnote/internal/fileutil"
	"github.com/unnote-dev/unnote/internal/unnote"
)

type RunSummary struct {
	unnote.Report
	Input      string `json:"input"`
	Output     string `json:"output,omitempty"`
	InputHash  string `json:"input_hash"`
	OutputHash string `json:"output_hash"`
	Written    bool   `json:"written"`
	DurationMS int64  `json:"duration_ms"`
}

func PrintRunSummary(w io.Writer, summary RunSummary, asJSON bool) error {
	if asJSON {
		return fileutil.PrintJSON(w, summary)
	}

	parts := []string{
		fmt.Sprintf("%s:", summary.Mode),
		fmt.Sprintf("deleted=%d", summary.Deleted),
		fmt.Sprintf("inlined=%d", summary.Inlined),
		fmt.Sprintf("recorded=%d", summary.Recorded),
		fmt.Sprintf("skipped=%d", summary.Skipped),
		fmt.Sprintf("inserted=%d", summary.Inserted),
		fmt.Sprintf("removed=%d", summary.Removed),
		fmt.Sprintf("duration=%dms", summary.DurationMS),
	}
	if _, err := fmt.Fprintln(w, strings.Join(parts, " ")); err != nil {
		return err
	}

	if summary.Output == "" {
		return nil
	}
	state := "unchanged"
	if summary.Written {
		state = "written"
	}
	_, err := fmt.Fprintf(w, "output: %s (%s)\n", summary.Output, state)
	return err
}
