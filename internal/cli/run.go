package cli

import (
	"bytes"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/unnote-dev/unnote/internal/fileutil"
	"github.com/unnote-dev/unnote/internal/gedcom"
	"github.com/unnote-dev/unnote/internal/logging"
	"github.com/unnote-dev/unnote/internal/unnote"
)

func RunUnnote(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg, err := ResolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	inputPath := ""
	if len(args) > 0 {
		inputPath = args[0]
	}
	input, err := readInput(cmd, inputPath)
	if err != nil {
		return err
	}

	tree, err := gedcom.Read(bytes.NewReader(input))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", displayName(inputPath), err)
	}
	logger.Debug("parsed GEDCOM", "input", displayName(inputPath), "records", len(tree.Root().Children()))

	report, err := unnote.Run(tree, cfg.Mode, unnote.WithLogger(logger))
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := gedcom.Write(&out, tree, gedcom.WriteOptions{ConcWidth: cfg.ConcWidth}); err != nil {
		return err
	}

	outputPath, err := OptionalStringFlag(cmd, "output")
	if err != nil {
		return err
	}
	written := true
	if outputPath != "" {
		if written, err = fileutil.WriteIfChanged(outputPath, out.Bytes()); err != nil {
			return fmt.Errorf("failed to write %s: %w", outputPath, err)
		}
	} else if _, err := cmd.OutOrStdout().Write(out.Bytes()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to read --quiet flag: %w", err)
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}
	if quiet && !asJSON {
		return nil
	}

	summary := RunSummary{
		Report:     report,
		Input:      displayName(inputPath),
		Output:     outputPath,
		InputHash:  fileutil.HashBytes(input),
		OutputHash: fileutil.HashBytes(out.Bytes()),
		Written:    written,
		DurationMS: time.Since(start).Milliseconds(),
	}
	return PrintRunSummary(cmd.ErrOrStderr(), summary, asJSON)
}
