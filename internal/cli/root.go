package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unnote-dev/unnote/internal/gedcom"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "unnote [flags] [input.ged]",
		Short: "Remove empty NOTEs, or convert between inline NOTEs and NOTE records",
		Long: `unnote rewrites the NOTE entries of a GEDCOM file.

Exactly one of --delete or --note must be given:
  --delete         removes empty NOTEs (inline, or pointers to empty records)
  --note inline    replaces NOTE pointers with the text of their record
  --note record    moves inline NOTE text into new top-level NOTE records

NOTEs carrying a SOUR citation are never removed, and records referenced
more than once are never inlined. Input is read from the given file or
stdin; output goes to --output or stdout.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         RunUnnote,
	}

	flags := rootCmd.Flags()
	flags.BoolP("delete", "d", false, "Delete empty NOTEs")
	flags.StringP("note", "n", "", "Convert NOTEs to: inline|record")
	flags.IntP("conc-width", "c", gedcom.DefaultConcWidth, "Split values longer than this with CONC (0 disables)")
	flags.StringP("output", "o", "", "Write the result to this file instead of stdout")
	flags.String("config", "", "YAML config file (mode, conc_width, log_level, log_format)")
	flags.Bool("json", false, "Print machine-readable run summary")
	flags.Bool("quiet", false, "Do not print the run summary")
	flags.String("log-level", "warn", "Log level: debug|info|warn|error")
	flags.String("log-format", "text", "Log format: text|json")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "unnote %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)

	return rootCmd
}
