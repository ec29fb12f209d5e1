package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unnote-dev/unnote/internal/config"
	"github.com/unnote-dev/unnote/internal/unnote"
)

func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

// ParseModeFlags turns --delete / --note into a Mode. An empty Mode means
// neither flag was given.
func ParseModeFlags(cmd *cobra.Command) (unnote.Mode, error) {
	del, err := cmd.Flags().GetBool("delete")
	if err != nil {
		return "", fmt.Errorf("failed to read --delete flag: %w", err)
	}
	note, err := OptionalStringFlag(cmd, "note")
	if err != nil {
		return "", err
	}

	switch {
	case del && note != "":
		return "", errors.New("can only use one of: --delete or --note")
	case del:
		return unnote.ModeDelete, nil
	case note == "":
		return "", nil
	}

	mode, err := unnote.ParseMode(note)
	if err != nil || mode == unnote.ModeDelete {
		return "", fmt.Errorf("unsupported --note value %q (supported: inline, record)", note)
	}
	return mode, nil
}

// ResolveConfig layers command-line flags over the config file and
// environment, then validates the result.
func ResolveConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := OptionalStringFlag(cmd, "config")
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	mode, err := ParseModeFlags(cmd)
	if err != nil {
		return cfg, err
	}
	if mode != "" {
		cfg.Mode = mode
	}
	if cfg.Mode == "" {
		return cfg, errors.New("missing: --delete or --note")
	}

	if cmd.Flags().Changed("conc-width") {
		if cfg.ConcWidth, err = cmd.Flags().GetInt("conc-width"); err != nil {
			return cfg, fmt.Errorf("failed to read --conc-width flag: %w", err)
		}
	}
	for flag, field := range map[string]*string{
		"log-level":  &cfg.LogLevel,
		"log-format": &cfg.LogFormat,
	} {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		if *field, err = OptionalStringFlag(cmd, flag); err != nil {
			return cfg, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
