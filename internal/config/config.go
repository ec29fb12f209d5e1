package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/unnote-dev/unnote/internal/gedcom"
	"github.com/unnote-dev/unnote/internal/unnote"
)

// Config holds everything a run needs besides its input and output.
type Config struct {
	Mode      unnote.Mode `yaml:"mode" validate:"required,oneof=delete inline record"`
	ConcWidth int         `yaml:"conc_width" validate:"gte=0"`
	LogLevel  string      `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string      `yaml:"log_format" validate:"oneof=text json"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report YAML keys rather than Go field names.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// Default returns the configuration used when nothing overrides it. Mode is
// left empty on purpose so that a run must choose one.
func Default() Config {
	return Config{
		ConcWidth: gedcom.DefaultConcWidth,
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// Load builds a Config from defaults, the optional YAML file at path, then
// UNNOTE_* environment variables, each overriding the previous source.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	ApplyEnv(&cfg)
	return cfg, nil
}

// LoadFile overlays the YAML document at path onto cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays UNNOTE_MODE, UNNOTE_CONC_WIDTH, UNNOTE_LOG_LEVEL and
// UNNOTE_LOG_FORMAT onto cfg.
func ApplyEnv(cfg *Config) {
	cfg.Mode = unnote.Mode(strings.ToLower(envOr("UNNOTE_MODE", string(cfg.Mode))))
	cfg.ConcWidth = envInt("UNNOTE_CONC_WIDTH", cfg.ConcWidth)
	cfg.LogLevel = envOr("UNNOTE_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envOr("UNNOTE_LOG_FORMAT", cfg.LogFormat)
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fmt.Sprint(fe.Value()))
	case "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
