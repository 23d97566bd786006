// Package config resolves run settings from defaults, an optional TOML file,
// a .env file and the environment. Command-line flags are applied on top by
// the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// DefaultOutput is used when no output directory is configured
const DefaultOutput = "./organized_photos"

// Environment variables read by Load
const (
	EnvInput    = "PHOTO_ORGANIZER_INPUT"
	EnvOutput   = "PHOTO_ORGANIZER_OUTPUT"
	EnvNoFilter = "PHOTO_ORGANIZER_NO_FILTER"
	EnvReport   = "PHOTO_ORGANIZER_REPORT"
)

// Config holds the settings of one run
type Config struct {
	Input       string `toml:"input"`     // Zip archive or directory
	Output      string `toml:"output"`    // Root of the organized tree
	NoFilter    bool   `toml:"no_filter"` // Disable the duplicate/derivative filter
	DryRun      bool   `toml:"dry_run"`
	ReportPath  string `toml:"report"` // Optional HTML report destination
	Interactive bool   `toml:"interactive"`
	GUI         bool   `toml:"gui"`
	NoColor     bool   `toml:"no_color"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{Output: DefaultOutput}
}

// Load builds a Config from defaults, the TOML file at path (skipped when
// path is empty), a .env file in the working directory and the environment.
// Later sources win.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Load .env file if it exists (ignore error if not found).
	// Variables already set in the environment take precedence.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvInput); v != "" {
		c.Input = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		c.Output = v
	}
	if v := os.Getenv(EnvReport); v != "" {
		c.ReportPath = v
	}
	if v := os.Getenv(EnvNoFilter); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &Error{Field: EnvNoFilter, Message: fmt.Sprintf("invalid boolean %q", v)}
		}
		c.NoFilter = b
	}
	return nil
}

// Normalize expands a leading ~ and cleans the path fields
func (c *Config) Normalize() error {
	for _, p := range []*string{&c.Input, &c.Output, &c.ReportPath} {
		expanded, err := ExpandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return &Error{Field: "input", Message: "input path is required"}
	}
	if strings.TrimSpace(c.Output) == "" {
		return &Error{Field: "output", Message: "output directory is required"}
	}
	return nil
}

// ExpandPath resolves a leading ~ to the home directory and cleans the
// result. Empty paths stay empty.
func ExpandPath(p string) (string, error) {
	if p == "" {
		return p, nil
	}
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if p == "~" {
			p = home
		} else if len(p) > 1 && (p[1] == '/' || p[1] == '\\') {
			p = filepath.Join(home, p[2:])
		}
	}
	return filepath.Clean(p), nil
}

// Error represents a configuration error
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Field + ": " + e.Message
}
