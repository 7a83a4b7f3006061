package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gncx-dev/gncx/internal/fixedpoint"
)

// FileName is the config file looked up in the working directory.
const FileName = "gncx.yaml"

// Malformed record policies.
const (
	MalformedAbort = "abort"
	MalformedSkip  = "skip"
)

// Config represents the top-level gncx.yaml configuration.
type Config struct {
	Book      string       `yaml:"book"`
	Format    string       `yaml:"format,omitempty"` // xml, sqlite or auto
	Tolerance string       `yaml:"tolerance"`        // decimal, e.g. "0.005"
	Malformed string       `yaml:"malformed"`        // abort or skip
	Log       LogConfig    `yaml:"log"`
	Report    ReportConfig `yaml:"report"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
	Output string `yaml:"output"` // stderr, stdout or a file path
}

// ReportConfig controls how amounts are rendered.
type ReportConfig struct {
	DecimalPlaces int32  `yaml:"decimal_places"`
	Format        string `yaml:"format"` // table or csv
}

// Load reads a gncx.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for book.
func Default(book string) *Config {
	return &Config{
		Book:      book,
		Format:    "auto",
		Tolerance: "0.005",
		Malformed: MalformedAbort,
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
			Output: "stderr",
		},
		Report: ReportConfig{
			DecimalPlaces: 2,
			Format:        "table",
		},
	}
}

// Env names the variables read by ApplyEnv.
var Env = struct {
	Book, Format, Tolerance, LogLevel, LogFormat string
}{
	Book:      "GNCX_BOOK",
	Format:    "GNCX_FORMAT",
	Tolerance: "GNCX_TOLERANCE",
	LogLevel:  "GNCX_LOG_LEVEL",
	LogFormat: "GNCX_LOG_FORMAT",
}

// ApplyEnv overrides fields with the GNCX_* variables set in the process
// environment and validates the result.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(&c.Book, Env.Book)
	set(&c.Format, Env.Format)
	set(&c.Tolerance, Env.Tolerance)
	set(&c.Log.Level, Env.LogLevel)
	set(&c.Log.Format, Env.LogFormat)
	return c.Validate()
}

// Validate checks the fields that have a fixed vocabulary.
func (c *Config) Validate() error {
	if _, err := c.ToleranceValue(); err != nil {
		return err
	}
	switch c.Malformed {
	case MalformedAbort, MalformedSkip:
	default:
		return fmt.Errorf("invalid malformed policy %q: want %s or %s", c.Malformed, MalformedAbort, MalformedSkip)
	}
	switch c.Report.Format {
	case "table", "csv":
	default:
		return fmt.Errorf("invalid report format %q: want table or csv", c.Report.Format)
	}
	if c.Report.DecimalPlaces < 0 {
		return fmt.Errorf("invalid decimal places %d", c.Report.DecimalPlaces)
	}
	return nil
}

// ToleranceValue parses Tolerance.
func (c *Config) ToleranceValue() (fixedpoint.Number, error) {
	tol, err := fixedpoint.Parse(c.Tolerance)
	if err != nil {
		return fixedpoint.Zero, fmt.Errorf("invalid tolerance %q: %w", c.Tolerance, err)
	}
	return tol.Abs(), nil
}

// SkipMalformed reports whether malformed records are skipped.
func (c *Config) SkipMalformed() bool { return c.Malformed == MalformedSkip }
