package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ErrInvalid marks configuration that cannot be read or fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all legisurprise configuration.
type Config struct {
	// Input files
	Data DataConfig `yaml:"data"`

	// Years processed by default, each with its CSV layout
	Years []YearConfig `yaml:"years"`

	// CSV layout details
	Format FormatConfig `yaml:"format"`

	// Output
	Report ReportConfig `yaml:"report"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig locates and decodes the input CSV files.
type DataConfig struct {
	Dir       string `yaml:"dir"`
	Pattern   string `yaml:"pattern"`   // {year} and {round} are substituted
	Encoding  string `yaml:"encoding"`  // utf-8, latin1, windows-1252
	Delimiter string `yaml:"delimiter"` // single character
}

// YearConfig binds an election year to its input layout.
type YearConfig struct {
	Year int    `yaml:"year"`
	Mode string `yaml:"mode"` // standard, compact
}

// FormatConfig describes how candidate columns are recognized.
type FormatConfig struct {
	// Standard layout: every other header is a candidate name
	CommonHeaders []string `yaml:"common_headers"`

	// Compact layout: number of "{i} label" / "{i} votes" pairs
	CompactSlots int `yaml:"compact_slots"`
}

// ReportConfig configures the text report.
type ReportConfig struct {
	Top        int `yaml:"top"`         // candidates shown per surprise
	ListingTop int `yaml:"listing_top"` // candidates shown per listing line
}

// ValidModes lists the supported CSV layouts.
var ValidModes = []string{"standard", "compact"}

// ValidEncodings lists the supported input encodings.
var ValidEncodings = []string{"utf-8", "latin1", "windows-1252"}

// DefaultCommonHeaders are the metadata columns of the standard layout.
var DefaultCommonHeaders = []string{
	"Code département",
	"département",
	"circonscription",
	"élu premier tour",
	"Inscrits",
	"Votants",
	"Exprimés",
	"Blancs et nuls",
	"Taux de participation",
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir:       "data",
			Pattern:   "cdsp_legi{year}t{round}_circ.csv",
			Encoding:  "utf-8",
			Delimiter: ",",
		},
		Years: []YearConfig{
			{Year: 1958, Mode: "standard"},
		},
		Format: FormatConfig{
			CommonHeaders: append([]string(nil), DefaultCommonHeaders...),
			CompactSlots:  3,
		},
		Report: ReportConfig{
			Top:        5,
			ListingTop: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("LEGI_DATA_DIR"); dir != "" {
		c.Data.Dir = dir
	}
	if enc := os.Getenv("LEGI_ENCODING"); enc != "" {
		c.Data.Encoding = enc
	}
	if level := os.Getenv("LEGI_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate checks the configuration for inconsistent values.
func (c *Config) Validate() error {
	if c.Data.Pattern == "" {
		return fmt.Errorf("data.pattern must not be empty")
	}
	if !strings.Contains(c.Data.Pattern, "{year}") || !strings.Contains(c.Data.Pattern, "{round}") {
		return fmt.Errorf("data.pattern %q must contain {year} and {round}", c.Data.Pattern)
	}
	if !contains(ValidEncodings, strings.ToLower(c.Data.Encoding)) {
		return fmt.Errorf("invalid data.encoding: %s (valid: %v)", c.Data.Encoding, ValidEncodings)
	}
	if utf8.RuneCountInString(c.Data.Delimiter) != 1 {
		return fmt.Errorf("data.delimiter must be a single character, got %q", c.Data.Delimiter)
	}

	seen := make(map[int]bool, len(c.Years))
	for _, y := range c.Years {
		if seen[y.Year] {
			return fmt.Errorf("year %d configured twice", y.Year)
		}
		seen[y.Year] = true
		if !contains(ValidModes, y.Mode) {
			return fmt.Errorf("invalid mode for year %d: %s (valid: %v)", y.Year, y.Mode, ValidModes)
		}
	}

	if c.Format.CompactSlots <= 0 {
		return fmt.Errorf("format.compact_slots must be positive, got %d", c.Format.CompactSlots)
	}
	if c.Report.Top <= 0 {
		return fmt.Errorf("report.top must be positive, got %d", c.Report.Top)
	}
	if c.Report.ListingTop <= 0 {
		return fmt.Errorf("report.listing_top must be positive, got %d", c.Report.ListingTop)
	}

	return c.Logging.Validate()
}

// ModeFor returns the configured mode for year.
func (c *Config) ModeFor(year int) (string, bool) {
	for _, y := range c.Years {
		if y.Year == year {
			return y.Mode, true
		}
	}
	return "", false
}

// DelimiterRune returns the configured delimiter, defaulting to a comma.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Data.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
