// Package config holds the typed run configuration. Values come from command
// line flags only: there is no config file and no environment override.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/termhist/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/termhist/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/termhist/pkg/logger"
)

// DefaultRoot is scanned when no path is given.
const DefaultRoot = "./"

// Config is the top-level run configuration.
type Config struct {
	Scan    ScanConfig    `yaml:"scan"`
	Display DisplayConfig `yaml:"display"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ScanConfig controls traversal and term extraction.
type ScanConfig struct {
	Roots        []string      `yaml:"roots"`
	Pattern      string        `yaml:"pattern"`
	Exclude      string        `yaml:"exclude"`
	MatchTimeout time.Duration `yaml:"matchTimeout"`
	Threads      int           `yaml:"threads"`
	Hidden       bool          `yaml:"hidden"`
	NoIgnore     bool          `yaml:"noIgnore"`
}

// DisplayConfig controls rendering. Width and Height of zero mean "detect".
// Count of zero means no explicit row cap.
type DisplayConfig struct {
	Style  string `yaml:"style"`
	Output string `yaml:"output"`
	Count  int    `yaml:"count"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the end-of-run Prometheus dump.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns a Config populated with the command's defaults.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Roots:        []string{DefaultRoot},
			Pattern:      tokenizer.DefaultPattern,
			MatchTimeout: tokenizer.DefaultMatchTimeout,
			Threads:      runtime.NumCPU(),
		},
		Display: DisplayConfig{
			Style:  "stacked",
			Output: "text",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string
	if len(c.Scan.Roots) == 0 {
		problems = append(problems, "at least one root path is required")
	}
	for _, root := range c.Scan.Roots {
		if strings.TrimSpace(root) == "" {
			problems = append(problems, "root path must not be empty")
			break
		}
	}
	if c.Scan.Pattern == "" {
		problems = append(problems, "pattern must not be empty")
	}
	if c.Scan.MatchTimeout < 0 {
		problems = append(problems, fmt.Sprintf("match timeout must not be negative, got %v", c.Scan.MatchTimeout))
	}
	if c.Scan.Threads < 1 {
		problems = append(problems, fmt.Sprintf("threads must be positive, got %d", c.Scan.Threads))
	}
	if c.Display.Count < 0 {
		problems = append(problems, fmt.Sprintf("count must not be negative, got %d", c.Display.Count))
	}
	if c.Display.Width < 0 || c.Display.Height < 0 {
		problems = append(problems, "width and height must not be negative")
	}
	switch c.Display.Output {
	case "text", "json", "yaml":
	default:
		problems = append(problems, fmt.Sprintf("unknown output format %q", c.Display.Output))
	}
	if !logger.ValidLevel(c.Logging.Level) {
		problems = append(problems, fmt.Sprintf("unknown log level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("unknown log format %q", c.Logging.Format))
	}
	if len(problems) > 0 {
		return apperrors.New(apperrors.ErrInvalidInput, apperrors.ExitUsage, strings.Join(problems, "; "))
	}
	return nil
}

// RowCap reports the explicit per-panel row cap, if one was given.
func (d DisplayConfig) RowCap() (int, bool) {
	return d.Count, d.Count > 0
}
