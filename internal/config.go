package internal

import (
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/janitor/internal/janitor"
	"github.com/starford/janitor/internal/rank"
	"github.com/starford/janitor/internal/storage"
	"github.com/starford/janitor/internal/watch"
)

// Log formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

var extensionPattern = regexp.MustCompile(`^\.[A-Za-z0-9_-]+$`)

// Config represents the application configuration.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Rank  RankConfig        `yaml:"rank"`
	Notes NotesConfig       `yaml:"notes"`
	Index IndexConfig       `yaml:"index"`
	Watch WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Rank.Validate(); err != nil {
		return err
	}
	if err := c.Notes.Validate(); err != nil {
		return err
	}
	return c.Watch.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
	Workers   int        `yaml:"workers"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatJSON
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatJSON, LogFormatText)),
		validation.Field(&c.Workers, validation.Required, validation.Min(1)),
	)
}

// RankConfig holds the PageRank parameters.
type RankConfig struct {
	Damping       float64 `yaml:"damping"`
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"`
}

// Validate validates the rank configuration.
func (c *RankConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Damping, validation.Required, validation.Min(0.0).Exclusive(), validation.Max(1.0).Exclusive()),
		validation.Field(&c.Tolerance, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&c.MaxIterations, validation.Required, validation.Min(1)),
	)
}

// Params converts the configuration to rank parameters.
func (c *RankConfig) Params() rank.Params {
	return rank.Params{
		Damping:       c.Damping,
		Tolerance:     c.Tolerance,
		MaxIterations: c.MaxIterations,
	}
}

// NotesConfig describes which files are notes and how titles may collide.
type NotesConfig struct {
	Extension       string `yaml:"extension"`
	DuplicateTitles string `yaml:"duplicate_titles"`
}

// Validate validates the notes configuration.
func (c *NotesConfig) Validate() error {
	if c.DuplicateTitles == "" {
		c.DuplicateTitles = janitor.DuplicateWarn
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Extension, validation.Required, validation.Match(extensionPattern)),
		validation.Field(&c.DuplicateTitles, validation.In(janitor.DuplicateWarn, janitor.DuplicateError)),
	)
}

// IndexConfig holds the SQLite snapshot location. An empty path disables it.
type IndexConfig struct {
	Path string `yaml:"path"`
}

// Enabled returns true when a snapshot should be written.
func (c *IndexConfig) Enabled() bool {
	return c.Path != ""
}

// WatchConfig holds watch mode configuration.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Required, validation.Min(10*time.Millisecond)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatJSON,
			Workers:   8,
		},
		Rank: RankConfig{
			Damping:       rank.DefaultDamping,
			Tolerance:     rank.DefaultTolerance,
			MaxIterations: rank.DefaultMaxIterations,
		},
		Notes: NotesConfig{
			Extension:       storage.DefaultExtension,
			DuplicateTitles: janitor.DuplicateWarn,
		},
		Watch: WatchConfig{
			Debounce: watch.DefaultDebounce,
		},
	}
}
