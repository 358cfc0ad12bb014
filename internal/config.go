package internal

import (
	"errors"
	"log/slog"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/dokuwiki2wikijs/internal/archive"
	"github.com/starford/dokuwiki2wikijs/internal/pandoc"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Source    SourceConfig      `yaml:"source"`
	Output    OutputConfig      `yaml:"output"`
	Converter ConverterConfig   `yaml:"converter"`
	Pipeline  PipelineConfig    `yaml:"pipeline"`
	Manifest  ManifestConfig    `yaml:"manifest"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Source.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	return c.Converter.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// SourceConfig controls which parts of the installation are converted.
type SourceConfig struct {
	Exclude []string `yaml:"exclude"`
}

// Validate validates the source configuration.
func (c *SourceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Exclude, validation.Each(validation.By(isGlob))),
	)
}

func isGlob(value any) error {
	s, _ := value.(string)
	if !doublestar.ValidatePattern(s) {
		return errors.New("must be a valid glob pattern")
	}
	return nil
}

// OutputConfig holds where the converted tree and its archive are written.
// WorkDir is wiped at the start of every batch run.
type OutputConfig struct {
	WorkDir string `yaml:"work_dir"`
	Archive string `yaml:"archive"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.WorkDir, validation.Required, validation.NotIn("/", ".")),
		validation.Field(&c.Archive, validation.Required),
	)
}

// ConverterConfig holds the external markup converter settings.
type ConverterConfig struct {
	Command string        `yaml:"command"`
	Timeout time.Duration `yaml:"timeout"` // 0 disables the timeout
}

// Validate validates the converter configuration.
func (c *ConverterConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Command, validation.Required),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// PipelineConfig toggles optional rewrite passes.
type PipelineConfig struct {
	UnwrapSentences bool `yaml:"unwrap_sentences"`
}

// ManifestConfig holds the SQLite manifest location. An empty Path
// disables the manifest.
type ManifestConfig struct {
	Path string `yaml:"path"`
}

// Enabled reports whether a manifest should be written.
func (c *ManifestConfig) Enabled() bool {
	return c.Path != ""
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Output: OutputConfig{
			WorkDir: "/tmp/dokuwiki2wikijs",
			Archive: archive.DefaultName,
		},
		Converter: ConverterConfig{
			Command: pandoc.DefaultCommand,
		},
	}
}
