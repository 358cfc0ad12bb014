package internal

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
	if cfg.Manifest.Enabled() {
		t.Error("manifest should be disabled by default")
	}
	if cfg.Output.Archive != "dokuwiki2wikijs.zip" {
		t.Errorf("archive = %q", cfg.Output.Archive)
	}
}

func TestSourceConfig_ValidExclude(t *testing.T) {
	cfg := SourceConfig{Exclude: []string{"playground/**", "wiki/*.txt"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid globs should pass: %v", err)
	}
}

func TestSourceConfig_InvalidExclude(t *testing.T) {
	cfg := SourceConfig{Exclude: []string{"ok/**", "broken["}}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid glob should fail validation")
	}
	if !strings.Contains(err.Error(), "glob") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOutputConfig_RequiresWorkDir(t *testing.T) {
	cfg := OutputConfig{Archive: "out.zip"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty work dir should fail validation")
	}
}

func TestOutputConfig_RejectsRoot(t *testing.T) {
	cfg := OutputConfig{WorkDir: "/", Archive: "out.zip"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("root work dir should fail validation")
	}
}

func TestConverterConfig_NegativeTimeout(t *testing.T) {
	cfg := ConverterConfig{Command: "pandoc", Timeout: -time.Second}
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative timeout should fail validation")
	}
}

func TestFullConfig_ConverterValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Converter.Command = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch converter error")
	}
}
