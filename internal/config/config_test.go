package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WidthRatio != DefaultWidthRatio {
		t.Fatalf("expected default width ratio, got %v", cfg.WidthRatio)
	}
	if cfg.ButtonOffset.X != DefaultOffsetX || cfg.ButtonOffset.Y != DefaultOffsetY {
		t.Fatalf("expected default offsets, got %+v", cfg.ButtonOffset)
	}
	if cfg.QuietPeriodMS != DefaultQuietPeriodMS {
		t.Fatalf("expected default quiet period, got %d", cfg.QuietPeriodMS)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `width_ratio: 0.5
button_offset:
  x: 20
  y: 6
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WidthRatio != 0.5 {
		t.Fatalf("expected width_ratio 0.5, got %v", cfg.WidthRatio)
	}
	if cfg.ButtonOffset.X != 20 || cfg.ButtonOffset.Y != 6 {
		t.Fatalf("expected offsets (20,6), got %+v", cfg.ButtonOffset)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected debug logging, got %q", cfg.Logging.Level)
	}
	// Unset keys keep defaults.
	if cfg.CornerRadius != DefaultCornerRadius {
		t.Fatalf("expected default corner radius, got %v", cfg.CornerRadius)
	}
}

func TestNormalizeClampsRatios(t *testing.T) {
	cfg := Default()
	cfg.WidthRatio = 0
	cfg.Normalize()
	if cfg.WidthRatio != 0.1 {
		t.Fatalf("expected ratio clamped to 0.1, got %v", cfg.WidthRatio)
	}

	cfg.WidthRatio = 5
	cfg.Normalize()
	if cfg.WidthRatio != 1.0 {
		t.Fatalf("expected ratio clamped to 1.0, got %v", cfg.WidthRatio)
	}
}

func TestNormalizeFixesInvalidValues(t *testing.T) {
	cfg := Default()
	cfg.CornerRadius = -3
	cfg.QuietPeriodMS = -1
	cfg.Logging.Level = "chatty"
	cfg.Normalize()

	if cfg.CornerRadius != 0 {
		t.Fatalf("expected corner radius 0, got %v", cfg.CornerRadius)
	}
	if cfg.QuietPeriodMS != DefaultQuietPeriodMS {
		t.Fatalf("expected default quiet period, got %d", cfg.QuietPeriodMS)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected info level, got %q", cfg.Logging.Level)
	}
}

func TestValidateReportsProblems(t *testing.T) {
	cfg := Default()
	if problems := cfg.Validate(); len(problems) != 0 {
		t.Fatalf("default config must validate clean, got %v", problems)
	}

	cfg.WidthRatio = 3
	cfg.Logging.Level = "loud"
	problems := cfg.Validate()
	if len(problems) != 2 {
		t.Fatalf("expected 2 problems, got %v", problems)
	}
}

func TestMalformedYAMLIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("width_ratio: [not a number"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("expected parse error")
	}
}
