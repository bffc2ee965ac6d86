package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/keshon/fvc/internal/transform"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeSettings(t, `
key: "team-key"
checkout:
  suffix: ".plain"
  dir: "/tmp/out"
ignore:
  - "*.swp"
  - "**/.DS_Store"
log:
  level: debug
  format: json
`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.TransformKey() != transform.Key("team-key") {
		t.Errorf("expected key team-key, got %s", s.Key)
	}
	if s.Checkout.Suffix != ".plain" || s.Checkout.Dir != "/tmp/out" {
		t.Errorf("unexpected checkout config: %+v", s.Checkout)
	}
	if len(s.Ignore) != 2 {
		t.Errorf("expected 2 ignore patterns, got %d", len(s.Ignore))
	}
	if s.Log.Level != "debug" || s.Log.Format != "json" {
		t.Errorf("unexpected log config: %+v", s.Log)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeSettings(t, "ignore: []\n")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.TransformKey() != transform.DefaultKey {
		t.Errorf("expected default key, got %q", s.Key)
	}
	if s.Checkout.Suffix != DefaultCheckoutSuffix {
		t.Errorf("expected suffix %q, got %q", DefaultCheckoutSuffix, s.Checkout.Suffix)
	}
	if s.Checkout.Dir != "." {
		t.Errorf("expected checkout dir '.', got %q", s.Checkout.Dir)
	}
	if s.Log.Level != "info" || s.Log.Format != "text" {
		t.Errorf("unexpected log defaults: %+v", s.Log)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("FVC_TEST_KEY", "from-env")
	path := writeSettings(t, "key: \"${FVC_TEST_KEY}\"\n")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Key != "from-env" {
		t.Errorf("expected key from-env, got %q", s.Key)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	if _, err := Load(writeSettings(t, "key: [unterminated")); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"suffix with separator", func(s *Settings) { s.Checkout.Suffix = "/out" }},
		{"bad ignore pattern", func(s *Settings) { s.Ignore = []string{"[unclosed"} }},
		{"bad log level", func(s *Settings) { s.Log.Level = "trace" }},
		{"bad log format", func(s *Settings) { s.Log.Format = "xml" }},
		{"empty key", func(s *Settings) { s.Key = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(s)
			if err := s.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}

	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	s, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("expected defaults, got %v", err)
	}
	if s.TransformKey() != transform.DefaultKey {
		t.Errorf("expected default key, got %q", s.Key)
	}

	s, err = LoadOrDefault(writeSettings(t, "key: custom\n"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Key != "custom" {
		t.Errorf("expected key custom, got %q", s.Key)
	}
}
