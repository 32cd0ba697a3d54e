package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chervil.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func noEnv(string) string { return "" }

func TestDefaultsWhenNoConfigFile(t *testing.T) {
	cfg, path, err := LoadWithPath(filepath.Join(t.TempDir(), "missing.yaml"), noEnv)
	if err == nil {
		t.Errorf("Expected an error for an explicit missing path, got config from %q", path)
	}

	// With no explicit path and no file anywhere, defaults apply.
	cfg, path, err = LoadWithPath("", noEnv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "" {
		t.Errorf("Expected no config path, got %q", path)
	}
	if cfg.Print.RightMargin != 80 {
		t.Errorf("Expected default margin 80, got %d", cfg.Print.RightMargin)
	}
	if cfg.Print.MiserWidth != nil {
		t.Errorf("Expected no miser width by default")
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
print:
  right_margin: 100
  miser_width: 30
  lines: 25
  level: 6
repl:
  color: true
`)
	cfg, err := Load(path, noEnv)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Print.RightMargin != 100 {
		t.Errorf("Expected margin 100, got %d", cfg.Print.RightMargin)
	}
	if cfg.Print.MiserWidth == nil || *cfg.Print.MiserWidth != 30 {
		t.Errorf("Expected miser width 30, got %v", cfg.Print.MiserWidth)
	}
	if cfg.Print.Lines != 25 {
		t.Errorf("Expected lines 25, got %d", cfg.Print.Lines)
	}
	if cfg.Print.Level != 6 {
		t.Errorf("Expected level 6, got %d", cfg.Print.Level)
	}
	if !cfg.REPL.Color {
		t.Errorf("Expected color enabled")
	}
	// Unset fields keep their defaults
	if cfg.Print.Length != 0 {
		t.Errorf("Expected length unlimited, got %d", cfg.Print.Length)
	}
}

func TestEnvInterpolation(t *testing.T) {
	path := writeConfig(t, `
print:
  right_margin: ${CHERVIL_MARGIN}
`)
	getenv := func(name string) string {
		if name == "CHERVIL_MARGIN" {
			return "66"
		}
		return ""
	}
	cfg, err := Load(path, getenv)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Print.RightMargin != 66 {
		t.Errorf("Expected interpolated margin 66, got %d", cfg.Print.RightMargin)
	}
}

func TestConfigEnvVarPicksFile(t *testing.T) {
	path := writeConfig(t, "print:\n  right_margin: 55\n")
	getenv := func(name string) string {
		if name == "CHERVIL_CONFIG" {
			return path
		}
		return ""
	}
	cfg, resolved, err := LoadWithPath("", getenv)
	if err != nil {
		t.Fatalf("LoadWithPath: %v", err)
	}
	if resolved != path {
		t.Errorf("Expected config from %q, got %q", path, resolved)
	}
	if cfg.Print.RightMargin != 55 {
		t.Errorf("Expected margin 55, got %d", cfg.Print.RightMargin)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []string{
		"print:\n  right_margin: 0\n",
		"print:\n  right_margin: -4\n",
		"print:\n  miser_width: -1\n",
		"print:\n  lines: -2\n",
		"print:\n  level: -1\n",
	}
	for _, content := range tests {
		path := writeConfig(t, content)
		if _, err := Load(path, noEnv); err == nil {
			t.Errorf("Expected a validation error for %q", content)
		}
	}
}
