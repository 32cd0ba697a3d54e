package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a file with ENV interpolation. If
// configPath is empty, it searches default locations; with no config
// file anywhere, the defaults are used.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	cfg, _, err := LoadWithPath(configPath, getenv)
	return cfg, err
}

// LoadWithPath reads configuration and returns both the config and the
// resolved path ("" when running on defaults).
func LoadWithPath(configPath string, getenv func(string) string) (*Config, string, error) {
	path := resolveConfigPath(configPath, getenv)
	cfg := Defaults()
	if path == "" {
		return cfg, "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config: %w", err)
	}
	data = interpolateEnv(data, getenv)

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Validate checks a configuration for impossible settings.
func Validate(cfg *Config) error {
	if cfg.Print.RightMargin <= 0 {
		return fmt.Errorf("print.right_margin must be positive, got %d", cfg.Print.RightMargin)
	}
	if cfg.Print.MiserWidth != nil && *cfg.Print.MiserWidth < 0 {
		return fmt.Errorf("print.miser_width must not be negative, got %d", *cfg.Print.MiserWidth)
	}
	if cfg.Print.Lines < 0 {
		return fmt.Errorf("print.lines must not be negative, got %d", cfg.Print.Lines)
	}
	if cfg.Print.Level < 0 || cfg.Print.Length < 0 {
		return fmt.Errorf("print.level and print.length must not be negative")
	}
	return nil
}

// resolveConfigPath picks the config file: explicit flag, then the
// CHERVIL_CONFIG environment variable, then ./chervil.yaml. An empty
// result means run on defaults.
func resolveConfigPath(configPath string, getenv func(string) string) string {
	if configPath != "" {
		return configPath
	}
	if env := getenv("CHERVIL_CONFIG"); env != "" {
		return env
	}
	if _, err := os.Stat("chervil.yaml"); err == nil {
		return "chervil.yaml"
	}
	return ""
}

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// interpolateEnv replaces ${VAR} references with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := envPattern.FindSubmatch(match)[1]
		return []byte(getenv(string(name)))
	})
}
