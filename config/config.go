package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for sigdump.
type Config struct {
	Extract ExtractConfig `yaml:"extract"`
	Filter  FilterConfig  `yaml:"filter"`
	Output  OutputConfig  `yaml:"output"`
	Cache   CacheConfig   `yaml:"cache"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExtractConfig selects documents and tells the markup reader where signatures live.
type ExtractConfig struct {
	Includes            []string `yaml:"includes"`
	Excludes            []string `yaml:"excludes"`
	DeclarationSelector string   `yaml:"declaration_selector"`
	SignatureSelector   string   `yaml:"signature_selector"`
	KeywordClass        string   `yaml:"keyword_class"`
	Workers             int      `yaml:"workers"`
}

// FilterConfig holds acceptance and rendering options.
type FilterConfig struct {
	Denylist           []string `yaml:"denylist"`
	UnitForEmptyParams bool     `yaml:"unit_for_empty_params"`
}

type OutputConfig struct {
	Path string `yaml:"path"` // "-" writes to stdout
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // Prometheus textfile collector output, empty disables
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Extract: ExtractConfig{
			Includes:            []string{"**/*.html", "**/*.htm", "**/*.kt", "**/*.kts"},
			Excludes:            []string{"**/node_modules/**", "**/.git/**", "**/build/**", "**/.sigdump/**"},
			DeclarationSelector: ".api-declarations-list .declarations",
			SignatureSelector:   ".signature",
			KeywordClass:        "keyword",
			Workers:             1,
		},
		Filter: FilterConfig{
			Denylist:           []string{"PrintWriter", "PrintStream"},
			UnitForEmptyParams: false,
		},
		Output: OutputConfig{
			Path: "declarations.txt",
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for sigdump.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "sigdump.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".sigdump", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CacheDBPath returns the path to the result cache database.
func CacheDBPath(dir string) string {
	return filepath.Join(dir, ".sigdump", "cache.db")
}

// EnsureDir ensures the .sigdump directory exists.
func EnsureDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".sigdump"), 0755)
}
