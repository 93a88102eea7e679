package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the segmentation tool.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Segment SegmentConfig `yaml:"segment"`
	Scan    ScanConfig    `yaml:"scan"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP endpoint configuration.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	CacheSize       int    `yaml:"cache_size"`
	CacheTTLSec     int    `yaml:"cache_ttl_sec"`
}

// SegmentConfig holds segmentation policy.
type SegmentConfig struct {
	KeepBlankGaps bool `yaml:"keep_blank_gaps"`
}

// ScanConfig holds file selection for batch runs.
type ScanConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
	PgmName  string   `yaml:"pgm_name"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeoutSec:  30,
			WriteTimeoutSec: 30,
			CacheSize:       256,
			CacheTTLSec:     300,
		},
		Segment: SegmentConfig{
			KeepBlankGaps: false,
		},
		Scan: ScanConfig{
			Includes: []string{"**/*.abap", "**/*.ABAP", "**/*.prog", "**/*.incl"},
			Excludes: []string{"**/.git/**", "**/node_modules/**", "**/vendor/**"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSec) * time.Second
}

func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSec) * time.Second
}

func (s ServerConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSec) * time.Second
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

// LoadFromDir loads configuration from a directory (looks for abapseg.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "abapseg.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".abapseg", "config.yaml")
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

// StoreDBPath returns the path to the segment database.
func StoreDBPath(dir string) string {
	return filepath.Join(dir, ".abapseg", "segments.db")
}

// EnsureWorkDir ensures the .abapseg directory exists.
func EnsureWorkDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".abapseg"), 0755)
}
