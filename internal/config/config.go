package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Database contains configuration for the catalog store.
type Database struct {
	Path          string `toml:"path"`
	BusyTimeoutMS int    `toml:"busy_timeout_ms"`
	MaxOpenConns  int    `toml:"max_open_conns"`
}

// Dedupe contains configuration for the identifier deduplication run.
type Dedupe struct {
	// Workers sizes the resolution pool. 0 uses all CPUs but one, a negative
	// value n uses NumCPU+n+1, a positive value is used as-is.
	Workers int `toml:"workers"`
	// Limit caps the number of conflicting identifiers selected. 0 means no limit.
	Limit              int   `toml:"limit"`
	PlaceholderTitleID int64 `toml:"placeholder_title_id"`
	ConvertISBNs       bool  `toml:"convert_isbns"`
	Constrain          bool  `toml:"constrain"`
}

// Policy holds the category-pair tables used by the equivalence classifier.
// Pairs are written as "first:second" using lower-case category names, where
// first is the higher-priority claimant.
type Policy struct {
	DisownPairs     []string `toml:"disown_pairs"`
	ExactTitlePairs []string `toml:"exact_title_pairs"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Metrics contains configuration for the run metrics export.
type Metrics struct {
	// Textfile is written in Prometheus text exposition format after each run.
	Textfile string `toml:"textfile"`
}

// Config encapsulates all configuration values for folio.
//
// Configuration sections by subsystem:
//   - Database: catalog store location and connection tuning
//   - Dedupe: worker pool, placeholder identity, pre/post passes
//   - Policy: category-pair heuristics for the equivalence classifier
//   - Logging: log format, level, and file directory
//   - Metrics: Prometheus textfile export
type Config struct {
	Database Database `toml:"database"`
	Dedupe   Dedupe   `toml:"dedupe"`
	Policy   Policy   `toml:"policy"`
	Logging  Logging  `toml:"logging"`
	Metrics  Metrics  `toml:"metrics"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("folio.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the database and log directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Database.Path)}
	if strings.TrimSpace(c.Logging.Dir) != "" {
		dirs = append(dirs, c.Logging.Dir)
	}
	if strings.TrimSpace(c.Metrics.Textfile) != "" {
		dirs = append(dirs, filepath.Dir(c.Metrics.Textfile))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath returns the file used to keep dedupe runs single-instance.
func (c *Config) LockPath() string {
	return c.Database.Path + ".lock"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
