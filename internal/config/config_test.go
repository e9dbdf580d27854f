package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"folio/internal/config"
	"folio/internal/equivalence"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("FOLIO_DB_PATH", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantDB := filepath.Join(tempHome, ".local", "share", "folio", "catalog.db")
	if cfg.Database.Path != wantDB {
		t.Fatalf("unexpected database path: got %q want %q", cfg.Database.Path, wantDB)
	}
	if cfg.Dedupe.PlaceholderTitleID != 73 {
		t.Fatalf("unexpected placeholder id: %d", cfg.Dedupe.PlaceholderTitleID)
	}
	if !cfg.Dedupe.ConvertISBNs || !cfg.Dedupe.Constrain {
		t.Fatal("expected convert and constrain passes enabled by default")
	}
	if len(cfg.Policy.DisownPairs) != 2 || len(cfg.Policy.ExactTitlePairs) != 5 {
		t.Fatalf("unexpected default policy: %+v", cfg.Policy)
	}
	if cfg.LockPath() != wantDB+".lock" {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
}

func TestLoadEnvOverridesDatabasePath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("FOLIO_DB_PATH", dbPath)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Database.Path != dbPath {
		t.Fatalf("expected env database path %q, got %q", dbPath, cfg.Database.Path)
	}
}

func TestLoadCustomFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FOLIO_DB_PATH", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "folio.toml")

	custom := config.Default()
	custom.Database.Path = filepath.Join(dir, "catalog.db")
	custom.Dedupe.Workers = 3
	custom.Dedupe.Limit = 50
	custom.Policy.DisownPairs = []string{" NOVEL:Omnibus "}
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config %q to be found, got %q (exists=%v)", path, resolved, exists)
	}
	if cfg.Dedupe.Workers != 3 || cfg.Dedupe.Limit != 50 {
		t.Fatalf("unexpected dedupe settings: %+v", cfg.Dedupe)
	}
	if len(cfg.Policy.DisownPairs) != 1 || cfg.Policy.DisownPairs[0] != "novel:omnibus" {
		t.Fatalf("expected normalized disown pair, got %v", cfg.Policy.DisownPairs)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %q", cfg.Logging.Format)
	}
}

func TestValidateRejectsUnknownCategoryPair(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "catalog.db")
	cfg.Policy.ExactTitlePairs = []string{"novel:pamphlet"}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for unknown category")
	}
	if !strings.Contains(err.Error(), "pamphlet") {
		t.Fatalf("expected error to name the category, got %v", err)
	}
}

func TestValidateAcceptsPairsParsePolicyAccepts(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "catalog.db")
	cfg.Policy.DisownPairs = []string{" Novella : OMNIBUS "}
	cfg.Policy.ExactTitlePairs = []string{"NOVEL:collection"}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected mixed-case pairs to validate, got %v", err)
	}
	if _, err := equivalence.ParsePolicy(cfg.Policy.DisownPairs, cfg.Policy.ExactTitlePairs); err != nil {
		t.Fatalf("ParsePolicy rejected pairs that validated: %v", err)
	}
}

func TestValidateAcceptsWarningLevel(t *testing.T) {
	for _, level := range []string{"warning", "WARN", " Debug "} {
		cfg := config.Default()
		cfg.Database.Path = filepath.Join(t.TempDir(), "catalog.db")
		cfg.Logging.Level = level

		if err := cfg.Validate(); err != nil {
			t.Fatalf("level %q: expected valid, got %v", level, err)
		}
	}
}

func TestValidateRejectsUnknownLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "catalog.db")
	cfg.Logging.Level = "verbose"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown log level")
	}
}

func TestValidateRejectsMalformedPair(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "catalog.db")
	cfg.Policy.DisownPairs = []string{"novella-omnibus"}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for pair without separator")
	}
}

func TestValidateRejectsNonPositivePlaceholder(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "catalog.db")
	cfg.Dedupe.PlaceholderTitleID = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for placeholder id 0")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FOLIO_DB_PATH", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Dedupe.PlaceholderTitleID != config.Default().Dedupe.PlaceholderTitleID {
		t.Fatalf("sample placeholder differs from default: %d", cfg.Dedupe.PlaceholderTitleID)
	}
}
