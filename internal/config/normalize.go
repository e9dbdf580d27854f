package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeDatabase(); err != nil {
		return err
	}
	c.normalizePolicy()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	if err := c.normalizeMetrics(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeDatabase() error {
	if value, ok := os.LookupEnv("FOLIO_DB_PATH"); ok && strings.TrimSpace(value) != "" {
		c.Database.Path = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		c.Database.Path = defaultDatabasePath
	}
	var err error
	if c.Database.Path, err = expandPath(c.Database.Path); err != nil {
		return fmt.Errorf("database.path: %w", err)
	}
	if c.Database.BusyTimeoutMS <= 0 {
		c.Database.BusyTimeoutMS = defaultBusyTimeoutMS
	}
	return nil
}

func (c *Config) normalizePolicy() {
	c.Policy.DisownPairs = normalizePairs(c.Policy.DisownPairs)
	c.Policy.ExactTitlePairs = normalizePairs(c.Policy.ExactTitlePairs)
}

func normalizePairs(pairs []string) []string {
	out := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		pair = strings.ToLower(strings.ReplaceAll(pair, " ", ""))
		if pair == "" {
			continue
		}
		out = append(out, pair)
	}
	return out
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMetrics() error {
	var err error
	if c.Metrics.Textfile, err = expandPath(strings.TrimSpace(c.Metrics.Textfile)); err != nil {
		return fmt.Errorf("metrics.textfile: %w", err)
	}
	return nil
}
