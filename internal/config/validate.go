package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateDedupe(); err != nil {
		return err
	}
	if err := c.validatePolicy(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database.path must be set")
	}
	if c.Database.MaxOpenConns < 0 {
		return errors.New("database.max_open_conns must not be negative")
	}
	if c.Database.MaxOpenConns == 1 {
		return errors.New("database.max_open_conns must be 0 or at least 2: the group cursor holds one connection")
	}
	return nil
}

func (c *Config) validateDedupe() error {
	if c.Dedupe.PlaceholderTitleID <= 0 {
		return errors.New("dedupe.placeholder_title_id must be positive")
	}
	if c.Dedupe.Limit < 0 {
		return errors.New("dedupe.limit must not be negative")
	}
	return nil
}

func (c *Config) validatePolicy() error {
	for _, pair := range c.Policy.DisownPairs {
		if err := validatePair(pair); err != nil {
			return fmt.Errorf("policy.disown_pairs: %w", err)
		}
	}
	for _, pair := range c.Policy.ExactTitlePairs {
		if err := validatePair(pair); err != nil {
			return fmt.Errorf("policy.exact_title_pairs: %w", err)
		}
	}
	return nil
}

func validatePair(pair string) error {
	first, second, ok := strings.Cut(pair, ":")
	if !ok {
		return fmt.Errorf("pair %q must be written as first:second", pair)
	}
	for _, name := range []string{first, second} {
		if !isCategoryName(name) {
			return fmt.Errorf("pair %q: unknown category %q (expected one of %s)", pair, name, strings.Join(categoryNames, ", "))
		}
	}
	return nil
}

// isCategoryName matches category names the way catalog.ParseCategory does:
// case-insensitive, ignoring surrounding space.
func isCategoryName(name string) bool {
	name = strings.TrimSpace(name)
	return slices.ContainsFunc(categoryNames, func(candidate string) bool {
		return strings.EqualFold(candidate, name)
	})
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
