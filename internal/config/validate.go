package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"platter/internal/freedb"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFreedb(); err != nil {
		return err
	}
	if err := c.validateIdentity(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateFreedb() error {
	if len(c.Freedb.Servers) == 0 {
		return errors.New("freedb.servers must list at least one server")
	}
	for _, server := range c.Freedb.Servers {
		parsed, err := url.Parse(server)
		if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return fmt.Errorf("freedb.servers: %q is not an http(s) url", server)
		}
	}
	if _, err := freedb.ParseCategory(c.Freedb.Category); err != nil {
		return fmt.Errorf("freedb.category: unknown category %q", c.Freedb.Category)
	}
	if _, err := freedb.ParseCommandKind(c.Freedb.QueryType); err != nil {
		return fmt.Errorf("freedb.query_type must be query or read, got %q", c.Freedb.QueryType)
	}
	if _, err := freedb.NewDecoder(c.Freedb.Charset); err != nil {
		return fmt.Errorf("freedb.charset: %w", err)
	}
	if c.Freedb.TimeoutSeconds < 0 {
		return errors.New("freedb.timeout_seconds must be positive")
	}
	return nil
}

// validateIdentity rejects values that would break the hello/proto fields,
// which are sent without escaping.
func (c *Config) validateIdentity() error {
	fields := []struct {
		key   string
		value string
	}{
		{"freedb.user", c.Freedb.User},
		{"freedb.user_email", c.Freedb.UserEmail},
		{"freedb.host", c.Freedb.Host},
		{"freedb.app", c.Freedb.App},
		{"freedb.version", c.Freedb.Version},
		{"freedb.protocol", c.Freedb.Protocol},
	}
	for _, field := range fields {
		if field.value == "" {
			return fmt.Errorf("%s must be set", field.key)
		}
		if strings.ContainsAny(field.value, " &+=?#") {
			return fmt.Errorf("%s must not contain spaces or url delimiters", field.key)
		}
	}
	for _, r := range c.Freedb.Protocol {
		if r < '0' || r > '9' {
			return fmt.Errorf("freedb.protocol must be numeric, got %q", c.Freedb.Protocol)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
