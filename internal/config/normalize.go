package config

import (
	"fmt"
	"os"
	"strings"

	"platter/internal/freedb"
)

func (c *Config) normalize() error {
	c.normalizeFreedb()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeFreedb() {
	if value, ok := os.LookupEnv("PLATTER_FREEDB_USER"); ok && strings.TrimSpace(value) != "" {
		c.Freedb.User = value
	}
	if value, ok := os.LookupEnv("PLATTER_FREEDB_EMAIL"); ok && strings.TrimSpace(value) != "" {
		c.Freedb.UserEmail = value
	}

	servers := make([]string, 0, len(c.Freedb.Servers))
	for _, server := range c.Freedb.Servers {
		if trimmed := strings.TrimSpace(server); trimmed != "" {
			servers = append(servers, trimmed)
		}
	}
	c.Freedb.Servers = servers

	c.Freedb.User = strings.TrimSpace(c.Freedb.User)
	c.Freedb.UserEmail = strings.TrimSpace(c.Freedb.UserEmail)
	c.Freedb.Host = strings.TrimSpace(c.Freedb.Host)
	c.Freedb.App = strings.TrimSpace(c.Freedb.App)
	c.Freedb.Version = strings.TrimSpace(c.Freedb.Version)
	c.Freedb.Protocol = strings.TrimSpace(c.Freedb.Protocol)
	c.Freedb.Category = strings.ToLower(strings.TrimSpace(c.Freedb.Category))
	if c.Freedb.Category == "" {
		c.Freedb.Category = string(freedb.Misc)
	}
	c.Freedb.QueryType = strings.ToLower(strings.TrimSpace(c.Freedb.QueryType))
	if c.Freedb.QueryType == "" {
		c.Freedb.QueryType = freedb.Query.String()
	}
	c.Freedb.Charset = strings.TrimSpace(c.Freedb.Charset)
	if c.Freedb.Charset == "" {
		c.Freedb.Charset = freedb.DefaultCharset
	}
	if c.Freedb.TimeoutSeconds == 0 {
		c.Freedb.TimeoutSeconds = defaultTimeoutSeconds
	}
}

func (c *Config) normalizePaths() error {
	var err error
	c.Drive.Device = strings.TrimSpace(c.Drive.Device)
	if c.Drive.Device == "" {
		c.Drive.Device = defaultDevice
	}
	if strings.TrimSpace(c.Catalog.Path) == "" {
		c.Catalog.Path = defaultCatalogPath
	}
	if c.Catalog.Path, err = expandPath(c.Catalog.Path); err != nil {
		return fmt.Errorf("catalog.path: %w", err)
	}
	if strings.TrimSpace(c.Watch.LockPath) == "" {
		c.Watch.LockPath = defaultLockPath
	}
	if c.Watch.LockPath, err = expandPath(c.Watch.LockPath); err != nil {
		return fmt.Errorf("watch.lock_path: %w", err)
	}
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
