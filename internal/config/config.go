package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"platter/internal/freedb"
)

//go:embed sample_config.toml
var sampleConfig string

// Freedb contains server and hello identity settings.
type Freedb struct {
	Servers        []string `toml:"servers"`
	User           string   `toml:"user"`
	UserEmail      string   `toml:"user_email"`
	Host           string   `toml:"host"`
	App            string   `toml:"app"`
	Version        string   `toml:"version"`
	Protocol       string   `toml:"protocol"`
	Category       string   `toml:"category"`
	QueryType      string   `toml:"query_type"`
	Charset        string   `toml:"charset"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Drive contains the optical drive used for TOC reads.
type Drive struct {
	Device string `toml:"device"`
}

// Catalog contains the location of the saved album library.
type Catalog struct {
	Path string `toml:"path"`
}

// Watch contains settings for the udev-driven identifier.
type Watch struct {
	LockPath string `toml:"lock_path"`
	AutoSave bool   `toml:"auto_save"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for platter.
type Config struct {
	Freedb  Freedb  `toml:"freedb"`
	Drive   Drive   `toml:"drive"`
	Catalog Catalog `toml:"catalog"`
	Watch   Watch   `toml:"watch"`
	Logging Logging `toml:"logging"`
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
		decoder.DisallowUnknownFields()
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

	projectPath, err := filepath.Abs("platter.toml")
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

// Identity converts the freedb section into the protocol identity.
// Load has already validated category and query type.
func (c *Config) Identity() freedb.Identity {
	category, _ := freedb.ParseCategory(c.Freedb.Category)
	kind, _ := freedb.ParseCommandKind(c.Freedb.QueryType)
	return freedb.Identity{
		User:      c.Freedb.User,
		UserEmail: c.Freedb.UserEmail,
		Host:      c.Freedb.Host,
		App:       c.Freedb.App,
		Version:   c.Freedb.Version,
		Protocol:  c.Freedb.Protocol,
		Category:  category,
		QueryType: kind,
	}
}

// Server returns the preferred freedb endpoint.
func (c *Config) Server() string {
	if len(c.Freedb.Servers) == 0 {
		return freedb.DefaultServers[0]
	}
	return c.Freedb.Servers[0]
}

// LogPath returns the log file inside logging.dir, or "" when file logging
// is off.
func (c *Config) LogPath() string {
	dir := strings.TrimSpace(c.Logging.Dir)
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "platter.log")
}

// Timeout returns the HTTP timeout for freedb requests.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Freedb.TimeoutSeconds) * time.Second
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
// An existing file is left alone.
func CreateSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}

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

// Encode renders cfg as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
