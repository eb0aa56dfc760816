package config

import "platter/internal/freedb"

const (
	defaultConfigPath     = "~/.config/platter/config.toml"
	defaultDevice         = "/dev/sr0"
	defaultCatalogPath    = "~/.local/share/platter/catalog.db"
	defaultLockPath       = "~/.local/share/platter/watch.lock"
	defaultLogDir         = "~/.local/share/platter/logs"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultTimeoutSeconds = 15
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	servers := make([]string, len(freedb.DefaultServers))
	copy(servers, freedb.DefaultServers)
	return Config{
		Freedb: Freedb{
			Servers:        servers,
			User:           freedb.DefaultUser,
			UserEmail:      freedb.DefaultUserEmail,
			Host:           freedb.DefaultHost,
			App:            freedb.DefaultApp,
			Version:        freedb.DefaultVersion,
			Protocol:       freedb.DefaultProtocol,
			Category:       string(freedb.Misc),
			QueryType:      freedb.Query.String(),
			Charset:        freedb.DefaultCharset,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Drive: Drive{
			Device: defaultDevice,
		},
		Catalog: Catalog{
			Path: defaultCatalogPath,
		},
		Watch: Watch{
			LockPath: defaultLockPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			Dir:    defaultLogDir,
		},
	}
}
