package preflight

import (
	"context"
	"path/filepath"

	"platter/internal/cdrom"
	"platter/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every check for cfg, in display order.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Catalog directory", filepath.Dir(cfg.Catalog.Path)),
		CheckDirectoryAccess("Watch lock directory", filepath.Dir(cfg.Watch.LockPath)),
	}
	if cfg.Logging.Dir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Logging.Dir))
	}
	results = append(results, CheckDrive(cfg.Drive.Device, cdrom.CheckDriveStatus))
	for _, server := range cfg.Freedb.Servers {
		results = append(results, CheckServer(ctx, server, cfg.Timeout()))
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
