package preflight

import (
	"clipper/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable preflight check for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := CheckTools(cfg)
	results = append(results, CheckDirectoryAccess("Output directory", cfg.Output.Dir))
	results = append(results, CheckFreeSpace("Output free space", cfg.Output.Dir))
	if cfg.Cache.Enabled {
		results = append(results, CheckDirectoryAccess("Cache directory", cacheDir(cfg)))
	}
	return results
}

// Passed reports whether every result succeeded.
func Passed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
