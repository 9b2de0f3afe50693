package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"clipper/internal/config"
	"clipper/internal/deps"
)

// minFreeBytes is the floor below which a cut run is likely to fail while
// downloading the source.
const minFreeBytes = 512 << 20 // 512 MiB

// CheckTools verifies the required external binaries resolve on PATH.
func CheckTools(cfg *config.Config) []Result {
	results := make([]Result, 0, 2)
	for _, status := range deps.CheckBinaries(deps.Required(cfg.Tools.YtDlp, cfg.Tools.FFmpeg)) {
		result := Result{Name: status.Name, Passed: status.Available}
		if status.Available {
			result.Detail = fmt.Sprintf("%s found", status.Command)
		} else {
			result.Detail = status.Detail
		}
		results = append(results, result)
	}
	return results
}

// CheckDirectoryAccess verifies path exists (or can be created) and is
// read/write accessible.
func CheckDirectoryAccess(name, path string) Result {
	if path == "" {
		return Result{Name: name, Detail: "path not configured"}
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		// Created on demand at run time; verify the nearest existing parent
		// is writable instead.
		parent := nearestExisting(filepath.Dir(path))
		if accessErr := unix.Access(parent, unix.W_OK|unix.X_OK); accessErr != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create: %v)", path, accessErr)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
	}
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has workable headroom
// for a source download plus outputs.
func CheckFreeSpace(name, path string) Result {
	target := nearestExisting(path)
	var stat unix.Statfs_t
	if err := unix.Statfs(target, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", target, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minFreeBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (only %d MiB free)", target, free>>20)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d MiB free)", target, free>>20)}
}

func cacheDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Cache.Path)
}

func nearestExisting(path string) string {
	for path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			break
		}
		path = parent
	}
	return "/"
}
