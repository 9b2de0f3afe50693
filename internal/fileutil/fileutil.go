// Package fileutil provides the small filesystem helpers clip outputs rely
// on, chiefly atomic materialization of finished files.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// PartPath returns the temporary sibling a writer should target before the
// final path is committed.
func PartPath(final string) string {
	return final + ".part"
}

// Commit moves a finished temp file onto its final path. Rename is atomic on
// the same filesystem; a cross-device fallback copies then removes. The temp
// file is cleaned up on failure so aborted cuts never leave partial outputs
// at the final path.
func Commit(tempPath, finalPath string) error {
	if err := os.Rename(tempPath, finalPath); err == nil {
		return nil
	} else if !isCrossDevice(err) {
		_ = os.Remove(tempPath)
		return fmt.Errorf("rename output: %w", err)
	}

	if err := CopyFile(tempPath, finalPath); err != nil {
		_ = os.Remove(tempPath)
		_ = os.Remove(finalPath)
		return fmt.Errorf("copy output across filesystems: %w", err)
	}
	return os.Remove(tempPath)
}

// Discard removes a temp file, tolerating its absence.
func Discard(tempPath string) {
	if err := os.Remove(tempPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		_ = err
	}
}

// CopyFile streams src to dst with default permissions (0o644).
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// EnsureDir creates dir and parents when absent.
func EnsureDir(dir string) error {
	if dir == "" {
		return errors.New("directory path required")
	}
	return os.MkdirAll(dir, 0o755)
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return errors.Is(linkErr.Err, syscall.EXDEV)
	}
	return errors.Is(err, syscall.EXDEV)
}

// RemoveAllUnder removes dir recursively, refusing pathological empty input.
func RemoveAllUnder(dir string) error {
	if filepath.Clean(dir) == "/" || dir == "" {
		return errors.New("refusing to remove root")
	}
	return os.RemoveAll(dir)
}
