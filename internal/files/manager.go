package files

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Manager provides file management operations
type Manager struct {
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger}
}

// FileExists checks if a regular file exists at the given path
func (m *Manager) FileExists(path string) bool {
	info, err := os.Stat(path)
	exists := err == nil && !info.IsDir()

	m.logger.Debug("FileExists check",
		slog.String("path", path),
		slog.Bool("exists", exists))

	return exists
}

// EnsureDirectory creates a directory if it doesn't exist
func (m *Manager) EnsureDirectory(path string) error {
	if path == "" || path == "." {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		m.logger.Debug("Creating directory", slog.String("path", path))
		return os.MkdirAll(path, 0755)
	}
	return nil
}

// SamePath reports whether a and b name the same file. Paths are compared
// after cleaning and, when both exist, by file identity so that links and
// relative spellings are caught.
func (m *Manager) SamePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, fmt.Errorf("failed to resolve %s: %w", a, err)
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, fmt.Errorf("failed to resolve %s: %w", b, err)
	}
	if absA == absB {
		return true, nil
	}

	infoA, errA := os.Stat(absA)
	infoB, errB := os.Stat(absB)
	if errA != nil || errB != nil {
		return false, nil
	}
	return os.SameFile(infoA, infoB), nil
}

// CreateTemp opens a new hidden temporary file next to target. Keeping it in
// the target's directory lets ReplaceFile rename it without crossing devices.
func (m *Manager) CreateTemp(target string) (*os.File, error) {
	dir := filepath.Dir(target)
	if err := m.EnsureDirectory(dir); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	m.logger.Debug("Created temp file",
		slog.String("target", target),
		slog.String("temp", file.Name()))

	return file, nil
}

// ReplaceFile moves src over dst in a single rename. On failure src is
// removed and dst is left as it was.
func (m *Manager) ReplaceFile(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		_ = m.DeleteFile(src)
		return fmt.Errorf("failed to replace %s: %w", dst, err)
	}

	m.logger.Debug("Replaced file",
		slog.String("src", src),
		slog.String("dst", dst))

	return nil
}

// DeleteFile deletes a file. A missing file is not an error.
func (m *Manager) DeleteFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// GetFileSize returns the size of a file in bytes
func (m *Manager) GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
