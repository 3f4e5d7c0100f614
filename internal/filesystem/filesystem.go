// Package filesystem provides file system operations for collection and restore.
package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrPathTraversal is returned when a relative path resolves outside the root.
var ErrPathTraversal = errors.New("path traversal not allowed")

// Service provides guarded file operations under a root directory.
type Service struct {
	root string
}

// New creates a Service rooted at root.
func New(root string) *Service {
	absPath, err := filepath.Abs(root)
	if err != nil {
		absPath = filepath.Clean(root)
	}
	return &Service{root: absPath}
}

// Root returns the absolute root directory.
func (s *Service) Root() string {
	return s.root
}

// ResolvePath resolves a relative path within the root and validates it.
func (s *Service) ResolvePath(relativePath string) (string, error) {
	relativePath = strings.TrimSpace(relativePath)

	normalizedPath := filepath.FromSlash(relativePath)
	normalizedPath = strings.TrimLeft(normalizedPath, string(filepath.Separator))
	if normalizedPath == "" {
		return "", fmt.Errorf("empty path")
	}

	fullPath := filepath.Join(s.root, normalizedPath)
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", err
	}

	// Security check: ensure path is within root
	relPath, err := filepath.Rel(s.root, absPath)
	if err != nil {
		return "", err
	}
	if relPath == "." || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathTraversal, relativePath)
	}

	return absPath, nil
}

// WriteFile writes content to a path relative to the root, creating parent
// directories and overwriting any existing file.
func (s *Service) WriteFile(path, content string) error {
	fullPath, err := s.ResolvePath(path)
	if err != nil {
		return err
	}

	if info, err := os.Stat(fullPath); err == nil && info.IsDir() {
		return fmt.Errorf("cannot overwrite directory: %s", path)
	}

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("permission denied: %s", path)
		}
		return fmt.Errorf("failed to write file: %s - %w", path, err)
	}

	return nil
}

// ReadFile reads a file relative to the root. A missing file yields an
// empty string and ok=false.
func (s *Service) ReadFile(path string) (content string, ok bool, err error) {
	fullPath, err := s.ResolvePath(path)
	if err != nil {
		return "", false, err
	}

	content, err = ReadText(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return content, true, nil
}

// ReadText reads path as text. A byte order mark selects UTF-16 decoding;
// otherwise the data is UTF-8 with invalid sequences replaced by U+FFFD.
func ReadText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("cannot read directory as file: %s", path)
	}

	r := transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return string(data), nil
}

// DirExists reports whether path is an existing directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
