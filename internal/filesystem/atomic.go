package filesystem

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// AtomicWrite writes data to path through a temp file in the same directory
// followed by a rename, so readers never observe a partial artifact.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	tempFile = nil
	return nil
}

// LockPath returns the lock file guarding writes to path. It lives in the
// system temp directory so the output directory only ever holds outputs.
func LockPath(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = filepath.Clean(path)
	}
	sum := sha256.Sum256([]byte(absPath))
	return filepath.Join(os.TempDir(), "codecollector-"+hex.EncodeToString(sum[:8])+".lock")
}

// LockAndWrite holds the lock for path while atomically writing it. Two
// collections targeting the same artifact serialize instead of interleaving.
func LockAndWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	lockPath := LockPath(path)
	lock := flock.New(lockPath)

	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", lockPath, err)
	}
	defer lock.Unlock()

	return AtomicWrite(path, data)
}
