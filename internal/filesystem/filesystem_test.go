package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func setupTestRoot(t *testing.T) (string, *Service) {
	t.Helper()
	tmpDir := t.TempDir()
	return tmpDir, New(tmpDir)
}

func TestService_ResolvePath(t *testing.T) {
	tmpDir, svc := setupTestRoot(t)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"simple", "src/main.go", filepath.Join(tmpDir, "src", "main.go"), false},
		{"leading slash", "/src/main.go", filepath.Join(tmpDir, "src", "main.go"), false},
		{"surrounding whitespace", "  notes.txt ", filepath.Join(tmpDir, "notes.txt"), false},
		{"inner dot-dot stays inside", "a/../b.txt", filepath.Join(tmpDir, "b.txt"), false},
		{"parent escape", "../outside.txt", "", true},
		{"deep escape", "a/../../outside.txt", "", true},
		{"root itself", ".", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ResolvePath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ResolvePath(%q) = %q, want error", tt.path, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolvePath(%q) error = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("ResolvePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestService_ResolvePathTraversalError(t *testing.T) {
	_, svc := setupTestRoot(t)

	_, err := svc.ResolvePath("../../etc/passwd")
	if !errors.Is(err, ErrPathTraversal) {
		t.Errorf("ResolvePath() error = %v, want ErrPathTraversal", err)
	}
}

func TestService_WriteFile(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		tmpDir, svc := setupTestRoot(t)

		if err := svc.WriteFile("src/pkg/main.go", "package main"); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		data, err := os.ReadFile(filepath.Join(tmpDir, "src", "pkg", "main.go"))
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(data) != "package main" {
			t.Errorf("content = %q, want %q", data, "package main")
		}
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		tmpDir, svc := setupTestRoot(t)
		target := filepath.Join(tmpDir, "a.txt")
		os.WriteFile(target, []byte("old"), 0o644)

		if err := svc.WriteFile("a.txt", "new"); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		data, _ := os.ReadFile(target)
		if string(data) != "new" {
			t.Errorf("content = %q, want %q", data, "new")
		}
	})

	t.Run("refuses to replace a directory", func(t *testing.T) {
		tmpDir, svc := setupTestRoot(t)
		os.MkdirAll(filepath.Join(tmpDir, "dir"), 0o755)

		if err := svc.WriteFile("dir", "x"); err == nil {
			t.Error("WriteFile() error = nil, want error")
		}
	})

	t.Run("rejects traversal", func(t *testing.T) {
		_, svc := setupTestRoot(t)

		err := svc.WriteFile("../escape.txt", "x")
		if !errors.Is(err, ErrPathTraversal) {
			t.Errorf("WriteFile() error = %v, want ErrPathTraversal", err)
		}
	})
}

func TestService_ReadFile(t *testing.T) {
	tmpDir, svc := setupTestRoot(t)
	os.WriteFile(filepath.Join(tmpDir, "present.txt"), []byte("hello"), 0o644)

	content, ok, err := svc.ReadFile("present.txt")
	if err != nil || !ok || content != "hello" {
		t.Errorf("ReadFile(present) = %q, %v, %v", content, ok, err)
	}

	content, ok, err = svc.ReadFile("missing.txt")
	if err != nil || ok || content != "" {
		t.Errorf("ReadFile(missing) = %q, %v, %v", content, ok, err)
	}
}

func TestReadText(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"plain utf-8", []byte("héllo\nworld"), "héllo\nworld"},
		{"utf-8 bom stripped", []byte("\xef\xbb\xbfpackage main"), "package main"},
		{"utf-16le bom decoded", []byte{0xff, 0xfe, 'h', 0, 'i', 0}, "hi"},
		{"crlf preserved", []byte("a\r\nb"), "a\r\nb"},
		{"empty", []byte{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, strings.ReplaceAll(tt.name, " ", "_"))
			os.WriteFile(path, tt.data, 0o644)

			got, err := ReadText(path)
			if err != nil {
				t.Fatalf("ReadText() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadText() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("invalid bytes are replaced", func(t *testing.T) {
		path := filepath.Join(tmpDir, "binary")
		os.WriteFile(path, []byte{'o', 'k', 0xff, 0xfe, 0xfd, '!'}, 0o644)

		got, err := ReadText(path)
		if err != nil {
			t.Fatalf("ReadText() error = %v", err)
		}
		if !utf8.ValidString(got) {
			t.Errorf("ReadText() = %q, want valid UTF-8", got)
		}
		if !strings.HasPrefix(got, "ok") || !strings.HasSuffix(got, "!") {
			t.Errorf("ReadText() = %q, want surrounding text kept", got)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := ReadText(filepath.Join(tmpDir, "nope")); err == nil {
			t.Error("ReadText() error = nil, want error")
		}
	})
}

func TestLockAndWrite(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "out", "code_collection.txt")

	if err := LockAndWrite(target, []byte("first")); err != nil {
		t.Fatalf("LockAndWrite() error = %v", err)
	}
	if err := LockAndWrite(target, []byte("second")); err != nil {
		t.Fatalf("LockAndWrite() error = %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	entries, _ := os.ReadDir(filepath.Dir(target))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("output directory holds %d entries, want only the target", len(entries))
	}
}

func TestLockPath(t *testing.T) {
	tmpDir := t.TempDir()
	a := filepath.Join(tmpDir, "a.txt")
	b := filepath.Join(tmpDir, "b.txt")

	if LockPath(a) != LockPath(a) {
		t.Error("LockPath() is not stable for the same path")
	}
	if LockPath(a) == LockPath(b) {
		t.Error("LockPath() collides for different paths")
	}
	if filepath.Dir(LockPath(a)) != filepath.Clean(os.TempDir()) {
		t.Errorf("LockPath() = %s, want a file in %s", LockPath(a), os.TempDir())
	}
}
