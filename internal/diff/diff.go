// Package diff renders unified diffs between the on-disk and the restored
// version of a file for dry-run restores.
package diff

import (
	"fmt"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// DefaultContext is the number of context lines around each hunk.
const DefaultContext = 3

// NullFile names the missing side of an added file.
const NullFile = "/dev/null"

// Unified returns the unified diff turning a into b, or "" when they match.
func Unified(aName, bName, a, b string) string {
	if a == b {
		return ""
	}

	u := difflib.UnifiedDiff{
		A:        splitLines(a),
		B:        splitLines(b),
		FromFile: aName,
		ToFile:   bName,
		Context:  DefaultContext,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return fmt.Sprintf("--- %s\n+++ %s\n# diff unavailable: %v\n", aName, bName, err)
	}
	return s
}

// Added returns the diff creating a new file with content b.
func Added(bName, b string) string {
	return Unified(NullFile, bName, "", b)
}

// splitLines keeps line endings and terminates the last line so hunks
// never run two lines together.
func splitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	last := len(lines) - 1
	if !strings.HasSuffix(lines[last], "\n") {
		lines[last] += "\n"
	}
	return lines
}
