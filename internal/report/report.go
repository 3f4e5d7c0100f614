// Package report renders analysis results as human-readable text.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/taigrr/codecollector/internal/stats"
	"github.com/taigrr/codecollector/internal/types"
)

// Maximum entries shown per list.
const (
	MaxComplexFiles = 5
	MaxLargeFiles   = 5
	MaxErrors       = 3
)

var (
	heading = color.New(color.Bold)
	warn    = color.New(color.FgYellow)
	fail    = color.New(color.FgRed)
)

// Format renders result. Colors are only emitted when fatih/color has
// them enabled.
func Format(result types.AnalysisResult) string {
	var b strings.Builder

	b.WriteString(heading.Sprint("CODE ANALYSIS REPORT") + "\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Files analyzed: %d\n", result.TotalFiles)
	fmt.Fprintf(&b, "Lines of code: %d\n", result.TotalLines)
	fmt.Fprintf(&b, "Functions/methods: %d\n", result.TotalFunctions)
	fmt.Fprintf(&b, "Classes/components: %d\n", result.TotalClasses)
	fmt.Fprintf(&b, "Total size: %s\n", humanize.Bytes(uint64(max(result.TotalBytes, 0))))

	b.WriteString("\n" + heading.Sprint("Breakdown by type:") + "\n")
	exts := make([]string, 0, len(result.FileTypes))
	for ext := range result.FileTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		name := ext
		if name == "" {
			name = "(no extension)"
		}
		fmt.Fprintf(&b, "  %s: %d %s\n", name, result.FileTypes[ext], plural(result.FileTypes[ext], "file"))
	}

	writeList(&b, warn.Sprintf("Complex files (more than %d functions):", stats.ComplexFunctionThreshold), result.ComplexFiles, MaxComplexFiles)
	writeList(&b, warn.Sprintf("Large files (more than %d lines):", stats.LargeLineThreshold), result.LargeFiles, MaxLargeFiles)
	writeList(&b, fail.Sprint("Analysis errors:"), result.AnalysisErrors, MaxErrors)

	return strings.TrimRight(b.String(), "\n")
}

func writeList(b *strings.Builder, title string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n" + title + "\n")
	for i, item := range items {
		if i == limit {
			fmt.Fprintf(b, "  ... and %d more\n", len(items)-limit)
			break
		}
		fmt.Fprintf(b, "  - %s\n", item)
	}
}

// FormatStats renders the directory and file counts of a tree.
func FormatStats(tree types.FileTree) string {
	return fmt.Sprintf("%s\n  Directories: %d\n  Files: %d",
		heading.Sprint("Statistics:"), len(tree.Directories), tree.FileCount())
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
