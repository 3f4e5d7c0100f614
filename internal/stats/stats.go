// Package stats computes heuristic per-file statistics. Counts are substring
// matches ("def ", "class ", "function ", "=>"), not syntax-aware parsing.
package stats

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/taigrr/codecollector/internal/filesystem"
	"github.com/taigrr/codecollector/internal/pathfilter"
	"github.com/taigrr/codecollector/internal/types"
)

// Thresholds above which a file is reported.
const (
	ComplexFunctionThreshold = 10
	LargeLineThreshold       = 500
)

// scriptExtensions use the JavaScript-style function heuristic.
var scriptExtensions = map[string]struct{}{
	"js":  {},
	"jsx": {},
	"ts":  {},
	"tsx": {},
}

// Analyzer computes statistics, reading files through read.
type Analyzer struct {
	read func(path string) (string, error)
}

// New creates an Analyzer using tolerant text decoding.
func New() *Analyzer {
	return &Analyzer{read: filesystem.ReadText}
}

// AnalyzeFile reads path and computes its statistics.
func (a *Analyzer) AnalyzeFile(path string) (types.FileStats, error) {
	content, err := a.read(path)
	if err != nil {
		return types.FileStats{}, err
	}
	return Compute(content, pathfilter.Extension(path)), nil
}

// Compute returns the statistics of content for a file with extension ext
// (lowercase, no dot).
func Compute(content, ext string) types.FileStats {
	s := types.FileStats{
		Lines:     strings.Count(content, "\n") + 1,
		Functions: strings.Count(content, "def "),
		Classes:   strings.Count(content, "class "),
		Bytes:     int64(len(content)),
	}
	if _, ok := scriptExtensions[ext]; ok {
		s.Functions = strings.Count(content, "function ") + strings.Count(content, "=>")/2
	}
	return s
}

// AnalyzeTree accumulates statistics over every file in tree. A file that
// cannot be read is recorded in AnalysisErrors and left out of the totals.
func (a *Analyzer) AnalyzeTree(tree types.FileTree) types.AnalysisResult {
	result := types.AnalysisResult{
		FileTypes:      map[string]int{},
		ComplexFiles:   []string{},
		LargeFiles:     []string{},
		AnalysisErrors: []string{},
	}

	for _, file := range tree.Files() {
		st, err := a.AnalyzeFile(file.AbsPath)
		if err != nil {
			result.AnalysisErrors = append(result.AnalysisErrors, fmt.Sprintf("%s: %v", file.RelPath, err))
			continue
		}

		result.TotalFiles++
		result.TotalLines += st.Lines
		result.TotalFunctions += st.Functions
		result.TotalClasses += st.Classes
		result.TotalBytes += st.Bytes

		result.FileTypes[typeKey(file.AbsPath)]++

		if st.Functions > ComplexFunctionThreshold {
			result.ComplexFiles = append(result.ComplexFiles, file.RelPath)
		}
		if st.Lines > LargeLineThreshold {
			result.LargeFiles = append(result.LargeFiles, file.RelPath)
		}
	}

	return result
}

// typeKey is the dotted lowercase extension, or "" when there is none.
func typeKey(path string) string {
	if ext := pathfilter.Extension(filepath.Base(path)); ext != "" {
		return "." + ext
	}
	return ""
}
