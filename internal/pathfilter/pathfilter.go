// Package pathfilter decides which files take part in a collection.
package pathfilter

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/taigrr/codecollector/internal/types"
)

// PathFilter holds normalized selection rules. It is immutable after New.
type PathFilter struct {
	base               string
	includedExtensions map[string]struct{}
	excludedExtensions map[string]struct{}
	includedPaths      []string
	excludedPaths      []string
	includedFiles      map[string]struct{}
	excludedFiles      map[string]struct{}
}

// New creates a PathFilter rooted at base. Relative paths in config are
// resolved against base; extensions are lowercased and stripped of dots.
func New(base string, config *types.SelectionConfig) *PathFilter {
	absBase, err := filepath.Abs(base)
	if err != nil {
		absBase = filepath.Clean(base)
	}

	pf := &PathFilter{
		base:               absBase,
		includedExtensions: map[string]struct{}{},
		excludedExtensions: map[string]struct{}{},
		includedFiles:      map[string]struct{}{},
		excludedFiles:      map[string]struct{}{},
	}

	if config == nil {
		return pf
	}

	for _, ext := range config.IncludedExtensions {
		if e := NormalizeExtension(ext); e != "" {
			pf.includedExtensions[e] = struct{}{}
		}
	}
	for _, ext := range config.ExcludedExtensions {
		if e := NormalizeExtension(ext); e != "" {
			pf.excludedExtensions[e] = struct{}{}
		}
	}
	pf.includedPaths = pf.resolveAll(config.IncludedPaths)
	pf.excludedPaths = pf.resolveAll(config.ExcludedPaths)
	for _, p := range pf.resolveAll(config.IncludedFiles) {
		pf.includedFiles[p] = struct{}{}
	}
	for _, p := range pf.resolveAll(config.ExcludedFiles) {
		pf.excludedFiles[p] = struct{}{}
	}

	return pf
}

func (pf *PathFilter) resolveAll(paths []string) []string {
	var out []string
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, pf.resolve(p))
	}
	return out
}

func (pf *PathFilter) resolve(p string) string {
	p = filepath.FromSlash(p)
	if !filepath.IsAbs(p) {
		p = filepath.Join(pf.base, p)
	}
	return filepath.Clean(p)
}

// NormalizeExtension lowercases ext and removes leading dots.
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimLeft(strings.TrimSpace(ext), "."))
}

// Extension returns the lowercase extension of path without its dot.
// Dotfiles such as ".gitignore" have no extension.
func Extension(path string) string {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return NormalizeExtension(ext)
}

// IsWithin reports whether path equals dir or is a descendant of it.
func IsWithin(path, dir string) bool {
	if path == dir {
		return true
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// Base returns the absolute base directory.
func (pf *PathFilter) Base() string {
	return pf.base
}

// ShouldInclude checks an absolute file path against the rules. The first
// matching rule decides: explicit inclusion, explicit exclusion, extension
// allow-list, extension deny-list, excluded paths, included paths.
func (pf *PathFilter) ShouldInclude(path string) bool {
	path = filepath.Clean(path)

	if _, ok := pf.includedFiles[path]; ok {
		return true
	}
	if _, ok := pf.excludedFiles[path]; ok {
		return false
	}

	ext := Extension(path)
	if len(pf.includedExtensions) > 0 {
		if _, ok := pf.includedExtensions[ext]; !ok {
			return false
		}
	}
	if _, ok := pf.excludedExtensions[ext]; ok {
		return false
	}

	if pf.IsExcludedDir(path) {
		return false
	}

	if len(pf.includedPaths) > 0 {
		for _, dir := range pf.includedPaths {
			if IsWithin(path, dir) {
				return true
			}
		}
		return false
	}

	return true
}

// IsExcludedDir reports whether path lies under any excluded path.
func (pf *PathFilter) IsExcludedDir(path string) bool {
	path = filepath.Clean(path)
	for _, dir := range pf.excludedPaths {
		if IsWithin(path, dir) {
			return true
		}
	}
	return false
}

// HasIncludedFiles reports whether an explicit file list was given.
func (pf *PathFilter) HasIncludedFiles() bool {
	return len(pf.includedFiles) > 0
}

// IsIncludedFile reports whether path is in the explicit file list.
func (pf *PathFilter) IsIncludedFile(path string) bool {
	_, ok := pf.includedFiles[filepath.Clean(path)]
	return ok
}

// IncludedFiles returns the explicit file list, sorted.
func (pf *PathFilter) IncludedFiles() []string {
	return sortedKeys(pf.includedFiles)
}

// FilterPaths filters a slice of paths to only include selected ones.
func (pf *PathFilter) FilterPaths(paths []string) []string {
	var allowed []string
	for _, path := range paths {
		if pf.ShouldInclude(path) {
			allowed = append(allowed, path)
		}
	}
	return allowed
}

// Rules returns the normalized rules with paths relative to the base.
func (pf *PathFilter) Rules() types.SelectionRules {
	return types.SelectionRules{
		IncludedExtensions: sortedKeys(pf.includedExtensions),
		ExcludedExtensions: sortedKeys(pf.excludedExtensions),
		IncludedPaths:      pf.relativeAll(pf.includedPaths),
		ExcludedPaths:      pf.relativeAll(pf.excludedPaths),
		IncludedFiles:      pf.relativeAll(sortedKeys(pf.includedFiles)),
		ExcludedFiles:      pf.relativeAll(sortedKeys(pf.excludedFiles)),
	}
}

// Relative returns path relative to the base with forward slashes.
func (pf *PathFilter) Relative(path string) string {
	rel, err := filepath.Rel(pf.base, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (pf *PathFilter) relativeAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, pf.Relative(p))
	}
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
