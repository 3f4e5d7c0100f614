// Package walker builds the directory-to-files tree selected for collection.
package walker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/taigrr/codecollector/internal/logger"
	"github.com/taigrr/codecollector/internal/pathfilter"
	"github.com/taigrr/codecollector/internal/types"
)

// ErrDirectoryNotFound is returned when the base directory does not exist.
var ErrDirectoryNotFound = errors.New("directory not found")

// Walker traverses a base directory applying a PathFilter.
type Walker struct {
	pathFilter *pathfilter.PathFilter
	log        *logger.Logger

	// onDir is called for every directory read; used by tests.
	onDir func(dir string)
}

// New creates a Walker. A nil filter selects every file under the
// filter's base, which is then the current directory.
func New(pf *pathfilter.PathFilter, log *logger.Logger) *Walker {
	if pf == nil {
		pf = pathfilter.New(".", nil)
	}
	return &Walker{pathFilter: pf, log: log}
}

// BuildTree walks the filter's base directory.
func BuildTree(pf *pathfilter.PathFilter) (types.FileTree, error) {
	return New(pf, nil).Build()
}

// Build walks the base directory and groups selected files by parent
// directory. Excluded directories are pruned before they are read.
// Explicitly included files are seeded even when they lie outside the base.
func (w *Walker) Build() (types.FileTree, error) {
	base := w.pathFilter.Base()

	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		return types.FileTree{}, fmt.Errorf("%w: %s", ErrDirectoryNotFound, base)
	}

	selected := make(map[string]map[string]struct{})
	add := func(path string) {
		dir := filepath.Dir(path)
		if selected[dir] == nil {
			selected[dir] = make(map[string]struct{})
		}
		selected[dir][path] = struct{}{}
	}

	for _, path := range w.pathFilter.IncludedFiles() {
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			w.log.Debugf("Included file not found, skipping: %s", path)
			continue
		}
		add(path)
	}

	w.walkDir(base, add)

	return w.toTree(base, selected), nil
}

func (w *Walker) walkDir(dirPath string, add func(string)) {
	if w.onDir != nil {
		w.onDir(dirPath)
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		w.log.Warnf("Cannot read directory %s: %v", dirPath, err)
		return
	}

	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())

		if entry.IsDir() {
			if w.pathFilter.IsExcludedDir(fullPath) {
				w.log.Debugf("Pruning excluded directory: %s", fullPath)
				continue
			}
			w.walkDir(fullPath, add)
			continue
		}

		if !w.isRegularFile(entry, fullPath) {
			continue
		}

		if w.pathFilter.HasIncludedFiles() {
			if w.pathFilter.IsIncludedFile(fullPath) {
				add(fullPath)
			}
			continue
		}

		if w.pathFilter.ShouldInclude(fullPath) {
			add(fullPath)
		}
	}
}

func (w *Walker) toTree(base string, selected map[string]map[string]struct{}) types.FileTree {
	dirs := make([]string, 0, len(selected))
	for dir := range selected {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	tree := types.FileTree{Base: base, Directories: make([]types.Directory, 0, len(dirs))}
	for _, dir := range dirs {
		paths := make([]string, 0, len(selected[dir]))
		for p := range selected[dir] {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		d := types.Directory{
			AbsPath: dir,
			RelPath: w.pathFilter.Relative(dir),
			Files:   make([]types.FileEntry, 0, len(paths)),
		}
		for _, p := range paths {
			d.Files = append(d.Files, types.FileEntry{
				AbsPath: p,
				RelPath: w.pathFilter.Relative(p),
			})
		}
		tree.Directories = append(tree.Directories, d)
	}
	return tree
}

// isRegularFile accepts regular files and symlinks resolving to one.
// Symlinked directories are not followed.
func (w *Walker) isRegularFile(entry os.DirEntry, path string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		w.log.Debugf("Skipping broken symlink %s: %v", path, err)
		return false
	}
	return info.Mode().IsRegular()
}
