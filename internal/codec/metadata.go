package codec

import (
	"time"

	"github.com/taigrr/codecollector/internal/pathfilter"
	"github.com/taigrr/codecollector/internal/types"
)

// NewMetadata describes a collection of tree selected by pf at time now.
func NewMetadata(pf *pathfilter.PathFilter, tree types.FileTree, now time.Time) types.Metadata {
	structure := make(map[string][]string, len(tree.Directories))
	for _, dir := range tree.Directories {
		files := make([]string, 0, len(dir.Files))
		for _, f := range dir.Files {
			files = append(files, f.RelPath)
		}
		structure[dir.RelPath] = files
	}

	return types.Metadata{
		BaseDirectory:  pf.Base(),
		SelectionRules: pf.Rules(),
		Structure:      structure,
		Timestamp:      now.UTC().Format(time.RFC3339),
	}
}
