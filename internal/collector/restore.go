package collector

import (
	"fmt"
	"os"

	"github.com/taigrr/codecollector/internal/codec"
	"github.com/taigrr/codecollector/internal/diff"
	"github.com/taigrr/codecollector/internal/filesystem"
	"github.com/taigrr/codecollector/internal/logger"
	"github.com/taigrr/codecollector/internal/types"
)

// Restore decodes the artifact at input and writes every file block under
// target. A file that cannot be written is recorded in Failed and the
// remaining files are still restored. An artifact without blocks restores
// nothing and is not an error.
func Restore(input, target string, log *logger.Logger) (types.RestoreResult, error) {
	files, err := decodeFile(input)
	if err != nil {
		return types.RestoreResult{}, err
	}

	fsys := filesystem.New(target)
	result := types.RestoreResult{
		Target:   fsys.Root(),
		Restored: []string{},
		Failed:   []string{},
	}

	if len(files) == 0 {
		log.Warnf("No file blocks found in %s", input)
		return result, nil
	}

	if err := os.MkdirAll(fsys.Root(), 0o755); err != nil {
		return result, fmt.Errorf("failed to create target %s: %w", target, err)
	}
	log.Infof("Restoring %d files to %s", len(files), fsys.Root())

	for _, f := range files {
		if err := fsys.WriteFile(f.Path, f.Content); err != nil {
			log.Warnf("Failed to restore %s: %v", f.Path, err)
			result.Failed = append(result.Failed, fmt.Sprintf("%s: %v", f.Path, err))
			continue
		}
		log.Debugf("Restored %s", f.Path)
		result.Restored = append(result.Restored, f.Path)
		result.Bytes += int64(len(f.Content))
	}

	return result, nil
}

// Preview decodes the artifact at input and compares every file block with
// the file currently under target. Nothing is written.
func Preview(input, target string) ([]types.FilePreview, error) {
	files, err := decodeFile(input)
	if err != nil {
		return nil, err
	}

	fsys := filesystem.New(target)
	previews := make([]types.FilePreview, 0, len(files))
	for _, f := range files {
		p := types.FilePreview{Path: f.Path}

		current, exists, err := fsys.ReadFile(f.Path)
		switch {
		case err != nil:
			p.Status = types.PreviewInvalid
			p.Error = err.Error()
		case !exists:
			p.Status = types.PreviewNew
			p.Diff = diff.Added(f.Path, f.Content)
		case current == f.Content:
			p.Status = types.PreviewUnchanged
		default:
			p.Status = types.PreviewChanged
			p.Diff = diff.Unified("a/"+f.Path, "b/"+f.Path, current, f.Content)
		}
		previews = append(previews, p)
	}
	return previews, nil
}

func decodeFile(input string) ([]types.RestoredFile, error) {
	text, err := filesystem.ReadText(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", input, err)
	}
	return codec.Decode(text), nil
}
