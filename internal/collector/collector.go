// Package collector runs the collect, analyze and stats commands over a
// directory selected by a PathFilter, and restores artifacts to disk.
package collector

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/taigrr/codecollector/internal/codec"
	"github.com/taigrr/codecollector/internal/filesystem"
	"github.com/taigrr/codecollector/internal/logger"
	"github.com/taigrr/codecollector/internal/pathfilter"
	"github.com/taigrr/codecollector/internal/stats"
	"github.com/taigrr/codecollector/internal/types"
	"github.com/taigrr/codecollector/internal/walker"
)

// ErrNoFilesMatched is returned when the selection rules select nothing.
var ErrNoFilesMatched = errors.New("no files matched the selection rules")

// Service runs collector commands for one set of selection rules.
type Service struct {
	pathFilter *pathfilter.PathFilter
	log        *logger.Logger
	analyzer   *stats.Analyzer
	read       codec.ContentReader
	now        func() time.Time
}

// New creates a Service. log may be nil.
func New(pf *pathfilter.PathFilter, log *logger.Logger) *Service {
	if pf == nil {
		pf = pathfilter.New(".", nil)
	}
	return &Service{
		pathFilter: pf,
		log:        log,
		analyzer:   stats.New(),
		read:       filesystem.ReadText,
		now:        time.Now,
	}
}

// CollectOptions names the files written by Collect.
type CollectOptions struct {
	Output       string
	MetadataFile string
}

// CollectResult describes a finished collection.
type CollectResult struct {
	Output       string
	MetadataFile string
	Tree         types.FileTree
	Encoded      codec.EncodeSummary
	Analysis     types.AnalysisResult
}

// Tree walks the base directory with the service's rules.
func (s *Service) Tree() (types.FileTree, error) {
	return walker.New(s.pathFilter, s.log).Build()
}

// Collect writes the artifact and its metadata sidecar, then analyzes the
// collected files. Nothing is written when no file matches.
func (s *Service) Collect(opts CollectOptions) (*CollectResult, error) {
	output, err := filepath.Abs(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("invalid output path %s: %w", opts.Output, err)
	}
	metadataFile, err := filepath.Abs(opts.MetadataFile)
	if err != nil {
		return nil, fmt.Errorf("invalid metadata path %s: %w", opts.MetadataFile, err)
	}

	s.log.Infof("Collecting from %s", s.pathFilter.Base())

	tree, err := s.Tree()
	if err != nil {
		return nil, err
	}
	tree = withoutFiles(tree, output, metadataFile)
	if tree.FileCount() == 0 {
		return nil, ErrNoFilesMatched
	}
	s.log.Debugf("Selected %d files in %d directories", tree.FileCount(), len(tree.Directories))

	meta := codec.NewMetadata(s.pathFilter, tree, s.now())

	var buf bytes.Buffer
	encoded, err := codec.Encode(&buf, tree, meta, s.read)
	if err != nil {
		return nil, err
	}
	for _, fe := range encoded.Errors {
		s.log.Warnf("Skipping %s: %v", fe.Path, fe.Err)
	}
	for _, path := range encoded.Empty {
		s.log.Debugf("Skipping empty file %s", path)
	}

	metaJSON, err := codec.MarshalMetadata(meta)
	if err != nil {
		return nil, err
	}

	if err := filesystem.LockAndWrite(output, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to write collection: %w", err)
	}
	if err := filesystem.LockAndWrite(metadataFile, append(metaJSON, '\n')); err != nil {
		return nil, fmt.Errorf("failed to write metadata: %w", err)
	}

	s.log.Infof("Collection written to %s (%d files)", output, len(encoded.Written))

	return &CollectResult{
		Output:       output,
		MetadataFile: metadataFile,
		Tree:         tree,
		Encoded:      encoded,
		Analysis:     s.analyzeTree(tree),
	}, nil
}

// Analyze computes statistics over the selected files without writing
// anything. An empty selection yields a zero result.
func (s *Service) Analyze() (types.AnalysisResult, error) {
	tree, err := s.Tree()
	if err != nil {
		return types.AnalysisResult{}, err
	}
	return s.analyzeTree(tree), nil
}

// Stats returns the selected tree for directory and file counts.
func (s *Service) Stats() (types.FileTree, error) {
	return s.Tree()
}

func (s *Service) analyzeTree(tree types.FileTree) types.AnalysisResult {
	result := s.analyzer.AnalyzeTree(tree)
	for _, e := range result.AnalysisErrors {
		s.log.Warnf("Analysis error: %s", e)
	}
	return result
}

// withoutFiles drops the collector's own outputs from tree so a collection
// never embeds a previous artifact.
func withoutFiles(tree types.FileTree, paths ...string) types.FileTree {
	skip := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		skip[p] = struct{}{}
	}

	filtered := types.FileTree{Base: tree.Base}
	for _, dir := range tree.Directories {
		files := make([]types.FileEntry, 0, len(dir.Files))
		for _, f := range dir.Files {
			if _, ok := skip[f.AbsPath]; !ok {
				files = append(files, f)
			}
		}
		if len(files) > 0 {
			dir.Files = files
			filtered.Directories = append(filtered.Directories, dir)
		}
	}
	return filtered
}
