// Package codec serializes a selected file tree into a single annotated text
// artifact and parses such an artifact back into files.
//
// Artifact layout:
//
//	ANALYSE DE CODE - COLLECTION AVEC MÉTADONNÉES
//	Répertoire de base: /abs/base
//	MÉTADONNÉES POUR RECONSTRUCTION:
//	{ ...metadata json... }
//	================================================================================
//
//	📁 DOSSIER: src
//	──────────────────────────────────────────────────
//
//	[FICHIER: src/main.go]
//	==================================================
//	package main
//	==================================================
//
// Only file blocks are authoritative. The header and directory markers are
// informational and ignored by Decode.
//
// Content lines that would be read as a fence or marker are escaped with a
// single leading backslash (see escapeLine), so any text content round-trips.
package codec

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/taigrr/codecollector/internal/types"
)

// Framing constants. Changing any of them breaks compatibility with
// existing artifacts.
const (
	Title         = "ANALYSE DE CODE - COLLECTION AVEC MÉTADONNÉES"
	BaseLabel     = "Répertoire de base:"
	MetadataLabel = "MÉTADONNÉES POUR RECONSTRUCTION:"
	DirMarker     = "📁 DOSSIER:"
	FileMarker    = "[FICHIER:"
)

var (
	HeaderRule = strings.Repeat("=", 80)
	DirRule    = strings.Repeat("─", 50)
	FileFence  = strings.Repeat("=", 50)
)

// ContentReader loads the text of the file at an absolute path.
type ContentReader func(path string) (string, error)

// FileError is a per-file failure that does not abort the batch.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// EncodeSummary reports what Encode did with each file.
type EncodeSummary struct {
	Written []string
	Empty   []string
	Errors  []*FileError
}

// MarshalMetadata renders meta as the indented JSON used both in the
// artifact header and in the sidecar file.
func MarshalMetadata(meta types.Metadata) ([]byte, error) {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return data, nil
}

// Encode writes the artifact for tree to w. Files whose trimmed content is
// empty produce no block. Read failures are collected in the summary.
func Encode(w io.Writer, tree types.FileTree, meta types.Metadata, read ContentReader) (EncodeSummary, error) {
	var summary EncodeSummary

	metaJSON, err := MarshalMetadata(meta)
	if err != nil {
		return summary, err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, Title)
	fmt.Fprintln(bw, BaseLabel, tree.Base)
	fmt.Fprintln(bw, MetadataLabel)
	bw.Write(metaJSON)
	fmt.Fprintf(bw, "\n%s\n\n", HeaderRule)

	for _, dir := range tree.Directories {
		fmt.Fprintf(bw, "\n%s %s\n%s\n", DirMarker, dir.RelPath, DirRule)

		for _, file := range dir.Files {
			if strings.ContainsAny(file.RelPath, "\r\n") {
				summary.Errors = append(summary.Errors, &FileError{
					Path: file.RelPath,
					Err:  fmt.Errorf("path contains a line break"),
				})
				continue
			}

			content, err := read(file.AbsPath)
			if err != nil {
				summary.Errors = append(summary.Errors, &FileError{Path: file.RelPath, Err: err})
				continue
			}

			content = strings.TrimSpace(content)
			if content == "" {
				summary.Empty = append(summary.Empty, file.RelPath)
				continue
			}

			writeBlock(bw, file.RelPath, content)
			summary.Written = append(summary.Written, file.RelPath)
		}
	}

	if err := bw.Flush(); err != nil {
		return summary, fmt.Errorf("failed to write artifact: %w", err)
	}
	return summary, nil
}

func writeBlock(w *bufio.Writer, relPath, content string) {
	fmt.Fprintf(w, "\n%s %s]\n%s\n", FileMarker, relPath, FileFence)
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if i > 0 {
			w.WriteByte('\n')
		}
		w.WriteString(escapeLine(line))
	}
	fmt.Fprintf(w, "\n%s\n\n", FileFence)
}

// Decode parses an artifact into its file blocks, in artifact order.
// A marker opens a block; the first fence after it (blank lines allowed in
// between) opens the body and the next fence closes it. A block still open
// at end of input is kept. Text outside blocks is ignored.
func Decode(text string) []types.RestoredFile {
	var (
		files   []types.RestoredFile
		current string
		open    bool
		inBody  bool
		buf     []string
	)

	flush := func() {
		if open && len(buf) > 0 {
			files = append(files, types.RestoredFile{
				Path:    current,
				Content: strings.TrimSpace(strings.Join(buf, "\n")),
			})
		}
		open, inBody, buf = false, false, nil
	}

	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, FileMarker):
			flush()
			current = parseMarker(line)
			open = true
		case !open:
			continue
		case isFence(line):
			if !inBody {
				inBody = true
				continue
			}
			flush()
		case !inBody && strings.TrimSpace(line) == "":
			continue
		default:
			inBody = true
			buf = append(buf, unescapeLine(line))
		}
	}
	flush()

	return files
}

func parseMarker(line string) string {
	path := strings.TrimSpace(strings.TrimPrefix(line, FileMarker))
	path = strings.TrimSuffix(path, "]")
	return strings.TrimSpace(path)
}

func isFence(line string) bool {
	return strings.TrimRight(line, "\r") == FileFence
}

// needsEscape reports whether line, once stripped of leading backslashes,
// would be taken for framing.
func needsEscape(line string) bool {
	bare := strings.TrimLeft(line, `\`)
	return isFence(bare) || strings.HasPrefix(bare, FileMarker)
}

// escapeLine adds one backslash to framing-like lines, including those that
// already carry backslashes, which keeps unescapeLine its exact inverse.
func escapeLine(line string) string {
	if needsEscape(line) {
		return `\` + line
	}
	return line
}

func unescapeLine(line string) string {
	if strings.HasPrefix(line, `\`) && needsEscape(line) {
		return line[1:]
	}
	return line
}
