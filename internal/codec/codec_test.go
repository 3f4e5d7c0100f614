package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/codecollector/internal/pathfilter"
	"github.com/taigrr/codecollector/internal/types"
)

// memTree builds a FileTree and reader from relPath -> content pairs.
// Directories follow the order of dirs; files keep the given order.
func memTree(dirs []string, files map[string][]string, contents map[string]string) (types.FileTree, ContentReader) {
	tree := types.FileTree{Base: "/base"}
	for _, d := range dirs {
		dir := types.Directory{AbsPath: "/base/" + d, RelPath: d}
		for _, rel := range files[d] {
			dir.Files = append(dir.Files, types.FileEntry{AbsPath: "/base/" + rel, RelPath: rel})
		}
		tree.Directories = append(tree.Directories, dir)
	}
	read := func(path string) (string, error) {
		c, ok := contents[strings.TrimPrefix(path, "/base/")]
		if !ok {
			return "", errors.New("no such file")
		}
		return c, nil
	}
	return tree, read
}

func testMetadata(ts string) types.Metadata {
	return types.Metadata{
		BaseDirectory: "/base",
		SelectionRules: types.SelectionRules{
			IncludedExtensions: []string{"go"},
			ExcludedExtensions: []string{},
			IncludedPaths:      []string{},
			ExcludedPaths:      []string{},
			IncludedFiles:      []string{},
			ExcludedFiles:      []string{},
		},
		Structure: map[string][]string{},
		Timestamp: ts,
	}
}

func encode(t *testing.T, tree types.FileTree, read ContentReader, ts string) (string, EncodeSummary) {
	t.Helper()
	var buf bytes.Buffer
	summary, err := Encode(&buf, tree, testMetadata(ts), read)
	require.NoError(t, err)
	return buf.String(), summary
}

func TestEncode_Framing(t *testing.T) {
	tree, read := memTree(
		[]string{"src"},
		map[string][]string{"src": {"src/main.go"}},
		map[string]string{"src/main.go": "\n\npackage main\n\n"},
	)

	out, summary := encode(t, tree, read, "t0")

	assert.Equal(t, []string{"src/main.go"}, summary.Written)
	assert.True(t, strings.HasPrefix(out, Title+"\n"+BaseLabel+" /base\n"+MetadataLabel+"\n{"))
	assert.Contains(t, out, "\n"+strings.Repeat("=", 80)+"\n\n")
	assert.Contains(t, out, "\n📁 DOSSIER: src\n"+strings.Repeat("─", 50)+"\n")

	block := "\n[FICHIER: src/main.go]\n" +
		strings.Repeat("=", 50) + "\n" +
		"package main\n" +
		strings.Repeat("=", 50) + "\n\n"
	assert.True(t, strings.HasSuffix(out, block), "artifact ends with the file block:\n%s", out)
}

func TestEncode_EmbedsMetadata(t *testing.T) {
	tree, read := memTree(nil, nil, nil)
	out, _ := encode(t, tree, read, "2024-01-01T00:00:00Z")

	start := strings.Index(out, "{")
	end := strings.Index(out, "\n"+HeaderRule)
	require.True(t, start > 0 && end > start)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out[start:end]), &got))
	for _, key := range []string{
		"base_directory", "included_extensions", "excluded_extensions", "included_paths",
		"excluded_paths", "included_files", "excluded_files", "structure", "timestamp",
	} {
		assert.Contains(t, got, key)
	}
	assert.Equal(t, "2024-01-01T00:00:00Z", got["timestamp"])
}

func TestEncode_SkipsEmptyAndUnreadable(t *testing.T) {
	tree, read := memTree(
		[]string{"a"},
		map[string][]string{"a": {"a/empty.txt", "a/blank.txt", "a/gone.txt", "a/ok.txt"}},
		map[string]string{"a/empty.txt": "", "a/blank.txt": " \n\t\n", "a/ok.txt": "ok"},
	)

	out, summary := encode(t, tree, read, "t0")

	assert.Equal(t, []string{"a/ok.txt"}, summary.Written)
	assert.Equal(t, []string{"a/empty.txt", "a/blank.txt"}, summary.Empty)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "a/gone.txt", summary.Errors[0].Path)
	assert.NotContains(t, out, "[FICHIER: a/empty.txt]")
	assert.NotContains(t, out, "[FICHIER: a/gone.txt]")

	restored := Decode(out)
	require.Len(t, restored, 1)
	assert.Equal(t, "a/ok.txt", restored[0].Path)
}

func TestEncode_RejectsMultilinePath(t *testing.T) {
	tree, read := memTree(
		[]string{"."},
		map[string][]string{".": {"bad\nname.txt"}},
		map[string]string{"bad\nname.txt": "content"},
	)

	_, summary := encode(t, tree, read, "t0")
	assert.Empty(t, summary.Written)
	require.Len(t, summary.Errors, 1)
}

func TestRoundTrip(t *testing.T) {
	contents := map[string]string{
		"main.go":            "package main\n\nfunc main() {}",
		"pkg/a/util.go":      "package a\n\n\n// blank lines above are kept\nvar X = 1",
		"pkg/a/crlf.txt":     "line one\r\nline two",
		"pkg/b/unicode.md":   "# Titre\n\nCafé — ✓",
		"pkg/b/fences.txt":   "before\n" + FileFence + "\nafter",
		"pkg/b/markers.txt":  "[FICHIER: fake.go]\ncontent\n[FICHIER: also]",
		"pkg/b/escaped.txt":  `\` + FileFence + "\n" + `\\[FICHIER: x]` + "\n\\plain",
		"pkg/b/crlfence.txt": "x\r\n" + FileFence + "\r\ny",
		"pkg/c/long.txt":     strings.Repeat("=", 80) + "\n" + strings.Repeat("=", 49),
	}
	tree, read := memTree(
		[]string{".", "pkg/a", "pkg/b", "pkg/c"},
		map[string][]string{
			".":     {"main.go"},
			"pkg/a": {"pkg/a/crlf.txt", "pkg/a/util.go"},
			"pkg/b": {"pkg/b/crlfence.txt", "pkg/b/escaped.txt", "pkg/b/fences.txt", "pkg/b/markers.txt", "pkg/b/unicode.md"},
			"pkg/c": {"pkg/c/long.txt"},
		},
		contents,
	)

	out, summary := encode(t, tree, read, "t0")
	require.Len(t, summary.Written, len(contents))

	restored := Decode(out)
	got := make(map[string]string, len(restored))
	for _, f := range restored {
		got[f.Path] = f.Content
	}

	want := make(map[string]string, len(contents))
	for k, v := range contents {
		want[k] = strings.TrimSpace(v)
	}
	assert.Equal(t, want, got)

	var order []string
	for _, f := range restored {
		order = append(order, f.Path)
	}
	assert.Equal(t, summary.Written, order, "decode preserves artifact order")
}

func TestEncode_Idempotent(t *testing.T) {
	tree, read := memTree(
		[]string{"a", "b"},
		map[string][]string{"a": {"a/1.go"}, "b": {"b/2.go"}},
		map[string]string{"a/1.go": "package a", "b/2.go": "package b"},
	)

	first, _ := encode(t, tree, read, "2024-01-01T00:00:00Z")
	second, _ := encode(t, tree, read, "2024-01-01T00:00:00Z")
	assert.Equal(t, first, second)

	third, _ := encode(t, tree, read, "2025-06-01T12:00:00Z")
	assert.Equal(t,
		strings.Replace(first, "2024-01-01T00:00:00Z", "X", 1),
		strings.Replace(third, "2025-06-01T12:00:00Z", "X", 1),
	)
}

func TestDecode(t *testing.T) {
	fence := strings.Repeat("=", 50)

	tests := []struct {
		name string
		text string
		want []types.RestoredFile
	}{
		{
			name: "single block",
			text: "[FICHIER: src/main.go]\n" + fence + "\npackage main\n" + fence + "\n",
			want: []types.RestoredFile{{Path: "src/main.go", Content: "package main"}},
		},
		{
			name: "blank line between marker and fence",
			text: "[FICHIER: a.txt]\n\n" + fence + "\nhello\n" + fence,
			want: []types.RestoredFile{{Path: "a.txt", Content: "hello"}},
		},
		{
			name: "legacy block without opening fence",
			text: "[FICHIER: a.txt]\nhello\n" + fence,
			want: []types.RestoredFile{{Path: "a.txt", Content: "hello"}},
		},
		{
			name: "unterminated block is kept",
			text: "[FICHIER: a.txt]\n" + fence + "\nline 1\n\nline 3\n",
			want: []types.RestoredFile{{Path: "a.txt", Content: "line 1\n\nline 3"}},
		},
		{
			name: "marker inside body starts a new file",
			text: "[FICHIER: a.txt]\n" + fence + "\nA\n[FICHIER: b.txt]\n" + fence + "\nB\n" + fence,
			want: []types.RestoredFile{{Path: "a.txt", Content: "A"}, {Path: "b.txt", Content: "B"}},
		},
		{
			name: "empty block emits nothing",
			text: "[FICHIER: a.txt]\n" + fence + "\n" + fence + "\n",
			want: nil,
		},
		{
			name: "header and directory markers ignored",
			text: Title + "\n{\"structure\": {}}\n" + HeaderRule + "\n\n📁 DOSSIER: x\n" + DirRule + "\n",
			want: nil,
		},
		{
			name: "path is trimmed",
			text: "[FICHIER:   spaced/path.txt  ]\r\n" + fence + "\r\nx\r\n" + fence + "\r\n",
			want: []types.RestoredFile{{Path: "spaced/path.txt", Content: "x"}},
		},
		{
			name: "no blocks",
			text: "just some text\nwith lines",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.text))
		})
	}
}

func TestEscapeLine(t *testing.T) {
	fence := strings.Repeat("=", 50)

	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{`\plain`, `\plain`},
		{fence, `\` + fence},
		{`\` + fence, `\\` + fence},
		{"[FICHIER: x]", `\[FICHIER: x]`},
		{" [FICHIER: x]", " [FICHIER: x]"},
		{fence + "=", fence + "="},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := escapeLine(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, unescapeLine(got))
		})
	}
}

func TestNewMetadata(t *testing.T) {
	pf := pathfilter.New("/base", &types.SelectionConfig{
		IncludedExtensions: []string{".Go"},
		ExcludedPaths:      []string{"vendor"},
	})
	tree := types.FileTree{
		Base: "/base",
		Directories: []types.Directory{
			{AbsPath: "/base", RelPath: ".", Files: []types.FileEntry{{AbsPath: "/base/main.go", RelPath: "main.go"}}},
			{AbsPath: "/base/pkg", RelPath: "pkg", Files: []types.FileEntry{{AbsPath: "/base/pkg/a.go", RelPath: "pkg/a.go"}}},
		},
	}

	meta := NewMetadata(pf, tree, time.Date(2024, 5, 6, 7, 8, 9, 0, time.FixedZone("X", 3600)))

	assert.Equal(t, "/base", meta.BaseDirectory)
	assert.Equal(t, []string{"go"}, meta.IncludedExtensions)
	assert.Equal(t, []string{"vendor"}, meta.ExcludedPaths)
	assert.Equal(t, map[string][]string{".": {"main.go"}, "pkg": {"pkg/a.go"}}, meta.Structure)
	assert.Equal(t, "2024-05-06T06:08:09Z", meta.Timestamp)

	data, err := MarshalMetadata(meta)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"excluded_files": []`)
}
