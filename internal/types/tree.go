package types

type (
	// FileEntry is a selected file. RelPath uses forward slashes.
	FileEntry struct {
		AbsPath string `json:"absPath"`
		RelPath string `json:"relPath"`
	}

	// Directory groups the selected files of one directory, sorted by path.
	Directory struct {
		AbsPath string      `json:"absPath"`
		RelPath string      `json:"relPath"`
		Files   []FileEntry `json:"files"`
	}

	// FileTree is the walk result: directories sorted lexicographically.
	FileTree struct {
		Base        string      `json:"base"`
		Directories []Directory `json:"directories"`
	}
)

// FileCount returns the number of files across all directories.
func (t FileTree) FileCount() int {
	n := 0
	for _, d := range t.Directories {
		n += len(d.Files)
	}
	return n
}

// Files returns every entry in directory order.
func (t FileTree) Files() []FileEntry {
	files := make([]FileEntry, 0, t.FileCount())
	for _, d := range t.Directories {
		files = append(files, d.Files...)
	}
	return files
}
