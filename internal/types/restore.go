package types

type (
	// RestoredFile is one decoded file block.
	RestoredFile struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}

	// RestoreResult contains the outcome of writing decoded files to disk.
	RestoreResult struct {
		Target   string   `json:"target"`
		Restored []string `json:"restored"`
		Failed   []string `json:"failed"`
		Bytes    int64    `json:"bytes"`
	}
)

// Preview statuses.
const (
	PreviewNew       = "new"
	PreviewChanged   = "changed"
	PreviewUnchanged = "unchanged"
	PreviewInvalid   = "invalid"
)

// FilePreview describes what a restore would do to one file.
type FilePreview struct {
	Path   string `json:"path"`
	Status string `json:"status"`
	Diff   string `json:"diff,omitempty"`
	Error  string `json:"error,omitempty"`
}
