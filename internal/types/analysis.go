package types

type (
	// FileStats holds the heuristic counts for a single file.
	FileStats struct {
		Lines     int   `json:"lines"`
		Functions int   `json:"functions"`
		Classes   int   `json:"classes"`
		Bytes     int64 `json:"bytes"`
	}

	// AnalysisResult aggregates FileStats over a tree.
	AnalysisResult struct {
		TotalFiles     int            `json:"totalFiles"`
		TotalLines     int            `json:"totalLines"`
		TotalFunctions int            `json:"totalFunctions"`
		TotalClasses   int            `json:"totalClasses"`
		TotalBytes     int64          `json:"totalBytes"`
		FileTypes      map[string]int `json:"fileTypes"`
		ComplexFiles   []string       `json:"complexFiles"`
		LargeFiles     []string       `json:"largeFiles"`
		AnalysisErrors []string       `json:"analysisErrors"`
	}
)
