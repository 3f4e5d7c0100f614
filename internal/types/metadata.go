package types

// Metadata describes a collection run. It is embedded in the artifact header
// and written as a standalone sidecar.
type Metadata struct {
	BaseDirectory string `json:"base_directory"`
	SelectionRules
	Structure map[string][]string `json:"structure"`
	Timestamp string              `json:"timestamp"`
}
