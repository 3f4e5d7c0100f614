// Package types defines all data structures shared across the collector.
package types

type (
	// SelectionConfig contains the raw inclusion/exclusion rules as given by the user.
	// Paths are relative to the base directory; extensions may carry a leading dot.
	SelectionConfig struct {
		IncludedExtensions []string `json:"includedExtensions,omitempty" yaml:"include_ext"`
		ExcludedExtensions []string `json:"excludedExtensions,omitempty" yaml:"exclude_ext"`
		IncludedPaths      []string `json:"includedPaths,omitempty" yaml:"include_paths"`
		ExcludedPaths      []string `json:"excludedPaths,omitempty" yaml:"exclude_paths"`
		IncludedFiles      []string `json:"includedFiles,omitempty" yaml:"include_files"`
		ExcludedFiles      []string `json:"excludedFiles,omitempty" yaml:"exclude_files"`
	}

	// SelectionRules is the normalized form of a SelectionConfig as recorded in metadata.
	SelectionRules struct {
		IncludedExtensions []string `json:"included_extensions"`
		ExcludedExtensions []string `json:"excluded_extensions"`
		IncludedPaths      []string `json:"included_paths"`
		ExcludedPaths      []string `json:"excluded_paths"`
		IncludedFiles      []string `json:"included_files"`
		ExcludedFiles      []string `json:"excluded_files"`
	}
)
