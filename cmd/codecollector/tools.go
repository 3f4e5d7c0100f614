package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/taigrr/codecollector/internal/types"
)

type (
	// CollectInput contains parameters for collecting a directory.
	CollectInput struct {
		Directory string                `json:"directory,omitempty" jsonschema:"Base directory to collect (default: current directory)"`
		Rules     types.SelectionConfig `json:"rules,omitempty" jsonschema:"Inclusion and exclusion rules; paths are relative to the base directory"`
		Output    string                `json:"output,omitempty" jsonschema:"Artifact file to write (default: code_collection.txt)"`
		Metadata  string                `json:"metadata,omitempty" jsonschema:"Metadata sidecar to write (default: code_metadata.json)"`
	}

	// CollectOutput contains the result of a collection.
	CollectOutput struct {
		Output       string               `json:"output"`
		MetadataFile string               `json:"metadataFile"`
		Files        []string             `json:"files"`
		Empty        []string             `json:"empty"`
		Errors       []string             `json:"errors"`
		Analysis     types.AnalysisResult `json:"analysis"`
	}

	// RestoreInput contains parameters for restoring an artifact.
	RestoreInput struct {
		Input  string `json:"input" jsonschema:"Artifact file produced by collect"`
		Target string `json:"target,omitempty" jsonschema:"Directory to restore into (default: restored_project)"`
		DryRun bool   `json:"dryRun,omitempty" jsonschema:"Return per-file diffs against the target without writing (default: false)"`
	}

	// RestoreOutput contains the result of a restore or its preview.
	RestoreOutput struct {
		Target   string              `json:"target"`
		Restored []string            `json:"restored"`
		Failed   []string            `json:"failed"`
		Bytes    int64               `json:"bytes"`
		Previews []types.FilePreview `json:"previews,omitempty"`
	}

	// AnalyzeInput contains parameters for analyzing a directory.
	AnalyzeInput struct {
		Directory string                `json:"directory,omitempty" jsonschema:"Base directory to analyze (default: current directory)"`
		Rules     types.SelectionConfig `json:"rules,omitempty" jsonschema:"Inclusion and exclusion rules; paths are relative to the base directory"`
	}

	// AnalyzeOutput contains heuristic statistics and the rendered report.
	AnalyzeOutput struct {
		Analysis types.AnalysisResult `json:"analysis"`
		Report   string               `json:"report"`
	}

	// StatsInput contains parameters for counting a directory.
	StatsInput struct {
		Directory string                `json:"directory,omitempty" jsonschema:"Base directory to count (default: current directory)"`
		Rules     types.SelectionConfig `json:"rules,omitempty" jsonschema:"Inclusion and exclusion rules; paths are relative to the base directory"`
	}

	// StatsOutput contains directory and file counts.
	StatsOutput struct {
		Directories int `json:"directories"`
		Files       int `json:"files"`
	}
)

func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "collect",
		Description: "Collect the selected files of a directory into a single text artifact with a JSON metadata header and sidecar. Returns written files and heuristic statistics.",
	}, handleCollect)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "restore",
		Description: "Recreate files from a collect artifact under a target directory. Use dryRun=true to get unified diffs against existing files instead of writing.",
	}, handleRestore)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze",
		Description: "Compute heuristic statistics (lines, functions, classes, size, extension breakdown) for the selected files of a directory. Writes nothing.",
	}, handleAnalyze)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "stats",
		Description: "Count the directories and files selected by the given rules.",
	}, handleStats)
}
