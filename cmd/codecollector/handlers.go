package main

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/taigrr/codecollector/internal/collector"
	"github.com/taigrr/codecollector/internal/config"
	"github.com/taigrr/codecollector/internal/pathfilter"
	"github.com/taigrr/codecollector/internal/report"
	"github.com/taigrr/codecollector/internal/types"
)

func toolService(directory string, rules types.SelectionConfig) *collector.Service {
	directory = strings.TrimSpace(directory)
	if directory == "" {
		directory = config.DefaultDirectory
	}
	return collector.New(pathfilter.New(directory, &rules), serverLog)
}

func handleCollect(ctx context.Context, req *mcp.CallToolRequest, input CollectInput) (*mcp.CallToolResult, CollectOutput, error) {
	output := orDefault(input.Output, config.DefaultOutput)
	metadata := orDefault(input.Metadata, config.DefaultMetadataFile)

	result, err := toolService(input.Directory, input.Rules).Collect(collector.CollectOptions{
		Output:       output,
		MetadataFile: metadata,
	})
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, CollectOutput{}, err
	}

	errs := make([]string, 0, len(result.Encoded.Errors))
	for _, fe := range result.Encoded.Errors {
		errs = append(errs, fe.Error())
	}

	return nil, CollectOutput{
		Output:       result.Output,
		MetadataFile: result.MetadataFile,
		Files:        nonNil(result.Encoded.Written),
		Empty:        nonNil(result.Encoded.Empty),
		Errors:       errs,
		Analysis:     result.Analysis,
	}, nil
}

func handleRestore(ctx context.Context, req *mcp.CallToolRequest, input RestoreInput) (*mcp.CallToolResult, RestoreOutput, error) {
	inputPath := strings.TrimSpace(input.Input)
	target := orDefault(input.Target, config.DefaultTarget)

	if input.DryRun {
		previews, err := collector.Preview(inputPath, target)
		if err != nil {
			return &mcp.CallToolResult{IsError: true}, RestoreOutput{}, err
		}
		return nil, RestoreOutput{
			Target:   target,
			Restored: []string{},
			Failed:   []string{},
			Previews: previews,
		}, nil
	}

	result, err := collector.Restore(inputPath, target, serverLog)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, RestoreOutput{}, err
	}

	return nil, RestoreOutput{
		Target:   result.Target,
		Restored: result.Restored,
		Failed:   result.Failed,
		Bytes:    result.Bytes,
	}, nil
}

func handleAnalyze(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, AnalyzeOutput, error) {
	result, err := toolService(input.Directory, input.Rules).Analyze()
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, AnalyzeOutput{}, err
	}
	return nil, AnalyzeOutput{Analysis: result, Report: report.Format(result)}, nil
}

func handleStats(ctx context.Context, req *mcp.CallToolRequest, input StatsInput) (*mcp.CallToolResult, StatsOutput, error) {
	tree, err := toolService(input.Directory, input.Rules).Stats()
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, StatsOutput{}, err
	}
	return nil, StatsOutput{Directories: len(tree.Directories), Files: tree.FileCount()}, nil
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
