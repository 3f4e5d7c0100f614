package main

import (
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/taigrr/codecollector/internal/logger"
)

// serverLog receives tool progress; stdout carries the MCP stream.
var serverLog *logger.Logger

func newServeCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an MCP server exposing collect, restore, analyze and stats",
		Long: `serve speaks the Model Context Protocol over stdio so MCP-compatible
assistants can collect, restore and analyze source trees. Relative paths
in tool arguments resolve against the server's working directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := logger.LevelWarn
			if verbose {
				level = logger.LevelDebug
			}
			serverLog = logger.New(os.Stderr, level)

			server := mcp.NewServer(&mcp.Implementation{
				Name:    "codecollector",
				Version: version,
			}, nil)

			registerTools(server)

			if err := server.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil {
				return fmt.Errorf("error running server: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log tool activity to stderr")
	return cmd
}
