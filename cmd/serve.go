package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"media-viewer/infrastructure/logging"
	"media-viewer/infrastructure/mcp"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

// Version is reported to MCP clients
var Version = "v0.0.0-dev"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the view_media tool as an MCP server over stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout exposing a single tool,
view_media, which takes {"file_path": "..."} and returns a caption and an image.

Logs are written to stderr so stdout carries only protocol messages.

Example:
  media-viewer serve --log-format json`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	svc, err := NewViewer(cfg, logging.L)
	if err != nil {
		return err
	}

	return RunServeWithDependencies(cmd.Context(), svc, &gomcp.StdioTransport{}, logging.L)
}

// RunServeWithDependencies serves the view_media tool on transport until the client disconnects
func RunServeWithDependencies(ctx context.Context, viewer mcp.Viewer, transport gomcp.Transport, log *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = slog.Default()
	}

	server := gomcp.NewServer(&gomcp.Implementation{Name: "media-viewer", Version: Version}, nil)
	mcp.RegisterTools(server, viewer, log)

	log.Info("mcp server starting", slog.String("tool", mcp.ToolName))
	if err := server.Run(ctx, transport); err != nil {
		return fmt.Errorf("mcp server failed: %w", err)
	}
	return nil
}
