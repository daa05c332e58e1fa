// Package mcp exposes the media viewer as a Model Context Protocol tool.
package mcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"media-viewer/domain/media"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool metadata advertised to clients
const (
	ToolName        = "view_media"
	ToolDescription = "Displays a visual representation of a media file (image, audio, or video). For videos, it shows the middle frame. For audio, it shows a spectrogram."
)

// Viewer produces a tool result for a media path
type Viewer interface {
	View(ctx context.Context, path string) media.Result
}

// ViewMediaInput is the argument object of the view_media tool
type ViewMediaInput struct {
	FilePath string `json:"file_path" jsonschema:"The path to the media file to view."`
}

// RegisterTools adds the view_media tool to server
func RegisterTools(server *gomcp.Server, viewer Viewer, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("tool", ToolName))

	gomcp.AddTool(server, &gomcp.Tool{
		Name:        ToolName,
		Description: ToolDescription,
	}, func(ctx context.Context, req *gomcp.CallToolRequest, in ViewMediaInput) (*gomcp.CallToolResult, any, error) {
		log.Debug("tool call", slog.String("file_path", in.FilePath))

		if in.FilePath == "" {
			return &gomcp.CallToolResult{
				Content: []gomcp.Content{&gomcp.TextContent{Text: "Error: file_path is required"}},
				IsError: true,
			}, nil, nil
		}

		result, err := ToCallToolResult(viewer.View(ctx, in.FilePath))
		if err != nil {
			log.Error("failed to map view result", slog.String("file_path", in.FilePath), slog.Any("error", err))
			return nil, nil, err
		}
		return result, nil, nil
	})
}

// ToCallToolResult converts a viewer result into MCP content blocks
func ToCallToolResult(r media.Result) (*gomcp.CallToolResult, error) {
	out := &gomcp.CallToolResult{IsError: r.IsError}

	for _, block := range r.Content {
		switch block.Type {
		case media.BlockText:
			out.Content = append(out.Content, &gomcp.TextContent{Text: block.Text})
		case media.BlockImage:
			if block.Source == nil {
				return nil, fmt.Errorf("image block has no source")
			}
			data, err := base64.StdEncoding.DecodeString(block.Source.Data)
			if err != nil {
				return nil, fmt.Errorf("failed to decode image payload: %w", err)
			}
			out.Content = append(out.Content, &gomcp.ImageContent{
				Data:     data,
				MIMEType: block.Source.MediaType,
			})
		default:
			return nil, fmt.Errorf("unknown content block type %q", block.Type)
		}
	}

	return out, nil
}
