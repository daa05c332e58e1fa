package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"media-viewer/domain/media"
	"media-viewer/infrastructure/logging"

	"github.com/moby/sys/atomicwriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	viewOutputDir string
	viewJobs      int
)

var viewCmd = &cobra.Command{
	Use:   "view PATH...",
	Short: "Render media files as images",
	Long: `Convert one or more media files into a viewable image.

Each result is printed as a JSON object with the caption and a base64 image,
or the error message with "is_error": true. With --output the decoded images
are saved to a directory instead.

Supported extensions:
  image: .png .jpg .jpeg .webp .gif
  audio: .wav .mp3 .flac .m4a
  video: .mp4 .mov .avi .mkv

Examples:
  media-viewer view song.mp3
  media-viewer view --output previews --jobs 4 a.mp4 b.mkv c.wav`,
	Args: cobra.MinimumNArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().StringVarP(&viewOutputDir, "output", "o", "", "Directory to save the images to instead of printing JSON")
	viewCmd.Flags().IntVarP(&viewJobs, "jobs", "j", 1, "Number of files to process concurrently")
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	svc, err := NewViewer(cfg, logging.L)
	if err != nil {
		return err
	}

	return RunViewWithDependencies(cmd.Context(), svc, args, viewJobs, viewOutputDir, os.Stdout)
}

// Inspector produces the visual artifact for a media path
type Inspector interface {
	Inspect(ctx context.Context, path string) (*media.VisualArtifact, error)
}

// ViewOutput is the JSON document printed for each path
type ViewOutput struct {
	Path string `json:"path"`
	media.Result
}

// RunViewWithDependencies views every path with at most jobs in flight.
// Results are reported in argument order; an error is returned if any path failed.
func RunViewWithDependencies(
	ctx context.Context,
	inspector Inspector,
	paths []string,
	jobs int,
	outputDir string,
	output OutputWriter,
) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if jobs < 1 {
		jobs = 1
	}

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	artifacts := make([]*media.VisualArtifact, len(paths))
	errs := make([]error, len(paths))

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			artifacts[i], errs[i] = inspector.Inspect(ctx, path)
			return nil
		})
	}
	_ = g.Wait()

	enc := json.NewEncoder(output)
	failed := 0
	for i, path := range paths {
		if errs[i] != nil {
			failed++
		}

		if outputDir == "" {
			doc := ViewOutput{Path: path}
			if errs[i] != nil {
				doc.Result = media.NewErrorResult(errs[i].Error())
			} else {
				doc.Result = media.NewSuccessResult(artifacts[i])
			}
			if err := enc.Encode(doc); err != nil {
				return fmt.Errorf("failed to write result: %w", err)
			}
			continue
		}

		if errs[i] != nil {
			fmt.Fprintln(output, errs[i].Error())
			continue
		}

		dest := filepath.Join(outputDir, outputName(path, artifacts[i]))
		if err := atomicwriter.WriteFile(dest, artifacts[i].Data, 0644); err != nil {
			return fmt.Errorf("failed to save %s: %w", dest, err)
		}
		fmt.Fprintf(output, "%s -> %s\n", artifacts[i].Caption, dest)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be viewed", failed, len(paths))
	}
	return nil
}

func outputName(source string, a *media.VisualArtifact) string {
	if a.DerivedPath != "" {
		return filepath.Base(a.DerivedPath)
	}
	return filepath.Base(source)
}
