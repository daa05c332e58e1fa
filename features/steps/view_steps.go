//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"media-viewer/application/viewer"
	"media-viewer/cmd"
	"media-viewer/domain/media"
	"media-viewer/infrastructure/config"

	"github.com/cucumber/godog"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// fakeRunner stands in for ffmpeg/ffprobe so scenarios run without the binaries
type fakeRunner struct {
	outputs map[string][]byte
	errs    map[string]error
	calls   [][]string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	_, err := f.Output(ctx, name, args...)
	return err
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if err := f.errs[name]; err != nil {
		return nil, err
	}
	return f.outputs[name], nil
}

// viewContext holds test state for view scenarios
type viewContext struct {
	dir      string
	cfg      *config.Config
	runner   *fakeRunner
	service  *viewer.Service
	result   media.Result
	modTimes map[string]time.Time
}

// SharedViewContext is reset before each scenario via Before hook
var SharedViewContext *viewContext

func InitializeViewScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "view-test-*")
		if err != nil {
			return c, err
		}
		SharedViewContext = &viewContext{
			dir: dir,
			runner: &fakeRunner{
				outputs: make(map[string][]byte),
				errs:    make(map[string]error),
			},
			modTimes: make(map[string]time.Time),
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedViewContext != nil {
			os.RemoveAll(SharedViewContext.dir)
		}
		SharedViewContext = nil
		return c, nil
	})

	ctx.Step(`^an empty cache directory$`, anEmptyCacheDirectory)
	ctx.Step(`^an image file "([^"]*)"$`, anImageFile)
	ctx.Step(`^a text file "([^"]*)"$`, aTextFile)
	ctx.Step(`^a (\d+) second tone "([^"]*)"$`, aSecondTone)
	ctx.Step(`^a video "([^"]*)" with (\d+) frames$`, aVideoWithFrames)
	ctx.Step(`^a video "([^"]*)" that cannot be opened$`, aVideoThatCannotBeOpened)
	ctx.Step(`^I view "([^"]*)"$`, iView)
	ctx.Step(`^I have viewed "([^"]*)"$`, iHaveViewed)
	ctx.Step(`^I view "([^"]*)" again$`, iView)
	ctx.Step(`^the result should be a "([^"]*)" image$`, theResultShouldBeAnImage)
	ctx.Step(`^the caption should be "([^"]*)"$`, theCaptionShouldBe)
	ctx.Step(`^the image bytes should match "([^"]*)"$`, theImageBytesShouldMatch)
	ctx.Step(`^the cache should contain "([^"]*)"$`, theCacheShouldContain)
	ctx.Step(`^the cache should contain "([^"]*)" of (\d+)x(\d+) pixels$`, theCacheShouldContainOfSize)
	ctx.Step(`^the cached file "([^"]*)" should have been rewritten$`, theCachedFileShouldHaveBeenRewritten)
	ctx.Step(`^frame (\d+) should have been decoded$`, frameShouldHaveBeenDecoded)
	ctx.Step(`^the result should be an error containing "([^"]*)"$`, theResultShouldBeAnErrorContaining)
	ctx.Step(`^the cache directory should not exist$`, theCacheDirectoryShouldNotExist)
}

func (v *viewContext) path(name string) string {
	return filepath.Join(v.dir, name)
}

func (v *viewContext) cachePath(name string) string {
	return filepath.Join(v.cfg.Cache.Directory, name)
}

func pngBytes(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{G: 180, A: 255})
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func anEmptyCacheDirectory() error {
	v := SharedViewContext
	v.cfg = config.Default()
	v.cfg.Cache.Directory = v.path(".view_cache")
	return nil
}

func anImageFile(name string) error {
	// Content is opaque to the viewer; PNG bytes serve for every extension
	return os.WriteFile(SharedViewContext.path(name), pngBytes(6, 4), 0644)
}

func aTextFile(name string) error {
	return os.WriteFile(SharedViewContext.path(name), []byte("just text"), 0644)
}

func aSecondTone(seconds int, name string) error {
	const rate = 22050
	data := make([]int, seconds*rate)
	for i := range data {
		data[i] = int(10000 * math.Sin(2*math.Pi*330*float64(i)/rate))
	}

	f, err := os.Create(SharedViewContext.path(name))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	if err := enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}); err != nil {
		return err
	}
	return enc.Close()
}

func aVideoWithFrames(name string, frames int) error {
	v := SharedViewContext
	v.runner.outputs["ffprobe"] = []byte(fmt.Sprintf("%d\n", frames))
	v.runner.outputs["ffmpeg"] = pngBytes(16, 9)
	return os.WriteFile(v.path(name), []byte("container"), 0644)
}

func aVideoThatCannotBeOpened(name string) error {
	v := SharedViewContext
	v.runner.errs["ffprobe"] = errors.New("exit status 1: Invalid data found when processing input")
	return os.WriteFile(v.path(name), []byte("garbage"), 0644)
}

func iView(name string) error {
	v := SharedViewContext
	if v.service == nil {
		svc, err := cmd.NewViewerWithRunner(v.cfg, nil, v.runner)
		if err != nil {
			return err
		}
		v.service = svc
	}
	v.result = v.service.View(context.Background(), v.path(name))
	return nil
}

func iHaveViewed(name string) error {
	if err := iView(name); err != nil {
		return err
	}
	if SharedViewContext.result.IsError {
		return fmt.Errorf("first view failed: %s", SharedViewContext.result.Text())
	}

	// Backdate the derived file so a rewrite is observable on any filesystem
	derived := SharedViewContext.cachePath(media.DerivedFilename(name, media.DerivedSpectrogram))
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(derived, past, past); err != nil {
		return err
	}
	SharedViewContext.modTimes[filepath.Base(derived)] = past
	return nil
}

func theResultShouldBeAnImage(mediaType string) error {
	r := SharedViewContext.result
	if r.IsError {
		return fmt.Errorf("expected an image, got error: %s", r.Text())
	}
	img := r.Image()
	if img == nil {
		return fmt.Errorf("result has no image block")
	}
	if img.MediaType != mediaType {
		return fmt.Errorf("expected media type %q, got %q", mediaType, img.MediaType)
	}
	return nil
}

func theCaptionShouldBe(caption string) error {
	if got := SharedViewContext.result.Text(); got != caption {
		return fmt.Errorf("expected caption %q, got %q", caption, got)
	}
	return nil
}

func theImageBytesShouldMatch(name string) error {
	want, err := os.ReadFile(SharedViewContext.path(name))
	if err != nil {
		return err
	}
	got, err := base64.StdEncoding.DecodeString(SharedViewContext.result.Image().Data)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("image bytes differ from %s", name)
	}
	return nil
}

func theCacheShouldContain(name string) error {
	if _, err := os.Stat(SharedViewContext.cachePath(name)); err != nil {
		return fmt.Errorf("expected %s in cache: %w", name, err)
	}
	return nil
}

func theCacheShouldContainOfSize(name string, width, height int) error {
	f, err := os.Open(SharedViewContext.cachePath(name))
	if err != nil {
		return fmt.Errorf("expected %s in cache: %w", name, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("%s is not an image: %w", name, err)
	}
	if cfg.Width != width || cfg.Height != height {
		return fmt.Errorf("expected %dx%d, got %dx%d", width, height, cfg.Width, cfg.Height)
	}
	return nil
}

func theCachedFileShouldHaveBeenRewritten(name string) error {
	before, ok := SharedViewContext.modTimes[name]
	if !ok {
		return fmt.Errorf("no earlier modification time recorded for %s", name)
	}
	info, err := os.Stat(SharedViewContext.cachePath(name))
	if err != nil {
		return err
	}
	if !info.ModTime().After(before) {
		return fmt.Errorf("%s was not rewritten (mtime %v)", name, info.ModTime())
	}
	return nil
}

func frameShouldHaveBeenDecoded(index int) error {
	want := fmt.Sprintf(`select=eq(n\,%d)`, index)
	for _, call := range SharedViewContext.runner.calls {
		if call[0] == "ffmpeg" && strings.Contains(strings.Join(call, " "), want) {
			return nil
		}
	}
	return fmt.Errorf("expected ffmpeg to decode frame %d, calls: %v", index, SharedViewContext.runner.calls)
}

func theResultShouldBeAnErrorContaining(text string) error {
	r := SharedViewContext.result
	if !r.IsError {
		return fmt.Errorf("expected an error result, got %q", r.Text())
	}
	if len(r.Content) != 1 {
		return fmt.Errorf("error result should have one block, got %d", len(r.Content))
	}
	if !strings.Contains(r.Text(), text) {
		return fmt.Errorf("expected error containing %q, got %q", text, r.Text())
	}
	return nil
}

func theCacheDirectoryShouldNotExist() error {
	if _, err := os.Stat(SharedViewContext.cfg.Cache.Directory); !os.IsNotExist(err) {
		return fmt.Errorf("cache directory should not exist, stat error: %v", err)
	}
	return nil
}
