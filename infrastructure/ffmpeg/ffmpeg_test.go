package ffmpeg

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"media-viewer/domain/media"
)

// mockRunner records command invocations and returns canned output per executable
type mockRunner struct {
	calls   [][]string
	outputs map[string][]byte
	errs    map[string]error
}

func newMockRunner() *mockRunner {
	return &mockRunner{
		outputs: make(map[string][]byte),
		errs:    make(map[string]error),
	}
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) error {
	_, err := m.Output(ctx, name, args...)
	return err
}

func (m *mockRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	if err := m.errs[name]; err != nil {
		return nil, err
	}
	return m.outputs[name], nil
}

func (m *mockRunner) lastCall(name string) []string {
	for i := len(m.calls) - 1; i >= 0; i-- {
		if m.calls[i][0] == name {
			return m.calls[i]
		}
	}
	return nil
}

func hasArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestNewTools_Options(t *testing.T) {
	runner := newMockRunner()
	tools := NewTools(
		WithFFmpegPath("/opt/ffmpeg"),
		WithFFprobePath(""),
		WithCommandRunner(runner),
	)

	if tools.FFmpegPath != "/opt/ffmpeg" {
		t.Errorf("FFmpegPath = %q, want /opt/ffmpeg", tools.FFmpegPath)
	}
	if tools.FFprobePath != "ffprobe" {
		t.Errorf("FFprobePath = %q, want default ffprobe", tools.FFprobePath)
	}
	if tools.Runner != runner {
		t.Error("expected custom runner")
	}
}

func TestTools_VerifyInstalled(t *testing.T) {
	runner := newMockRunner()
	tools := NewTools(WithCommandRunner(runner))
	if err := tools.VerifyInstalled(context.Background()); err != nil {
		t.Fatalf("VerifyInstalled() unexpected error: %v", err)
	}

	runner.errs["ffprobe"] = errors.New("not found")
	err := tools.VerifyInstalled(context.Background())
	if err == nil || !strings.Contains(err.Error(), "ffprobe not found") {
		t.Errorf("VerifyInstalled() error = %v, want ffprobe not found", err)
	}
}

func TestAudioDecoder_Decode(t *testing.T) {
	want := []float32{0, 0.5, -0.25, 1}
	raw := make([]byte, 4*len(want))
	for i, v := range want {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}

	runner := newMockRunner()
	runner.outputs["ffmpeg"] = append(raw, 0xff) // trailing partial sample is ignored
	dec := NewAudioDecoder(NewTools(WithCommandRunner(runner)), 0)

	w, err := dec.Decode(context.Background(), "/music/a.m4a")
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if w.SampleRate != 22050 {
		t.Errorf("SampleRate = %d, want 22050", w.SampleRate)
	}
	if len(w.Samples) != len(want) {
		t.Fatalf("len(Samples) = %d, want %d", len(w.Samples), len(want))
	}
	for i := range want {
		if w.Samples[i] != float64(want[i]) {
			t.Errorf("Samples[%d] = %v, want %v", i, w.Samples[i], want[i])
		}
	}

	args := runner.lastCall("ffmpeg")
	for _, a := range []string{"/music/a.m4a", "f32le", "22050"} {
		if !hasArg(args, a) {
			t.Errorf("expected argument %q in ffmpeg call: %v", a, args)
		}
	}
}

func TestAudioDecoder_DecodeError(t *testing.T) {
	runner := newMockRunner()
	runner.errs["ffmpeg"] = errors.New("exit status 1: Invalid data found")
	dec := NewAudioDecoder(NewTools(WithCommandRunner(runner)), 16000)

	_, err := dec.Decode(context.Background(), "bad.m4a")
	if err == nil || !strings.Contains(err.Error(), "Invalid data found") {
		t.Errorf("Decode() error = %v, want wrapped ffmpeg error", err)
	}
}

func TestParseFrameCount(t *testing.T) {
	tests := []struct {
		out     string
		want    int
		wantErr bool
	}{
		{"250\n", 250, false},
		{"1,\n", 1, false},
		{"0\n", 0, false},
		{"42\n17\n", 42, false},
		{"", 0, true},
		{"N/A\n", 0, true},
		{"-3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.out, func(t *testing.T) {
			got, err := parseFrameCount([]byte(tt.out))
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseFrameCount(%q) expected error", tt.out)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFrameCount(%q) unexpected error: %v", tt.out, err)
			}
			if got != tt.want {
				t.Errorf("parseFrameCount(%q) = %d, want %d", tt.out, got, tt.want)
			}
		})
	}
}

func TestFrameGrabber_OpenAndReadMiddle(t *testing.T) {
	runner := newMockRunner()
	runner.outputs["ffprobe"] = []byte("101\n")
	runner.outputs["ffmpeg"] = pngBytes(t, 4, 3)
	grabber := NewFrameGrabber(NewTools(WithCommandRunner(runner)))

	h, err := grabber.Open(context.Background(), "/videos/clip.mp4")
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	defer h.Close()

	if h.FrameCount() != 101 {
		t.Errorf("FrameCount() = %d, want 101", h.FrameCount())
	}

	img, err := h.ReadFrame(context.Background(), h.FrameCount()/2)
	if err != nil {
		t.Fatalf("ReadFrame() unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Errorf("frame size = %v, want 4x3", img.Bounds())
	}

	args := runner.lastCall("ffmpeg")
	if !hasArg(args, `select=eq(n\,50)`) {
		t.Errorf("expected frame 50 to be selected, got %v", args)
	}
}

func TestFrameGrabber_OpenFailure(t *testing.T) {
	runner := newMockRunner()
	runner.errs["ffprobe"] = errors.New("exit status 1: moov atom not found")
	grabber := NewFrameGrabber(NewTools(WithCommandRunner(runner)))

	_, err := grabber.Open(context.Background(), "/videos/broken.mp4")
	if !errors.Is(err, media.ErrCannotOpen) {
		t.Fatalf("Open() error = %v, want ErrCannotOpen", err)
	}
	if !strings.Contains(err.Error(), "/videos/broken.mp4") {
		t.Errorf("error %q does not name the path", err)
	}
}

func TestFrameGrabber_ReadFrameFailures(t *testing.T) {
	tests := []struct {
		name   string
		frames string
		output []byte
		err    error
		index  int
	}{
		{name: "zero frames", frames: "0", index: 0},
		{name: "index out of range", frames: "3", index: 3},
		{name: "empty output", frames: "3", index: 1},
		{name: "ffmpeg failure", frames: "3", index: 1, err: errors.New("exit status 1")},
		{name: "garbage output", frames: "3", index: 1, output: []byte("not an image")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := newMockRunner()
			runner.outputs["ffprobe"] = []byte(tt.frames)
			runner.outputs["ffmpeg"] = tt.output
			if tt.err != nil {
				runner.errs["ffmpeg"] = tt.err
			}

			h, err := NewFrameGrabber(NewTools(WithCommandRunner(runner))).Open(context.Background(), "v.mkv")
			if err != nil {
				t.Fatalf("Open() unexpected error: %v", err)
			}
			defer h.Close()

			_, err = h.ReadFrame(context.Background(), tt.index)
			if !errors.Is(err, media.ErrNoFrame) {
				t.Errorf("ReadFrame() error = %v, want ErrNoFrame", err)
			}
		})
	}
}

func TestVideoHandle_ReadAfterClose(t *testing.T) {
	runner := newMockRunner()
	runner.outputs["ffprobe"] = []byte("10")
	h, err := NewFrameGrabber(NewTools(WithCommandRunner(runner))).Open(context.Background(), "v.avi")
	if err != nil {
		t.Fatal(err)
	}
	h.Close()
	if _, err := h.ReadFrame(context.Background(), 5); err == nil {
		t.Error("ReadFrame() after Close expected error")
	}
}
