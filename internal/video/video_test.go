package video

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/taptide/beerscroll/internal/config"
)

func TestBuildFFmpegArgs(t *testing.T) {
	params := config.SegmentParams{Width: 1280, Height: 720, FPS: 30}

	tests := []struct {
		encoder string
		quality int
		want    string
	}{
		{"libx264", 23, "-crf 23 -preset medium"},
		{"h264_nvenc", 28, "-cq 28"},
		{"h264_videotoolbox", 75, "-b:v 7500k"},
	}
	for _, tt := range tests {
		args := strings.Join(buildFFmpegArgs(params, "out.mp4", tt.encoder, tt.quality, ""), " ")
		if !strings.Contains(args, tt.want) {
			t.Errorf("%s: args %q missing %q", tt.encoder, args, tt.want)
		}
		if !strings.Contains(args, "-video_size 1280x720") || !strings.Contains(args, "-f rawvideo") {
			t.Errorf("%s: args %q do not read raw frames", tt.encoder, args)
		}
		if !strings.HasSuffix(args, "out.mp4") {
			t.Errorf("%s: output not last: %q", tt.encoder, args)
		}
		if strings.Contains(args, "aac") {
			t.Errorf("%s: audio mapped without audio input", tt.encoder)
		}
	}
}

func TestBuildFFmpegArgsWithAudio(t *testing.T) {
	params := config.SegmentParams{Width: 720, Height: 1280, FPS: 30}
	args := strings.Join(buildFFmpegArgs(params, "out.mp4", "libx264", 23, "track.mp3"), " ")
	for _, want := range []string{"-i track.mp3", "-map 0:v", "-map 1:a", "-shortest"} {
		if !strings.Contains(args, want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}
}

func TestPNGWriter(t *testing.T) {
	dir := t.TempDir()
	w, err := NewPNGWriter(dir, 3)
	if err != nil {
		t.Fatalf("NewPNGWriter: %v", err)
	}

	frame := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for i := 0; i < 5; i++ {
		frame.SetRGBA(0, 0, color.RGBA{R: uint8(i * 40), A: 255})
		if err := w.WriteFrame(frame); err != nil {
			t.Fatalf("WriteFrame %d: %v", i, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if w.Frames() != 5 {
		t.Errorf("Frames = %d, want 5", w.Frames())
	}

	// frames are copied, so each file keeps its own pixel
	for i := 0; i < 5; i++ {
		f, err := os.Open(FramePath(dir, i))
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode frame %d: %v", i, err)
		}
		r, _, _, _ := img.At(0, 0).RGBA()
		if uint8(r>>8) != uint8(i*40) {
			t.Errorf("frame %d red = %d, want %d", i, r>>8, i*40)
		}
	}
}

func TestFramePath(t *testing.T) {
	if got := FramePath("out", 42); got != "out/frame_00042.png" {
		t.Errorf("FramePath = %q", got)
	}
}
