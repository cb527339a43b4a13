package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDetectSequence(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "ezgif-frame-001.jpg", "ezgif-frame-002.jpg", "ezgif-frame-003.jpg", "cover.png", "notes.txt")

	base, count, err := DetectSequence(dir)
	if err != nil {
		t.Fatalf("DetectSequence: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if base != filepath.Join(dir, "ezgif-frame-") {
		t.Errorf("base = %q", base)
	}
}

func TestDetectSequencePicksLargest(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a-001.jpg", "b-001.jpg", "b-002.jpg")

	base, count, err := DetectSequence(dir)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 || filepath.Base(base) != "b-" {
		t.Errorf("got %s/%d, want b-/2", base, count)
	}
}

func TestDetectSequenceRejectsGaps(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "f-001.jpg", "f-002.jpg", "f-004.jpg")

	if _, _, err := DetectSequence(dir); err == nil {
		t.Error("expected error for missing frame 003")
	}
}

func TestDetectSequenceEmpty(t *testing.T) {
	if _, _, err := DetectSequence(t.TempDir()); err == nil {
		t.Error("expected error for empty directory")
	}
}

func TestDecodedSize(t *testing.T) {
	if got := DecodedSize(1920, 1080, 110); got != 1920*1080*4*110 {
		t.Errorf("DecodedSize = %d", got)
	}
	if got := DecodedSize(0, 1080, 110); got != 0 {
		t.Errorf("DecodedSize with zero width = %d", got)
	}
}

func TestImagePoolReuse(t *testing.T) {
	p := NewImagePool()
	size := image.Pt(16, 9)

	img := p.Get(size)
	if img.Bounds().Size() != size {
		t.Fatalf("unexpected size %v", img.Bounds().Size())
	}
	p.Put(img)

	again := p.Get(size)
	if again.Bounds().Size() != size {
		t.Errorf("unexpected size after reuse %v", again.Bounds().Size())
	}

	// Buffers of unknown size are ignored rather than panicking.
	p.Put(image.NewRGBA(image.Rect(0, 0, 3, 3)))
	p.Put(nil)
}

func TestDefaultQuality(t *testing.T) {
	if DefaultQuality("libx264") != 23 || DefaultQuality("h264_nvenc") != 28 || DefaultQuality("h264_videotoolbox") != 75 {
		t.Error("unexpected default quality table")
	}
}
