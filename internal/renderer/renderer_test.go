package renderer

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"
)

const eps = 1e-9

func TestCoverFitWideImage(t *testing.T) {
	// 2000x1000 source, 950 tall after the crop: aspect 2.105 > 16:9.
	fit := CoverFit(2000, 1000, 1600, 900, BottomCrop)

	if fit.SrcH != 950 || fit.SrcW != 2000 {
		t.Errorf("source region %vx%v, want 2000x950", fit.SrcW, fit.SrcH)
	}
	if fit.Dst.H != 900 || fit.Dst.Y != 0 {
		t.Errorf("wide image must fit height: %+v", fit.Dst)
	}
	wantW := 900 * 2000.0 / 950
	if math.Abs(fit.Dst.W-wantW) > eps {
		t.Errorf("width = %v, want %v", fit.Dst.W, wantW)
	}
	if math.Abs(fit.Dst.X-(1600-wantW)/2) > eps {
		t.Errorf("x = %v, want centered", fit.Dst.X)
	}
}

func TestCoverFitTallImage(t *testing.T) {
	fit := CoverFit(1080, 1920, 1920, 1080, BottomCrop)

	if fit.Dst.W != 1920 || fit.Dst.X != 0 {
		t.Errorf("tall image must fit width: %+v", fit.Dst)
	}
	wantH := 1920 / (1080 / (1920 * 0.95))
	if math.Abs(fit.Dst.H-wantH) > 1e-6 {
		t.Errorf("height = %v, want %v", fit.Dst.H, wantH)
	}
	if math.Abs(fit.Dst.Y-(1080-wantH)/2) > 1e-6 {
		t.Errorf("y = %v, want centered", fit.Dst.Y)
	}
}

func TestCoverFitCoversAndCenters(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		sw, sh := 1+r.Float64()*4000, 1+r.Float64()*4000
		dw, dh := 1+r.Float64()*4000, 1+r.Float64()*4000

		fit := CoverFit(sw, sh, dw, dh, BottomCrop)
		d := fit.Dst
		if d.W < dw-1e-6 || d.H < dh-1e-6 {
			t.Fatalf("%vx%v into %vx%v does not cover: %+v", sw, sh, dw, dh, d)
		}
		if math.Abs(d.X-(dw-d.W)/2) > 1e-6 || math.Abs(d.Y-(dh-d.H)/2) > 1e-6 {
			t.Fatalf("not centered: %+v for %vx%v", d, dw, dh)
		}
		if math.Abs(d.W/d.H-fit.SrcW/fit.SrcH) > 1e-6*(d.W/d.H) {
			t.Fatalf("aspect not preserved: %+v vs %vx%v", d, fit.SrcW, fit.SrcH)
		}
	}
}

func TestCoverFitDegenerate(t *testing.T) {
	for _, f := range []Fit{
		CoverFit(0, 100, 100, 100, BottomCrop),
		CoverFit(100, 100, 0, 100, BottomCrop),
		CoverFit(100, 100, 100, 100, 1),
	} {
		if !f.Empty() {
			t.Errorf("expected empty fit, got %+v", f)
		}
	}
}

func testFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 3), G: uint8(y * 5), B: uint8(x ^ y), A: 255})
		}
	}
	return img
}

func TestCanvasDrawIsIdempotent(t *testing.T) {
	c := NewCanvas(160, 90, color.RGBA{11, 30, 45, 255})
	frame := testFrame(120, 100)

	c.Draw(frame)
	first := bytes.Clone(c.Image().Pix)
	c.Draw(frame)

	if !bytes.Equal(first, c.Image().Pix) {
		t.Error("drawing the same frame twice changed the output")
	}
}

func TestCanvasClearsPreviousFrame(t *testing.T) {
	bg := color.RGBA{1, 2, 3, 255}
	c := NewCanvas(40, 40, bg)
	c.Draw(testFrame(40, 40))
	c.Draw(nil)

	for i := 0; i < len(c.Image().Pix); i += 4 {
		p := c.Image().Pix[i : i+4]
		if p[0] != 1 || p[1] != 2 || p[2] != 3 || p[3] != 255 {
			t.Fatalf("pixel %d not cleared: %v", i/4, p)
		}
	}
}

func TestCanvasCoversWholeSurface(t *testing.T) {
	// A transparent background makes any uncovered pixel visible.
	c := NewCanvas(200, 50, color.Transparent)
	src := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	c.Draw(src)

	for i := 3; i < len(c.Image().Pix); i += 4 {
		if c.Image().Pix[i] != 255 {
			t.Fatalf("pixel %d left uncovered", i/4)
		}
	}
}

func TestCanvasWithoutSurfaceIsNoop(t *testing.T) {
	c := NewCanvas(0, 0, color.Black)
	c.Draw(testFrame(10, 10))
	if c.Image() != nil || c.Size() != (image.Point{}) {
		t.Error("empty canvas should have no surface")
	}

	c.Resize(8, 6)
	if c.Size() != image.Pt(8, 6) {
		t.Errorf("Size = %v after resize", c.Size())
	}
}

func TestSchedulerCoalesces(t *testing.T) {
	var s Scheduler
	draws := 0
	for i := 0; i < 5; i++ {
		s.Request()
	}
	s.Flush(func() { draws++ })
	s.Flush(func() { draws++ })

	if draws != 1 || s.Draws() != 1 {
		t.Errorf("draws = %d, want 1", draws)
	}

	s.Request()
	s.Cancel()
	if s.Flush(func() { draws++ }) {
		t.Error("cancelled request should not draw")
	}
}
