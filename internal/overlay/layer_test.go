package overlay

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/taptide/beerscroll/internal/variant"
)

func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}

func changed(a, b *image.RGBA) bool {
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return true
		}
	}
	return false
}

func TestLayerDrawsOnlyVisibleBlocks(t *testing.T) {
	blocks := []Block{{Text: "The Perfect Pour", Subtext: "begins with precision.", Start: 0.05, End: 0.25, Align: AlignLeft}}
	fonts := NewFonts()

	for _, v := range variant.All() {
		l := NewLayer(blocks, v, fonts)

		dst := blank(1280, 720)
		l.Draw(dst, 0.5, 0)
		if changed(dst, blank(1280, 720)) {
			t.Errorf("%s: block outside its window painted pixels", v.Name)
		}

		if v.OverlayStyle == variant.OverlayTypewriter {
			l.Update(0.15, 0)
		}
		l.Draw(dst, 0.15, time.Second)
		if !changed(dst, blank(1280, 720)) {
			t.Errorf("%s: block inside its window painted nothing", v.Name)
		}
	}
}

func TestLayerHitTest(t *testing.T) {
	blocks := []Block{
		{Text: "Every glass", Start: 0.65, End: 0.85, Align: AlignLeft},
		{Text: "Your table awaits.", Start: 0.85, End: 1.1, Align: AlignCenter, Position: PositionBottom, ShowCTA: true},
	}
	l := NewLayer(blocks, variant.Lookup(variant.ClassicElegance), nil)
	l.SetCTA(CTA{Href: "/our-pubs"})

	dst := blank(1280, 720)
	l.Draw(dst, 0.95, 0)
	if len(l.hits) != 1 {
		t.Fatalf("got %d hit regions, want 1", len(l.hits))
	}
	r := l.hits[0].Rect
	if r.Empty() || !r.In(dst.Bounds()) {
		t.Fatalf("hit region %v not inside viewport", r)
	}

	c := r.Min.Add(r.Size().Div(2))
	hit, ok := l.HitTest(c.X, c.Y)
	if !ok || hit.Block != 1 || hit.CTA.Href != "/our-pubs" || hit.CTA.Label != DefaultCTA.Label {
		t.Errorf("HitTest(%v) = %+v, %v", c, hit, ok)
	}
	if _, ok := l.HitTest(0, 0); ok {
		t.Error("click in the corner hit the CTA")
	}

	// after scrolling back the CTA is invisible and not clickable
	l.Draw(blank(1280, 720), 0.5, 0)
	if _, ok := l.HitTest(c.X, c.Y); ok {
		t.Error("invisible CTA was clickable")
	}
}

func TestLayerQRStampWidensRow(t *testing.T) {
	blocks := []Block{{Text: "Your table awaits.", Start: 0.85, End: 1.1, Align: AlignCenter, ShowCTA: true}}
	l := NewLayer(blocks, variant.Lookup(variant.NeonNightlife), nil)
	m := metricsFor(1280)
	before := l.layout(blocks[0], m)
	if err := l.StampQR("https://example.com", 96); err != nil {
		t.Fatalf("StampQR: %v", err)
	}
	after := l.layout(blocks[0], m)
	if after.cta.rowW != before.cta.rowW+qrGap+96 {
		t.Errorf("row width = %v, want %v", after.cta.rowW, before.cta.rowW+qrGap+96)
	}
}

func TestTypewriterTriggersOnce(t *testing.T) {
	blocks := []Block{{Text: "Cold, crisp,", Start: 0.35, End: 0.55, Align: AlignRight}}
	l := NewLayer(blocks, variant.Lookup(variant.VintagePub), nil)

	l.Update(0.1, 0)
	if l.triggered[0] {
		t.Fatal("triggered before the window")
	}
	l.Update(0.4, time.Second)
	if !l.triggered[0] || l.triggerAt[0] != time.Second {
		t.Fatalf("trigger = %v at %v, want true at 1s", l.triggered[0], l.triggerAt[0])
	}
	l.Update(0.1, 2*time.Second)
	l.Update(0.4, 3*time.Second)
	if l.triggerAt[0] != time.Second {
		t.Errorf("re-triggered at %v", l.triggerAt[0])
	}

	if !l.Animating(time.Second + 10*time.Millisecond) {
		t.Error("not animating right after the trigger")
	}
	if l.Animating(10 * time.Second) {
		t.Error("still animating long after the trigger")
	}

	l.Reset()
	if l.triggered[0] {
		t.Error("Reset kept the trigger")
	}
}

func TestNonTypewriterNeverTriggers(t *testing.T) {
	blocks := []Block{{Text: "x", Start: 0.1, End: 0.3}}
	l := NewLayer(blocks, variant.Lookup(variant.ClassicElegance), nil)
	l.Update(0.2, 0)
	if l.triggered[0] || l.Animating(0) {
		t.Error("fade block used typewriter state")
	}
}

func TestMetricsBreakpoints(t *testing.T) {
	tests := []struct {
		w    int
		want float64
	}{
		{375, 30},
		{767, 30},
		{768, 48},
		{1023, 48},
		{1024, 60},
		{1920, 60},
	}
	for _, tt := range tests {
		if got := metricsFor(tt.w).heading; got != tt.want {
			t.Errorf("metricsFor(%d).heading = %v, want %v", tt.w, got, tt.want)
		}
	}
}

func TestFontsFallBackToBody(t *testing.T) {
	f := NewFonts()
	a := f.Face("no-such-font", 20)
	b := f.Face("body", 20)
	if a != b {
		t.Error("unknown font did not resolve to the cached body face")
	}
}

func TestPreloaderBarEases(t *testing.T) {
	p := NewPreloader(variant.Lookup(variant.ClassicElegance), nil)
	p.SetProgress(50)
	if p.Percent() != 50 {
		t.Fatalf("Percent = %d", p.Percent())
	}

	p.Update(150 * time.Millisecond)
	if b := p.Bar(); b <= 0 || b >= 50 {
		t.Errorf("bar mid-tween = %v, want in (0, 50)", b)
	}
	p.Update(200 * time.Millisecond)
	if b := p.Bar(); b != 50 {
		t.Errorf("bar after tween = %v, want 50", b)
	}
	if p.Update(time.Millisecond) {
		t.Error("Update reported movement with no tween")
	}

	p.SetProgress(150)
	if p.Percent() != 100 {
		t.Errorf("Percent not clamped: %d", p.Percent())
	}
}

func TestPreloaderDrawFillsBackground(t *testing.T) {
	v := variant.Lookup(variant.ClassicElegance)
	p := NewPreloader(v, nil)
	p.SetProgress(40)
	p.Update(time.Second)

	dst := image.NewRGBA(image.Rect(0, 0, 320, 240))
	p.Draw(dst)
	want := color.RGBA{R: 0x0B, G: 0x1E, B: 0x2D, A: 0xff}
	if got := dst.RGBAAt(0, 0); got != want {
		t.Errorf("corner pixel = %v, want %v", got, want)
	}
}

func TestIndicatorHidesAfterFirstFrames(t *testing.T) {
	in := NewIndicator(variant.Lookup(variant.ClassicElegance), nil)
	in.SetFrame(5)
	if in.Opacity() != 1 {
		t.Fatalf("opacity = %v, want 1", in.Opacity())
	}

	in.SetFrame(12)
	in.Update(600 * time.Millisecond)
	if in.Opacity() != 0 {
		t.Errorf("opacity after fade = %v, want 0", in.Opacity())
	}
	if in.Update(16 * time.Millisecond) {
		t.Error("hidden indicator requested a repaint")
	}

	dst := blank(200, 200)
	in.Draw(dst)
	if changed(dst, blank(200, 200)) {
		t.Error("hidden indicator painted")
	}
}
