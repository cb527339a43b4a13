package overlay

import (
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/taptide/beerscroll/internal/variant"
)

const (
	barTween   = 0.3 // seconds
	dotSpacing = 40
)

// Preloader is the loading screen shown until every frame is decoded. The
// bar eases toward the latest percentage; the label shows it directly.
type Preloader struct {
	Wordmark string
	Tagline  string

	variant variant.Variant
	palette Palette
	fonts   *Fonts

	target int
	shown  float64
	tween  *gween.Tween
}

func NewPreloader(v variant.Variant, fonts *Fonts) *Preloader {
	if fonts == nil {
		fonts = NewFonts()
	}
	return &Preloader{
		Wordmark: "TAPTIDE",
		Tagline:  "Pouring perfection",
		variant:  v,
		palette:  NewPalette(v.AccentColor, v.BackgroundColor, v.TextColor),
		fonts:    fonts,
	}
}

// SetProgress retargets the bar at percent in [0,100].
func (p *Preloader) SetProgress(percent int) {
	percent = max(0, min(percent, 100))
	if percent == p.target {
		return
	}
	p.target = percent
	p.tween = gween.New(float32(p.shown), float32(percent), barTween, ease.OutQuad)
}

// Update advances the bar tween and reports whether it moved.
func (p *Preloader) Update(dt time.Duration) bool {
	if p.tween == nil {
		return false
	}
	v, done := p.tween.Update(float32(dt.Seconds()))
	p.shown = float64(v)
	if done {
		p.shown = float64(p.target)
		p.tween = nil
	}
	return true
}

func (p *Preloader) Percent() int    { return p.target }
func (p *Preloader) Bar() float64    { return p.shown }
func (p *Preloader) Animating() bool { return p.tween != nil }

func (p *Preloader) Draw(dst *image.RGBA) {
	dc := gg.NewContextForRGBA(dst)
	w, h := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	pal := p.palette

	dc.SetColor(Opaque(pal.Background))
	dc.Clear()

	dc.SetColor(withAlpha(pal.Accent, 0.08))
	for y := dotSpacing / 2.0; y < h; y += dotSpacing {
		for x := dotSpacing / 2.0; x < w; x += dotSpacing {
			dc.DrawCircle(x, y, 1)
		}
	}
	dc.Fill()

	size, track := 48.0, 256.0
	if w >= 768 {
		size, track = 72, 320
	}
	dc.SetFontFace(p.fonts.Face(p.variant.HeadingFont, size))
	dc.SetColor(Opaque(pal.Text))
	dc.DrawStringAnchored(p.Wordmark, w/2, h/2-40, 0.5, 0.5)

	x0, y0 := (w-track)/2, h/2+16
	dc.SetColor(withAlpha(pal.Text, 0.12))
	dc.DrawRectangle(x0, y0, track, 2)
	dc.Fill()
	if p.shown > 0 {
		dc.SetColor(Opaque(pal.Accent))
		dc.DrawRectangle(x0, y0, track*p.shown/100, 2)
		dc.Fill()
	}

	dc.SetFontFace(p.fonts.Face(p.variant.BodyFont, 12))
	dc.SetColor(withAlpha(pal.Text, 0.5))
	dc.DrawStringAnchored(strings.ToUpper(p.Tagline), w/2, y0+32, 0.5, 0.5)

	dc.SetFontFace(p.fonts.Face(p.variant.BodyFont, 14))
	dc.SetColor(Opaque(pal.Accent))
	dc.DrawStringAnchored(fmt.Sprintf("%d%%", p.target), w/2, y0+56, 0.5, 0.5)
}

// IndicatorFrames is the frame number (1-based) from which the scroll hint
// is hidden.
const IndicatorFrames = 10

const (
	indicatorFade  = 0.5 // seconds
	indicatorPulse = 2 * time.Second
)

// Indicator is the "scroll to pour" hint near the bottom of the viewport.
type Indicator struct {
	Label string

	variant variant.Variant
	palette Palette
	fonts   *Fonts

	visible bool
	opacity float64
	tween   *gween.Tween
	phase   time.Duration
}

func NewIndicator(v variant.Variant, fonts *Fonts) *Indicator {
	if fonts == nil {
		fonts = NewFonts()
	}
	return &Indicator{
		Label:   "Scroll to pour",
		variant: v,
		palette: NewPalette(v.AccentColor, v.BackgroundColor, v.TextColor),
		fonts:   fonts,
		visible: true,
		opacity: 1,
	}
}

// SetFrame shows the hint on frames before IndicatorFrames and fades it out
// after.
func (in *Indicator) SetFrame(frame int) {
	vis := frame < IndicatorFrames
	if vis == in.visible {
		return
	}
	in.visible = vis
	target := float32(0)
	if vis {
		target = 1
	}
	in.tween = gween.New(float32(in.opacity), target, indicatorFade, ease.OutQuad)
}

// Update advances the fade and the pulse. It reports whether the hint needs
// repainting.
func (in *Indicator) Update(dt time.Duration) bool {
	in.phase = (in.phase + dt) % indicatorPulse
	if in.tween != nil {
		v, done := in.tween.Update(float32(dt.Seconds()))
		in.opacity = float64(v)
		if done {
			in.opacity = 0
			if in.visible {
				in.opacity = 1
			}
			in.tween = nil
		}
		return true
	}
	return in.opacity > 0
}

func (in *Indicator) Opacity() float64 { return in.opacity }

func (in *Indicator) Draw(dst *image.RGBA) {
	if in.opacity <= 0 {
		return
	}
	dc := gg.NewContextForRGBA(dst)
	w, h := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())

	dc.SetFontFace(in.fonts.Face(in.variant.BodyFont, 12))
	dc.SetColor(withAlpha(in.palette.Text, 0.6*in.opacity))
	dc.DrawStringAnchored(strings.ToUpper(in.Label), w/2, h-96, 0.5, 0.5)

	// line grows and shrinks from the top between half and full length
	t := float64(in.phase) / float64(indicatorPulse)
	length := 48 * (0.75 - 0.25*math.Cos(2*math.Pi*t))
	dc.SetColor(withAlpha(in.palette.Accent, in.opacity))
	dc.DrawRectangle(w/2-0.5, h-80, 1, length)
	dc.Fill()
}
