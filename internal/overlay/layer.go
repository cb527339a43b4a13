package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/taptide/beerscroll/internal/variant"
)

// CTA is the call-to-action button a block may carry.
type CTA struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

var DefaultCTA = CTA{Label: "See Pubs", Href: "/our-pubs"}

// Hit is the on-screen region of a visible call-to-action.
type Hit struct {
	Block int
	Rect  image.Rectangle
	CTA   CTA
}

const (
	pad       = 32 // room around block content for glow and blur
	ruleWidth = 80
	qrGap     = 16
)

type metrics struct {
	heading, sub, cta float64
	marginX, bottom   float64
	maxW              float64
}

// metricsFor picks type sizes and margins for a viewport width.
func metricsFor(w int) metrics {
	switch {
	case w < 768:
		return metrics{heading: 30, sub: 18, cta: 14, marginX: 32, bottom: 96, maxW: 0.9 * float64(w)}
	case w < 1024:
		return metrics{heading: 48, sub: 24, cta: 16, marginX: 64, bottom: 128, maxW: 512}
	default:
		return metrics{heading: 60, sub: 30, cta: 16, marginX: 96, bottom: 128, maxW: 576}
	}
}

type textLine struct {
	text  string
	face  font.Face
	y     float64
	width float64
	alpha float64
	first int // index of the first character across the block
}

type ctaBox struct {
	label string
	face  font.Face
	y     float64
	w, h  float64
	rowW  float64
}

type blockLayout struct {
	lines []textLine
	ruleY float64
	cta   *ctaBox
	w, h  float64
}

func (bl blockLayout) offset(itemW float64, a Align) float64 {
	switch a {
	case AlignCenter:
		return (bl.w - itemW) / 2
	case AlignRight:
		return bl.w - itemW
	}
	return 0
}

// Layer paints every overlay block of a page.
type Layer struct {
	blocks     []Block
	variant    variant.Variant
	palette    Palette
	fonts      *Fonts
	cta        CTA
	typewriter Typewriter
	measure    *gg.Context
	qr         image.Image

	triggered []bool
	triggerAt []time.Duration
	hits      []Hit
}

func NewLayer(blocks []Block, v variant.Variant, fonts *Fonts) *Layer {
	if fonts == nil {
		fonts = NewFonts()
	}
	return &Layer{
		blocks:     blocks,
		variant:    v,
		palette:    NewPalette(v.AccentColor, v.BackgroundColor, v.TextColor),
		fonts:      fonts,
		cta:        DefaultCTA,
		typewriter: DefaultTypewriter,
		measure:    gg.NewContext(1, 1),
		triggered:  make([]bool, len(blocks)),
		triggerAt:  make([]time.Duration, len(blocks)),
	}
}

func (l *Layer) SetCTA(c CTA) {
	if c.Label == "" {
		c.Label = DefaultCTA.Label
	}
	if c.Href == "" {
		c.Href = DefaultCTA.Href
	}
	l.cta = c
}

func (l *Layer) SetTypewriter(tw Typewriter) { l.typewriter = tw }

// StampQR adds a QR code of baseURL+href next to every call-to-action.
// Recordings cannot be clicked, so this is how they carry the link.
func (l *Layer) StampQR(baseURL string, size int) error {
	q, err := qrcode.New(baseURL+l.cta.Href, qrcode.Medium)
	if err != nil {
		return err
	}
	q.DisableBorder = true
	l.qr = q.Image(size)
	return nil
}

func (l *Layer) Blocks() []Block { return l.blocks }

func (l *Layer) treatment(b Block) variant.OverlayStyle {
	if b.Treatment != "" {
		return b.Treatment
	}
	return l.variant.OverlayStyle
}

// Update records typewriter triggers. now is the time since mount.
func (l *Layer) Update(progress float64, now time.Duration) {
	for i, b := range l.blocks {
		if l.triggered[i] || l.treatment(b) != variant.OverlayTypewriter {
			continue
		}
		if b.Triggered(progress) {
			l.triggered[i] = true
			l.triggerAt[i] = now
		}
	}
}

// Animating reports whether a typewriter reveal is still running at now.
func (l *Layer) Animating(now time.Duration) bool {
	for i, b := range l.blocks {
		if !l.triggered[i] {
			continue
		}
		n := utf8.RuneCountInString(b.Text + b.Subtext)
		if now-l.triggerAt[i] < l.typewriter.Duration(n) {
			return true
		}
	}
	return false
}

// Reset forgets triggers and hit regions.
func (l *Layer) Reset() {
	clear(l.triggered)
	clear(l.triggerAt)
	l.hits = l.hits[:0]
}

// Draw composites every visible block onto dst.
func (l *Layer) Draw(dst *image.RGBA, progress float64, now time.Duration) {
	l.hits = l.hits[:0]
	m := metricsFor(dst.Bounds().Dx())
	for i, b := range l.blocks {
		st := Compute(b, progress, l.treatment(b))
		if !st.Visible() {
			continue
		}
		l.drawBlock(dst, i, b, st, now, m)
	}
}

// HitTest returns the call-to-action under (x, y), if any. Only blocks with
// non-zero opacity in the last Draw are clickable.
func (l *Layer) HitTest(x, y int) (Hit, bool) {
	p := image.Pt(x, y)
	for i := len(l.hits) - 1; i >= 0; i-- {
		if p.In(l.hits[i].Rect) {
			return l.hits[i], true
		}
	}
	return Hit{}, false
}

func (l *Layer) layout(b Block, m metrics) blockLayout {
	dc := l.measure
	var bl blockLayout
	y, chars := 0.0, 0

	add := func(text, fontName string, size, leading, alpha float64) {
		face := l.fonts.Face(fontName, size)
		dc.SetFontFace(face)
		for _, s := range dc.WordWrap(text, m.maxW) {
			w, _ := dc.MeasureString(s)
			bl.lines = append(bl.lines, textLine{text: s, face: face, y: y, width: w, alpha: alpha, first: chars})
			chars += utf8.RuneCountInString(s)
			bl.w = max(bl.w, w)
			y += size * leading
		}
	}

	add(b.Text, l.variant.HeadingFont, m.heading, 1.15, 1)
	if b.Subtext != "" {
		y += 12
		add(b.Subtext, l.variant.BodyFont, m.sub, 1.4, 0.8)
	}

	y += 16
	bl.ruleY = y
	y++
	bl.w = max(bl.w, ruleWidth)

	if b.ShowCTA {
		y += 32
		face := l.fonts.Face(l.variant.BodyFont, m.cta)
		dc.SetFontFace(face)
		label := strings.ToUpper(l.cta.Label)
		tw, _ := dc.MeasureString(label)
		c := &ctaBox{label: label, face: face, y: y, w: tw + 64, h: m.cta + 32}
		c.rowW = c.w
		rowH := c.h
		if l.qr != nil {
			qs := float64(l.qr.Bounds().Dx())
			c.rowW += qrGap + qs
			rowH = max(rowH, qs)
		}
		bl.cta = c
		bl.w = max(bl.w, c.rowW)
		y += rowH
	}

	bl.h = y
	return bl
}

func place(b Block, bl blockLayout, m metrics, w, h float64) (x, y float64) {
	switch b.Align {
	case AlignRight:
		x = w - m.marginX - bl.w
	case AlignCenter:
		x = (w - bl.w) / 2
	default:
		x = m.marginX
	}
	if b.Position == PositionBottom {
		y = h - m.bottom - bl.h
	} else {
		y = (h - bl.h) / 2
	}
	return x, y
}

func (l *Layer) drawBlock(dst *image.RGBA, i int, b Block, st Style, now time.Duration, m metrics) {
	bounds := dst.Bounds()
	bl := l.layout(b, m)
	x, y := place(b, bl, m, float64(bounds.Dx()), float64(bounds.Dy()))

	cw, ch := int(math.Ceil(bl.w))+2*pad, int(math.Ceil(bl.h))+2*pad
	dc := gg.NewContext(cw, ch)

	reveal := func(int) float64 { return 1 }
	if l.treatment(b) == variant.OverlayTypewriter {
		if !l.triggered[i] {
			reveal = func(int) float64 { return 0 }
		} else {
			elapsed := now - l.triggerAt[i]
			reveal = func(c int) float64 { return l.typewriter.Visibility(elapsed, c) }
		}
	}

	for _, ln := range bl.lines {
		dc.SetFontFace(ln.face)
		lx := pad + bl.offset(ln.width, b.Align)
		ly := pad + ln.y
		if reveal(ln.first+utf8.RuneCountInString(ln.text)-1) >= 1 {
			dc.SetColor(withAlpha(l.palette.Text, ln.alpha))
			dc.DrawStringAnchored(ln.text, lx, ly, 0, 1)
			continue
		}
		runes := []rune(ln.text)
		for j, r := range runes {
			a := reveal(ln.first + j)
			if a <= 0 {
				break
			}
			pw, _ := dc.MeasureString(string(runes[:j]))
			dc.SetColor(withAlpha(l.palette.Text, a*ln.alpha))
			dc.DrawStringAnchored(string(r), lx+pw, ly, 0, 1)
		}
	}

	dc.SetColor(Opaque(l.palette.Accent))
	dc.DrawRectangle(pad+bl.offset(ruleWidth, b.Align), pad+bl.ruleY, ruleWidth, 1)
	dc.Fill()

	var ctaLocal image.Rectangle
	if c := bl.cta; c != nil {
		cx := pad + bl.offset(c.rowW, b.Align)
		cy := pad + c.y
		l.drawCTA(dc, cx, cy, c)
		ctaLocal = image.Rect(int(cx), int(cy), int(math.Ceil(cx+c.w)), int(math.Ceil(cy+c.h)))
		if l.qr != nil {
			dc.DrawImage(l.qr, int(cx+c.w+qrGap), int(cy))
		}
	}

	var img image.Image = dc.Image()
	if st.Blur > 0.1 {
		img = imaging.Blur(img, st.Blur)
	}

	// local (lx, ly) lands at centre + (local - half) * scale
	ox, oy := x-pad+st.OffsetX, y-pad
	midX, midY := ox+float64(cw)/2, oy+float64(ch)/2
	toView := func(lx, ly float64) (float64, float64) {
		return midX + (lx-float64(cw)/2)*st.Scale, midY + (ly-float64(ch)/2)*st.Scale
	}

	x0, y0 := toView(0, 0)
	x1, y1 := toView(float64(cw), float64(ch))
	rect := image.Rect(round(x0), round(y0), round(x1), round(y1)).Add(bounds.Min)
	if rect.Dx() != cw || rect.Dy() != ch {
		if rect.Empty() {
			return
		}
		scaled := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
		xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		img = scaled
	}

	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(st.Opacity * 255))})
	draw.DrawMask(dst, rect, img, img.Bounds().Min, mask, image.Point{}, draw.Over)

	if bl.cta != nil {
		hx0, hy0 := toView(float64(ctaLocal.Min.X), float64(ctaLocal.Min.Y))
		hx1, hy1 := toView(float64(ctaLocal.Max.X), float64(ctaLocal.Max.Y))
		r := image.Rect(round(hx0), round(hy0), round(hx1), round(hy1)).Add(bounds.Min)
		l.hits = append(l.hits, Hit{Block: i, Rect: r, CTA: l.cta})
	}
}

func (l *Layer) drawCTA(dc *gg.Context, x, y float64, c *ctaBox) {
	p := l.palette
	w, h := c.w, c.h
	label := p.Background

	switch l.variant.CTAStyle {
	case variant.CTAOutline:
		dc.SetLineWidth(2)
		dc.SetColor(Opaque(p.Accent))
		dc.DrawRectangle(x+1, y+1, w-2, h-2)
		dc.Stroke()
		label = p.Accent
	case variant.CTAGlow:
		for k := 4; k >= 1; k-- {
			spread := float64(k) * 4
			dc.SetColor(withAlpha(p.Accent, 0.12))
			dc.DrawRoundedRectangle(x-spread, y-spread, w+2*spread, h+2*spread, h/2+spread)
			dc.Fill()
		}
		dc.SetColor(Opaque(p.Accent))
		dc.DrawRoundedRectangle(x, y, w, h, h/2)
		dc.Fill()
	case variant.CTAGradient:
		g := gg.NewLinearGradient(x, y, x+w, y)
		g.AddColorStop(0, Opaque(p.Accent))
		g.AddColorStop(1, Opaque(p.Accent.BlendLab(p.Text, 0.45)))
		dc.SetFillStyle(g)
		dc.DrawRoundedRectangle(x, y, w, h, 4)
		dc.Fill()
	case variant.CTAVintage:
		dc.SetColor(Opaque(p.Background))
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()
		dc.SetColor(Opaque(p.Accent))
		dc.SetLineWidth(1.5)
		dc.DrawRectangle(x, y, w, h)
		dc.Stroke()
		dc.SetLineWidth(1)
		dc.DrawRectangle(x+4, y+4, w-8, h-8)
		dc.Stroke()
		label = p.Accent
	default:
		dc.SetColor(Opaque(p.Accent))
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()
	}

	dc.SetFontFace(c.face)
	dc.SetColor(Opaque(label))
	dc.DrawStringAnchored(c.label, x+w/2, y+h/2, 0.5, 0.5)
}

func round(v float64) int {
	return int(math.Round(v))
}
