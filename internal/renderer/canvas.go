package renderer

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Canvas is the drawing surface of the component, sized to the viewport.
// It keeps no state between draws other than the pixels of the last one.
type Canvas struct {
	surface    *image.RGBA
	background color.Color
	crop       float64
	scaler     draw.Scaler
}

func NewCanvas(width, height int, background color.Color) *Canvas {
	c := &Canvas{background: background, crop: BottomCrop, scaler: draw.BiLinear}
	c.Resize(width, height)
	return c
}

// SetScaler selects the resampling kernel. draw.CatmullRom is used for
// recordings, draw.BiLinear for interactive use.
func (c *Canvas) SetScaler(s draw.Scaler) {
	if s != nil {
		c.scaler = s
	}
}

// SetCrop overrides BottomCrop.
func (c *Canvas) SetCrop(crop float64) {
	c.crop = math.Max(0, math.Min(crop, 0.99))
}

// Resize reallocates the surface for a new viewport. A non-positive size
// drops the surface and turns Draw into a no-op.
func (c *Canvas) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		c.surface = nil
		return
	}
	if c.surface != nil && c.surface.Rect.Dx() == width && c.surface.Rect.Dy() == height {
		return
	}
	c.surface = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Draw clears the surface and paints img with cover semantics.
func (c *Canvas) Draw(img image.Image) {
	if c.surface == nil {
		return
	}
	bounds := c.surface.Bounds()
	draw.Draw(c.surface, bounds, image.NewUniform(c.background), image.Point{}, draw.Src)
	if img == nil {
		return
	}

	sb := img.Bounds()
	fit := CoverFit(float64(sb.Dx()), float64(sb.Dy()), float64(bounds.Dx()), float64(bounds.Dy()), c.crop)
	if fit.Empty() {
		return
	}

	sr := image.Rect(sb.Min.X, sb.Min.Y, sb.Min.X+int(math.Round(fit.SrcW)), sb.Min.Y+int(math.Round(fit.SrcH)))
	c.scaler.Scale(c.surface, fit.Dst.Bounds(), img, sr, draw.Src, nil)
}

// Image exposes the surface; nil when the viewport is empty.
func (c *Canvas) Image() *image.RGBA {
	return c.surface
}

// Size is the surface size in pixels.
func (c *Canvas) Size() image.Point {
	if c.surface == nil {
		return image.Point{}
	}
	return c.surface.Rect.Size()
}
