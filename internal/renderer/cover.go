// Package renderer draws frames of the sequence onto the viewport surface.
package renderer

import (
	"image"
	"math"
)

// BottomCrop is the share of every source frame's height trimmed from the
// bottom before fitting. The sequence carries a watermark band there.
const BottomCrop = 0.05

// Rect is a rectangle in destination pixels.
type Rect struct {
	X, Y, W, H float64
}

// Bounds is the smallest integer rectangle containing r.
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)),
		int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.W)),
		int(math.Ceil(r.Y+r.H)),
	)
}

// Fit is the outcome of CoverFit: which part of the source to sample and
// where to put it.
type Fit struct {
	SrcW, SrcH float64 // source region after the crop, anchored at the top-left
	Dst        Rect
}

// Empty reports whether there is nothing to draw.
func (f Fit) Empty() bool {
	return f.SrcW <= 0 || f.SrcH <= 0 || f.Dst.W <= 0 || f.Dst.H <= 0
}

// CoverFit scales a source of srcW x srcH, with crop of its height removed
// from the bottom, so that it covers dstW x dstH while keeping its aspect
// ratio. The overflowing axis is centered.
func CoverFit(srcW, srcH, dstW, dstH, crop float64) Fit {
	croppedH := srcH * (1 - crop)
	if srcW <= 0 || croppedH <= 0 || dstW <= 0 || dstH <= 0 {
		return Fit{}
	}

	imgAspect := srcW / croppedH
	dstAspect := dstW / dstH

	var d Rect
	if imgAspect > dstAspect {
		d.H = dstH
		d.W = dstH * imgAspect
		d.X = (dstW - d.W) / 2
	} else {
		d.W = dstW
		d.H = dstW / imgAspect
		d.Y = (dstH - d.H) / 2
	}
	return Fit{SrcW: srcW, SrcH: croppedH, Dst: d}
}
