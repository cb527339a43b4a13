package source

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// ErrFrameRange is returned for a frame index outside [0, FrameCount).
var ErrFrameRange = errors.New("frame index out of range")

// Source produces the decoded images of a frame sequence. Indices are
// zero-based; sources that map to on-disk names translate to 1-based.
type Source interface {
	FrameCount() int
	Dimensions(ctx context.Context, index int) (width, height float64, err error)
	LoadFrame(ctx context.Context, index int) (image.Image, error)
	Close() error
}

// FitzPDFSource reads a sequence exported as a multi-page PDF,
// one page per frame.
type FitzPDFSource struct {
	doc  *fitz.Document
	path string
	dpi  float64
}

func NewFitzPDFSource(path string, dpi int) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = 72
	}
	return &FitzPDFSource{doc: doc, path: path, dpi: float64(dpi)}, nil
}

func (f *FitzPDFSource) FrameCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) Dimensions(ctx context.Context, index int) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	if index < 0 || index >= f.FrameCount() {
		return 0, 0, fmt.Errorf("page %d: %w", index, ErrFrameRange)
	}
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	scale := f.dpi / 72
	return float64(rect.Dx()) * scale, float64(rect.Dy()) * scale, nil
}

func (f *FitzPDFSource) LoadFrame(ctx context.Context, index int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 0 || index >= f.FrameCount() {
		return nil, fmt.Errorf("page %d: %w", index, ErrFrameRange)
	}
	// A document handle is not safe for concurrent rendering, so every load
	// opens its own.
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, f.dpi)
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
