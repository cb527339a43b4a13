package system

import (
	"image"
	"sync"
)

// ImagePool recycles *image.RGBA buffers by size. The recorder converts every
// composed frame to tightly packed RGBA before piping it to ffmpeg; at 60 fps
// that is a full-viewport allocation per frame without the pool.
type ImagePool struct {
	pools map[image.Point]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = NewImagePool()

func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Point]*sync.Pool)}
}

// GetImage returns a zero-origin RGBA of the given size from the shared pool.
// The contents are whatever the previous user left.
func GetImage(size image.Point) *image.RGBA {
	return globalPool.Get(size)
}

// PutImage hands a buffer obtained from GetImage back to the shared pool.
func PutImage(img *image.RGBA) {
	globalPool.Put(img)
}

func (p *ImagePool) Get(size image.Point) *image.RGBA {
	p.mu.RLock()
	pool, exists := p.pools[size]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[size]
		if !exists {
			pool = &sync.Pool{
				New: func() any {
					return image.NewRGBA(image.Rectangle{Max: size})
				},
			}
			p.pools[size] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil || img.Rect.Min != (image.Point{}) {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect.Max]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
