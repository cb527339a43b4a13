package video

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"sync"

	"github.com/fogleman/gg"

	"github.com/taptide/beerscroll/internal/system"
)

// PNGWriter saves frames as frame_00000.png, frame_00001.png, ... using a
// pool of encoding workers.
type PNGWriter struct {
	dir  string
	jobs chan pngJob
	wg   sync.WaitGroup

	mu  sync.Mutex
	err error

	next int
}

type pngJob struct {
	index int
	img   *image.RGBA
}

// FramePath is the file of frame index in dir.
func FramePath(dir string, index int) string {
	return filepath.Join(dir, fmt.Sprintf("frame_%05d.png", index))
}

func NewPNGWriter(dir string, workers int) (*PNGWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}

	w := &PNGWriter{dir: dir, jobs: make(chan pngJob, workers*2)}
	for i := 0; i < workers; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for j := range w.jobs {
				if err := gg.SavePNG(FramePath(w.dir, j.index), j.img); err != nil {
					w.setErr(fmt.Errorf("frame %d: %w", j.index, err))
				}
				system.PutImage(j.img)
			}
		}()
	}
	return w, nil
}

func (w *PNGWriter) setErr(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err == nil {
		w.err = err
	}
}

func (w *PNGWriter) firstErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// WriteFrame copies img and queues it for encoding. It blocks while every
// worker is busy.
func (w *PNGWriter) WriteFrame(img *image.RGBA) error {
	if err := w.firstErr(); err != nil {
		return err
	}
	buf := system.GetImage(img.Rect.Size())
	draw.Draw(buf, buf.Bounds(), img, img.Rect.Min, draw.Src)
	w.jobs <- pngJob{index: w.next, img: buf}
	w.next++
	return nil
}

// Close waits for queued frames to be written.
func (w *PNGWriter) Close() error {
	close(w.jobs)
	w.wg.Wait()
	return w.firstErr()
}

// Frames counts frames queued.
func (w *PNGWriter) Frames() int { return w.next }
