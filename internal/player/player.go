// Package player wires the frame store, scroll signal, canvas and overlays
// into the scroll-driven animation component.
//
// Data flows one way: scroll → signal (spring) → frame index → canvas, and
// signal → overlay styles. Every method runs on the caller's UI goroutine;
// only image loads happen elsewhere, and their results are picked up by Tick.
package player

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/taptide/beerscroll/internal/config"
	"github.com/taptide/beerscroll/internal/frames"
	"github.com/taptide/beerscroll/internal/overlay"
	"github.com/taptide/beerscroll/internal/renderer"
	"github.com/taptide/beerscroll/internal/scroll"
	"github.com/taptide/beerscroll/internal/source"
	"github.com/taptide/beerscroll/internal/system"
	"github.com/taptide/beerscroll/internal/variant"
)

// Options configure a Player.
type Options struct {
	Page   config.Page
	Source source.Source
	Width  int
	Height int
	Load   frames.Options // OnProgress is owned by the player
	Fonts  *overlay.Fonts
	Scaler xdraw.Scaler // nil keeps bilinear
}

type loadEvent struct {
	state frames.LoadState
	done  bool
	err   error
}

type Player struct {
	page    config.Page
	variant variant.Variant
	src     source.Source
	load    frames.Options

	canvas    *renderer.Canvas
	sched     renderer.Scheduler
	layer     *overlay.Layer
	preloader *overlay.Preloader
	indicator *overlay.Indicator

	store  *frames.Store
	signal *scroll.Signal
	events chan loadEvent
	cancel context.CancelFunc
	unsub  func()

	mounted     bool
	ready       bool
	err         error
	width       int
	height      int
	frame       int
	drawnFrame  int
	canvasDirty bool
	clock       time.Duration
	out         *image.RGBA
}

func New(opts Options) (*Player, error) {
	if opts.Source == nil {
		return nil, errors.New("player: nil frame source")
	}
	if opts.Source.FrameCount() <= 0 {
		return nil, errors.New("player: empty frame source")
	}

	v := variant.Lookup(variant.ID(opts.Page.Variant))
	fonts := opts.Fonts
	if fonts == nil {
		fonts = overlay.NewFonts()
	}
	if opts.Page.ScrollHeight <= 1 {
		opts.Page.ScrollHeight = config.DefaultScrollHeight
	}

	bg := overlay.NewPalette(v.AccentColor, v.BackgroundColor, v.TextColor).Background
	canvas := renderer.NewCanvas(opts.Width, opts.Height, overlay.Opaque(bg))
	if opts.Scaler != nil {
		canvas.SetScaler(opts.Scaler)
	}

	layer := overlay.NewLayer(opts.Page.Overlays, v, fonts)
	layer.SetCTA(opts.Page.CTA)

	return &Player{
		page:      opts.Page,
		variant:   v,
		src:       opts.Source,
		load:      opts.Load,
		canvas:    canvas,
		layer:     layer,
		preloader: overlay.NewPreloader(v, fonts),
		indicator: overlay.NewIndicator(v, fonts),
		width:     opts.Width,
		height:    opts.Height,
	}, nil
}

// Layer exposes the overlay layer for extras such as the QR stamp.
func (p *Player) Layer() *overlay.Layer { return p.layer }

func (p *Player) Variant() variant.Variant { return p.variant }

// Mount starts preloading and begins observing scroll. It returns
// immediately; readiness arrives through Tick.
func (p *Player) Mount(ctx context.Context) error {
	if p.mounted {
		return errors.New("player: already mounted")
	}

	n := p.src.FrameCount()
	events := make(chan loadEvent, n+1)
	opts := p.load
	opts.OnProgress = func(st frames.LoadState) {
		events <- loadEvent{state: st}
	}
	store := frames.NewStore(p.src, opts)

	ctx, cancel := context.WithCancel(ctx)
	p.events, p.cancel, p.store = events, cancel, store

	p.frame = 0
	p.indicator.SetFrame(1)
	p.signal = scroll.NewSignal(scroll.NewWindow(float64(p.height), p.page.ScrollHeight), p.page.Spring)
	p.unsub = p.signal.OnChange(p.onProgress)
	p.signal.Sync()

	p.mounted, p.ready, p.err = true, false, nil
	p.clock = 0
	p.drawnFrame = -1
	p.preloader.SetProgress(0)
	p.sched.Request()

	go func() {
		err := store.Load(ctx)
		events <- loadEvent{done: true, err: err}
	}()

	system.Logger().Info("component mounted", "page", p.page.Name, "frames", n, "variant", p.variant.Name)
	return nil
}

// Unmount releases listeners, queued draws and every decoded frame. Loads
// still in flight are discarded when they finish.
func (p *Player) Unmount() {
	if !p.mounted {
		return
	}
	p.cancel()
	p.unsub()
	p.signal.Reset()
	p.sched.Cancel()
	p.store.Close()
	p.layer.Reset()
	p.mounted, p.ready = false, false
	p.events = nil
	system.Logger().Info("component unmounted", "page", p.page.Name)
}

func (p *Player) onProgress(progress float64) {
	// reveals start once frames are on screen, not behind the preloader
	if p.ready {
		p.layer.Update(progress, p.clock)
	}
	if idx := frames.MapToFrame(progress, p.src.FrameCount()); idx != p.frame {
		p.frame = idx
		p.indicator.SetFrame(idx + 1)
	}
	p.sched.Request()
}

// Scroll handles a scroll event: y is the page scroll offset in pixels.
func (p *Player) Scroll(y float64) {
	if !p.mounted {
		return
	}
	p.signal.SetScroll(y)
}

// ScrollTo scrolls to a fraction of the container's scrollable range.
func (p *Player) ScrollTo(progress float64) {
	if !p.mounted {
		return
	}
	p.signal.SetScroll(p.signal.Window().ScrollFor(progress))
}

// ScrollBy moves the scroll offset by dy pixels, clamped to the page.
func (p *Player) ScrollBy(dy float64) {
	if !p.mounted {
		return
	}
	w := p.signal.Window()
	y := p.signal.ScrollY() + dy
	p.signal.SetScroll(max(0, min(y, w.Top+w.Range())))
}

// Resize handles a viewport change.
func (p *Player) Resize(width, height int) {
	if width == p.width && height == p.height {
		return
	}
	p.width, p.height = width, height
	p.canvas.Resize(width, height)
	p.canvasDirty = true
	if p.mounted {
		p.signal.SetWindow(scroll.NewWindow(float64(height), p.page.ScrollHeight))
		p.sched.Request()
	}
}

// Tick is the per-frame callback. It applies finished loads, advances the
// spring and running animations by dt, and repaints if anything changed.
// It reports whether Frame holds a new image.
func (p *Player) Tick(dt time.Duration) bool {
	if !p.mounted {
		return false
	}
	p.clock += dt
	p.drainLoads()

	if !p.ready {
		if p.preloader.Update(dt) {
			p.sched.Request()
		}
	} else {
		if p.indicator.Update(dt) || p.layer.Animating(p.clock) {
			p.sched.Request()
		}
	}
	p.signal.Advance(dt)

	return p.sched.Flush(p.compose)
}

func (p *Player) drainLoads() {
	for {
		select {
		case ev := <-p.events:
			p.applyLoad(ev)
		default:
			return
		}
	}
}

func (p *Player) applyLoad(ev loadEvent) {
	if !ev.done {
		p.preloader.SetProgress(ev.state.Percent())
		p.sched.Request()
		return
	}
	switch {
	case ev.err == nil:
		p.ready = true
		p.canvasDirty = true
		p.indicator.SetFrame(p.frame + 1)
		p.layer.Update(p.signal.CurrentProgress(), p.clock)
		p.sched.Request()
	case errors.Is(ev.err, frames.ErrClosed):
	default:
		// the preloader stays up; the failure is only reported
		p.err = ev.err
		system.Logger().Error("frames unavailable, staying on preloader", "page", p.page.Name, "err", ev.err)
	}
}

func (p *Player) compose() {
	if p.width <= 0 || p.height <= 0 {
		p.out = nil
		return
	}
	if p.out == nil || p.out.Rect.Dx() != p.width || p.out.Rect.Dy() != p.height {
		p.out = image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	}

	if !p.ready {
		p.preloader.Draw(p.out)
		return
	}

	if p.canvasDirty || p.frame != p.drawnFrame {
		p.canvas.Draw(p.store.Frame(p.frame))
		p.drawnFrame = p.frame
		p.canvasDirty = false
	}
	draw.Draw(p.out, p.out.Bounds(), p.canvas.Image(), image.Point{}, draw.Src)
	p.layer.Draw(p.out, p.signal.CurrentProgress(), p.clock)
	p.indicator.Draw(p.out)
}

// Frame is the last composed image. It is reused between ticks.
func (p *Player) Frame() *image.RGBA { return p.out }

// Click resolves a pointer press. Only a visible call-to-action captures it;
// the rest of the overlay is click-through.
func (p *Player) Click(x, y int) (overlay.Hit, bool) {
	if !p.ready {
		return overlay.Hit{}, false
	}
	return p.layer.HitTest(x, y)
}

func (p *Player) Mounted() bool { return p.mounted }

// Ready reports whether the whole sequence is decoded.
func (p *Player) Ready() bool { return p.ready }

// Err is the load failure that keeps the player on the preloader.
func (p *Player) Err() error { return p.err }

// LoadProgress is the preload percentage.
func (p *Player) LoadProgress() int { return p.preloader.Percent() }

// FrameIndex is the zero-based frame on screen.
func (p *Player) FrameIndex() int { return p.frame }

// Progress is the smoothed scroll progress.
func (p *Player) Progress() float64 {
	if p.signal == nil {
		return 0
	}
	return p.signal.CurrentProgress()
}

// Settled reports whether nothing will change without new input.
func (p *Player) Settled() bool {
	if !p.mounted {
		return true
	}
	return p.signal.Settled() && !p.sched.Pending() && !(p.preloader.Animating() && !p.ready) && !p.layer.Animating(p.clock)
}

// Draws counts composed frames.
func (p *Player) Draws() int { return p.sched.Draws() }

func (p *Player) String() string {
	return fmt.Sprintf("%s [%s] frame %d/%d progress %.3f", p.page.Name, p.variant.Name, p.frame+1, p.src.FrameCount(), p.Progress())
}
