package frames

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taptide/beerscroll/internal/source"
	"github.com/taptide/beerscroll/internal/system"
)

// ErrClosed is returned by Load when the store is closed before or while
// loading.
var ErrClosed = errors.New("frame store closed")

// LoadError reports the frame that kept the sequence from becoming ready.
type LoadError struct {
	Index    int // zero-based
	Path     string
	Attempts int
	Err      error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("frame %d (%s) failed after %d attempt(s): %v", e.Index+1, e.Path, e.Attempts, e.Err)
	}
	return fmt.Sprintf("frame %d failed after %d attempt(s): %v", e.Index+1, e.Attempts, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadState is a snapshot of preload progress.
type LoadState struct {
	Loaded int
	Total  int
	Ready  bool
}

// Percent is round(Loaded/Total*100).
func (s LoadState) Percent() int {
	if s.Total <= 0 {
		return 0
	}
	return int(math.Round(float64(s.Loaded) / float64(s.Total) * 100))
}

// ProgressFunc is called after every successful frame load. Calls are
// serialized and Loaded never decreases between calls.
type ProgressFunc func(state LoadState)

// Options tune retry behaviour. The zero value tries every frame once with
// no timeout.
type Options struct {
	Retries    int           // extra attempts per frame
	RetryDelay time.Duration // back-off grows linearly with the attempt number
	Timeout    time.Duration // per attempt; 0 waits forever
	OnProgress ProgressFunc
}

// Store holds the decoded frames of one sequence for the lifetime of a
// mounted component.
type Store struct {
	src  source.Source
	opts Options

	cbMu sync.Mutex // serializes progress callbacks

	mu     sync.Mutex
	frames []image.Image
	loaded int
	ready  bool
	err    error
	closed bool
	cancel context.CancelFunc
	done   chan struct{}
}

func NewStore(src source.Source, opts Options) *Store {
	return &Store{
		src:    src,
		opts:   opts,
		frames: make([]image.Image, src.FrameCount()),
		done:   make(chan struct{}),
	}
}

// Load fetches every frame concurrently and blocks until all of them are
// decoded or one of them fails for good. Ready flips exactly once, when the
// last frame lands. Load must be called at most once.
func (s *Store) Load(ctx context.Context) error {
	defer close(s.done)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	n := len(s.frames)
	if n == 0 {
		return s.fail(fmt.Errorf("empty frame sequence"))
	}
	s.checkMemory(ctx, n)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			img, err := s.loadOne(gctx, i)
			if err != nil {
				return err
			}
			s.complete(i, img)
			return nil
		})
	}

	err := g.Wait()
	if s.Closed() {
		return ErrClosed
	}
	if err != nil {
		return s.fail(err)
	}

	system.Logger().Info("frame sequence ready", "frames", n, "elapsed", time.Since(start))
	return nil
}

func (s *Store) loadOne(ctx context.Context, i int) (image.Image, error) {
	attempts := s.opts.Retries + 1
	var lastErr error
	a := 1
	for ; a <= attempts; a++ {
		if a > 1 {
			select {
			case <-ctx.Done():
				return nil, s.loadError(i, a-1, ctx.Err())
			case <-time.After(time.Duration(a-1) * s.opts.RetryDelay):
			}
		}

		actx, cancel := ctx, context.CancelFunc(func() {})
		if s.opts.Timeout > 0 {
			actx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		}
		img, err := s.src.LoadFrame(actx, i)
		cancel()
		if err == nil {
			return img, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			break
		}
		system.Logger().Warn("frame load failed", "frame", i+1, "attempt", a, "err", err)
	}
	if a > attempts {
		a = attempts
	}
	return nil, s.loadError(i, a, lastErr)
}

func (s *Store) loadError(i, attempts int, err error) *LoadError {
	le := &LoadError{Index: i, Attempts: attempts, Err: err}
	if p, ok := s.src.(interface{ Path(int) string }); ok {
		le.Path = p.Path(i)
	}
	return le
}

func (s *Store) complete(i int, img image.Image) {
	s.cbMu.Lock()
	defer s.cbMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.frames[i] = img
	s.loaded++
	if s.loaded == len(s.frames) {
		s.ready = true
	}
	state := LoadState{Loaded: s.loaded, Total: len(s.frames), Ready: s.ready}
	s.mu.Unlock()

	if s.opts.OnProgress != nil {
		s.opts.OnProgress(state)
	}
}

func (s *Store) fail(err error) error {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	system.Logger().Error("frame sequence not ready", "err", err)
	return err
}

func (s *Store) checkMemory(ctx context.Context, n int) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	w, h, err := s.src.Dimensions(ctx, 0)
	if err != nil {
		system.Logger().Debug("memory check skipped", "err", err)
		return
	}
	report, err := system.CheckMemoryBudget(system.DecodedSize(int(w), int(h), n))
	if err != nil {
		system.Logger().Debug("memory check skipped", "err", err)
		return
	}
	if !report.WithinCap {
		system.Logger().Warn("decoded sequence exceeds memory budget", "report", report.String())
	}
}

// State returns the current load progress.
func (s *Store) State() LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return LoadState{Loaded: s.loaded, Total: len(s.frames), Ready: s.ready}
}

// Ready reports whether every frame is decoded.
func (s *Store) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Err returns the failure that ended loading, if any.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Done is closed once Load returns.
func (s *Store) Done() <-chan struct{} {
	return s.done
}

// Len is the sequence length N.
func (s *Store) Len() int {
	return len(s.frames)
}

// Frame returns the decoded image at index, clamped to the valid range. It
// returns nil until the whole sequence is ready; partial sequences are never
// drawn.
func (s *Store) Frame(index int) image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready || len(s.frames) == 0 {
		return nil
	}
	index = max(0, min(index, len(s.frames)-1))
	return s.frames[index]
}

// Close cancels in-flight loads and releases the decoded frames. Loads that
// finish afterwards are dropped.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.frames = make([]image.Image, len(s.frames))
	s.ready = false
}

// Closed reports whether Close has been called.
func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
