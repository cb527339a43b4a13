package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/taptide/beerscroll/internal/config"
	"github.com/taptide/beerscroll/internal/director"
	"github.com/taptide/beerscroll/internal/effects"
	"github.com/taptide/beerscroll/internal/frames"
	"github.com/taptide/beerscroll/internal/overlay"
	"github.com/taptide/beerscroll/internal/player"
	"github.com/taptide/beerscroll/internal/source"
	"github.com/taptide/beerscroll/internal/system"
	"github.com/taptide/beerscroll/internal/video"
)

// DefaultDuration is the scroll length of a generated script in seconds.
const DefaultDuration = 12.0

// Recorder plays a page through a scroll script and writes every frame of
// the result.
type Recorder struct {
	Config *config.Config
	Page   config.Page
	Source source.Source
	Effect effects.Effect
	Script *director.Script    // read from Config.ScriptPath or generated when nil
	Sinks  []video.FrameWriter // opened from Config when nil
}

// Stats summarises a finished recording.
type Stats struct {
	PreloadFrames int
	ScrollFrames  int
	Preload       time.Duration
	Render        time.Duration
	Total         time.Duration
}

func (s Stats) Frames() int { return s.PreloadFrames + s.ScrollFrames }

func NewRecorder(cfg *config.Config, page config.Page, src source.Source) *Recorder {
	return &Recorder{Config: cfg, Page: page, Source: src}
}

func (r *Recorder) Run(ctx context.Context) (Stats, error) {
	startTime := time.Now()
	var stats Stats
	cfg := r.Config

	if cfg.FPS <= 0 {
		return stats, fmt.Errorf("fps must be positive, got %d", cfg.FPS)
	}

	script, err := r.loadScript()
	if err != nil {
		return stats, err
	}

	p, err := player.New(player.Options{
		Page:   r.Page,
		Source: r.Source,
		Width:  cfg.Width,
		Height: cfg.Height,
		Load: frames.Options{
			Retries:    cfg.LoadRetries,
			RetryDelay: cfg.LoadRetryDelay,
			Timeout:    cfg.LoadTimeout,
		},
		Scaler: xdraw.CatmullRom,
	})
	if err != nil {
		return stats, err
	}
	if cfg.QRBaseURL != "" {
		size := cfg.QRSize
		if size <= 0 {
			size = 96
		}
		if err := p.Layer().StampQR(cfg.QRBaseURL, size); err != nil {
			return stats, fmt.Errorf("qr stamp: %w", err)
		}
	}

	effect := r.Effect
	if effect == nil {
		bg := overlay.NewPalette("", p.Variant().BackgroundColor, "").Background
		effect = &effects.FadeEffect{Color: overlay.Opaque(bg)}
	}

	sinks := r.Sinks
	if sinks == nil {
		if sinks, err = r.openSinks(ctx); err != nil {
			return stats, err
		}
	}
	closed := false
	closeSinks := func() error {
		if closed {
			return nil
		}
		closed = true
		var errs []error
		for _, s := range sinks {
			errs = append(errs, s.Close())
		}
		return errors.Join(errs...)
	}
	defer closeSinks()

	if err := p.Mount(ctx); err != nil {
		return stats, err
	}
	defer p.Unmount()

	fmt.Println("--- [PROJECT: BEERSCROLL RECORDER] ---")
	fmt.Printf("[*] Страница: %s | Вариант: %s | Кадров: %d\n", r.Page.Name, p.Variant().Name, r.Source.FrameCount())
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Сценарий: %.2fs, %d ключевых кадров\n",
		cfg.Width, cfg.Height, cfg.FPS, script.Duration, len(script.Keyframes))
	fmt.Println("-----------------------------")

	frameDur := time.Second / time.Duration(cfg.FPS)
	scrollFrames := int(math.Round(script.Duration * float64(cfg.FPS)))
	params := cfg.Params(0, p.Variant().BackgroundColor)
	index := 0

	write := func() error {
		src := p.Frame()
		if src == nil {
			return nil
		}
		// the player keeps its buffer between ticks; fade a copy
		frame := system.GetImage(src.Rect.Size())
		defer system.PutImage(frame)
		xdraw.Draw(frame, frame.Bounds(), src, src.Rect.Min, xdraw.Src)
		effect.Apply(frame, index, params)
		index++
		for _, s := range sinks {
			if err := s.WriteFrame(frame); err != nil {
				return err
			}
		}
		return nil
	}

	// 1. Прелоадер пишется в реальном времени, пока грузятся кадры
	preloadStart := time.Now()
	ticker := time.NewTicker(frameDur)
	defer ticker.Stop()
	for {
		p.Tick(frameDur)
		if err := write(); err != nil {
			return stats, err
		}
		stats.PreloadFrames++
		if p.Ready() {
			break
		}
		if err := p.Err(); err != nil {
			return stats, fmt.Errorf("frames unavailable: %w", err)
		}
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		case <-ticker.C:
		}
	}
	ticker.Stop()
	stats.Preload = time.Since(preloadStart)
	fmt.Printf("[*] Кадры загружены за %.2fs\n", stats.Preload.Seconds())

	// 2. Прокрутка по сценарию, шаг 1/FPS
	params.Duration = float64(index+scrollFrames) / float64(cfg.FPS)
	renderStart := time.Now()
	for i := 0; i < scrollFrames; i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		t := float64(i) / float64(cfg.FPS)
		p.ScrollTo(director.Interpolate(script.Keyframes, t))
		p.Tick(frameDur)
		if err := write(); err != nil {
			return stats, err
		}
		stats.ScrollFrames++
		if (i+1)%(cfg.FPS*2) == 0 {
			fmt.Printf("[>] Ready: %d/%d | %s\n", i+1, scrollFrames, p)
		}
	}
	stats.Render = time.Since(renderStart)

	if err := closeSinks(); err != nil {
		return stats, fmt.Errorf("ошибка сборки финального видео: %w", err)
	}
	stats.Total = time.Since(startTime)

	if cfg.ShowStats {
		r.report(stats)
	}
	return stats, nil
}

func (r *Recorder) loadScript() (*director.Script, error) {
	cfg := r.Config
	script := r.Script
	if script == nil && cfg.ScriptPath != "" {
		s, err := director.ReadScript(cfg.ScriptPath)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения сценария: %w", err)
		}
		fmt.Printf("[*] Используется сценарий: %s\n", cfg.ScriptPath)
		script = s
	}
	if script == nil {
		duration := cfg.Duration
		if duration <= 0 {
			duration = DefaultDuration
		}
		s, err := director.NewDirector().GenerateScript(r.Page.Overlays, duration)
		if err != nil {
			return nil, err
		}
		script = s
	}
	// Если длительность задана (например, из аудио), масштабируем сценарий
	if cfg.Duration > 0 && math.Abs(cfg.Duration-script.Duration) > 1e-9 {
		fmt.Printf("[*] Сценарий масштабирован: %.2fs -> %.2fs\n", script.Duration, cfg.Duration)
		script.ScaleTo(cfg.Duration)
	}
	if script.Duration <= 0 {
		return nil, errors.New("scroll script has zero duration")
	}
	return script, nil
}

func (r *Recorder) openSinks(ctx context.Context) ([]video.FrameWriter, error) {
	cfg := r.Config
	var sinks []video.FrameWriter
	if cfg.Output != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Output), 0755); err != nil {
			return nil, err
		}
		enc, err := video.NewStreamEncoder(ctx, cfg.Output, cfg.Params(0, ""), cfg.VideoEncoder, cfg.Quality, cfg.AudioPath)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, enc)
	}
	if cfg.PNGDir != "" {
		w, err := video.NewPNGWriter(cfg.PNGDir, cfg.Workers)
		if err != nil {
			for _, s := range sinks {
				s.Close()
			}
			return nil, err
		}
		sinks = append(sinks, w)
	}
	if len(sinks) == 0 {
		return nil, errors.New("nothing to write: set a video output or a PNG directory")
	}
	return sinks, nil
}

func (r *Recorder) report(s Stats) {
	cfg := r.Config
	fps := float64(s.Frames()) / s.Total.Seconds()
	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Preload: %.2fs (%d frames)\n"+
			"Rendering: %.2fs (%d frames)\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		cfg.BuildVersion, s.Total.Seconds(), s.Preload.Seconds(), s.PreloadFrames, s.Render.Seconds(), s.ScrollFrames, fps,
	)
	fmt.Print(report)

	// Логирование в файл
	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Frames: %d | Total: %.2fs | Preload: %.2fs | Render: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		cfg.BuildVersion,
		filepath.Base(cfg.InputPath),
		s.Frames(),
		s.Total.Seconds(),
		s.Preload.Seconds(),
		s.Render.Seconds(),
		fps,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		system.Logger().Warn("benchmark log not written", "err", err)
		fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
	}
}
