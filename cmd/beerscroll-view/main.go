package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/taptide/beerscroll/internal/config"
	"github.com/taptide/beerscroll/internal/frames"
	"github.com/taptide/beerscroll/internal/player"
	"github.com/taptide/beerscroll/internal/source"
	"github.com/taptide/beerscroll/internal/system"
	"github.com/taptide/beerscroll/internal/variant"
)

const (
	wheelStep = 60.0
	keyStep   = 40.0
)

// Viewer drives a Player from the ebiten game loop.
type Viewer struct {
	player *player.Player
	screen *ebiten.Image
	width  int
	height int
}

func (v *Viewer) Update() error {
	if _, dy := ebiten.Wheel(); dy != 0 {
		v.player.ScrollBy(-dy * wheelStep)
	}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowDown):
		v.player.ScrollBy(keyStep)
	case ebiten.IsKeyPressed(ebiten.KeyArrowUp):
		v.player.ScrollBy(-keyStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.player.ScrollBy(float64(v.height))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		v.player.ScrollBy(-float64(v.height))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		v.player.ScrollTo(0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) {
		v.player.ScrollTo(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if hit, ok := v.player.Click(x, y); ok {
			fmt.Printf("[>] %s -> %s\n", hit.CTA.Label, hit.CTA.Href)
		}
	}

	v.player.Tick(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	frame := v.player.Frame()
	if frame == nil {
		return
	}
	b := frame.Bounds()
	if v.screen == nil || v.screen.Bounds().Dx() != b.Dx() || v.screen.Bounds().Dy() != b.Dy() {
		if v.screen != nil {
			v.screen.Deallocate()
		}
		v.screen = ebiten.NewImage(b.Dx(), b.Dy())
	}
	v.screen.WritePixels(frame.Pix)
	screen.DrawImage(v.screen, nil)
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != v.width || outsideHeight != v.height {
		v.width, v.height = outsideWidth, outsideHeight
		v.player.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func main() {
	system.InitResourceLimits()

	inputPtr := flag.String("input", "", "Базовый путь кадров ({base}NNN.jpg, можно http(s)://)")
	pagePtr := flag.String("page", "", "YAML-описание страницы")
	variantPtr := flag.String("variant", "", "Вариант оформления 1-5 (пусто - главная страница)")
	framesPtr := flag.Int("frames", 0, "Количество кадров (0 - из страницы)")
	widthPtr := flag.Int("width", 1280, "Ширина окна")
	heightPtr := flag.Int("height", 720, "Высота окна")
	retriesPtr := flag.Int("retries", 2, "Повторные попытки загрузки кадра")
	verbosePtr := flag.Bool("v", false, "Подробный лог")
	flag.Parse()

	level := slog.LevelWarn
	if *verbosePtr {
		level = slog.LevelDebug
	}
	system.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	page := config.DefaultPage()
	if *pagePtr != "" {
		p, err := config.LoadPage(*pagePtr)
		if err != nil {
			log.Fatalf("[-] Ошибка чтения страницы: %v", err)
		}
		page = p
	}
	if *variantPtr != "" {
		// Unknown ids fall back to the default variant, as the route does.
		id, _ := variant.Parse(*variantPtr)
		page = page.WithVariant(id)
	}
	if *inputPtr != "" {
		page.Frames.Base = *inputPtr
	}
	if *framesPtr > 0 {
		page.Frames.Count = *framesPtr
	}

	src, err := source.NewSequence(page.Frames.Base, page.Frames.Count)
	if err != nil {
		log.Fatalf("[-] Ошибка инициализации источника: %v", err)
	}
	defer src.Close()

	p, err := player.New(player.Options{
		Page:   page,
		Source: src,
		Width:  *widthPtr,
		Height: *heightPtr,
		Load:   frames.Options{Retries: *retriesPtr, RetryDelay: 500 * time.Millisecond, Timeout: 30 * time.Second},
	})
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := p.Mount(ctx); err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
	defer p.Unmount()

	ebiten.SetWindowSize(*widthPtr, *heightPtr)
	ebiten.SetWindowTitle(page.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	viewer := &Viewer{player: p, width: *widthPtr, height: *heightPtr}
	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
	if err := p.Err(); err != nil {
		fmt.Printf("[-] Кадры не загружены: %v\n", err)
	}
}
