package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/taptide/beerscroll/internal/config"
	"github.com/taptide/beerscroll/internal/director"
	"github.com/taptide/beerscroll/internal/engine"
	"github.com/taptide/beerscroll/internal/source"
	"github.com/taptide/beerscroll/internal/system"
	"github.com/taptide/beerscroll/internal/variant"
)

var buildVersion = "dev"

func main() {
	// Увеличиваем лимиты системы: все кадры грузятся одновременно
	system.InitResourceLimits()

	inputPtr := flag.String("input", "", "Кадры: базовый путь ({base}NNN.jpg, можно http(s)://), папка с кадрами или PDF (по умолчанию: из страницы)")
	pagePtr := flag.String("page", "", "YAML-описание страницы (по умолчанию: главная)")
	variantPtr := flag.Int("variant", 0, "Вариант оформления 1-5 (0 - из страницы)")
	framesPtr := flag.Int("frames", 0, "Количество кадров (0 - из страницы или папки)")
	outputPtr := flag.String("output", "", "Путь к видео (если пусто, генерируется автоматически в output/)")
	pngDirPtr := flag.String("png-dir", "", "Папка для PNG-кадров вместо/вместе с видео")
	noVideoPtr := flag.Bool("no-video", false, "Не кодировать видео (только -png-dir)")
	durationPtr := flag.Float64("duration", 0, "Длительность прокрутки в секундах (0 - из сценария или аудио)")
	widthPtr := flag.Int("width", 1280, "Ширина")
	heightPtr := flag.Int("height", 720, "Высота")
	fpsPtr := flag.Int("fps", 30, "FPS")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Потоки записи PNG")
	fadePtr := flag.Float64("fade", 0.5, "Затемнение в начале и в конце (сек)")
	dpiPtr := flag.Int("dpi", 150, "DPI для PDF")
	audioPtr := flag.String("audio", "", "Путь к аудио")
	audioSyncPtr := flag.Bool("audio-sync", true, "Синхронизировать длительность прокрутки с аудио")
	presetPtr := flag.String("preset", "", "Пресет формата: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	qualityPtr := flag.Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	scriptPtr := flag.String("script", "", "YAML-сценарий прокрутки (latest - самый свежий в scripts/)")
	genScriptPtr := flag.Bool("generate-script", false, "Только сгенерировать сценарий прокрутки и выйти")
	qrPtr := flag.String("qr", "", "Базовый URL сайта: добавить QR-код ссылки кнопки")
	retriesPtr := flag.Int("retries", 2, "Повторные попытки загрузки кадра")
	retryDelayPtr := flag.Duration("retry-delay", 500*time.Millisecond, "Пауза между попытками")
	loadTimeoutPtr := flag.Duration("load-timeout", 30*time.Second, "Таймаут загрузки одного кадра (0 - без таймаута)")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности")
	verbosePtr := flag.Bool("v", false, "Подробный лог")

	flag.Parse()

	level := slog.LevelWarn
	if *verbosePtr {
		level = slog.LevelDebug
	}
	system.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	width, height := *widthPtr, *heightPtr
	switch *presetPtr {
	case "16:9":
		width, height = 1280, 720
	case "9:16":
		width, height = 720, 1280
	case "4:5":
		width, height = 1080, 1350
	}

	page := config.DefaultPage()
	if *pagePtr != "" {
		p, err := config.LoadPage(*pagePtr)
		if err != nil {
			log.Fatalf("[-] Ошибка чтения страницы: %v", err)
		}
		page = p
		fmt.Printf("[*] Страница: %s\n", *pagePtr)
	}
	if *variantPtr != 0 {
		id, ok := variant.Parse(fmt.Sprint(*variantPtr))
		if !ok {
			log.Fatalf("[-] Неизвестный вариант %d: допустимы 1-5", *variantPtr)
		}
		page = page.WithVariant(id)
	}

	totalDuration := *durationPtr
	audioPath := *audioPtr
	if audioPath != "" && *audioSyncPtr {
		audioDur, err := system.GetAudioDuration(audioPath)
		if err == nil {
			totalDuration = audioDur
			fmt.Printf("[*] Длительность установлена по аудио: %.2fs\n", totalDuration)
		} else {
			log.Printf("[!] Не удалось получить длительность аудио: %v", err)
		}
	}

	if *genScriptPtr {
		duration := totalDuration
		if duration <= 0 {
			duration = engine.DefaultDuration
		}
		script, err := director.NewDirector().GenerateScript(page.Overlays, duration)
		if err != nil {
			log.Fatalf("[-] Ошибка генерации сценария: %v", err)
		}
		script.Page = page.Name
		script.ScaleTo(duration)
		outputPath := *scriptPtr
		if outputPath == "" || outputPath == "latest" {
			outputPath = director.GenerateScriptPath()
		}
		if err := director.WriteScript(script, outputPath); err != nil {
			log.Fatalf("[-] Ошибка записи сценария: %v", err)
		}
		fmt.Printf("[+++] Успех! Сценарий сохранен: %s\n", outputPath)
		return
	}

	scriptPath := *scriptPtr
	if scriptPath == "latest" {
		latest, err := director.FindLatestScript(director.ScriptsDir)
		if err != nil {
			log.Fatalf("[-] Ошибка: %v", err)
		}
		scriptPath = latest
	}

	src, inputPath, err := openSource(*inputPtr, page, *framesPtr, *dpiPtr)
	if err != nil {
		log.Fatalf("[-] Ошибка инициализации источника: %v", err)
	}
	defer src.Close()
	page.Frames.Count = src.FrameCount()

	finalOutput := *outputPtr
	if finalOutput == "" && !*noVideoPtr {
		cleanName := strings.NewReplacer(" ", "_", "|", "", "/", "_").Replace(page.Name)
		cleanName = strings.Trim(strings.ReplaceAll(cleanName, "__", "_"), "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		finalOutput = filepath.Join("output", fmt.Sprintf("%s_%s.mp4", cleanName, timestamp))
	}
	if *noVideoPtr {
		finalOutput = ""
		if *pngDirPtr == "" {
			log.Fatalf("[-] -no-video требует -png-dir")
		}
	}

	encoderName := system.GetBestH264Encoder()
	if encoderName != "libx264" {
		fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", encoderName)
	}
	quality := *qualityPtr
	if quality == 0 {
		quality = system.DefaultQuality(encoderName)
	}

	cfg := &config.Config{
		InputPath:      inputPath,
		FrameCount:     page.Frames.Count,
		PagePath:       *pagePtr,
		Output:         finalOutput,
		PNGDir:         *pngDirPtr,
		Width:          width,
		Height:         height,
		FPS:            *fpsPtr,
		Workers:        *workersPtr,
		Variant:        page.Variant,
		ScriptPath:     scriptPath,
		Duration:       totalDuration,
		FadeDuration:   *fadePtr,
		DPI:            *dpiPtr,
		AudioPath:      audioPath,
		VideoEncoder:   encoderName,
		Quality:        quality,
		Preset:         *presetPtr,
		QRBaseURL:      *qrPtr,
		LoadRetries:    *retriesPtr,
		LoadRetryDelay: *retryDelayPtr,
		LoadTimeout:    *loadTimeoutPtr,
		ShowStats:      *statsPtr,
		BuildVersion:   buildVersion,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rec := engine.NewRecorder(cfg, page, src)
	stats, err := rec.Run(ctx)
	if err != nil {
		log.Fatalf("[-] Ошибка записи: %v", err)
	}

	if cfg.Output != "" {
		fmt.Printf("[+++] Успех! Результат: %s (%d кадров)\n", cfg.Output, stats.Frames())
	}
	if cfg.PNGDir != "" {
		fmt.Printf("[+++] Успех! Кадры: %s (%d)\n", cfg.PNGDir, stats.Frames())
	}
}

// openSource picks the frame source for input: a PDF export, a directory of
// numbered frames or a {base}NNN.jpg base path (local or http).
func openSource(input string, page config.Page, count, dpi int) (source.Source, string, error) {
	if input == "" {
		input = page.Frames.Base
	}
	if count <= 0 {
		count = page.Frames.Count
	}

	if strings.HasSuffix(strings.ToLower(input), ".pdf") {
		src, err := source.NewFitzPDFSource(input, dpi)
		return src, input, err
	}

	if info, err := os.Stat(input); err == nil && info.IsDir() {
		base, n, err := system.DetectSequence(input)
		if err != nil {
			return nil, input, err
		}
		fmt.Printf("[*] Найдена последовательность: %s (%d кадров)\n", base, n)
		src, err := source.NewSequence(base, n)
		return src, input, err
	}

	src, err := source.NewSequence(input, count)
	return src, input, err
}
