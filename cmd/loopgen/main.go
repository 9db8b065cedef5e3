package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/ivlev/loopgen/internal/analyzer"
	"github.com/ivlev/loopgen/internal/config"
	"github.com/ivlev/loopgen/internal/director"
	"github.com/ivlev/loopgen/internal/engine"
	"github.com/ivlev/loopgen/internal/pattern"
	"github.com/ivlev/loopgen/internal/system"
	"github.com/ivlev/loopgen/internal/video"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

func main() {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	// Создаем нужные директории, если их нет
	dirs := []string{"input", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	configPtr := flag.String("config", "", "Путь к YAML конфигу (по умолчанию: самый свежий файл в input/, иначе встроенные настройки)")
	patternPtr := flag.String("pattern", "", "Паттерн: "+strings.Join(pattern.Names(), ", "))
	frameStartPtr := flag.Int("frame-start", 0, "Первый кадр окна петли (0 - из конфига)")
	frameEndPtr := flag.Int("frame-end", 0, "Последний кадр окна петли (0 - из конфига)")
	fpsPtr := flag.Int("fps", 0, "FPS окна (0 - из конфига)")
	var seed optionalInt64
	flag.Var(&seed, "seed", "Зерно генератора для stream (по умолчанию: из конфига)")
	loopLockPtr := flag.Bool("loop-lock", false, "Подгонять скорости stream под окно петли")
	outputDirPtr := flag.String("output-dir", "", "Папка для клипов и превью (по умолчанию: output/)")
	clipPtr := flag.String("clip", "", "Путь к YAML клипу (если пусто, генерируется автоматически в output/clips/)")
	previewPtr := flag.Bool("preview", false, "Рендерить превью и проверять шов петли")
	previewScalePtr := flag.Int("preview-scale", 0, "Делитель разрешения превью (0 - из конфига)")
	previewFPSPtr := flag.Int("preview-fps", 0, "FPS превью (0 - как у окна)")
	repeatsPtr := flag.Int("repeats", 0, "Повторов петли в видео превью (0 - из конфига)")
	stampPtr := flag.Bool("stamp", false, "QR-штамп сборки на кадрах превью")
	presetPtr := flag.String("preset", "", "Пресет формата: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	workersPtr := flag.Int("workers", 0, "Потоки (0 - из конфига, иначе по числу ядер)")
	qualityPtr := flag.Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	detectorPtr := flag.String("detector", "", "Детектор шва: luma, edge")
	noVideoPtr := flag.Bool("no-video", false, "Не кодировать превью в MP4")
	analyzePtr := flag.String("analyze", "", "Только проверить шов готовой последовательности кадров (папка)")
	inspectPtr := flag.Bool("inspect", false, "Показать сводку последнего клипа из output/clips/")
	statsPtr := flag.Bool("stats", false, "Отчет о производительности и запись в benchmark.log")
	saveConfigPtr := flag.String("save-config", "", "Сохранить итоговый конфиг в YAML и выйти")

	flag.Parse()

	cfg := loadConfig(*configPtr)
	cfg.BuildVersion = Version

	if *patternPtr != "" {
		cfg.Pattern = *patternPtr
	}
	if *frameStartPtr > 0 {
		cfg.Window.FrameStart = *frameStartPtr
	}
	if *frameEndPtr > 0 {
		cfg.Window.FrameEnd = *frameEndPtr
	}
	if *fpsPtr > 0 {
		cfg.Window.FPS = *fpsPtr
	}
	if seed.v != nil {
		cfg.Stream.Seed = seed.v
	}
	if *loopLockPtr {
		cfg.Stream.LoopLock = true
	}
	if *outputDirPtr != "" {
		cfg.Render.OutputDir = *outputDirPtr
	}
	if *clipPtr != "" {
		cfg.Render.ClipPath = *clipPtr
	}
	if *previewPtr {
		cfg.Render.Preview = true
	}
	if *previewScalePtr > 0 {
		cfg.Render.PreviewScale = *previewScalePtr
	}
	if *previewFPSPtr > 0 {
		cfg.Render.PreviewFPS = *previewFPSPtr
	}
	if *repeatsPtr > 0 {
		cfg.Render.Repeats = *repeatsPtr
	}
	if *stampPtr {
		cfg.Render.Stamp = true
	}
	if *presetPtr != "" && !cfg.Render.ApplyPreset(*presetPtr) {
		log.Printf("[!] Неизвестный пресет %q, разрешение %dx%d", *presetPtr, cfg.Render.Width, cfg.Render.Height)
	}
	if *detectorPtr != "" {
		cfg.Render.Detector = *detectorPtr
	}
	if *statsPtr {
		cfg.ShowStats = true
	}

	if *workersPtr > 0 {
		cfg.Workers = *workersPtr
	}
	if cfg.Workers <= 0 {
		cfg.Workers = system.DefaultWorkers()
	}

	if *saveConfigPtr != "" {
		if err := config.Save(cfg, *saveConfigPtr); err != nil {
			log.Fatalf("[-] Ошибка сохранения конфига: %v", err)
		}
		fmt.Printf("[+++] Конфиг сохранен: %s\n", *saveConfigPtr)
		return
	}

	if *inspectPtr {
		inspect(cfg.Render.OutputDir)
		return
	}

	detector, err := analyzer.NewDetector(cfg.Render.Detector)
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}

	if *analyzePtr != "" {
		report, err := engine.AnalyzeSequence(*analyzePtr, detector)
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		if report.Visible {
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var ve video.VideoEncoder
	if cfg.Render.Preview && !*noVideoPtr {
		encoderName, _ := system.GetBestH264Encoder()
		if encoderName != "libx264" {
			fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", encoderName)
		}
		cfg.Render.VideoEncoder = encoderName

		cfg.Render.Quality = *qualityPtr
		if cfg.Render.Quality == 0 {
			cfg.Render.Quality = system.DefaultQuality(encoderName)
		}
		ve = &video.FFmpegEncoder{}
	}

	project := engine.NewLoopProject(&cfg, director.NewDirector(cfg.Workers), ve, detector)
	res, err := project.Run(ctx)
	if err != nil {
		log.Fatalf("[-] Ошибка проекта: %v", err)
	}

	if res.VideoPath != "" {
		fmt.Printf("[+++] Успех! Клип: %s | Превью: %s\n", res.ClipPath, res.VideoPath)
	} else {
		fmt.Printf("[+++] Успех! Клип: %s\n", res.ClipPath)
	}
}

// optionalInt64 is an int64 flag that remembers whether it was given, so
// any value including 0 can be requested.
type optionalInt64 struct {
	v *int64
}

func (o *optionalInt64) String() string {
	if o == nil || o.v == nil {
		return ""
	}
	return strconv.FormatInt(*o.v, 10)
}

func (o *optionalInt64) Set(s string) error {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	o.v = &n
	return nil
}

func loadConfig(path string) config.Config {
	if path == "" {
		latest, err := system.FindLatestFile("input", ".yaml", ".yml")
		if err != nil {
			return config.Default()
		}
		path = latest
		fmt.Printf("[*] Выбран конфиг: %s\n", path)
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("[-] Ошибка загрузки конфига: %v", err)
	}
	return cfg
}

func inspect(outputDir string) {
	path, err := director.FindLatestClip(outputDir)
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}

	clip, err := director.ReadClip(path)
	if err != nil {
		log.Fatalf("[-] Ошибка чтения клипа: %v", err)
	}

	fmt.Printf("[*] Клип: %s\n", path)
	fmt.Printf("[*] Паттерн: %s | Слот: %s | Окно: %s\n", clip.Pattern, clip.Slot, clip.Window)
	fmt.Printf("[*] Элементов: %d | Кривых: %d | Разрешение: %dx%d\n", len(clip.Elements), len(clip.Curves), clip.Render.Width, clip.Render.Height)
	if clip.Looped() {
		fmt.Println("[+++] Петля без предупреждений")
		return
	}
	for _, w := range clip.Warnings {
		log.Printf("[!] Шов петли: %s", w)
	}
}
