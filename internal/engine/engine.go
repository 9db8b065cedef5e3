package engine

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ivlev/loopgen/internal/analyzer"
	"github.com/ivlev/loopgen/internal/config"
	"github.com/ivlev/loopgen/internal/director"
	"github.com/ivlev/loopgen/internal/renderer"
	"github.com/ivlev/loopgen/internal/source"
	"github.com/ivlev/loopgen/internal/system"
	"github.com/ivlev/loopgen/internal/video"
)

// DefaultBenchmarkLog is where ShowStats appends one line per run.
const DefaultBenchmarkLog = "benchmark.log"

type LoopProject struct {
	Config   *config.Config
	Director *director.Director
	Encoder  video.VideoEncoder // nil keeps the preview as frames only
	Detector analyzer.Detector  // nil skips seam analysis

	BenchmarkLog string
}

// Result is what one run produced.
type Result struct {
	Clip      *director.Clip
	ClipPath  string
	Frames    int
	Seam      *analyzer.SeamReport
	VideoPath string
}

type timings struct {
	build, render, analyze, encode time.Duration
}

func NewLoopProject(cfg *config.Config, dir *director.Director, ve video.VideoEncoder, det analyzer.Detector) *LoopProject {
	return &LoopProject{
		Config:       cfg,
		Director:     dir,
		Encoder:      ve,
		Detector:     det,
		BenchmarkLog: DefaultBenchmarkLog,
	}
}

// Run builds the clip and writes it; with Render.Preview set it also renders
// the preview frames, checks the loop seam and encodes the preview video.
func (p *LoopProject) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()
	var t timings
	cfg := p.Config

	fmt.Println("--- [PROJECT: LOOP ENGINE] ---")
	fmt.Printf("[*] Паттерн: %s | Слот: %s\n", cfg.Pattern, config.Slot(cfg.Pattern))
	fmt.Printf("[*] Окно: кадры %d-%d @ %d FPS | Разрешение: %dx%d\n",
		cfg.Window.FrameStart, cfg.Window.FrameEnd, cfg.Window.FPS, cfg.Render.Width, cfg.Render.Height)
	fmt.Println("-----------------------------")

	buildStart := time.Now()
	clip, err := p.Director.Build(ctx, *cfg)
	if err != nil {
		return nil, err
	}
	t.build = time.Since(buildStart)

	res := &Result{Clip: clip}
	fmt.Printf("[*] Элементов: %d | Кривых: %d | Предупреждений: %d\n", len(clip.Elements), len(clip.Curves), len(clip.Warnings))

	res.ClipPath = cfg.Render.ClipPath
	if res.ClipPath == "" {
		res.ClipPath = director.GenerateClipPath(cfg.Render.OutputDir, clip.Pattern)
	}
	if err := director.WriteClip(clip, res.ClipPath); err != nil {
		return nil, fmt.Errorf("ошибка записи клипа: %w", err)
	}
	fmt.Printf("[+++] Клип сохранен: %s\n", res.ClipPath)

	if cfg.Render.Preview {
		if err := p.preview(ctx, res, &t); err != nil {
			return nil, err
		}
	}

	if cfg.ShowStats {
		p.report(res, t, time.Since(startTime))
	}

	return res, nil
}

func (p *LoopProject) preview(ctx context.Context, res *Result, t *timings) error {
	cfg := p.Config

	tempDir, err := os.MkdirTemp("", "loopgen_")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tempDir)
	framesDir := filepath.Join(tempDir, "frames")

	preview := renderer.NewPreview(res.Clip, cfg.Render, cfg.Workers)
	if cfg.Render.Stamp {
		if err := preview.EnableStamp(cfg.BuildVersion); err != nil {
			return err
		}
	}

	renderStart := time.Now()
	res.Frames, err = preview.RenderSequence(ctx, framesDir)
	if err != nil {
		return fmt.Errorf("ошибка рендера превью: %w", err)
	}
	t.render = time.Since(renderStart)

	if p.Detector != nil {
		analyzeStart := time.Now()
		report, err := AnalyzeSequence(framesDir, p.Detector)
		if err != nil {
			return err
		}
		t.analyze = time.Since(analyzeStart)
		res.Seam = report
	}

	if p.Encoder == nil {
		return nil
	}

	repeats := cfg.Render.Repeats
	if repeats > 1 && !system.CheckFilterSupport("loop") {
		log.Printf("[!] FFmpeg без фильтра loop, превью будет из одного повтора")
		repeats = 1
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	res.VideoPath = filepath.Join(cfg.Render.OutputDir, fmt.Sprintf("%s_%s.mp4", res.Clip.Slot, timestamp))
	if err := os.MkdirAll(cfg.Render.OutputDir, 0755); err != nil {
		return err
	}

	b := preview.Bounds()
	params := video.EncodeParams{
		FPS:          preview.FPS,
		StartNumber:  1,
		FrameCount:   res.Frames,
		Filter:       renderer.GenerateLoopFilter(res.Frames, repeats, b.Dx(), b.Dy()),
		VideoEncoder: cfg.Render.VideoEncoder,
		Quality:      cfg.Render.Quality,
	}

	fmt.Printf("[*] Кодирование превью (%.1fs, повторов: %d)...\n", renderer.LoopDuration(res.Frames, repeats, preview.FPS), repeats)
	encodeStart := time.Now()
	if err := p.Encoder.EncodeSequence(ctx, framesDir, res.VideoPath, params); err != nil {
		return fmt.Errorf("ошибка кодирования превью: %w", err)
	}
	t.encode = time.Since(encodeStart)
	fmt.Printf("[+++] Превью сохранено: %s\n", res.VideoPath)

	return nil
}

// AnalyzeSequence checks the loop seam of a rendered frame sequence: the
// preview frames or frames rendered from a clip elsewhere.
func AnalyzeSequence(path string, d analyzer.Detector) (*analyzer.SeamReport, error) {
	seq, err := source.NewSequence(path)
	if err != nil {
		return nil, err
	}

	report, err := analyzer.Analyze(d, seq.Len(), seq.Frame, analyzer.DefaultSeamRatio)
	if err != nil {
		return nil, fmt.Errorf("ошибка анализа шва: %w", err)
	}

	if report.Visible {
		log.Printf("[!] %s", report)
	} else {
		fmt.Printf("[*] %s\n", report)
	}
	return &report, nil
}

func (p *LoopProject) report(res *Result, t timings, total time.Duration) {
	host := "unknown host"
	if info, err := system.GetHostInfo(); err == nil {
		host = info.String()
	}

	fps := 0.0
	if res.Frames > 0 && t.render > 0 {
		fps = float64(res.Frames) / t.render.Seconds()
	}

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Host: %s\n"+
			"Total Time: %.2fs\n"+
			"Clip (kernel): %.3fs\n"+
			"Preview render: %.2fs\n"+
			"Seam analysis: %.2fs\n"+
			"Encoding: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		p.Config.BuildVersion, host, total.Seconds(), t.build.Seconds(), t.render.Seconds(), t.analyze.Seconds(), t.encode.Seconds(), fps,
	)
	fmt.Print(report)

	if p.BenchmarkLog == "" {
		return
	}

	logEntry := fmt.Sprintf("[%s] Build: %s | Pattern: %s | Elements: %d | Frames: %d | Total: %.2fs | Clip: %.3fs | Render: %.2fs | FPS: %.2f | Host: %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		res.Clip.Pattern,
		len(res.Clip.Elements),
		res.Frames,
		total.Seconds(),
		t.build.Seconds(),
		t.render.Seconds(),
		fps,
		host,
	)

	f, err := os.OpenFile(p.BenchmarkLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] Не удалось записать %s: %v\n", p.BenchmarkLog, err)
	}
}
