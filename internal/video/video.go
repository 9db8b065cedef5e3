package video

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/ivlev/loopgen/internal/system"
)

// FramePattern is the file name pattern of a rendered frame sequence.
const FramePattern = "frame_%04d.png"

// EncodeParams describes one encode of a numbered PNG sequence.
type EncodeParams struct {
	FPS          int
	StartNumber  int    // number of the first frame file
	FrameCount   int    // frames the sequence must contain
	Filter       string // -vf chain, may be empty
	VideoEncoder string
	Quality      int
}

type VideoEncoder interface {
	EncodeSequence(ctx context.Context, framesDir string, videoPath string, params EncodeParams) error
}

type FFmpegEncoder struct{}

// EncodeSequence checks that framesDir holds exactly params.FrameCount
// frames and encodes them into videoPath.
func (e *FFmpegEncoder) EncodeSequence(ctx context.Context, framesDir string, videoPath string, params EncodeParams) error {
	found, err := system.CountFiles(framesDir, filepath.Ext(FramePattern))
	if err != nil {
		return fmt.Errorf("frames dir: %w", err)
	}
	if found != params.FrameCount {
		return fmt.Errorf("ожидалось %d кадров, найдено %d в %s", params.FrameCount, found, framesDir)
	}

	args := e.buildFFmpegArgs(filepath.Join(framesDir, FramePattern), videoPath, params)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg encode error: %w, output: %s", err, string(out))
	}

	return nil
}

func (e *FFmpegEncoder) buildFFmpegArgs(input string, videoPath string, params EncodeParams) []string {
	args := []string{
		"-y",
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-start_number", fmt.Sprintf("%d", params.StartNumber),
		"-i", input,
	}

	if params.Filter != "" {
		args = append(args, "-vf", params.Filter)
	}

	args = append(args,
		"-r", fmt.Sprintf("%d", params.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", params.VideoEncoder,
	)

	// Качество в зависимости от энкодера
	switch params.VideoEncoder {
	case "h264_videotoolbox":
		bitrate := params.Quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", params.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", params.Quality), "-preset", "medium")
	}

	// moov в начало файла: превью открывается до полной загрузки
	args = append(args, "-movflags", "+faststart", videoPath)
	return args
}
