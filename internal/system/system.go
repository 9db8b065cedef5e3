package system

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось получить лимит файлов: %v", err)
		return
	}

	// кадры превью пишутся параллельно
	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось установить лимит файлов: %v", err)
	} else {
		fmt.Printf("[*] Системный лимит открытых файлов увеличен до %d\n", rLimit.Cur)
	}
}

// FindLatestFile returns the most recently modified file in dir whose name
// ends in one of exts (case-insensitive).
func FindLatestFile(dir string, exts ...string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExt(f.Name(), exts) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено файлов %s", dir, strings.Join(exts, ", "))
	}

	return latestFile, nil
}

func hasExt(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// CountFiles counts the files in dir that end in ext.
func CountFiles(dir, ext string) (int, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, f := range files {
		if !f.IsDir() && hasExt(f.Name(), []string{ext}) {
			n++
		}
	}
	return n, nil
}

func GetBestH264Encoder() (string, string) {
	// Приоритеты:
	// 1. MacOS (VideoToolbox)
	// 2. NVIDIA (NVENC)
	// 3. Software (libx264)

	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264", ""
	}

	return pickEncoder(string(out))
}

func pickEncoder(listing string) (string, string) {
	encoders := []struct {
		name string
		args string
	}{
		{"h264_videotoolbox", ""},
		{"h264_nvenc", ""},
	}

	for _, enc := range encoders {
		if strings.Contains(listing, enc.name) {
			return enc.name, enc.args
		}
	}

	return "libx264", ""
}

// DefaultQuality is the quality setting each encoder starts from.
func DefaultQuality(encoderName string) int {
	switch encoderName {
	case "h264_videotoolbox":
		return 75 // Хорошее качество для VideoToolbox
	case "h264_nvenc":
		return 28 // Эквивалент CRF для NVENC
	default:
		return 23 // Стандартный CRF для x264
	}
}

// CheckFilterSupport reports whether the local ffmpeg build has the filter.
func CheckFilterSupport(filter string) bool {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-filters").CombinedOutput()
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == filter {
			return true
		}
	}
	return false
}
