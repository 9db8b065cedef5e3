// Package source reads rendered frame sequences back from disk: the preview
// frames written by the renderer or a sequence rendered by the scene
// collaborator from a clip.
package source

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

var frameExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
}

// Sequence is an ordered list of frame files. Frame names sort in render
// order (frame_0001.png, 0001.tif and so on).
type Sequence struct {
	paths []string
}

func NewSequence(path string) (*Sequence, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && frameExts[strings.ToLower(filepath.Ext(entry.Name()))] {
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
	} else {
		paths = []string{path}
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("кадры не найдены в %s", path)
	}

	return &Sequence{paths: paths}, nil
}

func (s *Sequence) Len() int {
	return len(s.paths)
}

func (s *Sequence) Path(index int) string {
	return s.paths[index]
}

// Dimensions reads the size of one frame without decoding it.
func (s *Sequence) Dimensions(index int) (int, int, error) {
	f, err := os.Open(s.paths[index])
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", s.paths[index], err)
	}
	return cfg.Width, cfg.Height, nil
}

// Frame decodes frame index; the signature matches analyzer.FrameFunc.
func (s *Sequence) Frame(index int) (image.Image, error) {
	if index < 0 || index >= len(s.paths) {
		return nil, fmt.Errorf("кадр %d вне последовательности из %d", index, len(s.paths))
	}

	f, err := os.Open(s.paths[index])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.paths[index], err)
	}
	return img, nil
}
