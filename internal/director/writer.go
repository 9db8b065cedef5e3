package director

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WriteClip writes a clip to a YAML file, creating its directory
func WriteClip(clip *Clip, path string) error {
	data, err := yaml.Marshal(clip)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadClip reads a clip from a YAML file
func ReadClip(path string) (*Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var clip Clip
	if err := yaml.Unmarshal(data, &clip); err != nil {
		return nil, err
	}

	if clip.Version != ClipVersion {
		return nil, fmt.Errorf("%s: unsupported clip version %q", path, clip.Version)
	}

	return &clip, nil
}
