package director

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ivlev/loopgen/internal/config"
	"github.com/ivlev/loopgen/internal/system"
)

// GenerateClipPath creates a timestamped clip filename named after the
// background slot of the pattern
func GenerateClipPath(outputDir, pattern string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(outputDir, "clips", fmt.Sprintf("%s_%s.yaml", config.Slot(pattern), timestamp))
}

// FindLatestClip finds the most recent clip file in outputDir/clips
func FindLatestClip(outputDir string) (string, error) {
	clipsDir := filepath.Join(outputDir, "clips")

	latest, err := system.FindLatestFile(clipsDir, ".yaml", ".yml")
	if err != nil {
		return "", fmt.Errorf("no clip files found: %w", err)
	}

	return latest, nil
}
