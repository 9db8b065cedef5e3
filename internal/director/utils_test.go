package director

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ivlev/loopgen/internal/config"
)

func TestGenerateClipPath(t *testing.T) {
	path := GenerateClipPath("output", config.PatternRings)

	if !strings.Contains(path, "06_pulsing_energy_rings_") {
		t.Errorf("Path should contain the slot name: %s", path)
	}

	if filepath.Dir(path) != filepath.Join("output", "clips") {
		t.Errorf("Path should be in output/clips: %s", path)
	}

	if filepath.Ext(path) != ".yaml" {
		t.Errorf("Path should end in .yaml: %s", path)
	}

	t.Logf("Generated path: %s", path)
}

func TestFindLatestClip(t *testing.T) {
	outputDir := t.TempDir()
	testDir := filepath.Join(outputDir, "clips")
	if err := os.MkdirAll(testDir, 0755); err != nil {
		t.Fatal(err)
	}

	// Create test files with different timestamps
	files := []string{
		filepath.Join(testDir, "01_expanding_hexagon_grid_2026-02-12_10-00-00.yaml"),
		filepath.Join(testDir, "03_origami_fold_cycle_2026-02-13_01-00-00.yaml"),
		filepath.Join(testDir, "05_holographic_data_stream_2026-02-11_15-30-00.yaml"),
	}

	for i, f := range files {
		if err := os.WriteFile(f, []byte("version: \"1.0\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(f, modTime, modTime)
	}
	os.WriteFile(filepath.Join(testDir, "notes.txt"), []byte("skip"), 0644)

	latest, err := FindLatestClip(outputDir)
	if err != nil {
		t.Fatalf("FindLatestClip failed: %v", err)
	}

	t.Logf("Latest clip: %s", latest)

	// Should be the last file (most recent mod time)
	if latest != files[len(files)-1] {
		t.Errorf("Expected latest to be %s, got %s", files[len(files)-1], latest)
	}
}

func TestFindLatestClipEmpty(t *testing.T) {
	if _, err := FindLatestClip(t.TempDir()); err == nil {
		t.Error("Expected an error for a missing clips directory")
	}
}
