package config

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Pattern names accepted in Config.Pattern.
const (
	PatternHexGrid = "hexgrid"
	PatternOrigami = "origami"
	PatternStream  = "stream"
	PatternRings   = "rings"
)

type Config struct {
	Pattern string        `yaml:"pattern"`
	Window  WindowConfig  `yaml:"window"`
	Render  RenderConfig  `yaml:"render"`
	HexGrid HexGridConfig `yaml:"hexgrid"`
	Origami OrigamiConfig `yaml:"origami"`
	Stream  StreamConfig  `yaml:"stream"`
	Rings   RingsConfig   `yaml:"rings"`

	Workers      int    `yaml:"workers"`
	ShowStats    bool   `yaml:"show_stats"`
	BuildVersion string `yaml:"-"`
}

// WindowConfig is the raw Loop Window; loop.New validates it.
type WindowConfig struct {
	FrameStart int `yaml:"frame_start"`
	FrameEnd   int `yaml:"frame_end"`
	FPS        int `yaml:"fps"`
}

// RenderConfig is caller-level output configuration. The kernel never reads it.
type RenderConfig struct {
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	Preset       string `yaml:"preset"`
	OutputDir    string `yaml:"output_dir"`
	ClipPath     string `yaml:"clip_path"`
	Preview      bool   `yaml:"preview"`
	PreviewScale int    `yaml:"preview_scale"` // divides Width/Height for preview frames
	PreviewFPS   int    `yaml:"preview_fps"`   // 0 renders at the window rate
	Stamp        bool   `yaml:"stamp"`         // QR provenance stamp on preview frames
	Detector     string `yaml:"detector"`      // seam detector: luma, edge
	Repeats      int    `yaml:"repeats"`       // loop repetitions in the encoded preview
	VideoEncoder string `yaml:"video_encoder"`
	Quality      int    `yaml:"quality"`
}

type HexGridConfig struct {
	GridSize         int     `yaml:"grid_size"`
	Radius           float64 `yaml:"radius"`
	PhaseFactor      float64 `yaml:"phase_factor"`
	WaveAmplitude    float64 `yaml:"wave_amplitude"`
	PulseAmplitude   float64 `yaml:"pulse_amplitude"`
	AngularFrequency float64 `yaml:"angular_frequency"`
	Material         string  `yaml:"material"`
}

type OrigamiConfig struct {
	NumPlanes      int     `yaml:"num_planes"`
	PlaneSize      float64 `yaml:"plane_size"`
	PhaseStep      float64 `yaml:"phase_step"`
	MaxAngleDeg    float64 `yaml:"max_angle_deg"`
	PulseAmplitude float64 `yaml:"pulse_amplitude"`
	Material       string  `yaml:"material"`
}

type StreamConfig struct {
	Seed               *int64   `yaml:"seed"`
	NumStreams         int      `yaml:"num_streams"`
	ParticlesPerStream int      `yaml:"particles_per_stream"`
	Spread             float64  `yaml:"spread"`
	UnitSpacing        float64  `yaml:"unit_spacing"`
	TravelSpan         float64  `yaml:"travel_span"`
	MinSpeed           float64  `yaml:"min_speed"`
	MaxSpeed           float64  `yaml:"max_speed"`
	SpinPerUnit        float64  `yaml:"spin_per_unit"`
	ParticleSize       float64  `yaml:"particle_size"`
	FadeDistance       float64  `yaml:"fade_distance"` // width of the fade around the wrap point
	LoopLock           bool     `yaml:"loop_lock"`
	Materials          []string `yaml:"materials,flow"`
}

type RingsConfig struct {
	NumRings       int      `yaml:"num_rings"`
	Spacing        float64  `yaml:"spacing"`
	Speed          float64  `yaml:"speed"`
	PhaseStep      float64  `yaml:"phase_step"`
	PulseAmplitude float64  `yaml:"pulse_amplitude"`
	Spin           float64  `yaml:"spin"`
	MajorRadius    float64  `yaml:"major_radius"`
	MinorRadius    float64  `yaml:"minor_radius"`
	Materials      []string `yaml:"materials,flow"`
}

// Default returns the settings the background loops were tuned with:
// 1080x1920, 30 fps, frames 1-240.
func Default() Config {
	seed := int64(42)
	return Config{
		Pattern: PatternHexGrid,
		Window:  WindowConfig{FrameStart: 1, FrameEnd: 240, FPS: 30},
		Render: RenderConfig{
			Width:        1080,
			Height:       1920,
			Preset:       "9:16",
			OutputDir:    "output",
			PreviewScale: 4,
			Detector:     "luma",
			Repeats:      2,
			VideoEncoder: "libx264",
			Quality:      23,
		},
		HexGrid: HexGridConfig{
			GridSize:         3,
			Radius:           0.8,
			PhaseFactor:      0.3,
			WaveAmplitude:    0.3,
			PulseAmplitude:   0.15,
			AngularFrequency: math.Pi,
			Material:         "hex_mint_peach",
		},
		Origami: OrigamiConfig{
			NumPlanes:      6,
			PlaneSize:      3,
			PhaseStep:      0.5,
			MaxAngleDeg:    45,
			PulseAmplitude: 0.1,
			Material:       "origami_lavender",
		},
		Stream: StreamConfig{
			Seed:               &seed,
			NumStreams:         8,
			ParticlesPerStream: 12,
			Spread:             6,
			UnitSpacing:        1,
			TravelSpan:         20,
			MinSpeed:           5,
			MaxSpeed:           10,
			SpinPerUnit:        2 * math.Pi / 10,
			ParticleSize:       0.15,
			FadeDistance:       1,
			Materials:          []string{"glow_cyan", "glow_magenta"},
		},
		Rings: RingsConfig{
			NumRings:       10,
			Spacing:        2,
			Speed:          3,
			PhaseStep:      0.4,
			PulseAmplitude: 0.3,
			Spin:           0.5,
			MajorRadius:    2,
			MinorRadius:    0.1,
			Materials:      []string{"energy_ring_purple_teal"},
		},
		Workers: 4,
	}
}

// Load reads a YAML config on top of Default. Fields missing from the file
// keep their default values, except stream.seed: a file must name its seed.
func Load(path string) (Config, error) {
	cfg := Default()
	cfg.Stream.Seed = nil

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Field: path, Reason: err.Error()}
	}

	return cfg, nil
}

// Save writes cfg as YAML.
func Save(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyPreset overrides the output resolution for a known aspect preset.
// Unknown presets leave the resolution untouched and report false.
func (r *RenderConfig) ApplyPreset(preset string) bool {
	switch preset {
	case "9:16":
		r.Width, r.Height = 1080, 1920
	case "16:9":
		r.Width, r.Height = 1920, 1080
	case "4:5":
		r.Width, r.Height = 1080, 1350
	default:
		return false
	}
	r.Preset = preset
	return true
}

// Slot returns the background slot name used for output files.
func Slot(pattern string) string {
	switch pattern {
	case PatternHexGrid:
		return "01_expanding_hexagon_grid"
	case PatternOrigami:
		return "03_origami_fold_cycle"
	case PatternStream:
		return "05_holographic_data_stream"
	case PatternRings:
		return "06_pulsing_energy_rings"
	}
	return pattern
}
