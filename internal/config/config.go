package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ironsheep/clockread/internal/imaging"
)

// Environment variables read by ApplyEnv.
const (
	EnvCorpusDir  = "CLOCKREAD_CORPUS_DIR"
	EnvResultsDir = "CLOCKREAD_RESULTS_DIR"
	EnvWorkers    = "CLOCKREAD_WORKERS"
	EnvLogLevel   = "CLOCKREAD_LOG_LEVEL"
)

// Config holds the application configuration
type Config struct {
	Detection  DetectionConfig  `json:"detection"`
	Evaluation EvaluationConfig `json:"evaluation"`
	Verbose    bool             `json:"verbose"`
}

// DetectionConfig holds configuration for reading a single clock image
type DetectionConfig struct {
	// AngleStepDeg is the sweep increment of the radial scan.
	AngleStepDeg float64 `json:"angle_step_deg"`

	// MinRadiusPx and MaxRadiusPx bound the scanned radius. MaxRadiusPx 0
	// means half of the shorter image side.
	MinRadiusPx int `json:"min_radius_px"`
	MaxRadiusPx int `json:"max_radius_px"`

	MinSeparationDeg float64 `json:"min_separation_deg"`

	// HandColor is the silhouette color of the hands after thresholding.
	HandColor    string `json:"hand_color"`
	OverlayColor string `json:"overlay_color"`

	ThresholdLevel uint8   `json:"threshold_level"`
	DarkHands      bool    `json:"dark_hands"`
	BlurRadius     float64 `json:"blur_radius"`

	// Center of the dial. The image center when nil.
	Center *imaging.Point `json:"center,omitempty"`

	// CenterCropPx is the side of the square debug crop around the center.
	CenterCropPx int `json:"center_crop_px"`
}

// EvaluationConfig holds configuration for corpus evaluation
type EvaluationConfig struct {
	CorpusDir  string `json:"corpus_dir"`
	ResultsDir string `json:"results_dir"`
	StepsDir   string `json:"steps_dir"`
	ImageExt   string `json:"image_ext"`

	// FailThresholdSeconds decides the success flag of each result.
	FailThresholdSeconds float64 `json:"fail_threshold_seconds"`

	// AccuracyThresholds are the report rows, in seconds.
	AccuracyThresholds []float64 `json:"accuracy_thresholds"`

	// Workers is the pool size. 0 means one per CPU.
	Workers int `json:"workers"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Detection: DetectionConfig{
			AngleStepDeg:     1,
			MinRadiusPx:      10,
			MaxRadiusPx:      0,
			MinSeparationDeg: 30,
			HandColor:        "#ffffff",
			OverlayColor:     "#ff0000",
			ThresholdLevel:   128,
			DarkHands:        true,
			BlurRadius:       0,
			CenterCropPx:     300,
		},
		Evaluation: EvaluationConfig{
			CorpusDir:            filepath.Join("files", "images"),
			ResultsDir:           filepath.Join("files", "results", "final"),
			StepsDir:             filepath.Join("files", "results", "steps"),
			ImageExt:             "bmp",
			FailThresholdSeconds: 1.0,
			AccuracyThresholds:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			Workers:              0,
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Fields missing from the
// file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides configuration values from the environment.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvCorpusDir); v != "" {
		c.Evaluation.CorpusDir = v
	}
	if v := os.Getenv(EnvResultsDir); v != "" {
		c.Evaluation.ResultsDir = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Evaluation.Workers = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Verbose = strings.EqualFold(v, "debug")
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Detection.Validate(); err != nil {
		return err
	}

	e := c.Evaluation
	if e.CorpusDir == "" || e.ResultsDir == "" || e.StepsDir == "" {
		return fmt.Errorf("evaluation directories cannot be empty")
	}

	if !imaging.SupportedExtension(e.ImageExt) {
		return fmt.Errorf("evaluation.image_ext %q is not a supported image format", e.ImageExt)
	}

	if e.FailThresholdSeconds < 0 {
		return fmt.Errorf("evaluation.fail_threshold_seconds must not be negative")
	}

	if len(e.AccuracyThresholds) == 0 {
		return fmt.Errorf("evaluation.accuracy_thresholds cannot be empty")
	}
	for _, t := range e.AccuracyThresholds {
		if t < 0 {
			return fmt.Errorf("evaluation.accuracy_thresholds must not be negative")
		}
	}

	if e.Workers < 0 {
		return fmt.Errorf("evaluation.workers must not be negative")
	}

	return nil
}

// Validate checks if the detection configuration is valid
func (d DetectionConfig) Validate() error {
	if d.AngleStepDeg <= 0 || d.AngleStepDeg > 360 {
		return fmt.Errorf("detection.angle_step_deg must be in (0, 360]")
	}

	if d.MinRadiusPx < 0 {
		return fmt.Errorf("detection.min_radius_px must not be negative")
	}

	if d.MaxRadiusPx != 0 && d.MaxRadiusPx <= d.MinRadiusPx {
		return fmt.Errorf("detection.max_radius_px must be greater than min_radius_px")
	}

	if d.MinSeparationDeg < 0 || d.MinSeparationDeg > 120 {
		return fmt.Errorf("detection.min_separation_deg must be between 0 and 120")
	}

	if _, err := imaging.ParseColor(d.HandColor); err != nil {
		return fmt.Errorf("detection.hand_color: %w", err)
	}

	if _, err := imaging.ParseColor(d.OverlayColor); err != nil {
		return fmt.Errorf("detection.overlay_color: %w", err)
	}

	if d.BlurRadius < 0 {
		return fmt.Errorf("detection.blur_radius must not be negative")
	}

	if d.CenterCropPx < 1 {
		return fmt.Errorf("detection.center_crop_px must be positive")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./clockread.json"
	}
	return filepath.Join(home, ".config", "clockread", "config.json")
}
