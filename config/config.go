package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const appName = "snapcrop"

// EnvPrefix prefixes every environment override, e.g. SNAPCROP_DEBUG.
const EnvPrefix = "SNAPCROP_"

// Config holds runtime configuration for capture, cropping and inference.
// Fields may be loaded from a JSON file and overridden from the environment.
type Config struct {
	Debug    bool   `json:"debug"`
	LogFile  string `json:"log_file"`
	DarkMode bool   `json:"dark_mode"`

	// Crop box in preview coordinates
	CropX         float64 `json:"crop_x"`
	CropY         float64 `json:"crop_y"`
	CropW         float64 `json:"crop_w"`
	CropH         float64 `json:"crop_h"`
	CropMinSize   float64 `json:"crop_min_size"`
	CornerHitSize float64 `json:"corner_hit_size"`
	ViewWidth     int     `json:"view_width"`
	ViewHeight    int     `json:"view_height"`

	// Capture
	Facing              string `json:"facing"`
	MirrorFront         bool   `json:"mirror_front"`
	VideoRotation       int    `json:"video_rotation"`
	FrameRate           int    `json:"frame_rate"`
	PhotoPollIntervalMs int    `json:"photo_poll_interval_ms"`
	PhotoPollAttempts   int    `json:"photo_poll_attempts"`
	JPEGQuality         int    `json:"jpeg_quality"`
	OutputFormat        string `json:"output_format"`
	RecordingsDir       string `json:"recordings_dir"`
	SaveCrops           bool   `json:"save_crops"`
	AuthNode            string `json:"auth_node"`

	// Inference
	OllamaURL               string `json:"ollama_url"`
	OllamaModel             string `json:"ollama_model"`
	Prompt                  string `json:"prompt"`
	InferenceTimeoutSeconds int    `json:"inference_timeout_seconds"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:                   false,
		CropX:                   50,
		CropY:                   50,
		CropW:                   300,
		CropH:                   300,
		CropMinSize:             100,
		CornerHitSize:           30,
		ViewWidth:               640,
		ViewHeight:              480,
		Facing:                  "back",
		MirrorFront:             true,
		VideoRotation:           0,
		FrameRate:               15,
		PhotoPollIntervalMs:     100,
		PhotoPollAttempts:       10,
		JPEGQuality:             90,
		OutputFormat:            "jpeg",
		RecordingsDir:           DefaultRecordingsDir(),
		OllamaModel:             "llava",
		Prompt:                  "Describe what is in this image.",
		InferenceTimeoutSeconds: 120,
	}
}

// DefaultPath is the config file location under the XDG config home.
func DefaultPath() string { return filepath.Join(xdg.ConfigHome, appName, "config.json") }

// DefaultRecordingsDir is where recordings go unless configured.
func DefaultRecordingsDir() string { return filepath.Join(xdg.DataHome, appName, "recordings") }

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.CropMinSize <= 0 {
		c.CropMinSize = 100
	}
	if c.CornerHitSize <= 0 {
		c.CornerHitSize = 30
	}
	if c.CropW < c.CropMinSize || c.CropH < c.CropMinSize {
		c.CropX, c.CropY, c.CropW, c.CropH = 50, 50, 300, 300
	}
	if c.ViewWidth < 160 {
		c.ViewWidth = 640
	}
	if c.ViewHeight < 120 {
		c.ViewHeight = 480
	}
	switch strings.ToLower(c.Facing) {
	case "front", "back":
		c.Facing = strings.ToLower(c.Facing)
	default:
		c.Facing = "back"
	}
	if c.VideoRotation%90 != 0 {
		c.VideoRotation = 0
	}
	if c.FrameRate <= 0 || c.FrameRate > 60 {
		c.FrameRate = 15
	}
	if c.PhotoPollIntervalMs <= 0 {
		c.PhotoPollIntervalMs = 100
	}
	if c.PhotoPollAttempts <= 0 {
		c.PhotoPollAttempts = 10
	}
	if c.JPEGQuality <= 0 || c.JPEGQuality > 100 {
		c.JPEGQuality = 90
	}
	switch strings.ToLower(c.OutputFormat) {
	case "jpeg", "jpg":
		c.OutputFormat = "jpeg"
	case "webp":
		c.OutputFormat = "webp"
	default:
		c.OutputFormat = "jpeg"
	}
	if c.RecordingsDir == "" {
		c.RecordingsDir = DefaultRecordingsDir()
	}
	if c.InferenceTimeoutSeconds <= 0 {
		c.InferenceTimeoutSeconds = 120
	}
	return nil
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return cfg, err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// LoadEnvFiles loads KEY=value pairs from the given .env files into the
// process environment without overriding variables already set. Missing
// files are skipped.
func LoadEnvFiles(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overrides fields from SNAPCROP_* variables, then re-validates.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				*dst = n
			}
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := lookup(EnvPrefix + key); ok {
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				*dst = b
			}
		}
	}
	flag("DEBUG", &c.Debug)
	flag("DARK_MODE", &c.DarkMode)
	str("LOG_FILE", &c.LogFile)
	str("FACING", &c.Facing)
	flag("MIRROR_FRONT", &c.MirrorFront)
	num("FRAME_RATE", &c.FrameRate)
	num("JPEG_QUALITY", &c.JPEGQuality)
	str("OUTPUT_FORMAT", &c.OutputFormat)
	str("RECORDINGS_DIR", &c.RecordingsDir)
	flag("SAVE_CROPS", &c.SaveCrops)
	str("AUTH_NODE", &c.AuthNode)
	str("OLLAMA_URL", &c.OllamaURL)
	str("OLLAMA_MODEL", &c.OllamaModel)
	str("PROMPT", &c.Prompt)
	num("INFERENCE_TIMEOUT_SECONDS", &c.InferenceTimeoutSeconds)
	_ = c.Validate()
}
