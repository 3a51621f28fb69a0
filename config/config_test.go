package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate_Clamps(t *testing.T) {
	c := &Config{CropW: 20, CropH: 500, Facing: "sideways", JPEGQuality: 400, OutputFormat: "JPG", VideoRotation: 45}
	_ = c.Validate()
	if c.CropW != 300 || c.CropH != 300 || c.CropMinSize != 100 || c.CornerHitSize != 30 {
		t.Fatalf("crop defaults not restored: %+v", c)
	}
	if c.Facing != "back" || c.JPEGQuality != 90 || c.OutputFormat != "jpeg" || c.VideoRotation != 0 {
		t.Fatalf("clamp failed: %+v", c)
	}
	if c.PhotoPollIntervalMs != 100 || c.PhotoPollAttempts != 10 || c.RecordingsDir == "" {
		t.Fatalf("capture defaults missing: %+v", c)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("missing file should give defaults: %v", err)
	}
	cfg.CropX, cfg.CropW = 10, 180
	cfg.Facing = "front"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.CropX != 10 || got.CropW != 180 || got.Facing != "front" {
		t.Fatalf("round trip lost values: %+v", got)
	}
}

func TestLoad_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err == nil || cfg == nil {
		t.Fatalf("expected defaults with error, got cfg=%v err=%v", cfg, err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"SNAPCROP_DEBUG":         "true",
		"SNAPCROP_FACING":        "FRONT",
		"SNAPCROP_JPEG_QUALITY":  "75",
		"SNAPCROP_FRAME_RATE":    "not-a-number",
		"SNAPCROP_OLLAMA_URL":    "http://gpu:11434",
		"SNAPCROP_OUTPUT_FORMAT": "webp",
	}
	cfg := DefaultConfig()
	cfg.ApplyEnv(func(k string) (string, bool) { v, ok := env[k]; return v, ok })
	if !cfg.Debug || cfg.Facing != "front" || cfg.JPEGQuality != 75 || cfg.FrameRate != 15 {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.OllamaURL != "http://gpu:11434" || cfg.OutputFormat != "webp" {
		t.Fatalf("env strings not applied: %+v", cfg)
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SNAPCROP_TEST_ONLY_PROMPT=hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("SNAPCROP_TEST_ONLY_PROMPT") })
	if err := LoadEnvFiles(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if os.Getenv("SNAPCROP_TEST_ONLY_PROMPT") != "hello" {
		t.Fatalf("env file not loaded")
	}
}
