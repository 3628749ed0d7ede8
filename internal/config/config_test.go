package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Shadows.Resolution != 2048 {
		t.Errorf("expected shadow resolution 2048, got %d", cfg.Shadows.Resolution)
	}
	if cfg.Shadows.Cascades != 4 {
		t.Errorf("expected 4 cascades, got %d", cfg.Shadows.Cascades)
	}

	if cfg.Lights.MaxDirectional != 1 {
		t.Errorf("expected 1 directional light, got %d", cfg.Lights.MaxDirectional)
	}
	if cfg.Lights.MaxPoint != 8 {
		t.Errorf("expected 8 point lights, got %d", cfg.Lights.MaxPoint)
	}
	if cfg.Lights.MaxSpot != 4 {
		t.Errorf("expected 4 spot lights, got %d", cfg.Lights.MaxSpot)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "helios.yaml")

	content := `
graphics:
  width: 1920
  height: 1080
  vsync: false
shadows:
  resolution: 1024
  cascades: 3
lights:
  max_point: 16
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile failed: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be overridden to false")
	}
	if cfg.Shadows.Resolution != 1024 {
		t.Errorf("expected shadow resolution 1024, got %d", cfg.Shadows.Resolution)
	}
	if cfg.Shadows.Cascades != 3 {
		t.Errorf("expected 3 cascades, got %d", cfg.Shadows.Cascades)
	}
	if cfg.Lights.MaxPoint != 16 {
		t.Errorf("expected 16 point lights, got %d", cfg.Lights.MaxPoint)
	}
	// Untouched fields keep their defaults.
	if cfg.Lights.MaxSpot != 4 {
		t.Errorf("expected default 4 spot lights, got %d", cfg.Lights.MaxSpot)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "sub", "helios.yaml")

	cfg := Default()
	cfg.Graphics.Width = 800
	cfg.Shadows.Cascades = 2

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile failed: %v", err)
	}

	if loaded.Graphics.Width != 800 {
		t.Errorf("expected saved width 800, got %d", loaded.Graphics.Width)
	}
	if loaded.Shadows.Cascades != 2 {
		t.Errorf("expected saved cascades 2, got %d", loaded.Shadows.Cascades)
	}
}
