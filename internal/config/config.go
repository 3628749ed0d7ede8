// Package config handles engine configuration loading and management.
package config

// Config holds all engine settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Shadows  ShadowConfig   `yaml:"shadows"`
	Lights   LightConfig    `yaml:"lights"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// ShadowConfig holds shadow map settings.
// Resolution and Cascades are fixed for the lifetime of the lighting
// stack; changing them requires reconstructing the renderer.
type ShadowConfig struct {
	Resolution int `yaml:"resolution"` // Square shadow map size, power of 2
	Cascades   int `yaml:"cascades"`   // Number of cascade splits (layers = cascades+1)
}

// LightConfig holds per-type light capacities. These size the GPU
// uniform blocks, so they are immutable after startup.
type LightConfig struct {
	MaxDirectional int `yaml:"max_directional"`
	MaxPoint       int `yaml:"max_point"`
	MaxSpot        int `yaml:"max_spot"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Shadows: ShadowConfig{
			Resolution: 2048,
			Cascades:   4,
		},
		Lights: LightConfig{
			MaxDirectional: 1,
			MaxPoint:       8,
			MaxSpot:        4,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
