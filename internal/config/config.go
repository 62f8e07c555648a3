// Package config handles application configuration loading and management.
package config

import (
	"github.com/Faultbox/mirrorbox/internal/engine/growth"
	"github.com/Faultbox/mirrorbox/internal/engine/mirror"
)

// Config holds all application settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Chamber  ChamberConfig  `yaml:"chamber"`
	Growth   growth.Config  `yaml:"growth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// ChamberConfig holds the mirrored enclosure settings. The mode fields
// are parsed by the mirror engine ("none", "camera_facing", "all" and
// "skip_first", "all_bounces").
type ChamberConfig struct {
	Size  float32 `yaml:"size"`
	Color string  `yaml:"color"` // #RRGGBB wall tint
	Inset float32 `yaml:"inset"`

	Resolution ResolutionConfig `yaml:"resolution"` // capture surface size

	Enabled           bool    `yaml:"enabled"`
	MaxBounces        int     `yaml:"max_bounces"`
	BounceAttenuation float32 `yaml:"bounce_attenuation"`
	AttenuationMode   string  `yaml:"attenuation_mode"`
	ReflectionMode    string  `yaml:"reflection_mode"`
	FacesPerFrame     int     `yaml:"faces_per_frame"`
	ShowShell         bool    `yaml:"show_shell"`

	Distortion mirror.DistortionParams `yaml:"distortion"`
}

// ResolutionConfig is a width/height pair.
type ResolutionConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
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
		Chamber: ChamberConfig{
			Size:  4.0,
			Color: "#e8e8f0",
			Inset: 0.02,
			Resolution: ResolutionConfig{
				Width:  512,
				Height: 512,
			},
			Enabled:           true,
			MaxBounces:        3,
			BounceAttenuation: 0.72,
			AttenuationMode:   "skip_first",
			ReflectionMode:    "all",
			FacesPerFrame:     2,
			ShowShell:         true,
			Distortion: mirror.DistortionParams{
				Amount: 0.004,
				Scale:  3.0,
				Speed:  0.6,
			},
		},
		Growth: growth.DefaultConfig(),
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
