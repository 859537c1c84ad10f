package config

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// OutputDir is where finished videos and side-files land.
	OutputDir string `yaml:"output_dir"`

	Video    VideoConfig   `yaml:"video"`
	TTS      TTSConfig     `yaml:"tts"`
	Music    MusicConfig   `yaml:"music"`
	Captions CaptionConfig `yaml:"captions"`
	FFmpeg   FFmpegConfig  `yaml:"ffmpeg"`
	Script   ScriptConfig  `yaml:"script"`
	Stock    StockConfig   `yaml:"stock"`
}

// VideoConfig fixes the output canvas.
type VideoConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	FPS         int     `yaml:"fps"`
	PixelFormat string  `yaml:"pixel_format"`
	ImageHold   float64 `yaml:"image_hold_seconds"`
}

// TTSConfig configures the speech-synthesis collaborator.
type TTSConfig struct {
	Voice      string `yaml:"voice"`
	ChunkLimit int    `yaml:"chunk_limit"`
	// Fallback estimation when synthesis is unreachable.
	WordsPerMinute  int     `yaml:"words_per_minute"`
	CharsPerWord    int     `yaml:"chars_per_word"`
	MinFallbackSecs float64 `yaml:"min_fallback_seconds"`
	MaxFallbackSecs float64 `yaml:"max_fallback_seconds"`
}

// MusicConfig configures background-music resolution.
type MusicConfig struct {
	Dir          string   `yaml:"dir"`
	FallbackURLs []string `yaml:"fallback_urls"`
	// Gain is linear; 0.18 is roughly -15 dB under the narration.
	Gain float64 `yaml:"gain"`
}

// CaptionConfig configures the burned-in overlays.
type CaptionConfig struct {
	Intro     string `yaml:"intro"`
	Outro     string `yaml:"outro"`
	FontSize  int    `yaml:"font_size"`
	FontColor string `yaml:"font_color"`
}

type FFmpegConfig struct {
	Threads int    `yaml:"threads"`
	Preset  string `yaml:"preset"`
}

// ScriptConfig configures the LLM script generator.
type ScriptConfig struct {
	Model string `yaml:"model"`
}

// StockConfig configures stock-footage search.
type StockConfig struct {
	PerPage     int    `yaml:"per_page"`
	Orientation string `yaml:"orientation"`
	DownloadDir string `yaml:"download_dir"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	return &Config{
		OutputDir: "./output",
		Video: VideoConfig{
			Width:       1080,
			Height:      1920,
			FPS:         30,
			PixelFormat: "yuv420p",
			ImageHold:   5,
		},
		TTS: TTSConfig{
			Voice:           "aura-asteria-en",
			ChunkLimit:      200,
			WordsPerMinute:  150,
			CharsPerWord:    3,
			MinFallbackSecs: 10,
			MaxFallbackSecs: 45,
		},
		Music: MusicConfig{
			Dir:  "./music",
			Gain: 0.18,
		},
		Captions: CaptionConfig{
			Intro:     "Wait for it...",
			Outro:     "Follow for more!",
			FontSize:  64,
			FontColor: "white",
		},
		FFmpeg: FFmpegConfig{
			Threads: 0,
			Preset:  "fast",
		},
		Script: ScriptConfig{
			Model: "gpt-4o-mini",
		},
		Stock: StockConfig{
			PerPage:     5,
			Orientation: "portrait",
			DownloadDir: "./assets",
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./shortforge.yaml",
		"./shortforge.yml",
		filepath.Join(os.Getenv("HOME"), ".shortforge", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
