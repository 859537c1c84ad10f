package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shortforge/shortforge/internal/media"
)

func TestCanvasFilter(t *testing.T) {
	canvas := media.Canvas{Width: 1080, Height: 1920, FPS: 30, PixelFormat: "yuv420p"}
	assert.Equal(t,
		"scale=1080:1920:force_original_aspect_ratio=increase,crop=1080:1920,fps=30,format=yuv420p",
		canvasFilter(canvas))
}

func TestCanvasFilterWithoutPixelFormat(t *testing.T) {
	canvas := media.Canvas{Width: 720, Height: 1280, FPS: 24}
	assert.Equal(t,
		"scale=720:1280:force_original_aspect_ratio=increase,crop=720:1280,fps=24",
		canvasFilter(canvas))
}

func TestEscapeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"single quote", "it's fine", `it'\''s fine`},
		{"many quotes", "don't say 'hi'", `don'\''t say '\''hi'\''`},
		{"colon", "note: this", `note\: this`},
		{"percent", "100% true", `100\% true`},
		{"backslash", `a\b`, `a\\b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeText(tt.in))
		})
	}
}

func TestDrawTextFilter(t *testing.T) {
	cue := media.Cue{Text: "Hello world.", Start: 3, End: 6}
	f := drawTextFilter(cue, media.TextStyle{FontSize: 64, FontColor: "white"})

	assert.Contains(t, f, "drawtext=text='Hello world.'")
	assert.Contains(t, f, "fontsize=64")
	assert.Contains(t, f, "enable='between(t,3.000,6.000)'")
	assert.Contains(t, f, "x=(w-text_w)/2")
}

func TestDrawTextFilterDefaults(t *testing.T) {
	f := drawTextFilter(media.Cue{Text: "x", End: 1}, media.TextStyle{})
	assert.Contains(t, f, "fontsize=64")
	assert.Contains(t, f, "fontcolor=white")
	assert.Contains(t, f, "bordercolor=black")
}

func TestMixFilter(t *testing.T) {
	f := mixFilter(media.MixOptions{MusicGain: 0.18, Duration: 20})

	assert.Contains(t, f, "[1:a]volume=1.0[voice]")
	assert.Contains(t, f, "[2:a]volume=0.180,atrim=duration=20.000[bgm]")
	assert.Contains(t, f, "amix=inputs=2:duration=shortest:dropout_transition=0:normalize=0")
}
