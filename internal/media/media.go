package media

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

// Kind classifies an input asset by its container type.
type Kind int

const (
	KindUnknown Kind = iota
	KindVideo
	KindImage
)

var videoExts = map[string]bool{".mp4": true, ".mov": true, ".avi": true}
var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// DetectKind classifies a file by extension alone.
func DetectKind(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case videoExts[ext]:
		return KindVideo
	case imageExts[ext]:
		return KindImage
	default:
		return KindUnknown
	}
}

// Asset is an input clip or still image supplied by the asset-acquisition
// collaborator. Read-only to the pipeline.
type Asset struct {
	Path string
	Kind Kind
}

// NewAsset builds an Asset, classifying it by extension.
func NewAsset(path string) Asset {
	return Asset{Path: path, Kind: DetectKind(path)}
}

// Canvas is the fixed output frame every normalized clip conforms to.
type Canvas struct {
	Width       int
	Height      int
	FPS         int
	PixelFormat string
}

// Cue is a caption with an enable window [Start, End) in seconds relative
// to the start of the composed video.
type Cue struct {
	Text  string
	Start float64
	End   float64
}

// TextStyle configures caption burn-in rendering.
type TextStyle struct {
	FontSize     int
	FontColor    string
	BorderColor  string
	BorderWidth  int
	BoxedBGColor string
}

// MixOptions configures the final narration/music mix and mux.
type MixOptions struct {
	Video     string
	Narration string
	Music     string
	Output    string
	// MusicGain is linear (1.0 = reference level).
	MusicGain float64
	// Duration hard-trims the music bed before mixing.
	Duration float64
	// LoopMusic repeats short music so the bed covers the full duration.
	LoopMusic bool
}

// ErrProbe marks failures to read media metadata. Callers branch on it
// with errors.Is.
var ErrProbe = errors.New("media probe failed")

// Engine is the capability boundary to the external transcoding engine.
// Any implementation satisfying these operations is acceptable; each call
// blocks until the underlying operation finishes.
type Engine interface {
	// Probe returns the duration of a media file in fractional seconds.
	Probe(ctx context.Context, path string) (float64, error)

	// NormalizeVideo scale-crops a video to the canvas and strips audio.
	NormalizeVideo(ctx context.Context, input, output string, canvas Canvas) error

	// NormalizeImage turns a still image into a fixed-duration canvas clip.
	NormalizeImage(ctx context.Context, input, output string, canvas Canvas, hold float64) error

	// Concat losslessly joins segments that share codec parameters.
	Concat(ctx context.Context, inputs []string, output string) error

	// Trim cuts a file to the given duration by stream copy.
	Trim(ctx context.Context, input, output string, duration float64) error

	// DrawText burns caption cues into the video pixels.
	DrawText(ctx context.Context, input, output string, cues []Cue, style TextStyle) error

	// MixAudio mixes narration and music and muxes with the video stream.
	MixAudio(ctx context.Context, opts MixOptions) error

	// Silence synthesizes a silent audio track of the given duration.
	Silence(ctx context.Context, output string, duration float64) error
}
