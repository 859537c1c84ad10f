package ffmpeg

import (
	"context"
	"fmt"
	"strings"

	"github.com/shortforge/shortforge/internal/media"
)

// MixAudio combines the narration track (reference gain) with the music
// bed (attenuated, trimmed to the narration length) and muxes the result
// with the captioned video stream. -shortest truncates to the shorter
// stream as a safety net; by construction both match the narration.
func (e *Executor) MixAudio(ctx context.Context, opts media.MixOptions) error {
	if opts.Video == "" || opts.Narration == "" || opts.Music == "" {
		return fmt.Errorf("video, narration and music paths are required")
	}
	if opts.Output == "" {
		return fmt.Errorf("output path is required")
	}

	e.logger.Info().
		Str("video", opts.Video).
		Str("narration", opts.Narration).
		Str("music", opts.Music).
		Float64("music_gain", opts.MusicGain).
		Msg("mixing final audio")

	args := []string{
		"-i", opts.Video,
		"-i", opts.Narration,
	}
	if opts.LoopMusic {
		args = append(args, "-stream_loop", "-1")
	}
	args = append(args, "-i", opts.Music)

	args = append(args,
		"-filter_complex", mixFilter(opts),
		"-map", "0:v:0",
		"-map", "[aout]",
		"-c:v", "copy",
		"-c:a", DefaultAudioCodec,
		"-b:a", "192k",
		"-shortest",
		opts.Output,
	)

	if err := e.run(ctx, runOptions{Args: args, LogHandler: e.debugLogger("mix")}); err != nil {
		return fmt.Errorf("audio mix failed: %w", err)
	}
	return nil
}

// mixFilter builds the complex filter graph for the narration/music mix.
// amix rescales inputs by default, which would pull the narration below its
// reference level; normalize=0 keeps the per-input volume terms authoritative.
func mixFilter(opts media.MixOptions) string {
	parts := []string{
		"[1:a]volume=1.0[voice]",
		fmt.Sprintf("[2:a]volume=%.3f,atrim=duration=%.3f[bgm]", opts.MusicGain, opts.Duration),
		"[voice][bgm]amix=inputs=2:duration=shortest:dropout_transition=0:normalize=0[aout]",
	}
	return strings.Join(parts, ";")
}

// Silence synthesizes a silent stereo track of the given duration. Used as
// the deterministic fallback for unreachable TTS and missing music.
func (e *Executor) Silence(ctx context.Context, output string, duration float64) error {
	if duration <= 0 {
		return fmt.Errorf("invalid silence duration: %f", duration)
	}

	e.logger.Info().
		Str("output", output).
		Float64("duration", duration).
		Msg("synthesizing silence")

	args := []string{
		"-f", "lavfi",
		"-i", fmt.Sprintf("anullsrc=r=%d:cl=stereo:d=%.3f", DefaultAudioRate, duration),
		"-c:a", "libmp3lame",
		"-q:a", "2",
		output,
	}

	if err := e.run(ctx, runOptions{Args: args, LogHandler: e.debugLogger("silence")}); err != nil {
		return fmt.Errorf("silence synthesis failed: %w", err)
	}
	return nil
}
