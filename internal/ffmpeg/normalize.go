package ffmpeg

import (
	"context"
	"fmt"
	"strings"

	"github.com/shortforge/shortforge/internal/media"
)

// canvasFilter builds the fill-then-crop chain: scale so the smaller side
// fills the canvas, center-crop the overflow, lock frame rate and pixel
// format. Cropping over padding guarantees a full-bleed vertical frame.
func canvasFilter(canvas media.Canvas) string {
	filters := []string{
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase", canvas.Width, canvas.Height),
		fmt.Sprintf("crop=%d:%d", canvas.Width, canvas.Height),
		fmt.Sprintf("fps=%d", canvas.FPS),
	}
	if canvas.PixelFormat != "" {
		filters = append(filters, fmt.Sprintf("format=%s", canvas.PixelFormat))
	}
	return strings.Join(filters, ",")
}

// NormalizeVideo scale-crops a clip to the canvas and drops its audio
// stream, so only the narration and music tracks carry audio downstream.
func (e *Executor) NormalizeVideo(ctx context.Context, input, output string, canvas media.Canvas) error {
	e.logger.Info().
		Str("input", input).
		Str("output", output).
		Msg("normalizing video")

	args := []string{
		"-i", input,
		"-vf", canvasFilter(canvas),
		"-an",
		"-c:v", DefaultVideoCodec,
		"-preset", DefaultPreset,
		"-crf", fmt.Sprintf("%d", DefaultCRF),
		output,
	}

	if err := e.run(ctx, runOptions{Args: args, LogHandler: e.debugLogger("normalize video")}); err != nil {
		return fmt.Errorf("normalize %s: %w", input, err)
	}
	return nil
}

// NormalizeImage holds a still image for a fixed duration on the canvas.
func (e *Executor) NormalizeImage(ctx context.Context, input, output string, canvas media.Canvas, hold float64) error {
	e.logger.Info().
		Str("input", input).
		Str("output", output).
		Float64("hold", hold).
		Msg("normalizing image")

	args := []string{
		"-loop", "1",
		"-i", input,
		"-t", fmt.Sprintf("%.3f", hold),
		"-vf", canvasFilter(canvas),
		"-r", fmt.Sprintf("%d", canvas.FPS),
		"-c:v", DefaultVideoCodec,
		"-preset", DefaultPreset,
		"-crf", fmt.Sprintf("%d", DefaultCRF),
		"-tune", "stillimage",
		output,
	}

	if err := e.run(ctx, runOptions{Args: args, LogHandler: e.debugLogger("normalize image")}); err != nil {
		return fmt.Errorf("normalize %s: %w", input, err)
	}
	return nil
}
