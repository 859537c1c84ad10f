package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shortforge/shortforge/pkg/util"
)

// Concat losslessly joins segments via the concat demuxer (list file +
// stream copy). Valid only when segments share codec parameters, which
// normalization guarantees.
func (e *Executor) Concat(ctx context.Context, inputs []string, output string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no input files provided")
	}
	if output == "" {
		return fmt.Errorf("output path is required")
	}

	e.logger.Info().
		Int("inputs", len(inputs)).
		Str("output", output).
		Msg("concatenating segments")

	listFile, err := e.createConcatFile(inputs)
	if err != nil {
		return fmt.Errorf("failed to create concat file: %w", err)
	}
	defer os.Remove(listFile)

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		output,
	}

	if err := e.run(ctx, runOptions{Args: args, LogHandler: e.debugLogger("concat")}); err != nil {
		return fmt.Errorf("concat failed: %w", err)
	}
	return nil
}

// createConcatFile generates a temporary file list for the concat demuxer
func (e *Executor) createConcatFile(inputs []string) (string, error) {
	tmpFile, err := os.CreateTemp("", "shortforge-concat-*.txt")
	if err != nil {
		return "", err
	}
	defer tmpFile.Close()

	for _, input := range inputs {
		absPath, err := filepath.Abs(input)
		if err != nil {
			return "", err
		}
		if _, err := fmt.Fprintf(tmpFile, "file '%s'\n", absPath); err != nil {
			return "", err
		}
	}

	return tmpFile.Name(), nil
}

// Trim hard-cuts a file to the given duration by stream copy.
func (e *Executor) Trim(ctx context.Context, input, output string, duration float64) error {
	if duration <= 0 {
		return fmt.Errorf("invalid trim duration: %f", duration)
	}

	e.logger.Info().
		Str("input", input).
		Str("output", output).
		Float64("duration", duration).
		Msg("trimming")

	args := []string{
		"-i", input,
		"-t", util.FormatSeconds(duration),
		"-c", "copy",
		output,
	}

	if err := e.run(ctx, runOptions{Args: args, LogHandler: e.debugLogger("trim")}); err != nil {
		return fmt.Errorf("trim failed: %w", err)
	}
	return nil
}
