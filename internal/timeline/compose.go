package timeline

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/shortforge/shortforge/internal/media"
)

// Composer loops and concatenates normalized clips to cover the narration
// duration, then hard-trims the result to exactly that duration.
type Composer struct {
	logger zerolog.Logger
	engine media.Engine
}

// New creates a timeline composer.
func New(logger zerolog.Logger, engine media.Engine) *Composer {
	return &Composer{
		logger: logger.With().Str("component", "timeline").Logger(),
		engine: engine,
	}
}

// Loops returns how many times the full clip sequence must repeat so the
// raw footage covers the target duration.
func Loops(target, total float64) int {
	if total <= 0 {
		return 1
	}
	loops := int(math.Ceil(target / total))
	if loops < 1 {
		loops = 1
	}
	return loops
}

// Compose builds the timed video track at output. The trim is best-effort
// when total footage falls short of the target; the output is then simply
// shorter, never an error.
func (c *Composer) Compose(ctx context.Context, clips []string, target float64, workDir, output string) error {
	if len(clips) == 0 {
		return fmt.Errorf("no clips to compose")
	}
	if target <= 0 {
		return fmt.Errorf("invalid target duration: %f", target)
	}

	var total float64
	for _, clip := range clips {
		d, err := c.engine.Probe(ctx, clip)
		if err != nil {
			return fmt.Errorf("probe clip %s: %w", clip, err)
		}
		total += d
	}

	loops := Loops(target, total)
	playlist := make([]string, 0, len(clips)*loops)
	for i := 0; i < loops; i++ {
		playlist = append(playlist, clips...)
	}

	c.logger.Info().
		Float64("target", target).
		Float64("footage", total).
		Int("loops", loops).
		Int("plays", len(playlist)).
		Msg("composing timeline")

	joined := filepath.Join(workDir, "timeline_raw.mp4")
	if len(playlist) == 1 {
		// Single clip: plain copy beats the concat machinery.
		if err := copyFile(playlist[0], joined); err != nil {
			return fmt.Errorf("copy single clip: %w", err)
		}
	} else {
		if err := c.engine.Concat(ctx, playlist, joined); err != nil {
			return fmt.Errorf("concatenate timeline: %w", err)
		}
	}

	if err := c.engine.Trim(ctx, joined, output, target); err != nil {
		return fmt.Errorf("trim timeline: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
