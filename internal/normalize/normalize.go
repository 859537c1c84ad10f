package normalize

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/shortforge/shortforge/internal/media"
)

// ErrAllAssetsFailed is returned when not a single asset normalized.
var ErrAllAssetsFailed = errors.New("no assets could be normalized")

// Normalizer converts heterogeneous input assets into uniform canvas clips.
type Normalizer struct {
	logger    zerolog.Logger
	engine    media.Engine
	canvas    media.Canvas
	imageHold float64
}

// New creates an asset normalizer for the given canvas.
func New(logger zerolog.Logger, engine media.Engine, canvas media.Canvas, imageHold float64) *Normalizer {
	return &Normalizer{
		logger:    logger.With().Str("component", "normalize").Logger(),
		engine:    engine,
		canvas:    canvas,
		imageHold: imageHold,
	}
}

// NormalizeAll converts each asset in input order, one at a time, into a
// clip under workDir. A single asset failing is logged and skipped; stock
// footage is too variable to let one bad file sink the run. Only zero
// survivors is fatal.
func (n *Normalizer) NormalizeAll(ctx context.Context, assets []media.Asset, workDir string) ([]string, error) {
	var clips []string

	for i, asset := range assets {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		output := filepath.Join(workDir, fmt.Sprintf("clip_%03d.mp4", i))
		if err := n.normalizeOne(ctx, asset, output); err != nil {
			n.logger.Warn().
				Err(err).
				Str("asset", asset.Path).
				Msg("asset normalization failed, skipping")
			continue
		}
		clips = append(clips, output)
	}

	if len(clips) == 0 {
		return nil, fmt.Errorf("%w (out of %d)", ErrAllAssetsFailed, len(assets))
	}

	n.logger.Info().
		Int("normalized", len(clips)).
		Int("total", len(assets)).
		Msg("assets normalized")

	return clips, nil
}

func (n *Normalizer) normalizeOne(ctx context.Context, asset media.Asset, output string) error {
	switch asset.Kind {
	case media.KindVideo:
		return n.engine.NormalizeVideo(ctx, asset.Path, output, n.canvas)
	case media.KindImage:
		return n.engine.NormalizeImage(ctx, asset.Path, output, n.canvas, n.imageHold)
	default:
		return fmt.Errorf("unsupported asset type: %s", asset.Path)
	}
}
