package music

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/shortforge/shortforge/internal/media"
	"github.com/shortforge/shortforge/pkg/util"
)

// Resolver obtains a background-music track for a run. Priority: first
// .mp3 in the user music folder, then the fallback download list, then a
// synthesized silent placeholder. Resolution never fails the run on a
// missing or unreachable track.
type Resolver struct {
	logger       zerolog.Logger
	engine       media.Engine
	httpClient   *http.Client
	dir          string
	fallbackURLs []string
}

// NewResolver creates a music resolver.
func NewResolver(logger zerolog.Logger, engine media.Engine, dir string, fallbackURLs []string) *Resolver {
	return &Resolver{
		logger:       logger.With().Str("component", "music").Logger(),
		engine:       engine,
		httpClient:   &http.Client{Timeout: 120 * time.Second},
		dir:          dir,
		fallbackURLs: fallbackURLs,
	}
}

// Resolve returns a local music file path. placeholderDuration sizes the
// silent track substituted when nothing else is obtainable.
func (r *Resolver) Resolve(ctx context.Context, workDir string, placeholderDuration float64) (string, error) {
	if r.dir != "" {
		if local := util.FirstWithExt(r.dir, ".mp3"); local != "" {
			r.logger.Info().Str("track", local).Msg("using local music track")
			return local, nil
		}
	}

	for _, u := range r.fallbackURLs {
		target := filepath.Join(workDir, "music.mp3")
		if err := r.download(ctx, u, target); err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			r.logger.Warn().Err(err).Str("url", u).Msg("music download failed, trying next source")
			continue
		}
		r.logger.Info().Str("url", u).Msg("downloaded fallback music track")
		return target, nil
	}

	// Last resort: a silent bed so the mix stage always has two inputs.
	target := filepath.Join(workDir, "music_silence.mp3")
	r.logger.Warn().Float64("duration", placeholderDuration).Msg("no music obtainable, substituting silence")
	if err := r.engine.Silence(ctx, target, placeholderDuration); err != nil {
		return "", fmt.Errorf("silent music placeholder: %w", err)
	}
	return target, nil
}

func (r *Resolver) download(ctx context.Context, url, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download: status %d", resp.StatusCode)
	}

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}
