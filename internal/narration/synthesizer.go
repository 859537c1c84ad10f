package narration

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/shortforge/shortforge/internal/media"
)

// Options bounds chunking and the silent-fallback estimate.
type Options struct {
	ChunkLimit int
	// Speaking-rate model for the fallback estimate.
	WordsPerMinute int
	CharsPerWord   int
	MinFallback    float64
	MaxFallback    float64
}

// DefaultOptions returns the standard synthesis parameters.
func DefaultOptions() Options {
	return Options{
		ChunkLimit:     200,
		WordsPerMinute: 150,
		CharsPerWord:   3,
		MinFallback:    10,
		MaxFallback:    45,
	}
}

// Synthesizer turns narration text into one continuous speech track.
type Synthesizer struct {
	logger zerolog.Logger
	speech SpeechClient
	engine media.Engine
	opts   Options
}

// NewSynthesizer creates a narration synthesizer.
func NewSynthesizer(logger zerolog.Logger, speech SpeechClient, engine media.Engine, opts Options) *Synthesizer {
	return &Synthesizer{
		logger: logger.With().Str("component", "narration").Logger(),
		speech: speech,
		engine: engine,
		opts:   opts,
	}
}

// Synthesize produces the narration track at output, chunking long text
// and stitching the results in order. If the speech service is
// unreachable it falls back to a silent placeholder sized from the text,
// so the pipeline always gets a well-defined target duration. Callers
// must probe the output for its real duration; it is never estimated on
// the success path.
func (s *Synthesizer) Synthesize(ctx context.Context, text, workDir, output string) error {
	chunks := ChunkText(text, s.opts.ChunkLimit)
	if len(chunks) == 0 {
		return fmt.Errorf("narration text is empty")
	}

	s.logger.Info().Int("chunks", len(chunks)).Msg("synthesizing narration")

	if len(chunks) == 1 {
		if err := s.speech.Synthesize(ctx, chunks[0], output); err != nil {
			return s.fallback(ctx, text, output, err)
		}
		return nil
	}

	chunkPaths := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		chunkPath := filepath.Join(workDir, fmt.Sprintf("tts_chunk_%03d.mp3", i))
		if err := s.speech.Synthesize(ctx, chunk, chunkPath); err != nil {
			return s.fallback(ctx, text, output, err)
		}
		chunkPaths = append(chunkPaths, chunkPath)
	}

	if err := s.engine.Concat(ctx, chunkPaths, output); err != nil {
		return fmt.Errorf("stitch narration chunks: %w", err)
	}
	return nil
}

// fallback substitutes a silent track sized by the speaking-rate estimate.
func (s *Synthesizer) fallback(ctx context.Context, text, output string, cause error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	duration := s.EstimateDuration(text)
	s.logger.Warn().
		Err(cause).
		Float64("duration", duration).
		Msg("speech synthesis unreachable, substituting silent narration")

	if err := s.engine.Silence(ctx, output, duration); err != nil {
		return fmt.Errorf("silent narration fallback: %w", err)
	}
	return nil
}

// EstimateDuration approximates spoken length from text length, clamped
// to a sane range.
func (s *Synthesizer) EstimateDuration(text string) float64 {
	words := float64(len(text)) / float64(s.opts.CharsPerWord)
	seconds := words / float64(s.opts.WordsPerMinute) * 60

	if seconds < s.opts.MinFallback {
		return s.opts.MinFallback
	}
	if seconds > s.opts.MaxFallback {
		return s.opts.MaxFallback
	}
	return seconds
}
