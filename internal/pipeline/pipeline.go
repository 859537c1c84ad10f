package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shortforge/shortforge/internal/config"
	"github.com/shortforge/shortforge/internal/media"
	"github.com/shortforge/shortforge/internal/music"
	"github.com/shortforge/shortforge/internal/narration"
	"github.com/shortforge/shortforge/internal/normalize"
	"github.com/shortforge/shortforge/internal/overlay"
	"github.com/shortforge/shortforge/internal/script"
	"github.com/shortforge/shortforge/internal/timeline"
	"github.com/shortforge/shortforge/pkg/util"
)

// Pipeline orchestrates the full assembly: narration, music, asset
// normalization, timeline composition, caption burn-in and the final mix.
// Stages run strictly in order; every external call blocks to completion
// before the next stage starts.
type Pipeline struct {
	logger     zerolog.Logger
	engine     media.Engine
	synth      *narration.Synthesizer
	music      *music.Resolver
	normalizer *normalize.Normalizer
	composer   *timeline.Composer
	captions   config.CaptionConfig
	musicGain  float64

	now func() time.Time
}

// New wires a pipeline from its collaborators and configuration.
func New(logger zerolog.Logger, engine media.Engine, speech narration.SpeechClient, cfg *config.Config) *Pipeline {
	canvas := media.Canvas{
		Width:       cfg.Video.Width,
		Height:      cfg.Video.Height,
		FPS:         cfg.Video.FPS,
		PixelFormat: cfg.Video.PixelFormat,
	}

	synthOpts := narration.Options{
		ChunkLimit:     cfg.TTS.ChunkLimit,
		WordsPerMinute: cfg.TTS.WordsPerMinute,
		CharsPerWord:   cfg.TTS.CharsPerWord,
		MinFallback:    cfg.TTS.MinFallbackSecs,
		MaxFallback:    cfg.TTS.MaxFallbackSecs,
	}

	return &Pipeline{
		logger:     logger.With().Str("component", "pipeline").Logger(),
		engine:     engine,
		synth:      narration.NewSynthesizer(logger, speech, engine, synthOpts),
		music:      music.NewResolver(logger, engine, cfg.Music.Dir, cfg.Music.FallbackURLs),
		normalizer: normalize.New(logger, engine, canvas, cfg.Video.ImageHold),
		composer:   timeline.New(logger, engine),
		captions:   cfg.Captions,
		musicGain:  cfg.Music.Gain,
		now:        time.Now,
	}
}

// CreateVideo runs one end-to-end assembly. The run workspace is removed
// on every exit path, success or failure; on success the final artifacts
// are already in their permanent location before the workspace goes.
func (p *Pipeline) CreateVideo(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	start := p.now()
	stamp := start.Format("20060102_150405")
	niche := sanitizeNiche(req.Niche)

	if err := util.EnsureDir(req.OutputRoot); err != nil {
		return nil, fmt.Errorf("create output root: %w", err)
	}

	workDir := filepath.Join(req.OutputRoot, fmt.Sprintf(".work_%s_%s", niche, stamp))
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	defer os.RemoveAll(workDir)

	p.logger.Info().
		Str("niche", niche).
		Int("assets", len(req.AssetPaths)).
		Str("workspace", workDir).
		Msg("starting pipeline run")

	// Stage 1: narration. All downstream timing hangs off this file.
	narrationPath := filepath.Join(workDir, "narration.mp3")
	if err := p.synth.Synthesize(ctx, req.Script, workDir, narrationPath); err != nil {
		return nil, fmt.Errorf("synthesize narration: %w", err)
	}

	// Stage 2: measure it. The duration is probed, never estimated.
	duration, err := p.engine.Probe(ctx, narrationPath)
	if err != nil {
		return nil, fmt.Errorf("probe narration: %w", err)
	}
	p.logger.Info().Float64("duration", duration).Msg("narration ready")

	// Stage 3: background music.
	musicPath, err := p.music.Resolve(ctx, workDir, duration)
	if err != nil {
		return nil, fmt.Errorf("resolve music: %w", err)
	}

	// Stage 4: normalize assets to the canvas.
	assets := make([]media.Asset, 0, len(req.AssetPaths))
	for _, path := range req.AssetPaths {
		assets = append(assets, media.NewAsset(path))
	}
	clips, err := p.normalizer.NormalizeAll(ctx, assets, workDir)
	if err != nil {
		return nil, fmt.Errorf("normalize assets: %w", err)
	}

	// Stage 5: compose the timeline to the narration duration.
	composed := filepath.Join(workDir, "timeline.mp4")
	if err := p.composer.Compose(ctx, clips, duration, workDir, composed); err != nil {
		return nil, fmt.Errorf("compose timeline: %w", err)
	}

	// Stage 6: schedule and burn caption overlays.
	sentences := script.SplitSentences(req.Script)
	cues := overlay.Schedule(sentences, duration, p.captions.Intro, p.captions.Outro)
	captioned := filepath.Join(workDir, "captioned.mp4")
	style := media.TextStyle{FontSize: p.captions.FontSize, FontColor: p.captions.FontColor}
	if err := p.engine.DrawText(ctx, composed, captioned, cues, style); err != nil {
		return nil, fmt.Errorf("burn captions: %w", err)
	}

	// Stage 7: mix audio and mux. Mix into the workspace first so a failed
	// run never leaves a partial video in the permanent output directory.
	muxed := filepath.Join(workDir, "final.mp4")
	err = p.engine.MixAudio(ctx, media.MixOptions{
		Video:     captioned,
		Narration: narrationPath,
		Music:     musicPath,
		Output:    muxed,
		MusicGain: p.musicGain,
		Duration:  duration,
		LoopMusic: true,
	})
	if err != nil {
		return nil, fmt.Errorf("mix audio: %w", err)
	}

	// Stage 8: persist artifacts.
	base := fmt.Sprintf("%s_%s", niche, stamp)
	result := &Result{
		VideoPath:    filepath.Join(req.OutputRoot, base+".mp4"),
		CaptionPath:  filepath.Join(req.OutputRoot, base+"_caption.txt"),
		HashtagsPath: filepath.Join(req.OutputRoot, base+"_hashtags.txt"),
		Duration:     duration,
	}

	if err := os.Rename(muxed, result.VideoPath); err != nil {
		return nil, fmt.Errorf("move final video: %w", err)
	}
	if err := os.WriteFile(result.CaptionPath, []byte(req.Caption), 0644); err != nil {
		return nil, fmt.Errorf("write caption file: %w", err)
	}
	if err := os.WriteFile(result.HashtagsPath, []byte(req.Hashtags), 0644); err != nil {
		return nil, fmt.Errorf("write hashtags file: %w", err)
	}

	p.logger.Info().
		Str("video", result.VideoPath).
		Float64("duration", duration).
		Dur("elapsed", time.Since(start)).
		Msg("pipeline run complete")

	return result, nil
}

// validate enforces the fatal preconditions: a script, at least one
// asset, and every asset present on disk.
func validate(req Request) error {
	if strings.TrimSpace(req.Script) == "" {
		return fmt.Errorf("script text is empty")
	}
	if len(req.AssetPaths) == 0 {
		return fmt.Errorf("no asset paths given")
	}
	if req.OutputRoot == "" {
		return fmt.Errorf("output root is required")
	}
	for _, path := range req.AssetPaths {
		if !util.FileExists(path) {
			return fmt.Errorf("asset does not exist: %s", path)
		}
	}
	return nil
}

func sanitizeNiche(niche string) string {
	niche = strings.ToLower(strings.TrimSpace(niche))
	if niche == "" {
		return "video"
	}
	return strings.ReplaceAll(niche, " ", "_")
}
