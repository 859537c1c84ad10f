package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shortforge/shortforge/internal/config"
	"github.com/shortforge/shortforge/internal/ffmpeg"
	"github.com/shortforge/shortforge/internal/logging"
	"github.com/shortforge/shortforge/internal/media"
	"github.com/shortforge/shortforge/internal/narration"
	"github.com/shortforge/shortforge/internal/pipeline"
	"github.com/shortforge/shortforge/internal/script"
	"github.com/shortforge/shortforge/internal/stock"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shortforge",
	Short: "shortforge - faceless short-video assembly pipeline",
	Long:  "Assembles narrated vertical videos from stock footage: TTS narration, looped timeline, burned-in captions, mixed music bed.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		// API keys live in the environment, optionally via .env.
		_ = godotenv.Load()

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./shortforge.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(probeCmd)
}

var (
	createNiche    string
	createScript   string
	createCaption  string
	createHashtags string
	createAssets   []string
	createAssetDir string
	createOut      string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Assemble a video from a script file and local assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		raw, err := os.ReadFile(createScript)
		if err != nil {
			return fmt.Errorf("read script file: %w", err)
		}

		assets, err := collectAssets(createAssets, createAssetDir)
		if err != nil {
			return err
		}

		pipe, err := buildPipeline(cfg)
		if err != nil {
			return err
		}

		out := createOut
		if out == "" {
			out = cfg.OutputDir
		}

		result, err := pipe.CreateVideo(cmd.Context(), pipeline.Request{
			Niche:      createNiche,
			Script:     string(raw),
			Caption:    createCaption,
			Hashtags:   createHashtags,
			AssetPaths: assets,
			OutputRoot: out,
		})
		if err != nil {
			return err
		}

		log.Info().
			Str("video", result.VideoPath).
			Float64("duration", result.Duration).
			Msg("video created")

		return nil
	},
}

var (
	generateNiche string
	generateOut   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a script, fetch stock footage and assemble a video",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		gen := script.NewGenerator(log.Logger, os.Getenv("OPENAI_API_KEY"), cfg.Script.Model)
		generated, err := gen.Generate(cmd.Context(), generateNiche)
		if err != nil {
			return err
		}

		stockClient := stock.NewClient(log.Logger, os.Getenv("PEXELS_API_KEY"), cfg.Stock.PerPage, cfg.Stock.Orientation)
		assets, err := stockClient.FetchAssets(cmd.Context(), generateNiche, cfg.Stock.DownloadDir)
		if err != nil {
			return err
		}

		pipe, err := buildPipeline(cfg)
		if err != nil {
			return err
		}

		out := generateOut
		if out == "" {
			out = cfg.OutputDir
		}

		result, err := pipe.CreateVideo(cmd.Context(), pipeline.Request{
			Niche:      generateNiche,
			Script:     generated.Narration,
			Caption:    generated.Caption,
			Hashtags:   generated.Hashtags,
			AssetPaths: assets,
			OutputRoot: out,
		})
		if err != nil {
			return err
		}

		log.Info().
			Str("video", result.VideoPath).
			Float64("duration", result.Duration).
			Msg("video created")

		return nil
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe [media file]",
	Short: "Print the duration of a media file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		engine, err := ffmpeg.New(log.Logger, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		duration, err := engine.Probe(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%.3f\n", duration)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createNiche, "niche", "", "run name, prefixes output artifacts")
	createCmd.Flags().StringVar(&createScript, "script", "", "path to narration script file (required)")
	createCmd.Flags().StringVar(&createCaption, "caption", "", "caption text written to the side-file")
	createCmd.Flags().StringVar(&createHashtags, "hashtags", "", "hashtags written to the side-file")
	createCmd.Flags().StringArrayVar(&createAssets, "asset", nil, "asset file path (repeatable)")
	createCmd.Flags().StringVar(&createAssetDir, "assets-dir", "", "directory to scan for assets")
	createCmd.Flags().StringVar(&createOut, "out", "", "output directory (default from config)")
	_ = createCmd.MarkFlagRequired("script")

	generateCmd.Flags().StringVar(&generateNiche, "niche", "", "topic to generate a video about (required)")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "output directory (default from config)")
	_ = generateCmd.MarkFlagRequired("niche")
}

// buildPipeline wires the real engine and speech client.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	engine, err := ffmpeg.New(log.Logger, cfg.FFmpeg.Threads)
	if err != nil {
		return nil, err
	}

	speech := narration.NewDeepgramClient(log.Logger, os.Getenv("DEEPGRAM_API_KEY"), cfg.TTS.Voice)

	return pipeline.New(log.Logger, engine, speech, cfg), nil
}

// collectAssets merges explicit asset paths with a directory scan, keeping
// a stable order.
func collectAssets(explicit []string, dir string) ([]string, error) {
	assets := append([]string(nil), explicit...)

	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("scan assets dir: %w", err)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if media.DetectKind(path) != media.KindUnknown {
				found = append(found, path)
			}
		}
		sort.Strings(found)
		assets = append(assets, found...)
	}

	if len(assets) == 0 {
		return nil, fmt.Errorf("no assets given: use --asset or --assets-dir")
	}
	return assets, nil
}
