package script

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"
)

// Generator produces marker-structured scripts through an LLM.
type Generator struct {
	logger zerolog.Logger
	client openai.Client
	model  string
}

// NewGenerator creates a script generator backed by the OpenAI API.
func NewGenerator(logger zerolog.Logger, apiKey, model string) *Generator {
	return &Generator{
		logger: logger.With().Str("component", "script").Logger(),
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

const systemPrompt = `You write narration scripts for short vertical videos.
Respond with exactly three sections, each on its own lines:
SCRIPT: the narration text, 4 to 8 short punchy sentences, no stage directions.
CAPTION: a one-line social media caption.
HASHTAGS: 5 to 8 space-separated hashtags.`

// Generate asks the model for a script about the given niche and parses
// the marker-structured response.
func (g *Generator) Generate(ctx context.Context, niche string) (*Script, error) {
	g.logger.Info().Str("niche", niche).Str("model", g.model).Msg("generating script")

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(fmt.Sprintf("Write a faceless short-form video about: %s", niche)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("script generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("script generation returned no choices")
	}

	parsed, err := Parse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("parse generated script: %w", err)
	}

	g.logger.Info().
		Int("narration_chars", len(parsed.Narration)).
		Msg("script generated")

	return parsed, nil
}
