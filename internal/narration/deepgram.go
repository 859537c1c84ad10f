package narration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// SpeechClient converts one chunk of text into a speech audio file.
type SpeechClient interface {
	Synthesize(ctx context.Context, text, output string) error
}

const deepgramSpeakURL = "https://api.deepgram.com/v1/speak"

// DeepgramClient synthesizes speech through the Deepgram Aura API.
type DeepgramClient struct {
	logger     zerolog.Logger
	httpClient *http.Client
	apiKey     string
	voice      string
}

var _ SpeechClient = (*DeepgramClient)(nil)

// NewDeepgramClient creates a Deepgram speech client for the given voice.
func NewDeepgramClient(logger zerolog.Logger, apiKey, voice string) *DeepgramClient {
	return &DeepgramClient{
		logger:     logger.With().Str("component", "tts").Logger(),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiKey:     apiKey,
		voice:      voice,
	}
}

// Synthesize requests speech audio for one chunk and writes it to output.
func (c *DeepgramClient) Synthesize(ctx context.Context, text, output string) error {
	if c.apiKey == "" {
		return fmt.Errorf("deepgram api key is not set")
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	endpoint := deepgramSpeakURL + "?model=" + url.QueryEscape(c.voice)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug().Int("chars", len(text)).Str("voice", c.voice).Msg("requesting speech")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deepgram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("deepgram error: %s - %s", resp.Status, string(body))
	}

	out, err := os.Create(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write speech audio: %w", err)
	}
	return nil
}
