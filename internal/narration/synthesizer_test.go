package narration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shortforge/shortforge/internal/media/mediatest"
)

type fakeSpeech struct {
	err   error
	texts []string
}

func (f *fakeSpeech) Synthesize(ctx context.Context, text, output string) error {
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return os.WriteFile(output, []byte("audio"), 0644)
}

func newTestSynthesizer(speech SpeechClient, engine *mediatest.Engine) *Synthesizer {
	return NewSynthesizer(zerolog.Nop(), speech, engine, DefaultOptions())
}

func TestSynthesizeSingleChunkIsTheOutput(t *testing.T) {
	engine := mediatest.New()
	speech := &fakeSpeech{}
	s := newTestSynthesizer(speech, engine)

	workDir := t.TempDir()
	output := filepath.Join(workDir, "narration.mp3")

	err := s.Synthesize(context.Background(), "One short sentence.", workDir, output)
	require.NoError(t, err)

	require.Len(t, speech.texts, 1)
	assert.FileExists(t, output)
	// No stitching for a single chunk.
	assert.Empty(t, engine.CallsFor("Concat"))
}

func TestSynthesizeMultiChunkStitchesInOrder(t *testing.T) {
	engine := mediatest.New()
	speech := &fakeSpeech{}
	s := newTestSynthesizer(speech, engine)

	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteString("This sentence pads the narration out past the chunk limit. ")
	}
	text := strings.TrimSpace(b.String())

	workDir := t.TempDir()
	output := filepath.Join(workDir, "narration.mp3")

	err := s.Synthesize(context.Background(), text, workDir, output)
	require.NoError(t, err)
	assert.Greater(t, len(speech.texts), 1)

	concats := engine.CallsFor("Concat")
	require.Len(t, concats, 1)
	assert.Len(t, concats[0].Inputs, len(speech.texts))
	// Chunk files are stitched in original order.
	for i, in := range concats[0].Inputs {
		assert.Contains(t, filepath.Base(in), "tts_chunk_")
		if i > 0 {
			assert.Greater(t, in, concats[0].Inputs[i-1])
		}
	}
	assert.Equal(t, output, concats[0].Output)
}

func TestSynthesizeFallsBackToSilence(t *testing.T) {
	engine := mediatest.New()
	speech := &fakeSpeech{err: errors.New("api unreachable")}
	s := newTestSynthesizer(speech, engine)

	workDir := t.TempDir()
	output := filepath.Join(workDir, "narration.mp3")

	text := strings.Repeat("Some words here. ", 20)
	err := s.Synthesize(context.Background(), text, workDir, output)
	require.NoError(t, err)

	silences := engine.CallsFor("Silence")
	require.Len(t, silences, 1)
	assert.Equal(t, output, silences[0].Output)
	assert.InDelta(t, s.EstimateDuration(text), silences[0].Duration, 0.001)
	assert.FileExists(t, output)
}

func TestSynthesizeEmptyText(t *testing.T) {
	s := newTestSynthesizer(&fakeSpeech{}, mediatest.New())
	err := s.Synthesize(context.Background(), " ", t.TempDir(), "out.mp3")
	require.Error(t, err)
}

func TestEstimateDuration(t *testing.T) {
	s := newTestSynthesizer(&fakeSpeech{}, mediatest.New())

	tests := []struct {
		name  string
		chars int
		want  float64
	}{
		// 150 wpm at 3 chars/word: seconds = chars / 7.5.
		{"clamped to minimum", 30, 10},
		{"mid range", 225, 30},
		{"clamped to maximum", 9000, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.EstimateDuration(strings.Repeat("a", tt.chars))
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}
