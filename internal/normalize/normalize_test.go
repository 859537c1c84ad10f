package normalize

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shortforge/shortforge/internal/media"
	"github.com/shortforge/shortforge/internal/media/mediatest"
)

var testCanvas = media.Canvas{Width: 1080, Height: 1920, FPS: 30, PixelFormat: "yuv420p"}

func newTestNormalizer(engine *mediatest.Engine) *Normalizer {
	return New(zerolog.Nop(), engine, testCanvas, 5)
}

func TestNormalizeAllDispatchesByKind(t *testing.T) {
	engine := mediatest.New()
	n := newTestNormalizer(engine)

	assets := []media.Asset{
		media.NewAsset("/in/clip.mp4"),
		media.NewAsset("/in/photo.jpg"),
		media.NewAsset("/in/still.webp"),
	}

	clips, err := n.NormalizeAll(context.Background(), assets, t.TempDir())
	require.NoError(t, err)
	assert.Len(t, clips, 3)

	assert.Len(t, engine.CallsFor("NormalizeVideo"), 1)
	images := engine.CallsFor("NormalizeImage")
	require.Len(t, images, 2)
	for _, call := range images {
		assert.InDelta(t, 5, call.Duration, 0.001)
	}
}

func TestNormalizeAllToleratesPartialFailure(t *testing.T) {
	engine := mediatest.New()
	engine.FailInputs["broken.mp4"] = errors.New("corrupt container")
	n := newTestNormalizer(engine)

	assets := []media.Asset{
		media.NewAsset("/in/good.mp4"),
		media.NewAsset("/in/broken.mp4"),
		media.NewAsset("/in/photo.png"),
	}

	clips, err := n.NormalizeAll(context.Background(), assets, t.TempDir())
	require.NoError(t, err)
	assert.Len(t, clips, 2)
}

func TestNormalizeAllFailsWhenNothingSurvives(t *testing.T) {
	engine := mediatest.New()
	engine.FailOps["NormalizeVideo"] = errors.New("boom")
	n := newTestNormalizer(engine)

	assets := []media.Asset{
		media.NewAsset("/in/a.mp4"),
		media.NewAsset("/in/b.mov"),
	}

	_, err := n.NormalizeAll(context.Background(), assets, t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllAssetsFailed)
}

func TestNormalizeAllSkipsUnknownKinds(t *testing.T) {
	engine := mediatest.New()
	n := newTestNormalizer(engine)

	assets := []media.Asset{
		media.NewAsset("/in/notes.txt"),
		media.NewAsset("/in/good.mp4"),
	}

	clips, err := n.NormalizeAll(context.Background(), assets, t.TempDir())
	require.NoError(t, err)
	assert.Len(t, clips, 1)
}
