package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shortforge/shortforge/internal/media"
)

// skipIfNoFFmpeg skips the test if ffmpeg is not available
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH")
	}
}

func TestExecutorCreation(t *testing.T) {
	skipIfNoFFmpeg(t)

	e, err := New(zerolog.Nop(), 2)
	require.NoError(t, err)
	assert.NotEmpty(t, e.ffmpegPath)
	assert.NotEmpty(t, e.ffprobePath)
}

func TestSilenceAndProbeRoundTrip(t *testing.T) {
	skipIfNoFFmpeg(t)

	e, err := New(zerolog.Nop(), 2)
	require.NoError(t, err)

	ctx := context.Background()
	out := filepath.Join(t.TempDir(), "silence.mp3")

	require.NoError(t, e.Silence(ctx, out, 3))

	duration, err := e.Probe(ctx, out)
	require.NoError(t, err)
	// mp3 framing pads slightly; a loose tolerance is enough here.
	assert.InDelta(t, 3, duration, 0.2)
}

func TestProbeMissingFile(t *testing.T) {
	skipIfNoFFmpeg(t)

	e, err := New(zerolog.Nop(), 2)
	require.NoError(t, err)

	_, err = e.Probe(context.Background(), filepath.Join(t.TempDir(), "nope.mp4"))
	require.Error(t, err)
}

// makeTestVideo renders a short lavfi test pattern clip for fixtures.
func makeTestVideo(t *testing.T, path string, seconds int) {
	t.Helper()
	cmd := exec.Command("ffmpeg",
		"-f", "lavfi",
		"-i", fmt.Sprintf("testsrc=size=640x360:rate=24:duration=%d", seconds),
		"-pix_fmt", "yuv420p",
		path)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

// makeTestImage renders a single solid frame as a still-image fixture.
func makeTestImage(t *testing.T, path string) {
	t.Helper()
	cmd := exec.Command("ffmpeg",
		"-f", "lavfi",
		"-i", "color=c=steelblue:size=400x700",
		"-frames:v", "1",
		path)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

// probeResolution reads the video stream dimensions via ffprobe.
func probeResolution(t *testing.T, path string) (int, int) {
	t.Helper()
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=p=0",
		path).Output()
	require.NoError(t, err)

	parts := strings.Split(strings.TrimSpace(string(out)), ",")
	require.Len(t, parts, 2)
	w, err := strconv.Atoi(parts[0])
	require.NoError(t, err)
	h, err := strconv.Atoi(parts[1])
	require.NoError(t, err)
	return w, h
}

// Re-normalizing an already normalized clip must not drift: same duration,
// same canvas.
func TestNormalizeVideoIdempotent(t *testing.T) {
	skipIfNoFFmpeg(t)

	e, err := New(zerolog.Nop(), 2)
	require.NoError(t, err)

	ctx := context.Background()
	dir := t.TempDir()
	canvas := media.Canvas{Width: 1080, Height: 1920, FPS: 30, PixelFormat: "yuv420p"}

	src := filepath.Join(dir, "src.mp4")
	makeTestVideo(t, src, 2)

	first := filepath.Join(dir, "first.mp4")
	require.NoError(t, e.NormalizeVideo(ctx, src, first, canvas))
	second := filepath.Join(dir, "second.mp4")
	require.NoError(t, e.NormalizeVideo(ctx, first, second, canvas))

	d1, err := e.Probe(ctx, first)
	require.NoError(t, err)
	d2, err := e.Probe(ctx, second)
	require.NoError(t, err)
	assert.InDelta(t, d1, d2, 0.05)

	for _, path := range []string{first, second} {
		w, h := probeResolution(t, path)
		assert.Equal(t, 1080, w)
		assert.Equal(t, 1920, h)
	}
}

func TestNormalizeImageIdempotent(t *testing.T) {
	skipIfNoFFmpeg(t)

	e, err := New(zerolog.Nop(), 2)
	require.NoError(t, err)

	ctx := context.Background()
	dir := t.TempDir()
	canvas := media.Canvas{Width: 1080, Height: 1920, FPS: 30, PixelFormat: "yuv420p"}

	src := filepath.Join(dir, "still.png")
	makeTestImage(t, src)

	first := filepath.Join(dir, "first.mp4")
	require.NoError(t, e.NormalizeImage(ctx, src, first, canvas, 5))
	second := filepath.Join(dir, "second.mp4")
	require.NoError(t, e.NormalizeImage(ctx, src, second, canvas, 5))

	d1, err := e.Probe(ctx, first)
	require.NoError(t, err)
	d2, err := e.Probe(ctx, second)
	require.NoError(t, err)
	assert.InDelta(t, 5, d1, 0.2)
	assert.InDelta(t, d1, d2, 0.05)

	for _, path := range []string{first, second} {
		w, h := probeResolution(t, path)
		assert.Equal(t, 1080, w)
		assert.Equal(t, 1920, h)
	}
}
