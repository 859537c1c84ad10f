package music

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shortforge/shortforge/internal/media/mediatest"
)

func TestResolvePrefersLocalTrack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_track.mp3"), []byte("mp3"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_track.mp3"), []byte("mp3"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0644))

	engine := mediatest.New()
	r := NewResolver(zerolog.Nop(), engine, dir, nil)

	path, err := r.Resolve(context.Background(), t.TempDir(), 30)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a_track.mp3"), path)
	assert.Empty(t, engine.Calls())
}

func TestResolveDownloadsFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("mp3 bytes"))
	}))
	defer srv.Close()

	engine := mediatest.New()
	r := NewResolver(zerolog.Nop(), engine, "", []string{srv.URL + "/track.mp3"})

	workDir := t.TempDir()
	path, err := r.Resolve(context.Background(), workDir, 30)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(workDir, "music.mp3"), path)
	assert.FileExists(t, path)
}

func TestResolveSkipsDeadSources(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer dead.Close()

	alive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("mp3 bytes"))
	}))
	defer alive.Close()

	engine := mediatest.New()
	r := NewResolver(zerolog.Nop(), engine, "", []string{dead.URL, alive.URL})

	path, err := r.Resolve(context.Background(), t.TempDir(), 30)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Empty(t, engine.CallsFor("Silence"))
}

func TestResolveSubstitutesSilence(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer dead.Close()

	engine := mediatest.New()
	r := NewResolver(zerolog.Nop(), engine, "", []string{dead.URL})

	workDir := t.TempDir()
	path, err := r.Resolve(context.Background(), workDir, 27.5)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(workDir, "music_silence.mp3"), path)

	silences := engine.CallsFor("Silence")
	require.Len(t, silences, 1)
	assert.InDelta(t, 27.5, silences[0].Duration, 0.001)
}
