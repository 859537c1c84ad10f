package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/shortforge/shortforge/internal/media"
)

// Probe returns the duration of a media file in fractional seconds. Every
// call re-probes; files mutate across pipeline stages so cached durations
// would go stale.
func (e *Executor) Probe(ctx context.Context, path string) (float64, error) {
	if path == "" {
		return 0, fmt.Errorf("%w: file path is required", media.ErrProbe)
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	}

	cmd := exec.CommandContext(ctx, e.ffprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe %s: %v", media.ErrProbe, path, err)
	}

	var probe probeResult
	if err := json.Unmarshal(output, &probe); err != nil {
		return 0, fmt.Errorf("%w: parse ffprobe output for %s: %v", media.ErrProbe, path, err)
	}

	duration, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s has no parseable duration", media.ErrProbe, path)
	}

	return duration, nil
}

// probeResult matches ffprobe JSON output structure
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}
