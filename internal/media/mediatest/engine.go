// Package mediatest provides an in-memory Engine for pipeline tests, so
// stage logic can be exercised without ffmpeg installed.
package mediatest

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/shortforge/shortforge/internal/media"
)

// Call records one engine invocation.
type Call struct {
	Op       string
	Inputs   []string
	Output   string
	Duration float64
	Cues     []media.Cue
}

// Engine is a fake media.Engine. It records calls, writes placeholder
// output files, and answers probes from a duration table keyed by base
// file name.
type Engine struct {
	mu    sync.Mutex
	calls []Call

	// Durations maps base file names to probe results.
	Durations map[string]float64
	// DefaultDuration answers probes for files not in Durations.
	DefaultDuration float64
	// FailOps maps op names (e.g. "DrawText") to forced errors.
	FailOps map[string]error
	// FailInputs maps base input file names to forced errors.
	FailInputs map[string]error
}

var _ media.Engine = (*Engine)(nil)

// New creates a fake engine with a 1-second default probe answer.
func New() *Engine {
	return &Engine{
		Durations:       make(map[string]float64),
		DefaultDuration: 1,
		FailOps:         make(map[string]error),
		FailInputs:      make(map[string]error),
	}
}

// Calls returns a snapshot of recorded calls.
func (e *Engine) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Call(nil), e.calls...)
}

// CallsFor returns recorded calls for one op.
func (e *Engine) CallsFor(op string) []Call {
	var out []Call
	for _, c := range e.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (e *Engine) record(c Call) {
	e.mu.Lock()
	e.calls = append(e.calls, c)
	e.mu.Unlock()
}

func (e *Engine) fail(op string, inputs ...string) error {
	if err := e.FailOps[op]; err != nil {
		return err
	}
	for _, in := range inputs {
		if err := e.FailInputs[filepath.Base(in)]; err != nil {
			return err
		}
	}
	return nil
}

func touch(path string) error {
	return os.WriteFile(path, []byte("fake media"), 0644)
}

func (e *Engine) Probe(ctx context.Context, path string) (float64, error) {
	if err := e.fail("Probe", path); err != nil {
		return 0, err
	}
	e.record(Call{Op: "Probe", Inputs: []string{path}})
	if d, ok := e.Durations[filepath.Base(path)]; ok {
		return d, nil
	}
	return e.DefaultDuration, nil
}

func (e *Engine) NormalizeVideo(ctx context.Context, input, output string, canvas media.Canvas) error {
	if err := e.fail("NormalizeVideo", input); err != nil {
		return err
	}
	e.record(Call{Op: "NormalizeVideo", Inputs: []string{input}, Output: output})
	return touch(output)
}

func (e *Engine) NormalizeImage(ctx context.Context, input, output string, canvas media.Canvas, hold float64) error {
	if err := e.fail("NormalizeImage", input); err != nil {
		return err
	}
	e.record(Call{Op: "NormalizeImage", Inputs: []string{input}, Output: output, Duration: hold})
	return touch(output)
}

func (e *Engine) Concat(ctx context.Context, inputs []string, output string) error {
	if err := e.fail("Concat", inputs...); err != nil {
		return err
	}
	e.record(Call{Op: "Concat", Inputs: append([]string(nil), inputs...), Output: output})
	return touch(output)
}

func (e *Engine) Trim(ctx context.Context, input, output string, duration float64) error {
	if err := e.fail("Trim", input); err != nil {
		return err
	}
	e.record(Call{Op: "Trim", Inputs: []string{input}, Output: output, Duration: duration})
	return touch(output)
}

func (e *Engine) DrawText(ctx context.Context, input, output string, cues []media.Cue, style media.TextStyle) error {
	if err := e.fail("DrawText", input); err != nil {
		return err
	}
	e.record(Call{Op: "DrawText", Inputs: []string{input}, Output: output, Cues: append([]media.Cue(nil), cues...)})
	return touch(output)
}

func (e *Engine) MixAudio(ctx context.Context, opts media.MixOptions) error {
	if err := e.fail("MixAudio", opts.Video, opts.Narration, opts.Music); err != nil {
		return err
	}
	e.record(Call{
		Op:       "MixAudio",
		Inputs:   []string{opts.Video, opts.Narration, opts.Music},
		Output:   opts.Output,
		Duration: opts.Duration,
	})
	return touch(opts.Output)
}

func (e *Engine) Silence(ctx context.Context, output string, duration float64) error {
	if err := e.fail("Silence"); err != nil {
		return err
	}
	e.record(Call{Op: "Silence", Output: output, Duration: duration})
	// Probes of the silent file answer with its requested duration.
	e.mu.Lock()
	e.Durations[filepath.Base(output)] = duration
	e.mu.Unlock()
	return touch(output)
}
