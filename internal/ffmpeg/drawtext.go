package ffmpeg

import (
	"context"
	"fmt"
	"strings"

	"github.com/shortforge/shortforge/internal/media"
)

// DrawText burns caption cues into the video pixels, each gated by an
// enable window. Unlike asset normalization there is no partial-success
// mode here: a failed burn-in aborts the whole filter pass.
func (e *Executor) DrawText(ctx context.Context, input, output string, cues []media.Cue, style media.TextStyle) error {
	if input == "" {
		return fmt.Errorf("input path is required")
	}
	if output == "" {
		return fmt.Errorf("output path is required")
	}
	if len(cues) == 0 {
		return fmt.Errorf("no caption cues provided")
	}

	e.logger.Info().
		Str("input", input).
		Str("output", output).
		Int("cues", len(cues)).
		Msg("burning captions")

	filters := make([]string, 0, len(cues))
	for _, cue := range cues {
		filters = append(filters, drawTextFilter(cue, style))
	}

	args := []string{
		"-i", input,
		"-vf", strings.Join(filters, ","),
		"-c:v", DefaultVideoCodec,
		"-preset", DefaultPreset,
		"-crf", fmt.Sprintf("%d", DefaultCRF),
		"-an",
		output,
	}

	if err := e.run(ctx, runOptions{Args: args, LogHandler: e.debugLogger("drawtext")}); err != nil {
		return fmt.Errorf("caption burn-in failed: %w", err)
	}
	return nil
}

// drawTextFilter renders one cue as a drawtext filter with an enable window.
func drawTextFilter(cue media.Cue, style media.TextStyle) string {
	fontSize := style.FontSize
	if fontSize == 0 {
		fontSize = 64
	}
	fontColor := style.FontColor
	if fontColor == "" {
		fontColor = "white"
	}
	borderColor := style.BorderColor
	if borderColor == "" {
		borderColor = "black"
	}
	borderWidth := style.BorderWidth
	if borderWidth == 0 {
		borderWidth = 4
	}

	f := fmt.Sprintf(
		"drawtext=text='%s':fontsize=%d:fontcolor=%s:borderw=%d:bordercolor=%s:x=(w-text_w)/2:y=h*0.72:enable='between(t,%.3f,%.3f)'",
		EscapeText(cue.Text), fontSize, fontColor, borderWidth, borderColor, cue.Start, cue.End,
	)
	if style.BoxedBGColor != "" {
		f += fmt.Sprintf(":box=1:boxcolor=%s:boxborderw=18", style.BoxedBGColor)
	}
	return f
}

// EscapeText prepares caption text for a single-quoted drawtext argument.
// A literal quote is rendered by closing the quoted run, emitting a
// backslash-escaped quote and reopening, so quotes survive filtergraph
// parsing no matter how many the caption carries; backslashes, colons and
// percents get backslash escapes.
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `'\''`)
	s = strings.ReplaceAll(s, `:`, `\:`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return s
}
