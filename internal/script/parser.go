package script

import (
	"fmt"
	"strings"
)

// Script is the parsed output of the script-generation collaborator. The
// narration drives the whole pipeline; caption and hashtags pass through
// verbatim to side-files.
type Script struct {
	Narration string
	Caption   string
	Hashtags  string
}

// Section markers the generator is prompted to emit.
const (
	markerScript   = "SCRIPT:"
	markerCaption  = "CAPTION:"
	markerHashtags = "HASHTAGS:"
)

// Parse extracts the narration, caption and hashtag sections from
// marker-structured generator output. Free-form text before the first
// marker is ignored; a response without a SCRIPT section is an error.
func Parse(raw string) (*Script, error) {
	var out Script
	var current *string

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, markerScript):
			current = &out.Narration
			trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, markerScript))
		case strings.HasPrefix(trimmed, markerCaption):
			current = &out.Caption
			trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, markerCaption))
		case strings.HasPrefix(trimmed, markerHashtags):
			current = &out.Hashtags
			trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, markerHashtags))
		}

		if current == nil || trimmed == "" {
			continue
		}
		if *current != "" {
			*current += " "
		}
		*current += trimmed
	}

	if strings.TrimSpace(out.Narration) == "" {
		return nil, fmt.Errorf("generator output has no %s section", markerScript)
	}

	return &out, nil
}

// SplitSentences breaks narration text on sentence terminators. The
// terminator stays attached to its sentence; empty fragments are dropped.
func SplitSentences(text string) []string {
	var sentences []string
	var b strings.Builder

	flush := func() {
		s := strings.TrimSpace(b.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
	}

	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()

	return sentences
}
