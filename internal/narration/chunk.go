package narration

import (
	"strings"

	"github.com/shortforge/shortforge/internal/script"
)

// ChunkText splits narration into chunks no longer than limit, preferring
// sentence boundaries so a chunk never breaks mid-sentence. A single
// sentence longer than the limit still becomes its own oversized chunk;
// the synthesis provider truncates, it does not reject.
func ChunkText(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if limit <= 0 || len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current string

	for _, sentence := range script.SplitSentences(text) {
		if current == "" {
			current = sentence
			continue
		}
		if len(current)+1+len(sentence) <= limit {
			current += " " + sentence
			continue
		}
		chunks = append(chunks, current)
		current = sentence
	}
	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}
