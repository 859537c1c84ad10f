package overlay

import (
	"github.com/shortforge/shortforge/internal/media"
)

// IntroOutroMax caps the intro and outro caption widths in seconds.
const IntroOutroMax = 2.5

// Schedule partitions [0, duration] into len(sentences)+2 equal slots and
// assigns one caption cue per slot: a fixed intro at the very start, each
// sentence in its interior slot in original order, and a fixed outro at
// the very end. Slots are disjoint and contiguous by construction, so no
// overlap resolution is needed. Intro and outro are capped to
// min(IntroOutroMax, slot) and pinned to the edges of the video.
func Schedule(sentences []string, duration float64, intro, outro string) []media.Cue {
	slots := len(sentences) + 2
	slot := duration / float64(slots)

	edge := IntroOutroMax
	if slot < edge {
		edge = slot
	}

	cues := make([]media.Cue, 0, slots)
	cues = append(cues, media.Cue{Text: intro, Start: 0, End: edge})

	for i, sentence := range sentences {
		start := slot * float64(i+1)
		end := slot * float64(i+2)
		cues = append(cues, media.Cue{Text: sentence, Start: start, End: end})
	}

	cues = append(cues, media.Cue{Text: outro, Start: duration - edge, End: duration})
	return cues
}
