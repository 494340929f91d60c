package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Default tuning for the splitter. TargetSize is a soft bound: a fragment may
// run over by one sentence rather than be cut mid-sentence.
const (
	DefaultTargetSize = 500
	DefaultOverlap    = 50
)

// Fragment is one emitted piece of a document's text. Index is the zero-based
// position of the fragment within the document, contiguous in emission order.
type Fragment struct {
	Text  string
	Index int
}

var (
	paragraphRe = regexp.MustCompile(`\n\s*\n`)
	sentenceRe  = regexp.MustCompile(`[^.!?]+[.!?]+`)
)

// Split breaks text into overlapping fragments. Paragraphs (blank-line
// separated) are accumulated until adding the next one would exceed
// targetSize; the buffer is then emitted and the next buffer is seeded with
// the trailing overlap characters. A single paragraph longer than targetSize
// is split on sentence boundaries the same way. Empty or whitespace-only
// input yields no fragments; any other input that produces no fragments
// through the paragraph path is emitted whole as a single fragment.
func Split(text string, targetSize, overlap int) []Fragment {
	paragraphs := paragraphRe.Split(text, -1)

	var fragments []Fragment
	current := ""
	index := 0

	emit := func(s string) {
		fragments = append(fragments, Fragment{Text: strings.TrimSpace(s), Index: index})
		index++
	}

	for _, paragraph := range paragraphs {
		trimmed := strings.TrimSpace(paragraph)
		if trimmed == "" {
			continue
		}

		switch {
		case runeLen(trimmed) > targetSize:
			// Oversized paragraph: flush whatever is pending, then fall back
			// to sentence accumulation within the paragraph.
			if current != "" {
				emit(current)
				current = tail(current, overlap)
			}
			sentenceChunk := ""
			for _, sentence := range sentences(trimmed) {
				if sentenceChunk != "" && runeLen(sentenceChunk)+runeLen(sentence) > targetSize {
					emit(sentenceChunk)
					sentenceChunk = tail(sentenceChunk, overlap) + sentence
				} else {
					sentenceChunk += sentence
				}
			}
			if strings.TrimSpace(sentenceChunk) != "" {
				current = sentenceChunk
			}

		case current != "" && runeLen(current)+2+runeLen(trimmed) > targetSize:
			emit(current)
			current = tail(current, overlap) + "\n\n" + trimmed

		case current != "":
			current = current + "\n\n" + trimmed

		default:
			current = trimmed
		}
	}

	if strings.TrimSpace(current) != "" {
		emit(current)
	}

	// Whitespace-heavy inputs can filter down to zero paragraphs while the
	// raw text still has content; keep it as one fragment rather than drop it.
	if len(fragments) == 0 && strings.TrimSpace(text) != "" {
		fragments = append(fragments, Fragment{Text: strings.TrimSpace(text), Index: 0})
	}

	return fragments
}

// sentences splits a paragraph on terminal punctuation (. ! ?), keeping the
// punctuation with its sentence. Trailing text without a terminator is kept
// as a final piece so no content is lost.
func sentences(paragraph string) []string {
	locs := sentenceRe.FindAllStringIndex(paragraph, -1)
	if len(locs) == 0 {
		return []string{paragraph}
	}
	out := make([]string, 0, len(locs)+1)
	for _, l := range locs {
		out = append(out, paragraph[l[0]:l[1]])
	}
	if end := locs[len(locs)-1][1]; end < len(paragraph) {
		if rest := paragraph[end:]; strings.TrimSpace(rest) != "" {
			out = append(out, rest)
		}
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// tail returns the last n runes of s.
func tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
