package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_EmptyInput(t *testing.T) {
	assert.Empty(t, Split("", DefaultTargetSize, DefaultOverlap))
}

func TestSplit_WhitespaceOnlyInput(t *testing.T) {
	assert.Empty(t, Split("   \n\n \t \n  ", DefaultTargetSize, DefaultOverlap))
}

func TestSplit_SingleShortParagraph(t *testing.T) {
	fragments := Split("  Hello, world. This is a short paragraph.  ", DefaultTargetSize, DefaultOverlap)

	require.Len(t, fragments, 1)
	assert.Equal(t, "Hello, world. This is a short paragraph.", fragments[0].Text)
	assert.Equal(t, 0, fragments[0].Index)
}

func TestSplit_IndicesContiguous(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&sb, "Paragraph number %d with some padding text to take up room.\n\n", i)
	}

	fragments := Split(sb.String(), DefaultTargetSize, DefaultOverlap)
	require.Greater(t, len(fragments), 1)
	for i, f := range fragments {
		assert.Equal(t, i, f.Index)
	}
}

func TestSplit_ParagraphAccumulation(t *testing.T) {
	// Three paragraphs of 40 chars each fit well within one 500-char fragment.
	p := strings.Repeat("a", 40)
	fragments := Split(p+"\n\n"+p+"\n\n"+p, DefaultTargetSize, DefaultOverlap)

	require.Len(t, fragments, 1)
	assert.Equal(t, p+"\n\n"+p+"\n\n"+p, fragments[0].Text)
}

func TestSplit_OverlapSeedsNextFragment(t *testing.T) {
	// Two paragraphs that cannot share a fragment at this target size.
	p1 := strings.Repeat("a", 300)
	p2 := strings.Repeat("b", 300)

	fragments := Split(p1+"\n\n"+p2, 500, 50)
	require.Len(t, fragments, 2)
	assert.Equal(t, p1, fragments[0].Text)

	// The second fragment starts with the last 50 characters of the first.
	assert.True(t, strings.HasPrefix(fragments[1].Text, strings.Repeat("a", 50)))
	assert.True(t, strings.HasSuffix(fragments[1].Text, p2))
}

func TestSplit_ReconstructionWithOverlapRemoved(t *testing.T) {
	paragraphs := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		paragraphs = append(paragraphs, fmt.Sprintf("Paragraph %d. %s", i, strings.Repeat("x", 180)))
	}
	original := strings.Join(paragraphs, "\n\n")

	overlap := 50
	fragments := Split(original, 500, overlap)
	require.Greater(t, len(fragments), 1)

	var sb strings.Builder
	sb.WriteString(fragments[0].Text)
	for _, f := range fragments[1:] {
		r := []rune(f.Text)
		require.GreaterOrEqual(t, len(r), overlap)
		sb.WriteString(string(r[overlap:]))
	}
	assert.Equal(t, original, sb.String())
}

func TestSplit_LongParagraphFallsBackToSentences(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&sb, "Sentence number %d is here with a bit of filler to pad it out. ", i)
	}
	paragraph := strings.TrimSpace(sb.String())
	require.Greater(t, len(paragraph), 500)

	fragments := Split(paragraph, 500, 50)
	require.GreaterOrEqual(t, len(fragments), 2)

	// Soft bound: each fragment stays within target size plus one sentence of overrun.
	for _, f := range fragments {
		assert.LessOrEqual(t, len([]rune(f.Text)), 500+80)
	}

	// Every sentence survives somewhere in the output.
	joined := strings.Join(fragmentTexts(fragments), " ")
	for i := 0; i < 20; i++ {
		assert.Contains(t, joined, fmt.Sprintf("Sentence number %d", i))
	}
}

func TestSplit_LongParagraphKeepsUnterminatedTail(t *testing.T) {
	paragraph := strings.Repeat("A proper sentence ends here. ", 25) + "trailing words without punctuation"
	fragments := Split(paragraph, 500, 50)

	joined := strings.Join(fragmentTexts(fragments), " ")
	assert.Contains(t, joined, "trailing words without punctuation")
}

func TestSplit_MostlyWhitespaceInput(t *testing.T) {
	// Heavy whitespace around a single character still yields one fragment
	// holding the trimmed content at index 0.
	fragments := Split("\n\n \n\n.\n\n", DefaultTargetSize, DefaultOverlap)
	require.Len(t, fragments, 1)
	assert.Equal(t, ".", fragments[0].Text)
	assert.Equal(t, 0, fragments[0].Index)
}

func fragmentTexts(fragments []Fragment) []string {
	out := make([]string, len(fragments))
	for i, f := range fragments {
		out[i] = f.Text
	}
	return out
}
