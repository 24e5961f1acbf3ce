package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultChunkSize is the soft upper bound on chunk length in runes.
const DefaultChunkSize = 1000

// Split breaks text into ordered, bounded-length, sentence-respecting segments.
// Sentences are accumulated greedily until adding the next one would exceed
// maxLen, then the buffer is flushed as one chunk. A single sentence longer
// than maxLen is emitted verbatim as its own oversized chunk; content is never
// truncated or dropped. Empty or whitespace-only input yields no chunks.
func Split(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = DefaultChunkSize
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var buf strings.Builder
	bufLen := 0

	for _, sentence := range sentences {
		sentenceLen := utf8.RuneCountInString(sentence)

		if bufLen > 0 && bufLen+1+sentenceLen > maxLen {
			chunks = append(chunks, buf.String())
			buf.Reset()
			bufLen = 0
		}

		if bufLen > 0 {
			buf.WriteString(" ")
			bufLen++
		}
		buf.WriteString(sentence)
		bufLen += sentenceLen
	}

	if bufLen > 0 {
		chunks = append(chunks, buf.String())
	}

	return chunks
}

// splitSentences cuts text on terminal punctuation followed by whitespace.
// Trailing text without a terminator is kept as a final sentence so no
// character of the source is ever lost.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)

	start := 0
	i := 0
	for i < len(runes) {
		if !isTerminal(runes[i]) {
			i++
			continue
		}

		// Consume runs of terminal punctuation ("...", "?!").
		end := i
		for end+1 < len(runes) && isTerminal(runes[end+1]) {
			end++
		}

		if end+1 < len(runes) && !unicode.IsSpace(runes[end+1]) {
			// Mid-token punctuation (e.g. "3.14", "e.g.x") is not a boundary.
			i = end + 1
			continue
		}

		sentence := strings.TrimSpace(string(runes[start : end+1]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}

		i = end + 1
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
		start = i
	}

	if start < len(runes) {
		tail := strings.TrimSpace(string(runes[start:]))
		if tail != "" {
			sentences = append(sentences, tail)
		}
	}

	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
