package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t  \n"} {
		if got := Split(input, 100); len(got) != 0 {
			t.Errorf("Split(%q) = %v, want empty", input, got)
		}
	}
}

func TestSplitRespectsSentenceBoundaries(t *testing.T) {
	text := "First sentence here. Second sentence follows! Third one asks? Fourth closes."
	chunks := Split(text, 50)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d: %v", len(chunks), chunks)
	}
	for i, c := range chunks {
		if utf8.RuneCountInString(c) > 50 {
			t.Errorf("chunk %d exceeds maxLen: %q", i, c)
		}
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestSplitSingleChunkWhenSmall(t *testing.T) {
	text := "Short text. Fits easily."
	chunks := Split(text, 1000)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d: %v", len(chunks), chunks)
	}
}

func TestSplitOversizedSentenceEmittedAlone(t *testing.T) {
	long := strings.Repeat("word ", 60) + "end."
	text := "Small lead. " + long + " Small tail."

	chunks := Split(text, 80)

	found := false
	for _, c := range chunks {
		if strings.Contains(c, "end.") {
			found = true
			if strings.Contains(c, "Small lead") || strings.Contains(c, "Small tail") {
				t.Errorf("oversized sentence not emitted alone: %q", c)
			}
			if utf8.RuneCountInString(c) <= 80 {
				t.Errorf("expected oversized chunk, got len %d", utf8.RuneCountInString(c))
			}
		}
	}
	if !found {
		t.Fatal("oversized sentence was dropped")
	}
}

func TestSplitIsLossless(t *testing.T) {
	texts := []string{
		"One. Two. Three. Four. Five. Six. Seven. Eight. Nine. Ten.",
		"No terminal punctuation at all just a stream of words going on",
		"Mixed! Content? With... ellipsis. And a dangling tail",
		"Decimal values like 3.14 stay intact. Next sentence.",
	}

	for _, text := range texts {
		chunks := Split(text, 25)
		got := normalize(strings.Join(chunks, " "))
		want := normalize(text)
		if got != want {
			t.Errorf("content lost:\n got: %q\nwant: %q", got, want)
		}
	}
}

func TestSplitChunksNeverEmpty(t *testing.T) {
	chunks := Split("A. B. C. D. E. F.", 4)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	for i, c := range chunks {
		if len(c) == 0 {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

// normalize collapses all whitespace so merge-point separators do not affect
// the lossless comparison.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
