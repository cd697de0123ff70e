// ABOUTME: Tests for the deterministic chunk splitter
// ABOUTME: Verifies round-trip, length bound, determinism, and hard slicing

package core

import (
	"strings"
	"testing"
)

func TestSplitChunks_ShortTextUnchanged(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"plain sentence", "A short paragraph."},
		{"leading whitespace preserved", "  indented text  "},
		{"exactly at limit", strings.Repeat("a", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitChunks(tt.text, 50)
			if len(chunks) != 1 {
				t.Fatalf("expected 1 chunk, got %d", len(chunks))
			}
			if chunks[0] != tt.text {
				t.Errorf("short input must be returned unchanged, got %q", chunks[0])
			}
		})
	}
}

func TestSplitChunks_EmptyInput(t *testing.T) {
	if chunks := SplitChunks("", 100); chunks != nil {
		t.Errorf("expected no chunks for empty input, got %v", chunks)
	}
}

func TestSplitChunks_RoundTrip(t *testing.T) {
	paragraphs := []string{
		"The caravan crossed the ridge at dawn.",
		"Nobody spoke until the city walls came into view.",
		"A bell rang three times.",
		"The gatekeeper waved them through without a word.",
	}
	text := strings.Join(paragraphs, "\n")

	chunks := SplitChunks(text, 60)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Concatenation modulo paragraph separators reproduces the input.
	joined := strings.Join(chunks, "\n")
	if joined != text {
		t.Errorf("round trip failed:\ngot  %q\nwant %q", joined, text)
	}
}

func TestSplitChunks_LengthBound(t *testing.T) {
	texts := []string{
		strings.Repeat("word ", 500),
		strings.Join([]string{"short", strings.Repeat("x", 400), "tail"}, "\n"),
		strings.Repeat("一二三四五六七八九十", 100),
	}

	for _, text := range texts {
		for _, max := range []int{50, 100, 333} {
			for i, chunk := range SplitChunks(text, max) {
				if n := len([]rune(chunk)); n > max {
					t.Errorf("max %d: chunk %d has %d runes", max, i, n)
				}
			}
		}
	}
}

func TestSplitChunks_Deterministic(t *testing.T) {
	text := strings.Repeat("Paragraph one.\nParagraph two is a bit longer.\n", 40)

	first := SplitChunks(text, 120)
	second := SplitChunks(text, 120)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplitChunks_OversizedParagraphHardSliced(t *testing.T) {
	long := strings.Repeat("a", 250)
	text := "before\n" + long + "\npost"

	chunks := SplitChunks(text, 100)

	// The long paragraph is sliced into fixed windows; everything stays
	// within the bound and nothing is lost.
	var rebuilt strings.Builder
	for _, c := range chunks {
		if len([]rune(c)) > 100 {
			t.Errorf("chunk exceeds bound: %d runes", len([]rune(c)))
		}
		rebuilt.WriteString(c)
	}
	joined := rebuilt.String()
	if !strings.Contains(joined, "before") || !strings.Contains(joined, "post") {
		t.Error("surrounding paragraphs lost")
	}
	if strings.Count(joined, "a") != 250 {
		t.Errorf("hard slicing lost characters: %d of 250 remain", strings.Count(joined, "a"))
	}
}

func TestSplitChunks_FiltersEmptyChunks(t *testing.T) {
	text := "first\n\n\n" + strings.Repeat("b", 80) + "\n\n\nlast"

	for _, chunk := range SplitChunks(text, 40) {
		if strings.TrimSpace(chunk) == "" {
			t.Error("whitespace-only chunk not filtered")
		}
	}
}

func TestSplitChunks_ParagraphBoundariesPreferred(t *testing.T) {
	text := "alpha\nbeta\ngamma\ndelta"

	chunks := SplitChunks(text, 12)
	for _, chunk := range chunks {
		for _, para := range strings.Split(chunk, "\n") {
			switch para {
			case "alpha", "beta", "gamma", "delta":
			default:
				t.Errorf("paragraph split mid-word: %q", para)
			}
		}
	}
}
