// ABOUTME: Deterministic splitter turning long source text into bounded chunks
// ABOUTME: Paragraph-first accumulation with hard slicing for oversized paragraphs
package core

import "strings"

// DefaultChunkLength is the default per-chunk rune bound.
const DefaultChunkLength = 3500

// SplitChunks splits text into an ordered sequence of chunks, each at most
// maxLen runes. Paragraph boundaries (single line breaks) are preserved
// whenever possible; a single paragraph longer than maxLen is hard-sliced
// into fixed-size rune windows. Empty chunks are filtered. The function is
// pure: identical input always yields the identical sequence.
func SplitChunks(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = DefaultChunkLength
	}
	if len([]rune(text)) <= maxLen {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	var chunks []string
	var buf strings.Builder
	bufLen := 0

	flush := func() {
		if buf.Len() > 0 {
			chunks = append(chunks, buf.String())
			buf.Reset()
			bufLen = 0
		}
	}

	for _, para := range strings.Split(text, "\n") {
		paraLen := len([]rune(para))

		if paraLen > maxLen {
			// Pathological paragraph: flush what we have and slice it
			// into fixed windows, bypassing the buffer.
			flush()
			runes := []rune(para)
			for start := 0; start < len(runes); start += maxLen {
				end := start + maxLen
				if end > len(runes) {
					end = len(runes)
				}
				window := string(runes[start:end])
				if window != "" {
					chunks = append(chunks, window)
				}
			}
			continue
		}

		if bufLen > 0 && bufLen+1+paraLen >= maxLen {
			flush()
		}
		if bufLen > 0 {
			buf.WriteString("\n")
			bufLen++
		}
		buf.WriteString(para)
		bufLen += paraLen
	}
	flush()

	// Drop whitespace-only chunks.
	result := chunks[:0]
	for _, c := range chunks {
		if strings.TrimSpace(c) != "" {
			result = append(result, c)
		}
	}
	return result
}
