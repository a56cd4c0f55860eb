package summary

import "unicode/utf8"

// Chunk splits text into consecutive pieces of at most maxChars runes.
// Boundaries are fixed character offsets with no sentence alignment, so the
// pieces concatenate back to text exactly. Empty text yields no chunks and a
// non-positive maxChars yields text as a single chunk.
func Chunk(text string, maxChars int) []string {
	if text == "" {
		return nil
	}
	if maxChars <= 0 {
		return []string{text}
	}

	chunks := make([]string, 0, utf8.RuneCountInString(text)/maxChars+1)
	start, count := 0, 0
	for i := range text {
		if count == maxChars {
			chunks = append(chunks, text[start:i])
			start, count = i, 0
		}
		count++
	}
	return append(chunks, text[start:])
}
