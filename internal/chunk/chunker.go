// Package chunk splits raw text into bounded word-count chunks,
// preferring to close a chunk at a sentence boundary.
package chunk

import "strings"

// DefaultMaxWords is the default chunk size in words.
const DefaultMaxWords = 500

// softMinimum returns the word count at which a chunk may close early on a
// sentence boundary: ceil(maxWords / 1.25), computed in integer arithmetic
// as ceil(4*maxWords / 5).
func softMinimum(maxWords int) int {
	return (4*maxWords + 4) / 5
}

// endsSentence reports whether a token terminates a sentence.
func endsSentence(word string) bool {
	return strings.HasSuffix(word, ".") ||
		strings.HasSuffix(word, "!") ||
		strings.HasSuffix(word, "?")
}

// Split splits text into chunks of at most maxWords whitespace-delimited
// words each. A chunk closes early when a token ends a sentence and the
// chunk has reached the soft minimum; otherwise it closes when it reaches
// exactly maxWords. A trailing partial chunk is emitted as-is.
//
// Split is a pure function: identical input always yields identical chunks.
// Empty or whitespace-only input yields no chunks.
func Split(text string, maxWords int) []string {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	softMin := softMinimum(maxWords)

	var chunks []string
	current := make([]string, 0, maxWords)

	for _, word := range words {
		current = append(current, word)

		switch {
		case endsSentence(word) && len(current) >= softMin:
			chunks = append(chunks, strings.Join(current, " "))
			current = current[:0]
		case len(current) >= maxWords:
			chunks = append(chunks, strings.Join(current, " "))
			current = current[:0]
		}
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}

// CountWords returns the number of whitespace-delimited tokens in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
