package markdown

import (
	"strconv"
	"strings"
)

// wordsPerMinute is the reading speed used for the estimate.
const wordsPerMinute = 200

// ReadingMinutes returns ceil(words/200) where words are whitespace-separated
// runs. Content without any word yields 0.
func ReadingMinutes(content string) int {
	words := len(strings.Fields(content))
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// EstimateReadingTime formats the reading time as "<N> min de lecture".
func EstimateReadingTime(content string) string {
	return strconv.Itoa(ReadingMinutes(content)) + " min de lecture"
}
