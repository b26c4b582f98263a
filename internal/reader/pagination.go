package reader

import "math"

// Layout defaults.
const (
	DefaultWordsPerPage = 250
	DefaultReadingWPM   = 200
	DefaultFontSize     = 16
	DefaultLineHeight   = 1.6
)

// PageCount returns how many pages a chapter spans; never less than one
func PageCount(chapterWords, wordsPerPage int) int {
	if wordsPerPage < 1 {
		wordsPerPage = 1
	}
	if chapterWords <= 0 {
		return 1
	}
	return (chapterWords + wordsPerPage - 1) / wordsPerPage
}

// WordsBefore sums the word counts of every chapter strictly before current
func WordsBefore(wordCounts []int, current int) int {
	total := 0
	for i := 0; i < current && i < len(wordCounts); i++ {
		total += wordCounts[i]
	}
	return total
}

// ProgressPercent is the share of the book's words that precede the current
// chapter, rounded to the nearest whole percent. A book without words is at 0%.
func ProgressPercent(wordCounts []int, current int) int {
	total := WordsBefore(wordCounts, len(wordCounts))
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(WordsBefore(wordCounts, current)) / float64(total)))
}

// ReadingTimeMinutes estimates minutes needed for a chapter, rounded up
func ReadingTimeMinutes(chapterWords, wpm int) int {
	if wpm < 1 {
		wpm = DefaultReadingWPM
	}
	if chapterWords <= 0 {
		return 0
	}
	return (chapterWords + wpm - 1) / wpm
}
