package entity

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"blog-content/internal/utils/text"
)

// WordsPerMinute is the reading speed used by CalculateReadTime.
const WordsPerMinute = 200

var (
	// Matches everything that is neither an ASCII letter/digit nor whitespace.
	nonSlugChars = regexp.MustCompile(`[^a-z0-9\s]`)
	// Matches runs of whitespace.
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// GenerateSlug derives a URL-safe slug from a post title.
//
// Rules:
//  1. Decompose accented characters and drop anything outside ASCII
//  2. Lowercase
//  3. Strip every character that is not a letter, digit or whitespace
//  4. Replace each run of whitespace with a single hyphen
//
// Leading and trailing whitespace is not trimmed, so it survives as a hyphen.
//
//	"Hello, World!" -> "hello-world"
//	"  A   B "      -> "-a-b-"
//	"Café Crème"    -> "cafe-creme"
//	"Sci-Fi"        -> "scifi"
func GenerateSlug(title string) string {
	s := norm.NFKD.String(title)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
	s = strings.ToLower(s)
	s = nonSlugChars.ReplaceAllString(s, "")
	return whitespaceRun.ReplaceAllString(s, "-")
}

// CalculateReadTime estimates reading minutes for content: words / 200,
// rounded up, never less than 1.
func CalculateReadTime(content string) int {
	words := text.CountWords(content)
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
