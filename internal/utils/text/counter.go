// Package text provides utilities for text processing and analysis.
package text

import "strings"

// CountWords counts whitespace-separated tokens in the given text.
// Markup is not stripped: "<p>Hello" counts as one word.
//
// Examples:
//
//	CountWords("hello world")      // returns 2
//	CountWords("  spaced   out ")  // returns 2
//	CountWords("")                 // returns 0
func CountWords(text string) int {
	return len(strings.Fields(text))
}
