// Package species generates eBird-style species codes from common names.
package species

import (
	"fmt"
	"regexp"
	"strings"
)

var parenthetical = regexp.MustCompile(`\([^)]*\)`)

// CodeLength is the eBird standard species code length.
const CodeLength = 6

// GenerateCode builds a unique 6-letter lowercase species code from a
// common name: the first three letters of the first word joined with the
// first three of the last word ("American Woodcock" -> "amewoo"). On a
// collision with existing it walks through fallback strategies and finally
// appends a counter.
func GenerateCode(name string, existing map[string]bool) string {
	cleaned := strings.TrimSpace(parenthetical.ReplaceAllString(name, ""))
	words := strings.Fields(cleaned)

	var base string
	switch len(words) {
	case 0:
		base = strings.Repeat("x", CodeLength)
	case 1:
		word := strings.ToLower(words[0])
		if len(word) >= CodeLength {
			base = word[:CodeLength]
		} else {
			// Pad short names by repeating the word: "ruff" -> "ruffru".
			base = strings.Repeat(word, CodeLength/len(word)+1)[:CodeLength]
		}
	default:
		base = strings.ToLower(prefix(words[0], 3) + prefix(words[len(words)-1], 3))
	}

	if !existing[base] {
		return base
	}

	// Collision: prefer more letters from the last word.
	if len(words) >= 2 && len(words[len(words)-1]) >= 4 {
		alt := strings.ToLower(prefix(words[0], 2) + prefix(words[len(words)-1], 4))
		if !existing[alt] {
			return alt
		}
	}

	// Three or more words: try the middle word instead of the last.
	if len(words) >= 3 {
		alt := strings.ToLower(prefix(words[0], 3) + prefix(words[1], 3))
		if !existing[alt] {
			return alt
		}
	}

	if len(words) >= 2 {
		alt := strings.ToLower(prefix(words[0], 4) + prefix(words[len(words)-1], 2))
		if !existing[alt] {
			return alt
		}
	}

	for i := 2; ; i++ {
		alt := fmt.Sprintf("%s%d", prefix(base, CodeLength-1), i)
		if !existing[alt] {
			return alt
		}
	}
}

func prefix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
