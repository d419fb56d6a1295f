package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/sift/internal/ir"
)

// ErrBlank is returned when a value is empty or consists only of whitespace.
var ErrBlank = errors.New("value is empty or whitespace-only")

// IsBlank reports whether s is empty after trimming Unicode whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Analyze computes the fingerprint and properties of value.
// Returns ErrBlank if value is empty or whitespace-only.
func Analyze(value string) (string, ir.Properties, error) {
	if IsBlank(value) {
		return "", ir.Properties{}, ErrBlank
	}

	fingerprint := ir.Fingerprint(value)
	props := ir.Properties{
		Length:             Length(value),
		IsPalindrome:       IsPalindrome(value),
		UniqueCharacters:   UniqueCharacters(value),
		WordCount:          WordCount(value),
		SHA256Hash:         fingerprint,
		CharacterFrequency: CharacterFrequency(value),
	}
	return fingerprint, props, nil
}

// Length returns the number of characters in s.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// IsPalindrome lowercases s, keeps only letters and digits, and compares the
// result with its reversal. A string with no letters or digits is a palindrome.
func IsPalindrome(s string) bool {
	// Caser is stateful; one per call keeps IsPalindrome safe for concurrent use.
	lowered := cases.Lower(language.Und).String(s)

	kept := make([]rune, 0, len(lowered))
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			kept = append(kept, r)
		}
	}

	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		if kept[i] != kept[j] {
			return false
		}
	}
	return true
}

// UniqueCharacters returns the number of distinct characters in s.
// Case-sensitive; whitespace and punctuation count.
func UniqueCharacters(s string) int {
	seen := make(map[rune]struct{})
	for _, r := range s {
		seen[r] = struct{}{}
	}
	return len(seen)
}

// WordCount splits s on the ASCII space character and counts non-empty tokens.
//
// Tabs and newlines are not separators: "a\tb" is one word.
func WordCount(s string) int {
	n := 0
	for _, tok := range strings.Split(s, " ") {
		if tok != "" {
			n++
		}
	}
	return n
}

// CharacterFrequency counts every character of s, including whitespace and
// punctuation, without case folding.
func CharacterFrequency(s string) ir.FrequencyMap {
	freq := make(ir.FrequencyMap)
	for _, r := range s {
		freq[r]++
	}
	return freq
}
