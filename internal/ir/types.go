package ir

import (
	"maps"
	"sort"
	"time"
)

// Properties holds the derived analysis of a string.
// All fields are computed once at creation and never mutated independently.
type Properties struct {
	Length             int          `json:"length"`
	IsPalindrome       bool         `json:"is_palindrome"`
	UniqueCharacters   int          `json:"unique_characters"`
	WordCount          int          `json:"word_count"`
	SHA256Hash         string       `json:"sha256_hash"`
	CharacterFrequency FrequencyMap `json:"character_frequency_map"`
}

// FrequencyMap counts occurrences of each distinct rune.
// It marshals to JSON as an object keyed by the one-character string.
type FrequencyMap map[rune]int

// Total returns the sum of all counts.
func (m FrequencyMap) Total() int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}

// Runes returns the counted runes in ascending order.
func (m FrequencyMap) Runes() []rune {
	runes := make([]rune, 0, len(m))
	for r := range m {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return runes
}

// Record is one stored, analyzed string.
//
// ID is the fingerprint of Value. The store holds at most one Record per ID,
// and no field of a stored Record is ever modified; a Record is only
// inserted whole or deleted whole.
type Record struct {
	ID         string     `json:"id"`
	Value      string     `json:"value"`
	Properties Properties `json:"properties"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Clone returns a deep copy of the record.
// The frequency map is the only reference-typed field.
func (r Record) Clone() Record {
	out := r
	out.Properties.CharacterFrequency = maps.Clone(r.Properties.CharacterFrequency)
	return out
}

// Filters is the predicate set used by both structured and natural-language
// queries. Every field is optional; a nil field imposes no constraint and all
// non-nil fields are conjoined.
//
// Absent fields serialize as null so the echo returned to callers always lists
// the full set of predicate names.
type Filters struct {
	IsPalindrome      *bool   `json:"is_palindrome"`
	MinLength         *int    `json:"min_length"`
	MaxLength         *int    `json:"max_length"`
	WordCount         *int    `json:"word_count"`
	ContainsCharacter *string `json:"contains_character"`
}

// Empty reports whether no predicate is set.
func (f Filters) Empty() bool {
	return f.IsPalindrome == nil &&
		f.MinLength == nil &&
		f.MaxLength == nil &&
		f.WordCount == nil &&
		f.ContainsCharacter == nil
}

// Merge returns f with every unset field taken from other.
// Fields already set in f win.
func (f Filters) Merge(other Filters) Filters {
	if f.IsPalindrome == nil {
		f.IsPalindrome = other.IsPalindrome
	}
	if f.MinLength == nil {
		f.MinLength = other.MinLength
	}
	if f.MaxLength == nil {
		f.MaxLength = other.MaxLength
	}
	if f.WordCount == nil {
		f.WordCount = other.WordCount
	}
	if f.ContainsCharacter == nil {
		f.ContainsCharacter = other.ContainsCharacter
	}
	return f
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// String returns a pointer to s.
func String(s string) *string { return &s }
