package filter

import (
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/roach88/sift/internal/ir"
)

// ErrInvalidFilter is returned by Validate for an internally inconsistent set.
var ErrInvalidFilter = errors.New("invalid filter")

// Predicate is one compiled condition over a record.
type Predicate struct {
	// Name is the predicate-set field this condition came from.
	Name  string
	Match func(ir.Record) bool
}

// Validate checks that f can be evaluated meaningfully.
//
// Rejected:
//   - negative min_length, max_length or word_count
//   - min_length greater than max_length
//   - contains_character that is not exactly one character
func Validate(f ir.Filters) error {
	if f.MinLength != nil && *f.MinLength < 0 {
		return errors.Wrapf(ErrInvalidFilter, "min_length must be >= 0, got %d", *f.MinLength)
	}
	if f.MaxLength != nil && *f.MaxLength < 0 {
		return errors.Wrapf(ErrInvalidFilter, "max_length must be >= 0, got %d", *f.MaxLength)
	}
	if f.MinLength != nil && f.MaxLength != nil && *f.MinLength > *f.MaxLength {
		return errors.Wrapf(ErrInvalidFilter, "min_length %d exceeds max_length %d", *f.MinLength, *f.MaxLength)
	}
	if f.WordCount != nil && *f.WordCount < 0 {
		return errors.Wrapf(ErrInvalidFilter, "word_count must be >= 0, got %d", *f.WordCount)
	}
	if f.ContainsCharacter != nil && utf8.RuneCountInString(*f.ContainsCharacter) != 1 {
		return errors.Wrapf(ErrInvalidFilter, "contains_character must be a single character, got %q", *f.ContainsCharacter)
	}
	return nil
}

// Compile converts f into its list of predicates, one per set field.
// Compile does not validate; call Validate first for untrusted input.
func Compile(f ir.Filters) []Predicate {
	var preds []Predicate

	if f.IsPalindrome != nil {
		want := *f.IsPalindrome
		preds = append(preds, Predicate{
			Name:  "is_palindrome",
			Match: func(r ir.Record) bool { return r.Properties.IsPalindrome == want },
		})
	}
	if f.MinLength != nil {
		lo := *f.MinLength
		preds = append(preds, Predicate{
			Name:  "min_length",
			Match: func(r ir.Record) bool { return r.Properties.Length >= lo },
		})
	}
	if f.MaxLength != nil {
		hi := *f.MaxLength
		preds = append(preds, Predicate{
			Name:  "max_length",
			Match: func(r ir.Record) bool { return r.Properties.Length <= hi },
		})
	}
	if f.WordCount != nil {
		n := *f.WordCount
		preds = append(preds, Predicate{
			Name:  "word_count",
			Match: func(r ir.Record) bool { return r.Properties.WordCount == n },
		})
	}
	if f.ContainsCharacter != nil {
		c := *f.ContainsCharacter
		preds = append(preds, Predicate{
			Name:  "contains_character",
			Match: func(r ir.Record) bool { return ContainsFold(r.Value, c) },
		})
	}

	return preds
}

// Match reports whether rec satisfies every predicate in f.
func Match(rec ir.Record, f ir.Filters) bool {
	return matchAll(rec, Compile(f))
}

// Apply returns the records that satisfy f, in input order.
// The result is never nil.
func Apply(records []ir.Record, f ir.Filters) []ir.Record {
	preds := Compile(f)
	out := make([]ir.Record, 0, len(records))
	for _, rec := range records {
		if matchAll(rec, preds) {
			out = append(out, rec)
		}
	}
	return out
}

func matchAll(rec ir.Record, preds []Predicate) bool {
	for _, p := range preds {
		if !p.Match(rec) {
			return false
		}
	}
	return true
}

// ContainsFold reports whether s contains the character c under Unicode
// simple case folding. An empty c is contained in every string.
func ContainsFold(s, c string) bool {
	if c == "" {
		return true
	}
	for _, r := range s {
		if strings.EqualFold(string(r), c) {
			return true
		}
	}
	return false
}
