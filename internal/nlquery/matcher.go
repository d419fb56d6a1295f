package nlquery

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/sift/internal/ir"
)

// Matcher recognizes one phrase pattern.
// Match receives the lowercased query and returns the fragment it derives.
type Matcher struct {
	Name  string
	Match func(lowered string) (ir.Filters, bool)
}

var (
	wordCountPattern  = regexp.MustCompile(`single\s+word|(\d+)\s+words?`)
	longerThanPattern = regexp.MustCompile(`longer\s+than\s+(\d+)`)
	letterPattern     = regexp.MustCompile(`letter\s+([a-z])`)
)

// Palindromic sets is_palindrome when "palindromic" appears anywhere.
func Palindromic() Matcher {
	return Keyword("palindromic", ir.Filters{IsPalindrome: ir.Bool(true)})
}

// Keyword returns a Matcher that yields fragment when keyword is a substring
// of the query.
func Keyword(keyword string, fragment ir.Filters) Matcher {
	return Matcher{
		Name: keyword,
		Match: func(q string) (ir.Filters, bool) {
			if !strings.Contains(q, keyword) {
				return ir.Filters{}, false
			}
			return fragment, true
		},
	}
}

// WordCount sets word_count from "single word" or "<N> word(s)".
// The leftmost occurrence of either form decides.
func WordCount() Matcher {
	return Matcher{
		Name: "word_count",
		Match: func(q string) (ir.Filters, bool) {
			m := wordCountPattern.FindStringSubmatch(q)
			if m == nil {
				return ir.Filters{}, false
			}
			if m[1] == "" {
				return ir.Filters{WordCount: ir.Int(1)}, true
			}
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return ir.Filters{}, false
			}
			return ir.Filters{WordCount: ir.Int(n)}, true
		},
	}
}

// LongerThan sets min_length to N+1 from "longer than <N>".
func LongerThan() Matcher {
	return Matcher{
		Name: "longer_than",
		Match: func(q string) (ir.Filters, bool) {
			m := longerThanPattern.FindStringSubmatch(q)
			if m == nil {
				return ir.Filters{}, false
			}
			n, err := strconv.Atoi(m[1])
			if err != nil || n == math.MaxInt {
				return ir.Filters{}, false
			}
			return ir.Filters{MinLength: ir.Int(n + 1)}, true
		},
	}
}

// Letter sets contains_character from "letter <x>".
func Letter() Matcher {
	return Matcher{
		Name: "letter",
		Match: func(q string) (ir.Filters, bool) {
			m := letterPattern.FindStringSubmatch(q)
			if m == nil {
				return ir.Filters{}, false
			}
			return ir.Filters{ContainsCharacter: ir.String(m[1])}, true
		},
	}
}

// DefaultMatchers returns the built-in matchers in evaluation order.
func DefaultMatchers() []Matcher {
	return []Matcher{
		Palindromic(),
		WordCount(),
		LongerThan(),
		Letter(),
	}
}
