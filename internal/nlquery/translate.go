package nlquery

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/sift/internal/ir"
)

// Interpretation is the result of translating a query.
type Interpretation struct {
	// Original is the query exactly as submitted.
	Original string `json:"original"`

	// Filters is the merged predicate set.
	Filters ir.Filters `json:"parsed_filters"`

	// Matched names the matchers that fired, in evaluation order.
	Matched []string `json:"matched"`
}

// Translator maps queries to predicate sets.
// A Translator is immutable and safe for concurrent use.
type Translator struct {
	matchers []Matcher
}

// New creates a Translator running matchers in the given order.
// With no matchers it uses DefaultMatchers.
func New(matchers ...Matcher) *Translator {
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	ms := make([]Matcher, len(matchers))
	copy(ms, matchers)
	return &Translator{matchers: ms}
}

// Default returns a Translator with the built-in matchers.
func Default() *Translator {
	return New()
}

// Translate lowercases query and runs every matcher over it.
// Translate never fails; the caller decides whether a blank query is legal.
func (t *Translator) Translate(query string) Interpretation {
	lowered := cases.Lower(language.Und).String(query)

	out := Interpretation{
		Original: query,
		Matched:  []string{},
	}
	for _, m := range t.matchers {
		frag, ok := m.Match(lowered)
		if !ok {
			continue
		}
		out.Filters = out.Filters.Merge(frag)
		out.Matched = append(out.Matched, m.Name)
	}
	return out
}

// Translate runs the default matchers over query.
func Translate(query string) Interpretation {
	return Default().Translate(query)
}
