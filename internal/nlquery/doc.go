// Package nlquery translates free-text queries into an ir.Filters predicate set.
//
// The translator is a fixed, ordered list of Matchers. Each Matcher is a pure
// function over the lowercased query that either contributes a predicate
// fragment or nothing. All matchers run on every query; fragments are merged
// in list order and the first matcher to set a field wins.
//
// Recognized phrases:
//
//	"palindromic"             is_palindrome = true
//	"single word"             word_count = 1
//	"<N> word" / "<N> words"  word_count = N   (first of the two forms to appear wins)
//	"longer than <N>"         min_length = N + 1
//	"letter <x>"              contains_character = x   (x in a-z)
//
// Unrecognized text contributes nothing. A query with no recognized phrase
// yields an empty predicate set, which matches every record.
package nlquery
