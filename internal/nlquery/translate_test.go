package nlquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sift/internal/ir"
)

func TestTranslate_Examples(t *testing.T) {
	tests := []struct {
		query string
		want  ir.Filters
	}{
		{
			query: "Find palindromic strings with a single word",
			want:  ir.Filters{IsPalindrome: ir.Bool(true), WordCount: ir.Int(1)},
		},
		{
			query: "strings longer than 10",
			want:  ir.Filters{MinLength: ir.Int(11)},
		},
		{
			query: "containing the letter z",
			want:  ir.Filters{ContainsCharacter: ir.String("z")},
		},
		{
			query: "show me things",
			want:  ir.Filters{},
		},
		{
			query: "palindromic strings longer than 3 with the letter a",
			want: ir.Filters{
				IsPalindrome:      ir.Bool(true),
				MinLength:         ir.Int(4),
				ContainsCharacter: ir.String("a"),
			},
		},
		{
			query: "strings with 3 words",
			want:  ir.Filters{WordCount: ir.Int(3)},
		},
		{
			query: "strings with 2 word",
			want:  ir.Filters{WordCount: ir.Int(2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Translate(tt.query)
			assert.Equal(t, tt.want, got.Filters)
			assert.Equal(t, tt.query, got.Original)
		})
	}
}

func TestTranslate_CaseInsensitive(t *testing.T) {
	got := Translate("PALINDROMIC strings LONGER THAN 5 with the LETTER Q")

	require.NotNil(t, got.Filters.IsPalindrome)
	require.NotNil(t, got.Filters.MinLength)
	assert.Equal(t, 6, *got.Filters.MinLength)
	require.NotNil(t, got.Filters.ContainsCharacter)
	assert.Equal(t, "q", *got.Filters.ContainsCharacter)
}

func TestTranslate_ToleratesExtraWhitespace(t *testing.T) {
	got := Translate("longer   than\t7 and single  word")
	assert.Equal(t, ir.Filters{MinLength: ir.Int(8), WordCount: ir.Int(1)}, got.Filters)
}

func TestTranslate_FirstWordCountMatchWins(t *testing.T) {
	got := Translate("3 words or a single word")
	assert.Equal(t, ir.Int(3), got.Filters.WordCount)

	got = Translate("a single word or 3 words")
	assert.Equal(t, ir.Int(1), got.Filters.WordCount)
}

func TestTranslate_MatchedEcho(t *testing.T) {
	got := Translate("palindromic strings with the letter x")
	assert.Equal(t, []string{"palindromic", "letter"}, got.Matched)

	got = Translate("nothing to see")
	assert.NotNil(t, got.Matched)
	assert.Empty(t, got.Matched)
	assert.True(t, got.Filters.Empty())
}

func TestTranslate_Deterministic(t *testing.T) {
	q := "palindromic strings longer than 4 with 2 words"
	assert.Equal(t, Translate(q), Translate(q))
}

func TestLongerThan_Overflow(t *testing.T) {
	_, ok := LongerThan().Match("longer than 99999999999999999999999")
	assert.False(t, ok)

	_, ok = LongerThan().Match("longer than 9223372036854775807")
	assert.False(t, ok)
}

func TestWordCount_Overflow(t *testing.T) {
	_, ok := WordCount().Match("99999999999999999999999 words")
	assert.False(t, ok)
}

func TestLetter_RequiresLatinLetter(t *testing.T) {
	_, ok := Letter().Match("letter 5")
	assert.False(t, ok)

	frag, ok := Letter().Match("the letter b please")
	require.True(t, ok)
	assert.Equal(t, "b", *frag.ContainsCharacter)
}

func TestPalindromic_Substring(t *testing.T) {
	_, ok := Palindromic().Match("nonpalindromic") // substring match, like the keyword search
	assert.True(t, ok)

	_, ok = Palindromic().Match("palindrome")
	assert.False(t, ok)
}

func TestNew_CustomMatchers(t *testing.T) {
	short := Keyword("short", ir.Filters{MaxLength: ir.Int(5)})
	tr := New(short, Palindromic())

	got := tr.Translate("short palindromic strings")
	assert.Equal(t, ir.Filters{MaxLength: ir.Int(5), IsPalindrome: ir.Bool(true)}, got.Filters)
	assert.Equal(t, []string{"short", "palindromic"}, got.Matched)
}

func TestNew_EarlierMatcherWinsConflicts(t *testing.T) {
	one := Keyword("tiny", ir.Filters{WordCount: ir.Int(1)})
	tr := New(one, WordCount())

	got := tr.Translate("tiny 4 words")
	assert.Equal(t, ir.Int(1), got.Filters.WordCount)
	assert.Equal(t, []string{"tiny", "word_count"}, got.Matched)
}
