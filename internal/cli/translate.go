package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sift/internal/analysis"
	"github.com/roach88/sift/internal/ir"
	"github.com/roach88/sift/internal/nlquery"
)

// NewTranslateCommand creates the translate command.
func NewTranslateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "translate <query...>",
		Short: "Show the filters a natural-language query maps to",
		Long: `Translate a plain-English query into structured filters.

Arguments are joined with single spaces. No store is consulted.

Example:
  sift translate all single word palindromic strings
  sift translate "strings longer than 10 characters" --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(rootOpts, strings.Join(args, " "), cmd)
		},
	}
}

func runTranslate(opts *RootOptions, query string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	if analysis.IsBlank(query) {
		return f.Fail(ExitCommandError, ErrCodeInvalidInput, "query must not be empty or whitespace-only", nil)
	}

	interp := nlquery.Translate(query)
	f.VerboseLog("matched: %v", interp.Matched)
	return f.Success(interp, formatInterpretation(interp))
}

func formatInterpretation(in nlquery.Interpretation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "original: %s\n", in.Original)
	if len(in.Matched) == 0 {
		b.WriteString("matched:  (none)\n")
	} else {
		fmt.Fprintf(&b, "matched:  %s\n", strings.Join(in.Matched, ", "))
	}
	fmt.Fprintf(&b, "filters:  %s\n", formatFilters(in.Filters))
	return b.String()
}

// formatFilters renders the set predicates as key=value pairs in field order.
func formatFilters(fs ir.Filters) string {
	var parts []string
	if fs.IsPalindrome != nil {
		parts = append(parts, "is_palindrome="+strconv.FormatBool(*fs.IsPalindrome))
	}
	if fs.MinLength != nil {
		parts = append(parts, "min_length="+strconv.Itoa(*fs.MinLength))
	}
	if fs.MaxLength != nil {
		parts = append(parts, "max_length="+strconv.Itoa(*fs.MaxLength))
	}
	if fs.WordCount != nil {
		parts = append(parts, "word_count="+strconv.Itoa(*fs.WordCount))
	}
	if fs.ContainsCharacter != nil {
		parts = append(parts, "contains_character="+strconv.Quote(*fs.ContainsCharacter))
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, " ")
}
