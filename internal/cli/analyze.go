package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sift/internal/analysis"
	"github.com/roach88/sift/internal/ir"
)

// AnalyzeResult is the JSON payload of the analyze command.
type AnalyzeResult struct {
	Value      string        `json:"value"`
	Properties ir.Properties `json:"properties"`
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <value>",
		Short: "Compute the properties of a string without storing it",
		Long: `Compute the fingerprint and properties of a single string.

The value is analyzed exactly as given; quote it to keep spaces.

Example:
  sift analyze racecar
  sift analyze "hello world" --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(rootOpts, args[0], cmd)
		},
	}
}

func runAnalyze(opts *RootOptions, value string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	_, props, err := analysis.Analyze(value)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidInput, "value must not be empty or whitespace-only", err)
	}

	return f.Success(AnalyzeResult{Value: value, Properties: props}, formatProperties(props))
}

func formatProperties(p ir.Properties) string {
	var b strings.Builder
	fmt.Fprintf(&b, "sha256_hash:       %s\n", p.SHA256Hash)
	fmt.Fprintf(&b, "length:            %d\n", p.Length)
	fmt.Fprintf(&b, "is_palindrome:     %t\n", p.IsPalindrome)
	fmt.Fprintf(&b, "unique_characters: %d\n", p.UniqueCharacters)
	fmt.Fprintf(&b, "word_count:        %d\n", p.WordCount)

	counts := make([]string, 0, len(p.CharacterFrequency))
	for _, r := range p.CharacterFrequency.Runes() {
		counts = append(counts, fmt.Sprintf("%q=%d", r, p.CharacterFrequency[r]))
	}
	fmt.Fprintf(&b, "character_frequency: %s\n", strings.Join(counts, " "))
	return b.String()
}
