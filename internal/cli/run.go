package cli

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/roach88/sift/internal/scenario"
	"github.com/roach88/sift/internal/service"
	"github.com/roach88/sift/internal/store"
	"github.com/roach88/sift/internal/testutil"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario name glob
}

// ScenarioResult holds the result of a single scenario file.
type ScenarioResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Pass   bool     `json:"pass"`
	Golden string   `json:"golden,omitempty"` // "match", "updated" or "mismatch"
	Errors []string `json:"errors,omitempty"`
}

// RunResult holds the overall result of a run.
type RunResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml|dir>...",
		Short: "Run conformance scenarios",
		Long: `Run YAML scenarios against a fresh store each.

Directories are searched recursively for .yaml and .yml files. When
golden/<name>.golden exists next to a scenario file its trace must match
byte for byte. The store backend comes from store.backend; every scenario
gets its own in-memory database.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  sift run ./scenarios
  sift run ./scenarios --filter "palin*"
  sift run ./scenarios/basic.yaml --update
  sift run ./scenarios --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by file-name glob")

	return cmd
}

func runScenarios(opts *RunOptions, paths []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	cfg, err := opts.loadConfig(f)
	if err != nil {
		return err
	}

	var files []string
	for _, p := range paths {
		found, err := findScenarioFiles(p, opts.Filter)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeScenario, "failed to find scenarios", err)
		}
		files = append(files, found...)
	}

	result := RunResult{
		Scenarios: make([]ScenarioResult, 0, len(files)),
		Total:     len(files),
	}
	for _, file := range files {
		f.VerboseLog("running %s", file)
		sr := runScenarioFile(cmd.Context(), opts, cfg.Store.Backend, file)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if result.Failed == 0 {
		return f.Success(result, formatRunResult(result))
	}

	msg := fmt.Sprintf("%d scenario(s) failed", result.Failed)
	if f.JSON() {
		if err := f.encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error:  &CLIError{Code: ErrCodeFailed, Message: msg},
		}); err != nil {
			return err
		}
	} else if err := f.Success(nil, formatRunResult(result)); err != nil {
		return err
	}
	return NewExitError(ExitFailure, msg)
}

// findScenarioFiles returns path itself when it is a file, or every YAML file
// below it when it is a directory. Golden directories are skipped.
func findScenarioFiles(path, filter string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return filterScenarioFiles([]string{path}, filter)
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}
		if ext := filepath.Ext(p); ext == ".yaml" || ext == ".yml" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return filterScenarioFiles(files, filter)
}

func filterScenarioFiles(files []string, filter string) ([]string, error) {
	if filter == "" {
		return files, nil
	}
	var out []string
	for _, file := range files {
		base := filepath.Base(file)
		matched, err := filepath.Match(filter, strings.TrimSuffix(base, filepath.Ext(base)))
		if err != nil {
			return nil, errors.Wrap(err, "invalid filter pattern")
		}
		if matched {
			out = append(out, file)
		}
	}
	return out, nil
}

func runScenarioFile(ctx context.Context, opts *RunOptions, backend, file string) ScenarioResult {
	sr := ScenarioResult{Name: filepath.Base(file), File: file}

	sc, err := scenario.Load(file)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("failed to load scenario: %v", err)}
		return sr
	}
	sr.Name = sc.Name

	st, err := store.Open(store.Options{Backend: backend})
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("failed to open store: %v", err)}
		return sr
	}
	defer st.Close()

	svc := service.New(st, service.WithClock(testutil.NewDeterministicClock().Now))
	res, err := scenario.Run(ctx, svc, sc)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return sr
	}
	sr.Pass = res.Pass
	sr.Errors = res.Errors

	golden, err := checkGolden(file, res, opts.Update)
	if err != nil {
		sr.Pass = false
		sr.Errors = append(sr.Errors, err.Error())
	}
	sr.Golden = golden
	return sr
}

// goldenFilePath returns the path to the golden file for a scenario.
func goldenFilePath(scenarioFile string) string {
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(scenarioFile), "golden", name+".golden")
}

// checkGolden compares or rewrites the golden file of a scenario.
// Returns "" when there is no golden file and update is off.
func checkGolden(file string, res *scenario.Result, update bool) (string, error) {
	data, err := scenario.MarshalSnapshot(res)
	if err != nil {
		return "", errors.Wrap(err, "marshal trace")
	}
	path := goldenFilePath(file)

	if update {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", errors.Wrap(err, "create golden directory")
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return "", errors.Wrap(err, "write golden file")
		}
		return "updated", nil
	}

	want, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "read golden file")
	}
	if !bytes.Equal(want, data) {
		return "mismatch", errors.New("trace does not match golden file (run with --update to regenerate)")
	}
	return "match", nil
}

func formatRunResult(r RunResult) string {
	var b strings.Builder
	if r.Total == 0 {
		b.WriteString("No scenarios found.\n")
		return b.String()
	}
	for _, s := range r.Scenarios {
		mark := "✓"
		if !s.Pass {
			mark = "✗"
		}
		suffix := ""
		if s.Golden == "updated" {
			suffix = " (golden updated)"
		}
		fmt.Fprintf(&b, "%s %s%s\n", mark, s.Name, suffix)
		for _, e := range s.Errors {
			fmt.Fprintf(&b, "  %s\n", e)
		}
	}
	fmt.Fprintf(&b, "\n%d passed, %d failed, %d total\n", r.Passed, r.Failed, r.Total)
	return b.String()
}
