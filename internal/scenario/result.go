package scenario

import "github.com/roach88/sift/internal/ir"

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq     int    `json:"seq"`
	Step    string `json:"step"`
	Input   string `json:"input,omitempty"`
	Outcome string `json:"outcome"`

	// ID is the record fingerprint for create and get steps that returned one.
	ID string `json:"id,omitempty"`

	// Filters is the requested set for list and the parsed set for query.
	Filters *ir.Filters `json:"filters,omitempty"`

	// Count and Values describe list and query results.
	Count  *int     `json:"count,omitempty"`
	Values []string `json:"values,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	Name   string       `json:"name"`
	Pass   bool         `json:"pass"`
	Trace  []TraceEvent `json:"trace"`
	Errors []string     `json:"errors,omitempty"`
}

// NewResult creates a passing result with an empty trace.
func NewResult(name string) *Result {
	return &Result{
		Name:   name,
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

func (r *Result) record(ev TraceEvent) TraceEvent {
	ev.Seq = len(r.Trace) + 1
	r.Trace = append(r.Trace, ev)
	return ev
}
