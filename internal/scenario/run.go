package scenario

import (
	"context"
	"fmt"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"

	"github.com/roach88/sift/internal/ir"
	"github.com/roach88/sift/internal/nlquery"
	"github.com/roach88/sift/internal/service"
)

// Service is the subset of service.Service a run drives.
type Service interface {
	Create(ctx context.Context, value string) (ir.Record, error)
	GetByValue(ctx context.Context, value string) (ir.Record, bool, error)
	List(ctx context.Context, f ir.Filters) ([]ir.Record, error)
	ListByQuery(ctx context.Context, query string) ([]ir.Record, nlquery.Interpretation, error)
	DeleteByValue(ctx context.Context, value string) (bool, error)
}

// Run seeds svc with the scenario's values and executes its steps.
//
// svc should be backed by an empty store. Expectation mismatches are
// reported in the Result; the returned error is reserved for seeding
// failures and store errors that are not one of the service's error kinds.
func Run(ctx context.Context, svc Service, sc *Scenario) (*Result, error) {
	result := NewResult(sc.Name)

	for i, v := range sc.Values {
		rec, err := svc.Create(ctx, v)
		if err != nil {
			return nil, errors.Wrapf(err, "seed values[%d]", i)
		}
		result.record(TraceEvent{Step: KindCreate, Input: v, Outcome: OutcomeOK, ID: rec.ID})
	}

	for i, step := range sc.Steps {
		ev, interp, err := execute(ctx, svc, step)
		if err != nil {
			return nil, errors.Wrapf(err, "steps[%d]", i)
		}
		ev = result.record(ev)
		for _, msg := range check(step.Expect, ev, interp) {
			result.AddError(fmt.Sprintf("step %d (%s): %s", ev.Seq, ev.Step, msg))
		}
	}

	if sc.Final != nil {
		records, err := svc.List(ctx, ir.Filters{})
		if err != nil {
			return nil, errors.Wrap(err, "final listing")
		}
		ev := listing(TraceEvent{Step: KindList, Outcome: OutcomeOK}, records)
		for _, msg := range checkListing(sc.Final, ev) {
			result.AddError("final: " + msg)
		}
	}

	return result, nil
}

func execute(ctx context.Context, svc Service, step Step) (TraceEvent, *nlquery.Interpretation, error) {
	ev := TraceEvent{Step: step.Kind()}

	switch ev.Step {
	case KindCreate:
		ev.Input = *step.Create
		rec, err := svc.Create(ctx, ev.Input)
		outcome, err := classify(err)
		if err != nil {
			return ev, nil, err
		}
		ev.Outcome = outcome
		if outcome == OutcomeOK {
			ev.ID = rec.ID
		}

	case KindGet:
		ev.Input = *step.Get
		rec, found, err := svc.GetByValue(ctx, ev.Input)
		if err != nil {
			return ev, nil, err
		}
		ev.Outcome = OutcomeNotFound
		if found {
			ev.Outcome = OutcomeOK
			ev.ID = rec.ID
		}

	case KindDelete:
		ev.Input = *step.Delete
		removed, err := svc.DeleteByValue(ctx, ev.Input)
		if err != nil {
			return ev, nil, err
		}
		ev.Outcome = OutcomeNotFound
		if removed {
			ev.Outcome = OutcomeOK
		}

	case KindList:
		f := step.List.Filters()
		ev.Filters = &f
		records, err := svc.List(ctx, f)
		outcome, err := classify(err)
		if err != nil {
			return ev, nil, err
		}
		ev.Outcome = outcome
		if outcome == OutcomeOK {
			ev = listing(ev, records)
		}

	case KindQuery:
		ev.Input = *step.Query
		records, interp, err := svc.ListByQuery(ctx, ev.Input)
		outcome, err := classify(err)
		if err != nil {
			return ev, nil, err
		}
		ev.Outcome = outcome
		if outcome == OutcomeOK {
			ev.Filters = &interp.Filters
			ev = listing(ev, records)
			return ev, &interp, nil
		}

	default:
		return ev, nil, errors.New("step has no operation")
	}

	return ev, nil, nil
}

// classify maps service error kinds to outcomes. Other errors are returned.
func classify(err error) (string, error) {
	switch {
	case err == nil:
		return OutcomeOK, nil
	case service.IsInvalidInput(err):
		return OutcomeInvalidInput, nil
	case service.IsAlreadyExists(err):
		return OutcomeAlreadyExists, nil
	default:
		return "", err
	}
}

func listing(ev TraceEvent, records []ir.Record) TraceEvent {
	n := len(records)
	ev.Count = &n
	ev.Values = make([]string, 0, n)
	for _, r := range records {
		ev.Values = append(ev.Values, r.Value)
	}
	return ev
}

func check(e *Expect, ev TraceEvent, interp *nlquery.Interpretation) []string {
	if e == nil {
		e = &Expect{}
	}

	var errs []string
	switch {
	case e.Error != "" && ev.Outcome != e.Error:
		errs = append(errs, fmt.Sprintf("expected outcome %s, got %s", e.Error, ev.Outcome))
	case e.Error == "" && ev.Outcome != OutcomeOK && ev.Outcome != OutcomeNotFound:
		errs = append(errs, fmt.Sprintf("unexpected outcome %s", ev.Outcome))
	}
	if len(errs) > 0 || e.Error != "" {
		return errs
	}

	if e.Found != nil {
		if found := ev.Outcome == OutcomeOK; found != *e.Found {
			errs = append(errs, fmt.Sprintf("expected found=%t, got found=%t", *e.Found, found))
		}
	} else if ev.Outcome == OutcomeNotFound {
		errs = append(errs, "record not found")
	}

	errs = append(errs, checkListing(e, ev)...)

	if e.Filters != nil && interp != nil {
		if diff := cmp.Diff(e.Filters.Filters(), interp.Filters); diff != "" {
			errs = append(errs, "parsed filters mismatch (-want +got):\n"+diff)
		}
	}
	return errs
}

func checkListing(e *Expect, ev TraceEvent) []string {
	var errs []string
	if e.Count != nil && (ev.Count == nil || *ev.Count != *e.Count) {
		got := 0
		if ev.Count != nil {
			got = *ev.Count
		}
		errs = append(errs, fmt.Sprintf("expected count %d, got %d", *e.Count, got))
	}
	if e.Values != nil && !slices.Equal(e.Values, ev.Values) {
		errs = append(errs, fmt.Sprintf("expected values %q, got %q", e.Values, ev.Values))
	}
	return errs
}
