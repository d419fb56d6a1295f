// Package service is the analysis-and-query core consumed by transport adapters.
//
// A Service owns one record store and exposes five operations: Create,
// GetByValue, List, ListByQuery and DeleteByValue. It performs no logging
// and no protocol mapping; adapters translate its error kinds.
package service

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/roach88/sift/internal/analysis"
	"github.com/roach88/sift/internal/filter"
	"github.com/roach88/sift/internal/ir"
	"github.com/roach88/sift/internal/nlquery"
)

// Store is the record collection a Service needs.
// store.Memory and store.SQLite both satisfy it.
type Store interface {
	InsertIfAbsent(ctx context.Context, rec ir.Record) (bool, error)
	Get(ctx context.Context, id string) (ir.Record, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Scan(ctx context.Context) ([]ir.Record, error)
	Len(ctx context.Context) (int, error)
}

// selector is implemented by stores that can evaluate a predicate set
// themselves. Results must equal filter.Apply over Scan.
type selector interface {
	Select(ctx context.Context, f ir.Filters) ([]ir.Record, error)
}

// Service implements the core operations over a Store.
// Safe for concurrent use when the Store is.
type Service struct {
	store      Store
	now        func() time.Time
	translator *nlquery.Translator
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the source of created_at timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTranslator replaces the natural-language translator.
func WithTranslator(t *nlquery.Translator) Option {
	return func(s *Service) { s.translator = t }
}

// New creates a Service over store.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:      store,
		now:        time.Now,
		translator: nlquery.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create analyzes value and stores it.
//
// Returns ErrInvalidInput for an empty or whitespace-only value, and
// ErrAlreadyExists when the value is already stored; the stored record is
// left untouched in that case.
func (s *Service) Create(ctx context.Context, value string) (ir.Record, error) {
	id, props, err := analysis.Analyze(value)
	if err != nil {
		return ir.Record{}, errors.Mark(errors.Wrap(err, "create"), ErrInvalidInput)
	}

	rec := ir.Record{
		ID:         id,
		Value:      value,
		Properties: props,
		CreatedAt:  s.now().UTC(),
	}

	inserted, err := s.store.InsertIfAbsent(ctx, rec)
	if err != nil {
		return ir.Record{}, errors.Wrap(err, "create")
	}
	if !inserted {
		return ir.Record{}, errors.Wrapf(ErrAlreadyExists, "string with id %s", id)
	}
	return rec, nil
}

// GetByValue returns the stored record for value, if any.
func (s *Service) GetByValue(ctx context.Context, value string) (ir.Record, bool, error) {
	rec, ok, err := s.store.Get(ctx, ir.Fingerprint(value))
	if err != nil {
		return ir.Record{}, false, errors.Wrap(err, "get by value")
	}
	return rec, ok, nil
}

// List returns the stored records matching f, in insertion order.
// Returns ErrInvalidInput when f fails filter.Validate.
func (s *Service) List(ctx context.Context, f ir.Filters) ([]ir.Record, error) {
	if err := filter.Validate(f); err != nil {
		return nil, errors.Mark(err, ErrInvalidInput)
	}
	records, err := s.list(ctx, f)
	if err != nil {
		return nil, errors.Wrap(err, "list")
	}
	return records, nil
}

// ListByQuery translates query and lists the matching records.
//
// Returns ErrInvalidInput for an empty or whitespace-only query. A query
// with no recognized phrase lists every record. An empty result is not an
// error; the interpretation is returned either way.
func (s *Service) ListByQuery(ctx context.Context, query string) ([]ir.Record, nlquery.Interpretation, error) {
	if analysis.IsBlank(query) {
		return nil, nlquery.Interpretation{}, errors.Mark(errors.New("query is empty or whitespace-only"), ErrInvalidInput)
	}

	interp := s.translator.Translate(query)
	if err := filter.Validate(interp.Filters); err != nil {
		return nil, interp, errors.Mark(err, ErrInvalidInput)
	}

	records, err := s.list(ctx, interp.Filters)
	if err != nil {
		return nil, interp, errors.Wrap(err, "list by query")
	}
	return records, interp, nil
}

// DeleteByValue removes the record for value.
// Returns whether a record existed.
func (s *Service) DeleteByValue(ctx context.Context, value string) (bool, error) {
	removed, err := s.store.Delete(ctx, ir.Fingerprint(value))
	if err != nil {
		return false, errors.Wrap(err, "delete by value")
	}
	return removed, nil
}

// Count returns the number of stored records.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.store.Len(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "count")
	}
	return n, nil
}

// Translate exposes the translator without touching the store.
func (s *Service) Translate(query string) nlquery.Interpretation {
	return s.translator.Translate(query)
}

func (s *Service) list(ctx context.Context, f ir.Filters) ([]ir.Record, error) {
	if sel, ok := s.store.(selector); ok {
		return sel.Select(ctx, f)
	}
	records, err := s.store.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(records, f), nil
}
