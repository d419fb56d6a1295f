// Package filter evaluates an ir.Filters predicate set against records.
//
// A predicate set compiles to a list of independent Predicates. A record
// matches when every predicate matches; an empty set matches everything.
// Evaluation short-circuits on the first failing predicate, which changes
// nothing observable since predicates have no side effects.
//
// Apply preserves input order. The store returns records in insertion order,
// so filtered results are in insertion order too.
package filter
