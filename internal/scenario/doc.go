// Package scenario runs YAML-described conformance scenarios against the sift
// service.
//
// A scenario seeds a fresh store with values, then executes steps in order.
// Each step is one service operation (create, get, delete, list, query) with
// an optional expect clause. Every step is recorded in the result trace, so a
// run can be compared byte-for-byte against a golden file.
//
// Example:
//
//	name: palindromes
//	description: palindrome filtering end to end
//	values: [racecar, level, hello]
//	steps:
//	  - list: {is_palindrome: true}
//	    expect: {count: 2, values: [racecar, level]}
//	  - query: all palindromic strings
//	    expect: {count: 2, filters: {is_palindrome: true}}
//	final:
//	  count: 3
package scenario
