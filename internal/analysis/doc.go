// Package analysis turns a raw string into its fingerprint and derived properties.
//
// Every function here is pure: no I/O, no shared state, no locale dependence.
// The four properties are computed independently of one another.
//
// Characters are Unicode code points (runes). Length, unique-character count
// and the frequency table all count runes, not bytes.
package analysis
