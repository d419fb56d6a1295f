package ir

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint computes the content-addressed identity of a string.
// Format: lowercase hex of SHA256(utf8 bytes of value).
//
// The input is hashed exactly as given. No Unicode normalization, trimming
// or domain prefix is applied, so "é" written as one code point and as
// "e" + combining accent are two different records.
func Fingerprint(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
