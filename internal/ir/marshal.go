package ir

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// MarshalJSON renders the map as {"a": 2, " ": 1}.
// encoding/json would otherwise key a map[rune]int by the decimal code point.
func (m FrequencyMap) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, len(m))
	for r, n := range m {
		out[string(r)] = n
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the object form produced by MarshalJSON.
// Every key must be exactly one character.
func (m *FrequencyMap) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*m = nil
		return nil
	}
	out := make(FrequencyMap, len(raw))
	for k, n := range raw {
		r, size := utf8.DecodeRuneInString(k)
		if size == 0 || size != len(k) {
			return fmt.Errorf("frequency key %q is not a single character", k)
		}
		out[r] = n
	}
	*m = out
	return nil
}
