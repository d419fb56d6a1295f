package cli

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sift/internal/ir"
)

func TestAnalyzeText(t *testing.T) {
	out, err := execute(t, "analyze", "racecar")
	require.NoError(t, err)

	assert.Contains(t, out, "sha256_hash:       "+ir.Fingerprint("racecar"))
	assert.Contains(t, out, "length:            7")
	assert.Contains(t, out, "is_palindrome:     true")
	assert.Contains(t, out, "unique_characters: 4")
	assert.Contains(t, out, "word_count:        1")
	assert.Contains(t, out, `character_frequency: 'a'=2 'c'=1 'e'=1 'r'=2`)
}

func TestAnalyzeJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "analyze", "hello world")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   AnalyzeResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "hello world", resp.Data.Value)
	assert.Equal(t, 11, resp.Data.Properties.Length)
	assert.Equal(t, 2, resp.Data.Properties.WordCount)
	assert.Equal(t, 3, resp.Data.Properties.CharacterFrequency['l'])
}

func TestAnalyzeBlank(t *testing.T) {
	_, err := execute(t, "analyze", "   ")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "empty or whitespace-only")
}
