package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestSplitMessageShort(t *testing.T) {
	require.Equal(t, []string{"hello"}, splitMessage("hello", 1900))
}

func TestSplitMessageWordBoundaries(t *testing.T) {
	message := strings.TrimSpace(strings.Repeat("some words ", 50))
	chunks := splitMessage(message, 100)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		require.LessOrEqual(t, len(chunk), 100)
		require.False(t, strings.HasPrefix(chunk, " "))
		require.False(t, strings.HasSuffix(chunk, " "))
	}
	require.Equal(t, message, strings.Join(chunks, " "))
}

func TestSplitMessageMultibyte(t *testing.T) {
	// No spaces anywhere, so every split lands inside the run of
	// three-byte runes and has to back up to a rune boundary.
	message := strings.Repeat("日", 1000)
	chunks := splitMessage(message, 1900)

	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		require.True(t, utf8.ValidString(chunk), "chunk %d is not valid UTF-8", i)
		require.LessOrEqual(t, len(chunk), 1900)
	}
	require.Equal(t, message, strings.Join(chunks, ""))
}

func TestSplitMessageMixedMultibyte(t *testing.T) {
	message := strings.Repeat("héllo wörld ", 200)
	chunks := splitMessage(message, 150)

	for i, chunk := range chunks {
		require.True(t, utf8.ValidString(chunk), "chunk %d is not valid UTF-8", i)
		require.LessOrEqual(t, len(chunk), 150)
	}
}
