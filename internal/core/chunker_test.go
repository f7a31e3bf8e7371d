package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText(t *testing.T) {
	t.Run("empty input yields no chunks", func(t *testing.T) {
		assert.Nil(t, ChunkText("", 500, 50))
	})

	t.Run("short text is a single chunk", func(t *testing.T) {
		chunks := ChunkText("hello world", 500, 50)
		require.Len(t, chunks, 1)
		assert.Equal(t, "hello world", chunks[0])
	})

	t.Run("deterministic", func(t *testing.T) {
		text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 40)
		first := ChunkText(text, 300, 30)
		second := ChunkText(text, 300, 30)
		assert.Equal(t, first, second)
	})

	t.Run("prefers newline past the window midpoint", func(t *testing.T) {
		// 1200 characters with a newline at position 480: the first chunk
		// must end at that newline, not at exactly 500.
		text := strings.Repeat("a", 480) + "\n" + strings.Repeat("b", 719)
		require.Len(t, text, 1200)

		chunks := ChunkText(text, 500, 50)
		require.NotEmpty(t, chunks)
		assert.Len(t, chunks[0], 481)
		assert.True(t, strings.HasSuffix(chunks[0], "\n"))
	})

	t.Run("prefers sentence boundary when no newline qualifies", func(t *testing.T) {
		text := strings.Repeat("x", 300) + ". " + strings.Repeat("y", 400)
		chunks := ChunkText(text, 500, 50)
		require.NotEmpty(t, chunks)
		assert.Len(t, chunks[0], 302)
		assert.True(t, strings.HasSuffix(chunks[0], ". "))
	})

	t.Run("ignores break points before the midpoint", func(t *testing.T) {
		text := strings.Repeat("a", 100) + "\n" + strings.Repeat("b", 899)
		chunks := ChunkText(text, 500, 50)
		require.NotEmpty(t, chunks)
		assert.Len(t, chunks[0], 500)
	})

	t.Run("adjacent chunks overlap by the configured amount", func(t *testing.T) {
		// No newlines or periods, so every cut happens at exactly size.
		text := strings.Repeat("abcdefghij", 120)
		size, overlap := 500, 50
		chunks := ChunkText(text, size, overlap)
		require.Greater(t, len(chunks), 1)

		// Dropping each subsequent chunk's overlapping prefix reconstructs
		// the original text.
		var b strings.Builder
		b.WriteString(chunks[0])
		for _, chunk := range chunks[1:] {
			if len(chunk) > overlap {
				b.WriteString(chunk[overlap:])
			}
		}
		assert.Equal(t, text, b.String())
	})

	t.Run("terminates when overlap approaches size", func(t *testing.T) {
		text := strings.Repeat("z", 2000)
		chunks := ChunkText(text, 100, 99)
		require.NotEmpty(t, chunks)
		assert.True(t, strings.HasSuffix(chunks[len(chunks)-1], "z"))

		total := 0
		for _, chunk := range chunks {
			total += len(chunk)
		}
		assert.GreaterOrEqual(t, total, len(text))
	})

	t.Run("last chunk reaches the end of the text", func(t *testing.T) {
		text := strings.Repeat("the quick brown fox. ", 60)
		chunks := ChunkText(text, 200, 20)
		require.NotEmpty(t, chunks)
		assert.True(t, strings.HasSuffix(text, chunks[len(chunks)-1]))
	})
}
