package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumora-ai/lumora/internal/utils"
)

func TestEmbedText(t *testing.T) {
	vectorizer := NewTfidfVectorizer()
	require.NoError(t, vectorizer.Fit([]string{
		"invoice total amount due",
		"meeting notes action items",
	}))
	embedder := NewEmbeddingGenerator(vectorizer)

	t.Run("blank text short-circuits to the zero vector", func(t *testing.T) {
		vec := embedder.EmbedText("   \n\t ")
		assert.Len(t, vec, embedder.TextDimension())
		assert.Equal(t, float32(0), utils.Magnitude(vec))
	})

	t.Run("non-blank text is normalized", func(t *testing.T) {
		vec := embedder.EmbedText("invoice total")
		assert.InDelta(t, 1.0, utils.Magnitude(vec), 1e-5)
	})

	t.Run("unfitted model degrades to the zero vector", func(t *testing.T) {
		cold := NewEmbeddingGenerator(NewTfidfVectorizer())
		vec := cold.EmbedText("anything at all")
		assert.Len(t, vec, MaxVocabularyFeatures)
		assert.Equal(t, float32(0), utils.Magnitude(vec))
	})
}

func TestEmbedImage(t *testing.T) {
	embedder := NewEmbeddingGenerator(NewTfidfVectorizer())

	t.Run("same path produces the same vector", func(t *testing.T) {
		a := embedder.EmbedImage("/data/uploads/photo.png")
		b := embedder.EmbedImage("/data/uploads/photo.png")
		assert.Equal(t, a, b)
	})

	t.Run("different paths produce different vectors", func(t *testing.T) {
		a := embedder.EmbedImage("/data/uploads/photo.png")
		b := embedder.EmbedImage("/data/uploads/other.png")
		assert.NotEqual(t, a, b)
	})

	t.Run("vector is unit length with the image dimension", func(t *testing.T) {
		vec := embedder.EmbedImage("/data/uploads/photo.png")
		assert.Len(t, vec, ImageEmbeddingDimension)
		assert.InDelta(t, 1.0, utils.Magnitude(vec), 1e-5)
	})

	t.Run("empty path yields the zero vector", func(t *testing.T) {
		vec := embedder.EmbedImage("")
		assert.Len(t, vec, ImageEmbeddingDimension)
		assert.Equal(t, float32(0), utils.Magnitude(vec))
	})
}
