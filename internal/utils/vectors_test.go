package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors score 1", func(t *testing.T) {
		v := []float32{0.5, 1.25, -2}
		sim, err := CosineSimilarity(v, v)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, sim, 1e-6)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := []float32{1, 2, 3}
		b := []float32{-1, 0.5, 2}
		ab, err := CosineSimilarity(a, b)
		require.NoError(t, err)
		ba, err := CosineSimilarity(b, a)
		require.NoError(t, err)
		assert.Equal(t, ab, ba)
	})

	t.Run("orthogonal vectors score 0", func(t *testing.T) {
		sim, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
		require.NoError(t, err)
		assert.InDelta(t, 0.0, sim, 1e-6)
	})

	t.Run("zero vector scores 0", func(t *testing.T) {
		sim, err := CosineSimilarity([]float32{0, 0, 0}, []float32{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, float32(0), sim)
	})

	t.Run("dimension mismatch is an error", func(t *testing.T) {
		_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
		assert.Error(t, err)
	})

	t.Run("empty vectors are an error", func(t *testing.T) {
		_, err := CosineSimilarity(nil, []float32{1})
		assert.Error(t, err)
	})
}

func TestNormalize(t *testing.T) {
	t.Run("produces unit length", func(t *testing.T) {
		normalized := Normalize([]float32{3, 4})
		assert.InDelta(t, 1.0, Magnitude(normalized), 1e-6)
		assert.InDelta(t, 0.6, normalized[0], 1e-6)
		assert.InDelta(t, 0.8, normalized[1], 1e-6)
	})

	t.Run("zero vector is unchanged", func(t *testing.T) {
		zero := []float32{0, 0, 0}
		assert.Equal(t, zero, Normalize(zero))
	})
}
