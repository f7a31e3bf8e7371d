package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorIndexSearch(t *testing.T) {
	buildIndex := func() *VectorIndex {
		idx := NewVectorIndex()
		idx.Upsert("chunk-a", "doc-1", []float32{1, 0, 0})
		idx.Upsert("chunk-b", "doc-1", []float32{0.9, 0.4359, 0}) // sim ~0.9 vs x-axis
		idx.Upsert("chunk-c", "doc-2", []float32{0, 1, 0})
		return idx
	}

	t.Run("hits are sorted by descending similarity", func(t *testing.T) {
		idx := buildIndex()
		hits := idx.Search([]float32{1, 0, 0}, 10, 0)
		require.Len(t, hits, 3)
		for i := 1; i < len(hits); i++ {
			assert.GreaterOrEqual(t, hits[i-1].Similarity, hits[i].Similarity)
		}
		assert.Equal(t, "chunk-a", hits[0].ChunkID)
	})

	t.Run("threshold filters low-similarity hits", func(t *testing.T) {
		idx := buildIndex()
		hits := idx.Search([]float32{1, 0, 0}, 10, 0.7)
		require.Len(t, hits, 2)
		for _, hit := range hits {
			assert.GreaterOrEqual(t, hit.Similarity, float32(0.7))
		}
	})

	t.Run("topK truncates the result", func(t *testing.T) {
		idx := buildIndex()
		hits := idx.Search([]float32{1, 0, 0}, 1, 0)
		require.Len(t, hits, 1)
		assert.Equal(t, "chunk-a", hits[0].ChunkID)
	})

	t.Run("zero query vector finds nothing above a positive threshold", func(t *testing.T) {
		idx := buildIndex()
		hits := idx.Search([]float32{0, 0, 0}, 10, 0.1)
		assert.Empty(t, hits)
	})

	t.Run("equal similarities keep insertion order", func(t *testing.T) {
		idx := NewVectorIndex()
		idx.Upsert("first", "doc-1", []float32{1, 0})
		idx.Upsert("second", "doc-1", []float32{2, 0})
		idx.Upsert("third", "doc-2", []float32{3, 0})

		hits := idx.Search([]float32{1, 0}, 10, 0)
		require.Len(t, hits, 3)
		assert.Equal(t, "first", hits[0].ChunkID)
		assert.Equal(t, "second", hits[1].ChunkID)
		assert.Equal(t, "third", hits[2].ChunkID)
	})

	t.Run("upsert replaces an existing chunk vector", func(t *testing.T) {
		idx := NewVectorIndex()
		idx.Upsert("chunk-a", "doc-1", []float32{1, 0})
		idx.Upsert("chunk-a", "doc-1", []float32{0, 1})
		assert.Equal(t, 1, idx.Len())

		hits := idx.Search([]float32{0, 1}, 10, 0.9)
		require.Len(t, hits, 1)
		assert.Equal(t, "chunk-a", hits[0].ChunkID)
	})

	t.Run("replace swaps the corpus", func(t *testing.T) {
		idx := buildIndex()
		idx.Replace([]string{"only"}, []string{"doc-9"}, [][]float32{{1, 0, 0}})
		assert.Equal(t, 1, idx.Len())

		hits := idx.Search([]float32{1, 0, 0}, 10, 0)
		require.Len(t, hits, 1)
		assert.Equal(t, "doc-9", hits[0].DocumentID)
	})

	t.Run("dimension mismatch entries are skipped", func(t *testing.T) {
		idx := NewVectorIndex()
		idx.Upsert("bad", "doc-1", []float32{1, 0, 0, 0})
		idx.Upsert("good", "doc-1", []float32{1, 0})
		hits := idx.Search([]float32{1, 0}, 10, 0)
		require.Len(t, hits, 1)
		assert.Equal(t, "good", hits[0].ChunkID)
	})
}
