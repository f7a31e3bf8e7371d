package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRerank(t *testing.T) {
	t.Run("blends the three sub-scores", func(t *testing.T) {
		// similarity 0.9, zero lexical overlap, missing timestamp (recency
		// 0.5) must come out at 0.9*0.7 + 0*0.2 + 0.5*0.1 = 0.68.
		scorer := NewRelevanceScorer()
		hits := []SearchHit{{
			ChunkID:    "c1",
			Similarity: 0.9,
			Text:       "completely unrelated content",
		}}

		reranked := scorer.Rerank("zzz qqq", hits)
		require.Len(t, reranked, 1)
		assert.InDelta(t, 0.68, reranked[0].FinalScore, 1e-9)
		assert.Equal(t, 0.0, reranked[0].LexicalScore)
		assert.Equal(t, 0.5, reranked[0].RecencyScore)
	})

	t.Run("output is a permutation of the input", func(t *testing.T) {
		scorer := NewRelevanceScorer()
		hits := []SearchHit{
			{ChunkID: "a", Similarity: 0.2, Text: "alpha"},
			{ChunkID: "b", Similarity: 0.9, Text: "beta"},
			{ChunkID: "c", Similarity: 0.5, Text: "gamma"},
		}

		reranked := scorer.Rerank("query words", hits)
		require.Len(t, reranked, 3)

		seen := map[string]bool{}
		for _, hit := range reranked {
			seen[hit.ChunkID] = true
		}
		assert.True(t, seen["a"] && seen["b"] && seen["c"])
	})

	t.Run("sorted by descending final score", func(t *testing.T) {
		scorer := NewRelevanceScorer()
		hits := []SearchHit{
			{ChunkID: "low", Similarity: 0.1, Text: "nothing"},
			{ChunkID: "high", Similarity: 0.95, Text: "nothing"},
		}
		reranked := scorer.Rerank("query", hits)
		assert.Equal(t, "high", reranked[0].ChunkID)
		assert.Equal(t, "low", reranked[1].ChunkID)
	})

	t.Run("ties preserve input order", func(t *testing.T) {
		scorer := NewRelevanceScorer()
		hits := []SearchHit{
			{ChunkID: "first", Similarity: 0.8, Text: "same"},
			{ChunkID: "second", Similarity: 0.8, Text: "same"},
			{ChunkID: "third", Similarity: 0.8, Text: "same"},
		}
		reranked := scorer.Rerank("query", hits)
		assert.Equal(t, "first", reranked[0].ChunkID)
		assert.Equal(t, "second", reranked[1].ChunkID)
		assert.Equal(t, "third", reranked[2].ChunkID)
	})

	t.Run("lexical overlap boosts the final score", func(t *testing.T) {
		scorer := NewRelevanceScorer()
		hits := []SearchHit{
			{ChunkID: "miss", Similarity: 0.8, Text: "unrelated content entirely"},
			{ChunkID: "match", Similarity: 0.8, Text: "the invoice total is 42 euros"},
		}
		reranked := scorer.Rerank("invoice total", hits)
		assert.Equal(t, "match", reranked[0].ChunkID)
		assert.Equal(t, 1.0, reranked[0].LexicalScore)
	})

	t.Run("does not mutate its input", func(t *testing.T) {
		scorer := NewRelevanceScorer()
		hits := []SearchHit{
			{ChunkID: "a", Similarity: 0.1},
			{ChunkID: "b", Similarity: 0.9},
		}
		scorer.Rerank("query", hits)
		assert.Equal(t, "a", hits[0].ChunkID)
		assert.Equal(t, 0.0, hits[0].FinalScore)
	})

	t.Run("empty input passes through", func(t *testing.T) {
		scorer := NewRelevanceScorer()
		assert.Empty(t, scorer.Rerank("query", nil))
	})
}

func TestLexicalScore(t *testing.T) {
	tests := []struct {
		name  string
		query string
		text  string
		want  float64
	}{
		{"all words match", "invoice total", "the invoice total is due", 1.0},
		{"half the words match", "invoice missing", "the invoice is due", 0.5},
		{"no words match", "alpha beta", "gamma delta", 0.0},
		{"empty query scores zero", "", "anything", 0.0},
		{"case folded", "INVOICE", "the invoice", 1.0},
		{"duplicates count once", "invoice invoice total", "invoice total", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, lexicalScore(tt.query, tt.text), 1e-9)
		})
	}
}

func TestRecencyScore(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	scorer := &RelevanceScorer{now: func() time.Time { return now }}

	tests := []struct {
		name      string
		createdAt time.Time
		want      float64
	}{
		{"missing timestamp", time.Time{}, 0.5},
		{"brand new", now, 1.0},
		{"thirty days old", now.AddDate(0, 0, -30), 0.5},
		{"sixty days old", now.AddDate(0, 0, -60), 0.0},
		{"ninety days old", now.AddDate(0, 0, -90), 0.0},
		{"future timestamp", now.Add(24 * time.Hour), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, scorer.recencyScore(tt.createdAt), 1e-9)
		})
	}
}
