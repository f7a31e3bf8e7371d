package core

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/lumora-ai/lumora/internal/utils"
)

// SearchHit is an ephemeral search result. Sub-scores and FinalScore are
// populated by the RelevanceScorer; everything else comes from the index and
// the store.
type SearchHit struct {
	ChunkID           string    `json:"chunk_id"`
	DocumentID        string    `json:"document_id"`
	ChunkIndex        int       `json:"chunk_index"`
	Text              string    `json:"text"`
	DocumentFilename  string    `json:"document_filename"`
	DocumentModality  string    `json:"document_modality"`
	DocumentCreatedAt time.Time `json:"-"`

	Similarity   float32 `json:"similarity"`
	LexicalScore float64 `json:"lexical_score"`
	RecencyScore float64 `json:"recency_score"`
	FinalScore   float64 `json:"final_score"`
}

type indexEntry struct {
	chunkID    string
	documentID string
	vector     []float32
}

// VectorIndex stores embeddings in memory and answers similarity queries
// with a full linear scan. That bounds the corpus to what fits in memory for
// a single query and is the stated scalability limit of this design; an ANN
// structure can replace it behind the same interface, but would have to
// reproduce the tie-break order.
type VectorIndex struct {
	mu      sync.RWMutex
	entries []indexEntry
	byChunk map[string]int
}

func NewVectorIndex() *VectorIndex {
	return &VectorIndex{byChunk: make(map[string]int)}
}

// Upsert adds or replaces the vector for a chunk.
func (idx *VectorIndex) Upsert(chunkID, documentID string, vector []float32) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if pos, ok := idx.byChunk[chunkID]; ok {
		idx.entries[pos] = indexEntry{chunkID: chunkID, documentID: documentID, vector: vector}
		return
	}
	idx.byChunk[chunkID] = len(idx.entries)
	idx.entries = append(idx.entries, indexEntry{chunkID: chunkID, documentID: documentID, vector: vector})
}

// Replace swaps the whole index contents, used when the corpus is re-embedded.
func (idx *VectorIndex) Replace(chunkIDs, documentIDs []string, vectors [][]float32) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = idx.entries[:0]
	idx.byChunk = make(map[string]int, len(chunkIDs))
	for i := range chunkIDs {
		idx.byChunk[chunkIDs[i]] = len(idx.entries)
		idx.entries = append(idx.entries, indexEntry{chunkID: chunkIDs[i], documentID: documentIDs[i], vector: vectors[i]})
	}
}

// Len returns the number of stored embeddings.
func (idx *VectorIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Search scans all stored embeddings, keeps hits with cosine similarity at
// or above threshold, sorts them by descending similarity (stable, so equal
// scores keep insertion order) and truncates to topK.
func (idx *VectorIndex) Search(query []float32, topK int, threshold float32) []SearchHit {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if topK <= 0 {
		return nil
	}

	var hits []SearchHit
	for _, entry := range idx.entries {
		if len(entry.vector) == 0 {
			continue
		}
		similarity, err := utils.CosineSimilarity(query, entry.vector)
		if err != nil {
			log.Printf("Error calculating similarity for chunk %s: %v. Skipping.", entry.chunkID, err)
			continue
		}
		if similarity >= threshold {
			hits = append(hits, SearchHit{
				ChunkID:    entry.chunkID,
				DocumentID: entry.documentID,
				Similarity: similarity,
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}
