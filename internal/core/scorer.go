package core

import (
	"sort"
	"strings"
	"time"
)

// Relevance blend weights. Similarity dominates; lexical overlap and
// document recency adjust the ordering.
const (
	similarityWeight = 0.7
	lexicalWeight    = 0.2
	recencyWeight    = 0.1

	recencyHorizonDays  = 60
	defaultRecencyScore = 0.5
)

// RelevanceScorer reranks raw similarity hits using lexical overlap with the
// query and document recency.
type RelevanceScorer struct {
	now func() time.Time
}

func NewRelevanceScorer() *RelevanceScorer {
	return &RelevanceScorer{now: time.Now}
}

// Rerank computes sub-scores and the blended final score for each hit and
// returns the hits sorted by descending final score. The sort is stable, so
// equal scores keep the incoming order. The result is always a permutation
// of the input.
func (s *RelevanceScorer) Rerank(query string, hits []SearchHit) []SearchHit {
	if len(hits) == 0 {
		return hits
	}

	reranked := make([]SearchHit, len(hits))
	copy(reranked, hits)

	for i := range reranked {
		reranked[i].LexicalScore = lexicalScore(query, reranked[i].Text)
		reranked[i].RecencyScore = s.recencyScore(reranked[i].DocumentCreatedAt)
		reranked[i].FinalScore = float64(reranked[i].Similarity)*similarityWeight +
			reranked[i].LexicalScore*lexicalWeight +
			reranked[i].RecencyScore*recencyWeight
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].FinalScore > reranked[j].FinalScore
	})

	return reranked
}

// lexicalScore is the fraction of distinct query words (case-folded,
// whitespace-tokenized) found as substrings of the chunk text.
func lexicalScore(query, text string) float64 {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return 0
	}

	distinct := make(map[string]struct{}, len(words))
	for _, word := range words {
		distinct[word] = struct{}{}
	}

	textLower := strings.ToLower(text)
	matches := 0
	for word := range distinct {
		if strings.Contains(textLower, word) {
			matches++
		}
	}
	return float64(matches) / float64(len(distinct))
}

// recencyScore maps document age onto [0,1]: 1.0 at zero days old, 0.0 at
// sixty or more, linear in between. A missing timestamp scores 0.5.
func (s *RelevanceScorer) recencyScore(createdAt time.Time) float64 {
	if createdAt.IsZero() {
		return defaultRecencyScore
	}

	daysOld := int(s.now().Sub(createdAt).Hours() / 24)
	switch {
	case daysOld <= 0:
		return 1.0
	case daysOld >= recencyHorizonDays:
		return 0.0
	default:
		return 1.0 - float64(daysOld)/recencyHorizonDays
	}
}
