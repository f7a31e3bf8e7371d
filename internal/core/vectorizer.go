package core

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// MaxVocabularyFeatures caps the text embedding dimension.
const MaxVocabularyFeatures = 768

// English and French stopwords excluded from the vocabulary. The corpus is
// bilingual, so both lists are applied unconditionally.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "he": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {},
	"to": {}, "was": {}, "were": {}, "will": {}, "with": {},
	"au": {}, "aux": {}, "ce": {}, "ces": {}, "dans": {}, "de": {}, "des": {},
	"du": {}, "elle": {}, "en": {}, "et": {}, "il": {}, "la": {}, "le": {},
	"les": {}, "mais": {}, "ou": {}, "par": {}, "pas": {}, "pour": {},
	"qui": {}, "que": {}, "sur": {}, "un": {}, "une": {}, "vos": {},
}

// TfidfVectorizer is a term-weighting model with an explicit two-phase
// lifecycle: Fit once over the full chunk corpus, then Transform statelessly.
type TfidfVectorizer struct {
	mu          sync.RWMutex
	maxFeatures int
	vocabulary  map[string]int // term -> column
	idf         []float64
	fitted      bool
}

func NewTfidfVectorizer() *TfidfVectorizer {
	return &TfidfVectorizer{maxFeatures: MaxVocabularyFeatures}
}

// Fitted reports whether the model has been fit on a corpus.
func (v *TfidfVectorizer) Fitted() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.fitted
}

// Dimension returns the length of vectors produced by Transform. Before Fit
// it returns the feature cap so callers can produce placeholder zero vectors
// of a stable size.
func (v *TfidfVectorizer) Dimension() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if !v.fitted {
		return v.maxFeatures
	}
	return len(v.idf)
}

// Fit builds the vocabulary and inverse document frequencies from the
// corpus. When the vocabulary exceeds the feature cap, the most frequent
// terms are kept; ties are broken alphabetically so fitting is
// deterministic.
func (v *TfidfVectorizer) Fit(corpus []string) error {
	documentFrequency := make(map[string]int)
	documentCount := 0
	for _, text := range corpus {
		tokens := tokenize(text)
		if len(tokens) == 0 {
			continue
		}
		documentCount++
		seen := make(map[string]struct{}, len(tokens))
		for _, token := range tokens {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			documentFrequency[token]++
		}
	}

	if documentCount == 0 {
		return fmt.Errorf("cannot fit vectorizer on an empty corpus")
	}

	terms := make([]string, 0, len(documentFrequency))
	for term := range documentFrequency {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if documentFrequency[terms[i]] != documentFrequency[terms[j]] {
			return documentFrequency[terms[i]] > documentFrequency[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > v.maxFeatures {
		terms = terms[:v.maxFeatures]
	}
	// Columns in alphabetical order, as a fitted vocabulary is conventionally
	// indexed.
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		vocabulary[term] = i
		// Smoothed idf, so every known term keeps a positive weight.
		idf[i] = math.Log(float64(1+documentCount)/float64(1+documentFrequency[term])) + 1
	}

	v.mu.Lock()
	v.vocabulary = vocabulary
	v.idf = idf
	v.fitted = true
	v.mu.Unlock()
	return nil
}

// Transform maps text to an L2-normalized tf-idf vector. Terms outside the
// fitted vocabulary are ignored.
func (v *TfidfVectorizer) Transform(text string) ([]float32, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if !v.fitted {
		return nil, fmt.Errorf("vectorizer must be fit before transform")
	}

	vector := make([]float32, len(v.idf))
	counts := make(map[int]int)
	for _, token := range tokenize(text) {
		if col, ok := v.vocabulary[token]; ok {
			counts[col]++
		}
	}
	for col, count := range counts {
		vector[col] = float32(float64(count) * v.idf[col])
	}

	// L2 normalize; a zero vector stays zero.
	var sumOfSquares float64
	for _, val := range vector {
		sumOfSquares += float64(val) * float64(val)
	}
	if sumOfSquares > 0 {
		norm := float32(math.Sqrt(sumOfSquares))
		for i := range vector {
			vector[i] /= norm
		}
	}
	return vector, nil
}

// tokenize lowercases and splits on non-letter/non-digit runes, dropping
// stopwords and single-rune tokens.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, field := range fields {
		if len(field) < 2 {
			continue
		}
		if _, ok := stopwords[field]; ok {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}
