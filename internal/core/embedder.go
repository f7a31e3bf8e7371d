package core

import (
	"hash/fnv"
	"log"
	"math/rand"
	"strings"

	"github.com/lumora-ai/lumora/internal/utils"
)

// ImageEmbeddingDimension is the dimension of the placeholder image
// embedding space.
const ImageEmbeddingDimension = 512

// EmbeddingGenerator converts text and image artifacts into fixed-length
// vectors. Text uses the shared tf-idf model; the image path is a
// deterministic stand-in until a real visual encoder is substituted.
// Internal failures degrade to a zero vector of the expected dimension and
// are never surfaced to the caller.
type EmbeddingGenerator struct {
	vectorizer *TfidfVectorizer
}

func NewEmbeddingGenerator(vectorizer *TfidfVectorizer) *EmbeddingGenerator {
	return &EmbeddingGenerator{vectorizer: vectorizer}
}

// TextDimension returns the dimension of the text embedding space.
func (g *EmbeddingGenerator) TextDimension() int {
	return g.vectorizer.Dimension()
}

// EmbedText returns the L2-normalized tf-idf vector for text. Blank input
// short-circuits to the zero vector without touching the model.
func (g *EmbeddingGenerator) EmbedText(text string) []float32 {
	if strings.TrimSpace(text) == "" {
		return make([]float32, g.vectorizer.Dimension())
	}

	vector, err := g.vectorizer.Transform(text)
	if err != nil {
		log.Printf("Error generating text embedding: %v. Returning zero vector.", err)
		return make([]float32, g.vectorizer.Dimension())
	}
	return vector
}

// EmbedImage returns a deterministic pseudo-random unit vector seeded from a
// hash of the file path: same path, same vector. Replacing this with a real
// visual encoder must preserve that idempotence contract.
func (g *EmbeddingGenerator) EmbedImage(path string) []float32 {
	if path == "" {
		return make([]float32, ImageEmbeddingDimension)
	}

	hasher := fnv.New64a()
	hasher.Write([]byte(path))
	rng := rand.New(rand.NewSource(int64(hasher.Sum64())))

	vector := make([]float32, ImageEmbeddingDimension)
	for i := range vector {
		vector[i] = float32(rng.NormFloat64())
	}
	return utils.Normalize(vector)
}
