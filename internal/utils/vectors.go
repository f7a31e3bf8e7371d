package utils

import (
	"fmt"
	"math"
)

// dotProduct calculates the dot product of two vectors.
func dotProduct(vec1, vec2 []float32) (float32, error) {
	if len(vec1) != len(vec2) {
		return 0, fmt.Errorf("vectors must have the same dimension")
	}
	var product float32
	for i := range vec1 {
		product += vec1[i] * vec2[i]
	}
	return product, nil
}

// Magnitude calculates the L2 norm of a vector.
func Magnitude(vec []float32) float32 {
	var sumOfSquares float32
	for _, val := range vec {
		sumOfSquares += val * val
	}
	return float32(math.Sqrt(float64(sumOfSquares)))
}

// Normalize scales a vector to unit length. A zero vector is returned
// unchanged.
func Normalize(vec []float32) []float32 {
	mag := Magnitude(vec)
	if mag == 0 {
		return vec
	}
	normalized := make([]float32, len(vec))
	for i, val := range vec {
		normalized[i] = val / mag
	}
	return normalized
}

// CosineSimilarity calculates the cosine similarity between two vectors.
// If either vector has zero magnitude the similarity is 0.
func CosineSimilarity(vec1, vec2 []float32) (float32, error) {
	if len(vec1) == 0 || len(vec2) == 0 {
		return 0, fmt.Errorf("vectors cannot be empty")
	}
	dotProduct, err := dotProduct(vec1, vec2)
	if err != nil {
		return 0, err
	}

	mag1 := Magnitude(vec1)
	mag2 := Magnitude(vec2)

	if mag1 == 0 || mag2 == 0 {
		return 0, nil
	}

	return dotProduct / (mag1 * mag2), nil
}
