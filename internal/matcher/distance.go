package matcher

import (
	"math"
)

// EuclideanDistance returns the L2 distance between two embeddings of equal length.
// Callers must check dimensions first.
func EuclideanDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// Similarity converts a distance into a score in [0, 1]; identical faces score 1.
func Similarity(distance float64) float64 {
	return math.Max(0, 1-distance)
}
