package facevec

import "gonum.org/v1/gonum/floats"

// Similarity returns the cosine similarity of two unit vectors, which is
// their dot product. Vectors of different or zero length score 0, and so
// does any comparison against a zero vector.
func Similarity(a, b FaceVector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	return floats.Dot(a, b)
}

// Norm returns the Euclidean length of v.
func Norm(v FaceVector) float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Norm(v, 2)
}

// Centroid returns the mean of vectors renormalized to unit length. When
// the mean has zero length it is returned as is. All vectors must share the
// same dimension.
func Centroid(vectors []FaceVector) FaceVector {
	if len(vectors) == 0 {
		return nil
	}
	mean := make(FaceVector, len(vectors[0]))
	for _, v := range vectors {
		floats.Add(mean, v)
	}
	floats.Scale(1/float64(len(vectors)), mean)

	if norm := floats.Norm(mean, 2); norm > 0 {
		floats.Scale(1/norm, mean)
	}
	return mean
}
