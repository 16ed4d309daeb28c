package domain

import "math"

// Dot returns the dot product of two vectors.
// Assumes equal length (caller's responsibility).
func Dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// CosineSimilarity returns the cosine of the angle between a and b in [-1,1].
// Zero vectors yield 0.
func CosineSimilarity(a, b []float32) float64 {
	dot := Dot(a, b)
	na := Dot(a, a)
	nb := Dot(b, b)
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// NormalizeL2 returns an L2-normalized copy of v.
// Returns false when v has zero norm.
func NormalizeL2(v []float32) ([]float32, bool) {
	norm2 := Dot(v, v)
	if norm2 == 0 {
		return nil, false
	}
	inv := 1 / math.Sqrt(norm2)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out, true
}

// ClampUnit clips a similarity into [0,1]. Cosine similarities land in [-1,1];
// scores below zero carry no signal for this domain.
func ClampUnit(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
