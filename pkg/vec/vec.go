// Package vec содержит операции над embedding-векторами:
// нормализация и косинусная близость.
package vec

import "math"

// Norm возвращает L2-норму вектора.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}

	return math.Sqrt(sum)
}

// Normalize возвращает копию вектора, приведённую к единичной длине.
// Нулевой или пустой вектор возвращается без изменений.
func Normalize(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	norm := Norm(v)
	if norm == 0 {
		return v
	}

	inv := float32(1.0 / norm)
	out := make([]float32, len(v))
	for i := range v {
		out[i] = v[i] * inv
	}

	return out
}

// Cosine возвращает косинусную близость двух векторов в диапазоне [-1, 1].
// Для пустых, нулевых или разноразмерных векторов возвращает 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}

	if na == 0 || nb == 0 {
		return 0
	}

	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
