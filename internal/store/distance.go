package store

import (
	"gonum.org/v1/gonum/blas/gonum"
)

// blasEngine is gonum's pure-Go BLAS implementation. Level-1 routines are
// plenty for an exact scan; no hand-rolled SIMD here.
var blasEngine = gonum.Implementation{}

// cosineSimilarity returns the cosine of the angle between a and b in
// [-1, 1]. Vectors of mismatched length or zero norm score 0, which sorts
// them last without erroring a whole search.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	dot := blasEngine.Sdot(len(a), a, 1, b, 1)
	na := blasEngine.Snrm2(len(a), a, 1)
	nb := blasEngine.Snrm2(len(b), b, 1)
	if na == 0 || nb == 0 {
		return 0
	}
	return float64(dot) / (float64(na) * float64(nb))
}
