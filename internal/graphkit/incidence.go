package graphkit

import "gonum.org/v1/gonum/mat"

// SignedIncidence builds the signed, oriented incidence relation over a
// caller-specified node ordering, already transposed and negated for
// generalized-linear-model use: the result has one row per edge and one
// column per node in order, with +1 in the source column and -1 in the
// target column. Multiplying it by a coefficient vector yields, per edge,
// the difference coef(source) - coef(target).
//
// Edge endpoints absent from order contribute nothing to their row.
// SignedIncidence returns nil when either order or edges is empty, since
// a zero-dimension matrix cannot be materialized.
// This is the single construction point for incidence data, so any drift
// in the matrix dependency stays contained here.
func SignedIncidence(order []string, edges []Edge) *mat.Dense {
	if len(order) == 0 || len(edges) == 0 {
		return nil
	}

	index := make(map[string]int, len(order))
	for i, id := range order {
		index[id] = i
	}

	x := mat.NewDense(len(edges), len(order), nil)
	for row, e := range edges {
		if col, ok := index[e.From]; ok {
			x.Set(row, col, 1)
		}
		if col, ok := index[e.To]; ok {
			x.Set(row, col, -1)
		}
	}
	return x
}
