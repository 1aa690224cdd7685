package phifit

const projectionLearningRate = 0.05

// fitProjection performs one projected-gradient step per iteration
// directly in eta-space: take a plain ascent step, then Euclidean-project
// each sample column back onto the probability simplex (spec.md §4.2:
// "projection performs one projection onto the feasible simplex per
// iteration").
func fitProjection(e [][]int, rs *readStats, k, s, iterations int) [][]float64 {
	eta := initEta(k, s)
	for it := 0; it < iterations; it++ {
		phi := etaToPhi(e, eta)
		for col := range phi[0] {
			phi[0][col] = 1
		}
		pGrad := phiGradient(rs, phi)
		eGrad := etaGradient(e, pGrad)

		for i := 0; i < k; i++ {
			for col := 0; col < s; col++ {
				eta[i][col] += projectionLearningRate * eGrad[i][col]
			}
		}
		eta = projectColumns(eta, k, s)
	}
	return eta
}

func projectColumns(eta [][]float64, k, s int) [][]float64 {
	out := make([][]float64, k)
	for i := range out {
		out[i] = make([]float64, s)
	}
	col := make([]float64, k)
	for c := 0; c < s; c++ {
		for i := 0; i < k; i++ {
			col[i] = eta[i][c]
		}
		projected := projectSimplex(col)
		for i := 0; i < k; i++ {
			out[i][c] = projected[i]
		}
	}
	return out
}
