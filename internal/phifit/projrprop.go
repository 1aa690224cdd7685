package phifit

import "math"

// fitProjRprop combines projected-gradient steps with Rprop step-size
// adaptation: the per-parameter step size evolves under the same sign-
// agreement rule as fitRprop, but every iterate is projected back onto
// the simplex afterward instead of relying on a softmax reparameterisation
// to stay feasible (spec.md §4.2: "proj_rprop combines projected gradient
// with rprop step adaptation").
func fitProjRprop(e [][]int, rs *readStats, k, s, iterations int) [][]float64 {
	eta := initEta(k, s)
	step := make([][]float64, k)
	prevGrad := make([][]float64, k)
	for i := range step {
		step[i] = make([]float64, s)
		prevGrad[i] = make([]float64, s)
		for col := range step[i] {
			step[i][col] = rpropInitStep
		}
	}

	for it := 0; it < iterations; it++ {
		phi := etaToPhi(e, eta)
		for col := range phi[0] {
			phi[0][col] = 1
		}
		pGrad := phiGradient(rs, phi)
		eGrad := etaGradient(e, pGrad)

		for i := 0; i < k; i++ {
			for col := 0; col < s; col++ {
				sign := prevGrad[i][col] * eGrad[i][col]
				switch {
				case sign > 0:
					step[i][col] = math.Min(step[i][col]*rpropIncrease, rpropMaxStep)
				case sign < 0:
					step[i][col] = math.Max(step[i][col]*rpropDecrease, rpropMinStep)
					eGrad[i][col] = 0
				}
				if eGrad[i][col] > 0 {
					eta[i][col] += step[i][col]
				} else if eGrad[i][col] < 0 {
					eta[i][col] -= step[i][col]
				}
				prevGrad[i][col] = eGrad[i][col]
			}
		}
		eta = projectColumns(eta, k, s)
	}
	return eta
}
