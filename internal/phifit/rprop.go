package phifit

import "math"

const (
	rpropInitStep = 0.1
	rpropMinStep  = 1e-6
	rpropMaxStep  = 1.0
	rpropIncrease = 1.2
	rpropDecrease = 0.5
)

// fitRprop runs resilient backpropagation (Riedmiller & Braun 1993) on
// the log-likelihood in unconstrained softmax-logit space: each logit
// gets its own step size that grows while its gradient keeps the same
// sign and shrinks whenever it flips, making the solver robust to the
// wildly different curvature of phi's binomial likelihood near 0 and 1.
func fitRprop(e [][]int, rs *readStats, k, s, iterations int) [][]float64 {
	x := make([][]float64, k)
	step := make([][]float64, k)
	prevGrad := make([][]float64, k)
	for i := range x {
		x[i] = make([]float64, s)
		step[i] = make([]float64, s)
		prevGrad[i] = make([]float64, s)
		for col := range step[i] {
			step[i][col] = rpropInitStep
		}
	}

	for it := 0; it < iterations; it++ {
		eta := softmaxColumns(x)
		phi := etaToPhi(e, eta)
		for col := range phi[0] {
			phi[0][col] = 1
		}
		pGrad := phiGradient(rs, phi)
		eGrad := etaGradient(e, pGrad)
		xGrad := softmaxBackward(eta, eGrad)

		for i := 0; i < k; i++ {
			for col := 0; col < s; col++ {
				sign := prevGrad[i][col] * xGrad[i][col]
				switch {
				case sign > 0:
					step[i][col] = math.Min(step[i][col]*rpropIncrease, rpropMaxStep)
				case sign < 0:
					step[i][col] = math.Max(step[i][col]*rpropDecrease, rpropMinStep)
					xGrad[i][col] = 0
				}
				if xGrad[i][col] > 0 {
					x[i][col] += step[i][col]
				} else if xGrad[i][col] < 0 {
					x[i][col] -= step[i][col]
				}
				prevGrad[i][col] = xGrad[i][col]
			}
		}
	}
	return softmaxColumns(x)
}
