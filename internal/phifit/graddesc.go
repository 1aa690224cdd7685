package phifit

import "math"

// graddescLearningRate is the fixed step size used for the unconstrained
// softmax-logit ascent. Kept small and fixed — spec.md §4.2 only requires
// that every solver optimize the shared objective, not that it converge
// quickly; non-convergence is not fatal (spec.md §7 item 3).
const graddescLearningRate = 0.05

// softmaxColumns turns unconstrained per-node logits into a simplex per
// sample column: eta[:,s] = softmax(x[:,s]). This enforces eta>=0 and
// Σ_k eta[k,s]=1 (hence phi[0,:]=1) by construction, generalising the
// "softplus" reparameterisation spec.md §4.2 suggests to one that also
// pins the row sum.
func softmaxColumns(x [][]float64) [][]float64 {
	k := len(x)
	s := len(x[0])
	eta := make([][]float64, k)
	for i := range eta {
		eta[i] = make([]float64, s)
	}
	for col := 0; col < s; col++ {
		max := math.Inf(-1)
		for i := 0; i < k; i++ {
			if x[i][col] > max {
				max = x[i][col]
			}
		}
		sum := 0.0
		for i := 0; i < k; i++ {
			eta[i][col] = math.Exp(x[i][col] - max)
			sum += eta[i][col]
		}
		for i := 0; i < k; i++ {
			eta[i][col] /= sum
		}
	}
	return eta
}

// softmaxBackward converts dLL/deta into dLL/dx for a softmax
// reparameterisation: dLL/dx[j,s] = eta[j,s]*(dLL/deta[j,s] -
// Σ_k eta[k,s]*dLL/deta[k,s]).
func softmaxBackward(eta, etaGrad [][]float64) [][]float64 {
	k := len(eta)
	s := len(eta[0])
	out := make([][]float64, k)
	for i := range out {
		out[i] = make([]float64, s)
	}
	for col := 0; col < s; col++ {
		dot := 0.0
		for i := 0; i < k; i++ {
			dot += eta[i][col] * etaGrad[i][col]
		}
		for j := 0; j < k; j++ {
			out[j][col] = eta[j][col] * (etaGrad[j][col] - dot)
		}
	}
	return out
}

// fitGradDesc runs plain gradient ascent on the log-likelihood in
// unconstrained softmax-logit space.
func fitGradDesc(e [][]int, rs *readStats, k, s, iterations int) [][]float64 {
	x := make([][]float64, k)
	for i := range x {
		x[i] = make([]float64, s)
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
				x[i][col] += graddescLearningRate * xGrad[i][col]
			}
		}
	}
	return softmaxColumns(x)
}
