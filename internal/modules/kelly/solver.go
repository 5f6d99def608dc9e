package kelly

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// relaxationFactor damps every Newton update; the undamped full step
	// oscillates on stiff single-company systems.
	relaxationFactor = 0.7

	viabilityTolerance = 1e-9
)

// solverResult is one converged, viable solution for an activation
// pattern.
type solverResult struct {
	fractions         []float64
	positiveFractions int
}

// solvePattern runs Newton-Raphson to find a stationary point of the
// Lagrangian for the given activation pattern (active[l] true means
// constraint l is active). It returns ok=false when the pattern is not
// viable (non-convergence, singular Jacobian, NaN, or a sign-violating
// slack/multiplier), never an error — individual pattern failures are not
// surfaced per the specification.
func solvePattern(ctx context.Context, nc int, cs []constraint, active []bool, o outcomes, tol float64, maxIter int) (solverResult, bool) {
	l := len(cs)
	dim := nc + l

	x := make([]float64, dim)
	for j := 0; j < nc; j++ {
		x[j] = 1.0 / float64(nc)
	}

	for iter := 0; iter < maxIter; iter++ {
		select {
		case <-ctx.Done():
			return solverResult{}, false
		default:
		}

		f := x[:nc]
		aux := x[nc:]

		denom := make([]float64, o.n())
		for i := 0; i < o.n(); i++ {
			d := 1.0
			for m := 0; m < nc; m++ {
				d += f[m] * o.k[i][m]
			}
			denom[i] = d
			if d <= 0 || math.IsNaN(d) {
				return solverResult{}, false
			}
		}

		residual := buildResidual(nc, l, cs, active, f, aux, o, denom)
		jac := buildJacobian(nc, l, cs, active, f, aux, o, denom)

		delta, ok := solveLinear(jac, residual)
		if !ok {
			return solverResult{}, false
		}

		maxDelta := 0.0
		for i, d := range delta {
			if math.IsNaN(d) || math.IsInf(d, 0) {
				return solverResult{}, false
			}
			x[i] += relaxationFactor * d
			if a := math.Abs(d); a > maxDelta {
				maxDelta = a
			}
		}

		if maxDelta < tol {
			return finalizeSolution(nc, l, active, x, tol)
		}
	}

	return solverResult{}, false
}

// buildResidual assembles F(x): the stationarity block alpha (length nc)
// followed by the constraint block beta (length l).
func buildResidual(nc, l int, cs []constraint, active []bool, f, aux []float64, o outcomes, denom []float64) []float64 {
	res := make([]float64, nc+l)

	for j := 0; j < nc; j++ {
		var alpha float64
		for i := 0; i < o.n(); i++ {
			alpha += o.p[i] * o.k[i][j] / denom[i]
		}
		for m, c := range cs {
			if !active[m] {
				continue
			}
			lambda := aux[m]
			alpha -= lambda * c.gradient(f)[j]
		}
		res[j] = alpha
	}

	for m, c := range cs {
		iv := c.value(f)
		if active[m] {
			res[nc+m] = -iv
		} else {
			res[nc+m] = -iv - aux[m]
		}
	}

	return res
}

// buildJacobian assembles the dense (nc+l)x(nc+l) Jacobian described in the
// specification.
func buildJacobian(nc, l int, cs []constraint, active []bool, f, aux []float64, o outcomes, denom []float64) [][]float64 {
	dim := nc + l
	j := make([][]float64, dim)
	for r := range j {
		j[r] = make([]float64, dim)
	}

	for a := 0; a < nc; a++ {
		for b := 0; b < nc; b++ {
			var h float64
			for i := 0; i < o.n(); i++ {
				h -= o.p[i] * o.k[i][a] * o.k[i][b] / (denom[i] * denom[i])
			}
			for m, c := range cs {
				if !active[m] {
					continue
				}
				lambda := aux[m]
				h -= lambda * c.hessian(f)[a][b]
			}
			j[a][b] = h
		}
	}

	for m, c := range cs {
		grad := c.gradient(f)
		for a := 0; a < nc; a++ {
			j[nc+m][a] = -grad[a]
			if active[m] {
				j[a][nc+m] = -grad[a]
			}
		}
		if !active[m] {
			j[nc+m][nc+m] = -1
		}
	}

	return j
}

// solveLinear solves J*delta = -F via dense LU decomposition with partial
// pivoting, reporting ok=false on a singular Jacobian.
func solveLinear(jac [][]float64, residual []float64) ([]float64, bool) {
	n := len(residual)
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			a.Set(i, k, jac[i][k])
		}
	}

	b := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		b.SetVec(i, -residual[i])
	}

	var lu mat.LU
	lu.Factorize(a)

	var x mat.VecDense
	if err := lu.SolveVecTo(&x, false, b); err != nil {
		return nil, false
	}

	delta := make([]float64, n)
	for i := 0; i < n; i++ {
		v := x.AtVec(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
		delta[i] = v
	}
	return delta, true
}

// finalizeSolution checks viability of a converged solution: every
// inactive slack and active multiplier must respect its sign, and every
// fraction must be finite.
func finalizeSolution(nc, l int, active []bool, x []float64, tol float64) (solverResult, bool) {
	f := x[:nc]
	aux := x[nc:]

	for _, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return solverResult{}, false
		}
	}

	for m := 0; m < l; m++ {
		v := aux[m]
		if v < -viabilityTolerance {
			return solverResult{}, false
		}
	}

	positive := 0
	fCopy := make([]float64, nc)
	for j, v := range f {
		fCopy[j] = v
		if v > viabilityTolerance {
			positive++
		}
	}

	return solverResult{fractions: fCopy, positiveFractions: positive}, true
}
