package kelly

// constraint is the differentiation interface every inequality constraint
// implements: I(f) <= 0, its gradient with respect to fractions, and its
// Hessian (zero for every built-in below, but present so a future
// non-linear constraint is not a breaking change).
type constraint interface {
	// value returns I(f), the constraint function evaluated at the given
	// fractions.
	value(f []float64) float64

	// gradient returns dI/df_j for every candidate j.
	gradient(f []float64) []float64

	// hessian returns d2I/df_i df_j, a dense nCompanies x nCompanies matrix.
	hessian(f []float64) [][]float64
}

// longOnlyConstraint disallows shorting a single candidate: I_j = -f_j.
type longOnlyConstraint struct {
	index int
	n     int
}

func (c longOnlyConstraint) value(f []float64) float64 {
	return -f[c.index]
}

func (c longOnlyConstraint) gradient(f []float64) []float64 {
	g := make([]float64, c.n)
	g[c.index] = -1
	return g
}

func (c longOnlyConstraint) hessian(f []float64) [][]float64 {
	return zeroHessian(c.n)
}

// maxLeverageConstraint bounds total leverage: I = Sum f_j - (1+L).
type maxLeverageConstraint struct {
	maxLeverageRatio float64
	n                int
}

func (c maxLeverageConstraint) value(f []float64) float64 {
	return sum(f) - 1 - c.maxLeverageRatio
}

func (c maxLeverageConstraint) gradient(f []float64) []float64 {
	g := make([]float64, c.n)
	for j := range g {
		g[j] = 1
	}
	return g
}

func (c maxLeverageConstraint) hessian(f []float64) [][]float64 {
	return zeroHessian(c.n)
}

// maxIndividualAllocationConstraint bounds a single candidate's fraction:
// I_j = f_j - M.
type maxIndividualAllocationConstraint struct {
	index                 int
	maxAllocationFraction float64
	n                     int
}

func (c maxIndividualAllocationConstraint) value(f []float64) float64 {
	return f[c.index] - c.maxAllocationFraction
}

func (c maxIndividualAllocationConstraint) gradient(f []float64) []float64 {
	g := make([]float64, c.n)
	g[c.index] = 1
	return g
}

func (c maxIndividualAllocationConstraint) hessian(f []float64) [][]float64 {
	return zeroHessian(c.n)
}

// maxCapitalLossConstraint bounds the probability-weighted worst-case loss
// of the whole portfolio: I = -Sum f_j*w_j - P*K, where w_j is the worst
// probability-weighted single-outcome return contributed by candidate j.
type maxCapitalLossConstraint struct {
	probabilityTimesFractionLost float64 // -P*K, always <= 0
	worstPerCompany              []float64
	n                            int
}

func (c maxCapitalLossConstraint) value(f []float64) float64 {
	var s float64
	for j, w := range c.worstPerCompany {
		s += f[j] * w
	}
	return -s + c.probabilityTimesFractionLost
}

func (c maxCapitalLossConstraint) gradient(f []float64) []float64 {
	g := make([]float64, c.n)
	for j, w := range c.worstPerCompany {
		g[j] = -w
	}
	return g
}

func (c maxCapitalLossConstraint) hessian(f []float64) [][]float64 {
	return zeroHessian(c.n)
}

func zeroHessian(n int) [][]float64 {
	h := make([][]float64, n)
	for i := range h {
		h[i] = make([]float64, n)
	}
	return h
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

// worstPerCompanyReturn computes, for every company, the minimum
// probability-weighted return across that company's own scenarios — the
// input to the max-capital-loss constraint. This is deliberately over each
// company's own scenario set, not the joint outcome cross-product: the
// joint probability of a scenario combining with every other company's
// worst case is not the quantity the bound constrains.
func worstPerCompanyReturn(companies []Company) []float64 {
	worst := make([]float64, len(companies))
	for j, c := range companies {
		worst[j] = 0
		first := true
		for _, s := range c.Scenarios {
			pw := s.probabilityWeightedReturn(c.MarketCap)
			if first || pw < worst[j] {
				worst[j] = pw
				first = false
			}
		}
	}
	return worst
}

// buildConstraints instantiates every enabled constraint group for the
// given input and companies, in a fixed order: long-only per candidate,
// max leverage, max individual allocation per candidate, max capital loss.
func buildConstraints(input AllocationInput, companies []Company) []constraint {
	nCompanies := len(companies)
	var cs []constraint

	if input.longOnlyEnabled() {
		for j := 0; j < nCompanies; j++ {
			cs = append(cs, longOnlyConstraint{index: j, n: nCompanies})
		}
	}

	if input.MaxTotalLeverageRatio != nil {
		cs = append(cs, maxLeverageConstraint{maxLeverageRatio: *input.MaxTotalLeverageRatio, n: nCompanies})
	}

	if input.MaxIndividualAllocation != nil {
		for j := 0; j < nCompanies; j++ {
			cs = append(cs, maxIndividualAllocationConstraint{
				index:                 j,
				maxAllocationFraction: *input.MaxIndividualAllocation,
				n:                     nCompanies,
			})
		}
	}

	if input.MaxPermanentLossOfCapital != nil {
		cl := input.MaxPermanentLossOfCapital
		cs = append(cs, maxCapitalLossConstraint{
			probabilityTimesFractionLost: -cl.ProbabilityOfLoss * cl.FractionOfCapital,
			worstPerCompany:               worstPerCompanyReturn(companies),
			n:                             nCompanies,
		})
	}

	return cs
}
