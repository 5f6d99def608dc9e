package kelly

// outcomes holds the full cartesian product of per-company scenario
// indices, built once per Allocate/Analyze call and shared read-only by
// every solver worker. p[i] is the joint probability of outcome i; k[i][j]
// is the return of company j under outcome i.
type outcomes struct {
	p []float64
	k [][]float64
}

// buildOutcomes enumerates every joint outcome for the given companies.
// Company 0 varies fastest, matching the canonical iteration order
// required by the specification.
func buildOutcomes(companies []Company) outcomes {
	nc := len(companies)
	if nc == 0 {
		return outcomes{}
	}

	nScenarios := make([]int, nc)
	nOutcomes := 1
	for j, c := range companies {
		nScenarios[j] = len(c.Scenarios)
		nOutcomes *= nScenarios[j]
	}

	p := make([]float64, nOutcomes)
	k := make([][]float64, nOutcomes)

	idx := make([]int, nc)
	for i := 0; i < nOutcomes; i++ {
		prob := 1.0
		ret := make([]float64, nc)
		for j, c := range companies {
			s := c.Scenarios[idx[j]]
			prob *= s.Probability
			ret[j] = s.scenarioReturn(c.MarketCap)
		}
		p[i] = prob
		k[i] = ret

		for j := 0; j < nc; j++ {
			idx[j]++
			if idx[j] < nScenarios[j] {
				break
			}
			idx[j] = 0
		}
	}

	return outcomes{p: p, k: k}
}

// n is the number of joint outcomes.
func (o outcomes) n() int {
	return len(o.p)
}

// nCompanies is the number of companies in the outcome set.
func (o outcomes) nCompanies() int {
	if len(o.k) == 0 {
		return 0
	}
	return len(o.k[0])
}
