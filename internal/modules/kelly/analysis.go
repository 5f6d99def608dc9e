package kelly

// analyze computes portfolio-level statistics over the outcome set for
// the given fractions: expected return, cumulative probability of loss,
// and the worst-case outcome (the one minimizing probability-weighted
// return).
func analyze(f []float64, o outcomes) AnalysisResult {
	var expected, cumulativeLoss float64
	worstIdx := -1
	var worstWeighted float64

	for i := 0; i < o.n(); i++ {
		var portfolioReturn float64
		for j, fj := range f {
			portfolioReturn += fj * o.k[i][j]
		}
		weighted := o.p[i] * portfolioReturn

		expected += weighted
		if portfolioReturn < 0 {
			cumulativeLoss += o.p[i]
		}

		if worstIdx == -1 || weighted < worstWeighted {
			worstIdx = i
			worstWeighted = weighted
		}
	}

	var worst ProbabilityAndReturns
	if worstIdx >= 0 {
		var portfolioReturn float64
		for j, fj := range f {
			portfolioReturn += fj * o.k[worstIdx][j]
		}
		worst = ProbabilityAndReturns{
			Probability:               o.p[worstIdx],
			PortfolioReturn:           portfolioReturn,
			ProbabilityWeightedReturn: worstWeighted,
		}
	}

	return AnalysisResult{
		WorstCaseOutcome:            worst,
		CumulativeProbabilityOfLoss: cumulativeLoss,
		ExpectedReturn:              expected,
	}
}
