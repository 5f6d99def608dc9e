package kelly

// Scenario is one discrete future outcome for a company: a thesis for why
// it might happen, the intrinsic value implied if it does, and its
// probability of occurring.
type Scenario struct {
	Thesis         string  `json:"thesis" yaml:"thesis"`
	IntrinsicValue float64 `json:"intrinsic_value" yaml:"intrinsic_value"`
	Probability    float64 `json:"probability" yaml:"probability"`
}

// scenarioReturn is the fractional return of this scenario relative to the
// company's current market cap: (V - M) / M.
func (s Scenario) scenarioReturn(marketCap float64) float64 {
	return (s.IntrinsicValue - marketCap) / marketCap
}

// probabilityWeightedReturn is the scenario's return weighted by its
// probability of occurring.
func (s Scenario) probabilityWeightedReturn(marketCap float64) float64 {
	return s.Probability * s.scenarioReturn(marketCap)
}

// isDownside reports whether this scenario implies a loss relative to the
// current market cap.
func (s Scenario) isDownside(marketCap float64) bool {
	return s.IntrinsicValue < marketCap
}
