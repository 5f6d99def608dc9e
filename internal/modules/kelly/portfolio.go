package kelly

// PortfolioCompany pairs a company with an allocation fraction, used on the
// analyze path where fractions are supplied directly rather than solved for.
type PortfolioCompany struct {
	Company  Company `json:"company" yaml:"company"`
	Fraction float64 `json:"fraction" yaml:"fraction"`
}

// Portfolio is an ordered collection of companies and their fractions.
type Portfolio struct {
	Companies []PortfolioCompany `json:"companies" yaml:"companies"`
}

// CapitalLoss bounds the permanent loss of capital an investor will
// tolerate: a probability of loss and the fraction of capital lost in that
// scenario, both expressed as positive magnitudes.
type CapitalLoss struct {
	ProbabilityOfLoss float64 `json:"probability_of_loss" yaml:"probability_of_loss"`
	FractionOfCapital float64 `json:"fraction_of_capital" yaml:"fraction_of_capital"`
}

// AllocationInput is the request to Allocate: a set of candidates plus the
// optional constraints to apply. Absent pointer fields mean the
// corresponding constraint is disabled.
type AllocationInput struct {
	Candidates                []Company    `json:"candidates" yaml:"candidates"`
	LongOnly                  *bool        `json:"long_only,omitempty" yaml:"long_only,omitempty"`
	MaxIndividualAllocation   *float64     `json:"max_individual_allocation,omitempty" yaml:"max_individual_allocation,omitempty"`
	MaxTotalLeverageRatio     *float64     `json:"max_total_leverage_ratio,omitempty" yaml:"max_total_leverage_ratio,omitempty"`
	MaxPermanentLossOfCapital *CapitalLoss `json:"max_permanent_loss_of_capital,omitempty" yaml:"max_permanent_loss_of_capital,omitempty"`
}

func (in AllocationInput) longOnlyEnabled() bool {
	return in.LongOnly != nil && *in.LongOnly
}
