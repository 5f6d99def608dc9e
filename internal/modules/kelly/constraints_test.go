package kelly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLongOnlyConstraint_SignConvention(t *testing.T) {
	c := longOnlyConstraint{index: 1, n: 3}
	f := []float64{0.3, -0.1, 0.2}

	// I_j = -f_j; a negative fraction makes I positive (constraint violated).
	assert.InDelta(t, 0.1, c.value(f), 1e-12)

	grad := c.gradient(f)
	assert.Equal(t, []float64{0, -1, 0}, grad)
}

func TestMaxLeverageConstraint(t *testing.T) {
	c := maxLeverageConstraint{maxLeverageRatio: 0.5, n: 2}
	f := []float64{1.0, 1.0}

	// I = sum(f) - 1 - L = 2 - 1 - 0.5 = 0.5
	assert.InDelta(t, 0.5, c.value(f), 1e-12)
	assert.Equal(t, []float64{1, 1}, c.gradient(f))
}

func TestMaxIndividualAllocationConstraint(t *testing.T) {
	c := maxIndividualAllocationConstraint{index: 0, maxAllocationFraction: 0.2, n: 2}
	f := []float64{0.3, 0.1}

	assert.InDelta(t, 0.1, c.value(f), 1e-12)
	assert.Equal(t, []float64{1, 0}, c.gradient(f))
}

func TestMaxCapitalLossConstraint(t *testing.T) {
	c := maxCapitalLossConstraint{
		probabilityTimesFractionLost: -0.025, // -P*K
		worstPerCompany:               []float64{-0.1, -0.05},
		n:                             2,
	}
	f := []float64{0.2, 0.2}

	// I = -(f0*w0 + f1*w1) - P*K = -(0.2*-0.1 + 0.2*-0.05) - 0.025 = 0.03 - 0.025
	assert.InDelta(t, 0.005, c.value(f), 1e-12)
}

func TestBuildConstraints_CountsMatchSpecFormula(t *testing.T) {
	// L = 2*Nc + 2 for full configuration (long-only, max leverage, max
	// individual allocation, max capital loss) with Nc candidates.
	companies := []Company{fiftyFiftyBet("A"), fiftyFiftyBet("B"), fiftyFiftyBet("C")}
	longOnly := true
	maxAlloc := 0.5
	maxLev := 0.0

	cs := buildConstraints(AllocationInput{
		LongOnly:                  &longOnly,
		MaxIndividualAllocation:   &maxAlloc,
		MaxTotalLeverageRatio:     &maxLev,
		MaxPermanentLossOfCapital: &CapitalLoss{ProbabilityOfLoss: 0.1, FractionOfCapital: 0.1},
	}, companies)

	assert.Len(t, cs, 2*len(companies)+2)
}

func TestWorstPerCompanyReturn_UsesOwnScenariosNotJointOutcomes(t *testing.T) {
	// Five identical 50/50 bets: each company's own worst probability-weighted
	// return is 0.5*(-0.5) = -0.25, independent of how many other companies
	// are in the portfolio. A joint-outcome computation would incorrectly
	// shrink this by the other companies' probabilities.
	var companies []Company
	for i := 0; i < 5; i++ {
		companies = append(companies, fiftyFiftyBet(string(rune('A'+i))))
	}

	worst := worstPerCompanyReturn(companies)

	require.Len(t, worst, 5)
	for _, w := range worst {
		assert.InDelta(t, -0.25, w, 1e-12)
	}
}
