package kelly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_DuplicateTickers(t *testing.T) {
	out := validate(AllocationInput{
		Candidates: []Company{fiftyFiftyBet("A"), fiftyFiftyBet("A")},
	}, 22)

	assert.True(t, out.hardError)
}

func TestValidate_ProbabilitiesMustSumToOne(t *testing.T) {
	c := fiftyFiftyBet("A")
	c.Scenarios[0].Probability = 0.6 // no longer sums to 1

	out := validate(AllocationInput{Candidates: []Company{c}}, 22)

	assert.True(t, out.hardError)
}

func TestValidate_DuplicateScenarioThesis(t *testing.T) {
	c := fiftyFiftyBet("A")
	c.Scenarios[1].Thesis = c.Scenarios[0].Thesis

	out := validate(AllocationInput{Candidates: []Company{c}}, 22)

	assert.True(t, out.hardError)
}

func TestValidate_TooManyConstraintsRejected(t *testing.T) {
	var candidates []Company
	for i := 0; i < 30; i++ {
		candidates = append(candidates, fiftyFiftyBet(string(rune('a'+i))))
	}
	longOnly := true

	out := validate(AllocationInput{Candidates: candidates, LongOnly: &longOnly}, 22)

	assert.True(t, out.hardError)
}

func TestValidate_SurvivorsPreserveOrder(t *testing.T) {
	a := fiftyFiftyBet("A")
	noDownside := Company{
		Name: "B", Ticker: "B", MarketCap: 1.0,
		Scenarios: []Scenario{
			{Thesis: "up a bit", IntrinsicValue: 1.1, Probability: 0.5},
			{Thesis: "up a lot", IntrinsicValue: 2.0, Probability: 0.5},
		},
	}
	c := fiftyFiftyBet("C")

	out := validate(AllocationInput{Candidates: []Company{a, noDownside, c}}, 22)

	assert.False(t, out.hardError)
	assert.Len(t, out.survivors, 2)
	assert.Equal(t, "A", out.survivors[0].Ticker)
	assert.Equal(t, "C", out.survivors[1].Ticker)
}
