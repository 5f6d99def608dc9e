package kelly

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{Log: zerolog.Nop()}
}

func fiftyFiftyBet(ticker string) Company {
	return Company{
		Name:      ticker,
		Ticker:    ticker,
		MarketCap: 1.0,
		Scenarios: []Scenario{
			{Thesis: "up", IntrinsicValue: 2.0, Probability: 0.5},
			{Thesis: "down", IntrinsicValue: 0.5, Probability: 0.5},
		},
	}
}

func TestAllocate_FiveIdenticalBetsUnconstrained(t *testing.T) {
	var candidates []Company
	for i := 0; i < 5; i++ {
		candidates = append(candidates, fiftyFiftyBet(string(rune('A'+i))))
	}

	resp := Allocate(context.Background(), AllocationInput{Candidates: candidates}, testOptions())

	require.Nil(t, resp.Error)
	require.NotNil(t, resp.Result)
	require.Len(t, resp.Result.Allocations, 5)
	for _, a := range resp.Result.Allocations {
		assert.InDelta(t, 0.35, a.Fraction, 0.01)
	}
}

func TestAllocate_FiveIdenticalBetsZeroLeverage(t *testing.T) {
	var candidates []Company
	for i := 0; i < 5; i++ {
		candidates = append(candidates, fiftyFiftyBet(string(rune('A'+i))))
	}

	zero := 0.0
	resp := Allocate(context.Background(), AllocationInput{
		Candidates:            candidates,
		MaxTotalLeverageRatio: &zero,
	}, testOptions())

	require.Nil(t, resp.Error)
	require.NotNil(t, resp.Result)
	for _, a := range resp.Result.Allocations {
		assert.InDelta(t, 0.20, a.Fraction, 0.01)
	}
}

func TestAllocate_FiveIdenticalBetsCapitalLossConstraint(t *testing.T) {
	var candidates []Company
	for i := 0; i < 5; i++ {
		candidates = append(candidates, fiftyFiftyBet(string(rune('A'+i))))
	}

	longOnly := true
	resp := Allocate(context.Background(), AllocationInput{
		Candidates: candidates,
		LongOnly:   &longOnly,
		MaxPermanentLossOfCapital: &CapitalLoss{
			ProbabilityOfLoss: 0.05,
			FractionOfCapital: 0.5,
		},
	}, testOptions())

	require.Nil(t, resp.Error)
	require.NotNil(t, resp.Result)
	for _, a := range resp.Result.Allocations {
		assert.InDelta(t, 0.02, a.Fraction, 0.002)
	}
	assert.InDelta(t, -0.025, resp.Result.Analysis.WorstCaseOutcome.ProbabilityWeightedReturn, 0.005)
}

func TestAllocate_SingleCandidateLongOnlyKelly(t *testing.T) {
	longOnly := true
	resp := Allocate(context.Background(), AllocationInput{
		Candidates: []Company{
			{
				Name:      "Solo",
				Ticker:    "SOLO",
				MarketCap: 1.0,
				Scenarios: []Scenario{
					{Thesis: "bust", IntrinsicValue: 0.0, Probability: 0.1},
					{Thesis: "moon", IntrinsicValue: 1.5, Probability: 0.9},
				},
			},
		},
		LongOnly: &longOnly,
	}, testOptions())

	require.Nil(t, resp.Error)
	require.NotNil(t, resp.Result)
	require.Len(t, resp.Result.Allocations, 1)
	assert.InDelta(t, 0.8667, resp.Result.Allocations[0].Fraction, 0.001)
}

func TestAllocate_NegativeExpectedValueCandidateFiltered(t *testing.T) {
	good := fiftyFiftyBet("GOOD")
	bad := Company{
		Name:      "BAD",
		Ticker:    "BAD",
		MarketCap: 1.0,
		Scenarios: []Scenario{
			{Thesis: "down", IntrinsicValue: 0.4, Probability: 0.5},
			{Thesis: "up", IntrinsicValue: 1.1, Probability: 0.5},
		},
	}

	resp := Allocate(context.Background(), AllocationInput{Candidates: []Company{good, bad}}, testOptions())

	require.Nil(t, resp.Error)
	require.NotNil(t, resp.Result)
	require.Len(t, resp.Result.Allocations, 1)
	assert.Equal(t, "GOOD", resp.Result.Allocations[0].Ticker)

	found := false
	for _, p := range resp.ValidationProblems {
		if p.Code == "negative-expected-return-for-a-company" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAllocate_NoDownsideCandidateFilteredAsSoleCandidate(t *testing.T) {
	noDownside := Company{
		Name:      "MOON",
		Ticker:    "MOON",
		MarketCap: 1.0,
		Scenarios: []Scenario{
			{Thesis: "up a bit", IntrinsicValue: 1.1, Probability: 0.5},
			{Thesis: "up a lot", IntrinsicValue: 2.0, Probability: 0.5},
		},
	}

	resp := Allocate(context.Background(), AllocationInput{Candidates: []Company{noDownside}}, testOptions())

	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeValidationError, resp.Error.Code)
	assert.Nil(t, resp.Result)
}

func TestAllocate_MaxPermanentLossRequiresLongOnly(t *testing.T) {
	resp := Allocate(context.Background(), AllocationInput{
		Candidates: []Company{fiftyFiftyBet("A")},
		MaxPermanentLossOfCapital: &CapitalLoss{
			ProbabilityOfLoss: 0.05,
			FractionOfCapital: 0.5,
		},
	}, testOptions())

	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeValidationError, resp.Error.Code)

	found := false
	for _, p := range resp.ValidationProblems {
		if p.Code == "maximum-permanent-loss-constraint-works-only-with-long-only-constraint" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAllocate_DuplicateTickersRejected(t *testing.T) {
	resp := Allocate(context.Background(), AllocationInput{
		Candidates: []Company{fiftyFiftyBet("DUP"), fiftyFiftyBet("DUP")},
	}, testOptions())

	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeValidationError, resp.Error.Code)
}

func TestAllocate_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var candidates []Company
	for i := 0; i < 8; i++ {
		candidates = append(candidates, fiftyFiftyBet(string(rune('A'+i))))
	}
	longOnly := true

	resp := Allocate(ctx, AllocationInput{Candidates: candidates, LongOnly: &longOnly}, testOptions())

	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeCancelled, resp.Error.Code)
}

func TestAnalyze_ThreeAssetPortfolio(t *testing.T) {
	portfolio := Portfolio{Companies: []PortfolioCompany{
		{
			Company: Company{
				Name: "A", Ticker: "A", MarketCap: 1e6,
				Scenarios: []Scenario{
					{Thesis: "Head", IntrinsicValue: 2e6, Probability: 0.5},
					{Thesis: "Tail", IntrinsicValue: 0, Probability: 0.5},
				},
			},
			Fraction: 0.2,
		},
		{
			Company: Company{
				Name: "B", Ticker: "B", MarketCap: 1e6,
				Scenarios: []Scenario{
					{Thesis: "Head", IntrinsicValue: 2e6, Probability: 0.6},
					{Thesis: "Tail", IntrinsicValue: 0, Probability: 0.4},
				},
			},
			Fraction: 0.3,
		},
		{
			Company: Company{
				Name: "C", Ticker: "C", MarketCap: 1e8,
				Scenarios: []Scenario{
					{Thesis: "Double", IntrinsicValue: 2e8, Probability: 0.3},
					{Thesis: "Half up", IntrinsicValue: 1.5e8, Probability: 0.3},
					{Thesis: "Same", IntrinsicValue: 1e8, Probability: 0.4},
				},
			},
			Fraction: 0.5,
		},
	}}

	resp := Analyze(context.Background(), portfolio, zerolog.Nop())

	require.Nil(t, resp.Error)
	require.NotNil(t, resp.Result)
	assert.InDelta(t, 0.285, resp.Result.ExpectedReturn, 1e-9)
	assert.InDelta(t, -0.22, resp.Result.WorstCaseOutcome.PortfolioReturn, 1e-9)
	assert.InDelta(t, 0.08, resp.Result.WorstCaseOutcome.Probability, 1e-9)
}
