package kelly

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const probabilitySumTolerance = 1e-6

// validateOutcome is the result of running the validator: the diagnostics
// to surface plus the subset of candidates that survived filtering, in
// their original relative order.
type validateOutcome struct {
	problems  []ValidationResult
	survivors []Company
	hardError bool
}

// validate runs every rule in order, independently per candidate, then the
// cross-candidate and filtering rules. It never panics: every invariant
// violation becomes a ValidationResult rather than an error return, so the
// facade can always assemble a response. maxConstraints bounds L to guard
// against an unreasonably large 2^L enumeration.
func validate(input AllocationInput, maxConstraints int) validateOutcome {
	var problems []ValidationResult

	for _, c := range input.Candidates {
		problems = append(problems, validateCompany(c)...)
	}

	if dups := duplicateTickers(input.Candidates); len(dups) > 0 {
		problems = append(problems, ValidationResult{
			Code:     "all-tickers-must-be-unique",
			Message:  fmt.Sprintf("Duplicate tickers found: %s", strings.Join(dups, ", ")),
			Severity: SeverityError,
		})
	}

	if input.MaxPermanentLossOfCapital != nil && !input.longOnlyEnabled() {
		problems = append(problems, ValidationResult{
			Code:     "maximum-permanent-loss-constraint-works-only-with-long-only-constraint",
			Message:  "max_permanent_loss_of_capital requires long_only to also be enabled",
			Severity: SeverityError,
		})
	}

	if input.MaxIndividualAllocation != nil {
		m := *input.MaxIndividualAllocation
		if m <= 0 || m > 1 {
			problems = append(problems, ValidationResult{
				Code:     "maximum-individual-allocation-out-of-range",
				Message:  fmt.Sprintf("max_individual_allocation must be in (0,1], got %v", m),
				Severity: SeverityError,
			})
		}
	}

	if input.MaxTotalLeverageRatio != nil && *input.MaxTotalLeverageRatio < 0 {
		problems = append(problems, ValidationResult{
			Code:     "maximum-total-leverage-ratio-cannot-be-negative",
			Message:  "max_total_leverage_ratio cannot be negative",
			Severity: SeverityError,
		})
	}

	if input.MaxPermanentLossOfCapital != nil {
		cl := input.MaxPermanentLossOfCapital
		if cl.ProbabilityOfLoss <= 0 || cl.ProbabilityOfLoss > 1 {
			problems = append(problems, ValidationResult{
				Code:     "maximum-capital-loss-probability-out-of-range",
				Message:  fmt.Sprintf("max_permanent_loss_of_capital.probability_of_loss must be in (0,1], got %v", cl.ProbabilityOfLoss),
				Severity: SeverityError,
			})
		}
		if cl.FractionOfCapital <= 0 || cl.FractionOfCapital > 1 {
			problems = append(problems, ValidationResult{
				Code:     "maximum-capital-loss-fraction-out-of-range",
				Message:  fmt.Sprintf("max_permanent_loss_of_capital.fraction_of_capital must be in (0,1], got %v", cl.FractionOfCapital),
				Severity: SeverityError,
			})
		}
	}

	if hasError(problems) {
		return validateOutcome{problems: problems, hardError: true}
	}

	survivors := make([]Company, 0, len(input.Candidates))
	for _, c := range input.Candidates {
		if ev := c.expectedReturn(); ev <= 0 {
			problems = append(problems, ValidationResult{
				Code:     "negative-expected-return-for-a-company",
				Message:  fmt.Sprintf("Found non-positive expected return of %.1f%% for %s. This is not supported because we want to prohibit shorting.", 100*ev, c.Ticker),
				Severity: SeverityWarning,
			})
			continue
		}

		if !c.hasDownside() {
			problems = append(problems, ValidationResult{
				Code:     "company-with-no-downside-scenario",
				Message:  fmt.Sprintf("Company %s doesn't have at least one downside scenario. The algorithm would put all your money on it.", c.Ticker),
				Severity: SeverityWarning,
			})
			continue
		}

		survivors = append(survivors, c)
	}

	if len(survivors) == 0 {
		problems = append(problems, ValidationResult{
			Code:     "no-viable-candidates",
			Message:  "No candidates survived validation and filtering",
			Severity: SeverityError,
		})
		return validateOutcome{problems: problems, hardError: true}
	}

	if l := countConstraints(input, len(survivors)); l > maxConstraints {
		problems = append(problems, ValidationResult{
			Code:     "too-many-constraints",
			Message:  fmt.Sprintf("activation pattern enumeration would require 2^%d systems, exceeding the configured limit of 2^%d", l, maxConstraints),
			Severity: SeverityError,
		})
		return validateOutcome{problems: problems, hardError: true}
	}

	return validateOutcome{problems: problems, survivors: survivors}
}

// countConstraints computes L, the total number of inequality constraints
// that will be built for the given input and surviving candidate count.
func countConstraints(input AllocationInput, nSurvivors int) int {
	l := 0
	if input.longOnlyEnabled() {
		l += nSurvivors
	}
	if input.MaxTotalLeverageRatio != nil {
		l++
	}
	if input.MaxIndividualAllocation != nil {
		l += nSurvivors
	}
	if input.MaxPermanentLossOfCapital != nil {
		l++
	}
	return l
}

func validateCompany(c Company) []ValidationResult {
	var problems []ValidationResult

	if c.MarketCap <= 0 {
		problems = append(problems, ValidationResult{
			Code:     "market-cap-must-be-positive",
			Message:  fmt.Sprintf("%s has non-positive market cap %v", c.Ticker, c.MarketCap),
			Severity: SeverityError,
		})
	}

	if len(c.Scenarios) == 0 {
		problems = append(problems, ValidationResult{
			Code:     "no-scenarios-for-company",
			Message:  fmt.Sprintf("%s has no scenarios", c.Ticker),
			Severity: SeverityError,
		})
		return problems
	}

	if !c.scenariosUnique() {
		problems = append(problems, ValidationResult{
			Code:     "scenarios-are-not-unique",
			Message:  fmt.Sprintf("%s has scenarios with duplicate theses", c.Ticker),
			Severity: SeverityError,
		})
	}

	for _, s := range c.Scenarios {
		if s.Probability < 0 || s.Probability > 1 {
			problems = append(problems, ValidationResult{
				Code:     "probability-for-scenario-out-of-range",
				Message:  fmt.Sprintf("%s scenario %q has probability %v outside [0,1]", c.Ticker, s.Thesis, s.Probability),
				Severity: SeverityError,
			})
		}
		if s.IntrinsicValue < 0 {
			problems = append(problems, ValidationResult{
				Code:     "negative-intrinsic-value",
				Message:  fmt.Sprintf("%s scenario %q has negative intrinsic value", c.Ticker, s.Thesis),
				Severity: SeverityError,
			})
		}
	}

	if sum := c.probabilitySum(); math.Abs(sum-1) > probabilitySumTolerance {
		problems = append(problems, ValidationResult{
			Code:     "probabilities-for-all-scenarios-do-not-sum-up-to-one",
			Message:  fmt.Sprintf("%s scenario probabilities sum to %v, not 1", c.Ticker, sum),
			Severity: SeverityError,
		})
	}

	return problems
}

func duplicateTickers(companies []Company) []string {
	counts := make(map[string]int, len(companies))
	for _, c := range companies {
		counts[c.Ticker]++
	}

	var dups []string
	for ticker, n := range counts {
		if n > 1 {
			dups = append(dups, ticker)
		}
	}
	sort.Strings(dups)
	return dups
}

func hasError(problems []ValidationResult) bool {
	for _, p := range problems {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}
