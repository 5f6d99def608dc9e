package kelly

// Severity classifies a ValidationResult.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// ValidationResult is one diagnostic produced by the validator.
type ValidationResult struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// ErrorCode enumerates the error taxonomy a facade call can surface.
type ErrorCode string

const (
	CodeValidationError     ErrorCode = "VALIDATION_ERROR"
	CodeNoFeasibleSolution  ErrorCode = "NO_FEASIBLE_SOLUTION"
	CodeNumericalError      ErrorCode = "NUMERICAL_ERROR"
	CodeCancelled           ErrorCode = "CANCELLED"
	CodeInternalError       ErrorCode = "INTERNAL_ERROR"
)

// Error is the wire representation of a facade-level failure.
type Error struct {
	Code    ErrorCode `json:"error_code"`
	Message string    `json:"message"`
}

// TickerAndFraction is one line of the allocation result.
type TickerAndFraction struct {
	Ticker   string  `json:"ticker" yaml:"ticker"`
	Fraction float64 `json:"fraction" yaml:"fraction"`
}

// ProbabilityAndReturns describes a single outcome of interest (used for
// the worst case outcome).
type ProbabilityAndReturns struct {
	Probability               float64 `json:"probability" yaml:"probability"`
	PortfolioReturn           float64 `json:"portfolio_return" yaml:"portfolio_return"`
	ProbabilityWeightedReturn float64 `json:"probability_weighted_return" yaml:"probability_weighted_return"`
}

// AnalysisResult summarizes a portfolio's outcome distribution.
type AnalysisResult struct {
	WorstCaseOutcome            ProbabilityAndReturns `json:"worst_case_outcome" yaml:"worst_case_outcome"`
	CumulativeProbabilityOfLoss float64               `json:"cumulative_probability_of_loss" yaml:"cumulative_probability_of_loss"`
	ExpectedReturn              float64               `json:"expected_return" yaml:"expected_return"`
}

// AllocationResult is the successful payload of an Allocate call.
type AllocationResult struct {
	Allocations []TickerAndFraction `json:"allocations" yaml:"allocations"`
	Analysis    AnalysisResult      `json:"analysis" yaml:"analysis"`
}

// AllocationResponse is the top-level response of Allocate. Exactly one of
// Result (with possibly non-nil warnings) or Error is populated; when
// ValidationProblems contains an ERROR, Result is nil.
type AllocationResponse struct {
	Result             *AllocationResult  `json:"result,omitempty"`
	ValidationProblems []ValidationResult `json:"validation_problems,omitempty"`
	Error              *Error             `json:"error,omitempty"`
}

// AnalysisResponse is the top-level response of Analyze.
type AnalysisResponse struct {
	Result *AnalysisResult `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
}
