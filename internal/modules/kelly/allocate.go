package kelly

import (
	"context"
	"errors"
	"runtime"

	"github.com/rs/zerolog"
)

// Options configures the numerical behavior of Allocate; zero values are
// replaced with sane defaults by WithDefaults.
type Options struct {
	Tolerance      float64
	MaxIterations  int
	MaxConstraints int
	Workers        int
	Log            zerolog.Logger
}

// WithDefaults fills in any zero-valued field with the specification's
// default, so callers may pass a partially-populated Options.
func (o Options) WithDefaults() Options {
	if o.Tolerance <= 0 {
		o.Tolerance = 1e-8
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = 100
	}
	if o.MaxConstraints <= 0 {
		o.MaxConstraints = 22
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	return o
}

// Allocate runs the full pipeline: validate, build outcomes, drive the
// solver across every activation pattern, select the winner, analyze it,
// and assemble the response. It is the only entry point the HTTP and CLI
// collaborators call for the allocation use case.
func Allocate(ctx context.Context, input AllocationInput, opts Options) *AllocationResponse {
	opts = opts.WithDefaults()
	log := opts.Log

	vr := validate(input, opts.MaxConstraints)
	if vr.hardError {
		log.Warn().Int("problems", len(vr.problems)).Msg("allocation rejected at validation")
		return &AllocationResponse{
			ValidationProblems: vr.problems,
			Error: &Error{
				Code:    CodeValidationError,
				Message: "input failed validation",
			},
		}
	}

	for _, p := range vr.problems {
		log.Warn().Str("code", p.Code).Str("message", p.Message).Msg("candidate filtered during validation")
	}

	o := buildOutcomes(vr.survivors)
	cs := buildConstraints(input, vr.survivors)

	results, err := driveSolver(ctx, len(vr.survivors), cs, o, opts.Tolerance, opts.MaxIterations, opts.Workers)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			return &AllocationResponse{
				ValidationProblems: vr.problems,
				Error:              &Error{Code: CodeCancelled, Message: err.Error()},
			}
		}
		return &AllocationResponse{
			ValidationProblems: vr.problems,
			Error:              &Error{Code: CodeNumericalError, Message: err.Error()},
		}
	}

	winner, ok := selectBest(results, o)
	if !ok {
		log.Warn().Int("candidates", len(vr.survivors)).Msg("no viable solution found")
		return &AllocationResponse{
			ValidationProblems: vr.problems,
			Error:              &Error{Code: CodeNoFeasibleSolution, Message: ErrNoFeasibleSolution.Error()},
		}
	}

	fractions := clampNearZero(winner.fractions)
	allocations := make([]TickerAndFraction, len(vr.survivors))
	for j, c := range vr.survivors {
		allocations[j] = TickerAndFraction{Ticker: c.Ticker, Fraction: fractions[j]}
	}

	result := &AllocationResult{
		Allocations: allocations,
		Analysis:    analyze(fractions, o),
	}

	log.Info().Int("candidates", len(vr.survivors)).Float64("expected_return", result.Analysis.ExpectedReturn).Msg("allocation computed")

	resp := &AllocationResponse{Result: result}
	if len(vr.problems) > 0 {
		resp.ValidationProblems = vr.problems
	}
	return resp
}

// Analyze computes portfolio-level statistics for an already-fixed
// portfolio, without running the solver.
func Analyze(ctx context.Context, portfolio Portfolio, log zerolog.Logger) *AnalysisResponse {
	if len(portfolio.Companies) == 0 {
		return &AnalysisResponse{Error: &Error{Code: CodeValidationError, Message: "portfolio has no companies"}}
	}

	companies := make([]Company, len(portfolio.Companies))
	fractions := make([]float64, len(portfolio.Companies))
	for i, pc := range portfolio.Companies {
		companies[i] = pc.Company
		fractions[i] = pc.Fraction
	}

	select {
	case <-ctx.Done():
		return &AnalysisResponse{Error: &Error{Code: CodeCancelled, Message: ctx.Err().Error()}}
	default:
	}

	o := buildOutcomes(companies)
	result := analyze(fractions, o)

	log.Info().Int("companies", len(companies)).Float64("expected_return", result.ExpectedReturn).Msg("analysis computed")

	return &AnalysisResponse{Result: &result}
}
