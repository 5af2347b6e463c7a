package breakeven

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thomasyao15/retirement-income-calc/internal/calculation"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

var two = decimal.NewFromInt(2)

// Solver locates the household values at which the Age Pension or the
// recommended product changes
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// Solve bisects [Min, Max] for the first value meeting the goal. When the goal
// is not monotone in the target the solver returns one transition, not
// necessarily the first.
func (s *Solver) Solve(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}

	result := &SearchResult{
		Target: req.Target,
		Goal:   req.Goal,
	}

	lo := req.Min
	loRes, err := s.evaluate(req, lo)
	if err != nil {
		return nil, err
	}
	base := loRes.RecommendedProduct

	if goalMet(req.Goal, base, loRes) {
		result.Found = true
		result.Value = lo
		result.Below = lo
		result.AfterResults = loRes
		result.ConvergenceInfo = "Goal already met at the minimum"
		return result, nil
	}

	hi := req.Max
	hiRes, err := s.evaluate(req, hi)
	if err != nil {
		return nil, err
	}
	if !goalMet(req.Goal, base, hiRes) {
		result.Value = hi
		result.Below = hi
		result.BeforeResults = hiRes
		result.ConvergenceInfo = fmt.Sprintf("Goal not reached at or below %s", hi.StringFixed(2))
		return result, nil
	}

	iterations := 0
	for iterations < req.MaxIterations && hi.Sub(lo).GreaterThan(req.Tolerance) {
		iterations++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		mid := lo.Add(hi).Div(two)
		res, err := s.evaluate(req, mid)
		if err != nil {
			return nil, err
		}

		if goalMet(req.Goal, base, res) {
			hi, hiRes = mid, res
		} else {
			lo, loRes = mid, res
		}
		s.CalcEngine.Logger.Debugf("break-even %s/%s: iteration %d bracket [%s, %s]",
			req.Target, req.Goal, iterations, lo.StringFixed(2), hi.StringFixed(2))
	}

	result.Found = true
	result.Iterations = iterations
	result.Value = hi
	result.Below = lo
	result.BeforeResults = loRes
	result.AfterResults = hiRes
	if hi.Sub(lo).LessThanOrEqual(req.Tolerance) {
		result.ConvergenceInfo = fmt.Sprintf("Converged to within $%s", req.Tolerance.StringFixed(2))
	} else {
		result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
	}
	return result, nil
}

func (s *Solver) evaluate(req SearchRequest, value decimal.Decimal) (*domain.RetirementResults, error) {
	household := calculation.ModifyHouseholdParameter(req.Household, string(req.Target), value)
	results, err := s.CalcEngine.Calculate(household)
	if err != nil {
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("failed to calculate %s=%s", req.Target, value.StringFixed(2)),
			Cause:     err,
		}
	}
	return results, nil
}

func goalMet(goal SearchGoal, base domain.Product, r *domain.RetirementResults) bool {
	switch goal {
	case GoalPensionCutoff:
		return r.AdjustedPension.FinalPension.IsZero()
	case GoalFullPensionLimit:
		return r.AdjustedPension.Eligibility != domain.EligibilityFull
	case GoalProductChange:
		return r.RecommendedProduct != base
	}
	return false
}
