package breakeven

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

// SolveAll locates every goal's threshold for one target across [minValue, maxValue]
func (s *Solver) SolveAll(
	ctx context.Context,
	scenario domain.Scenario,
	target SearchTarget,
	minValue, maxValue decimal.Decimal,
) ([]SearchResult, error) {

	results := make([]SearchResult, 0, len(AllGoals))
	for _, goal := range AllGoals {
		req := SearchRequest{
			Household:     scenario.Household,
			Target:        target,
			Goal:          goal,
			Min:           minValue,
			Max:           maxValue,
			MaxIterations: s.Options.MaxIterations,
			Tolerance:     s.Options.Tolerance,
		}

		result, err := s.Solve(ctx, req)
		if err != nil {
			return nil, &BreakEvenError{
				Operation: "solve_all",
				Message:   string(goal),
				Cause:     err,
			}
		}
		result.ScenarioName = scenario.Name
		results = append(results, *result)
	}

	return results, nil
}
