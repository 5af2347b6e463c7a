package breakeven

import (
	"github.com/shopspring/decimal"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

// SearchTarget is the household answer the solver varies
type SearchTarget string

const (
	TargetSuperBalance   SearchTarget = SearchTarget(domain.ParamSuperBalance)
	TargetNonSuperAssets SearchTarget = SearchTarget(domain.ParamNonSuperAssets)
	TargetCombinedIncome SearchTarget = SearchTarget(domain.ParamCombinedIncome)
)

// AllTargets lists every searchable target
var AllTargets = []SearchTarget{TargetSuperBalance, TargetNonSuperAssets, TargetCombinedIncome}

// SearchGoal defines which threshold to locate
type SearchGoal string

const (
	GoalPensionCutoff    SearchGoal = "pension_cutoff"     // adjusted Age Pension reaches zero
	GoalFullPensionLimit SearchGoal = "full_pension_limit" // adjusted Age Pension drops below the full rate
	GoalProductChange    SearchGoal = "product_change"     // recommended product differs from the one at Min
)

// AllGoals lists every search goal
var AllGoals = []SearchGoal{GoalFullPensionLimit, GoalProductChange, GoalPensionCutoff}

// ParseTarget validates a target name
func ParseTarget(s string) (SearchTarget, error) {
	for _, t := range AllTargets {
		if string(t) == s {
			return t, nil
		}
	}
	return "", &BreakEvenError{
		Operation: "parse_target",
		Message:   "unknown target " + s,
	}
}

// ParseGoal validates a goal name
func ParseGoal(s string) (SearchGoal, error) {
	for _, g := range AllGoals {
		if string(g) == s {
			return g, nil
		}
	}
	return "", &BreakEvenError{
		Operation: "parse_goal",
		Message:   "unknown goal " + s,
	}
}

// SearchRequest defines the parameters for a break-even search
type SearchRequest struct {
	Household     domain.Household
	Target        SearchTarget
	Goal          SearchGoal
	Min           decimal.Decimal
	Max           decimal.Decimal
	MaxIterations int             // Maximum bisection steps
	Tolerance     decimal.Decimal // Width of the final bracket
}

// Validate checks that the request describes a searchable range
func (r *SearchRequest) Validate() error {
	if _, err := ParseTarget(string(r.Target)); err != nil {
		return err
	}
	if _, err := ParseGoal(string(r.Goal)); err != nil {
		return err
	}
	if r.Min.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "min cannot be negative",
		}
	}
	if r.Min.GreaterThanOrEqual(r.Max) {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "min must be less than max",
		}
	}
	if r.Tolerance.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "tolerance cannot be negative",
		}
	}
	return nil
}

// SearchResult contains the outcome of a break-even search
type SearchResult struct {
	Target          SearchTarget `json:"target"`
	Goal            SearchGoal   `json:"goal"`
	ScenarioName    string       `json:"scenarioName,omitempty"`
	Found           bool         `json:"found"`
	Iterations      int          `json:"iterations"`
	ConvergenceInfo string       `json:"convergenceInfo"`

	// Threshold lies in (Below, Value]; Value is the first value meeting the goal
	Value decimal.Decimal `json:"value"`
	Below decimal.Decimal `json:"below"`

	// Results either side of the threshold
	BeforeResults *domain.RetirementResults `json:"beforeResults,omitempty"`
	AfterResults  *domain.RetirementResults `json:"afterResults,omitempty"`
}

// SolverOptions configures the bisection
type SolverOptions struct {
	Tolerance     decimal.Decimal // Default bracket width
	MaxIterations int             // Default maximum iterations
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromInt(1), // $1
		MaxIterations: 64,
	}
}

// DefaultRange returns a search range wide enough to pass every asset and income threshold
func DefaultRange(target SearchTarget) (decimal.Decimal, decimal.Decimal) {
	switch target {
	case TargetCombinedIncome:
		return decimal.Zero, decimal.NewFromInt(150000)
	default:
		return decimal.Zero, decimal.NewFromInt(3000000)
	}
}

// BreakEvenError represents errors from the break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
