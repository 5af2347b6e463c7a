package domain

import (
	"github.com/shopspring/decimal"
)

// Household holds a person's questionnaire answers as gathered by a front end.
// Optional answers are pointers so "not answered" can be told apart from zero.
type Household struct {
	Age                 *int             `yaml:"age,omitempty" json:"age,omitempty"`
	Gender              string           `yaml:"gender,omitempty" json:"gender,omitempty"`
	RetirementYears     *int             `yaml:"retirement_years,omitempty" json:"retirementYears,omitempty"`
	ExpectedLongevity   *int             `yaml:"expected_longevity,omitempty" json:"expectedLongevity,omitempty"`
	SuperBalance        *decimal.Decimal `yaml:"super_balance,omitempty" json:"superBalance,omitempty"`
	RelationshipStatus  string           `yaml:"relationship_status" json:"relationshipStatus"` // married, defacto, single, divorced, ...
	NonSuperAssets      *decimal.Decimal `yaml:"non_super_assets,omitempty" json:"nonSuperAssets,omitempty"`
	HasIncomeStreams    bool             `yaml:"has_income_streams,omitempty" json:"hasIncomeStreams,omitempty"`
	IncomeStreamsAmount *decimal.Decimal `yaml:"income_streams_amount,omitempty" json:"incomeStreamsAmount,omitempty"` // annual
	HomeOwnership       string           `yaml:"home_ownership,omitempty" json:"homeOwnership,omitempty"`               // "yes" or "no"
	CombinedIncome      *decimal.Decimal `yaml:"combined_income,omitempty" json:"combinedIncome,omitempty"`             // annual
}

// IsHomeOwner reports whether the household answered yes to owning its home
func (h Household) IsHomeOwner() bool {
	return h.HomeOwnership == "yes"
}

// Scenario is a named household to evaluate
type Scenario struct {
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Household   Household `yaml:"household" json:"household"`
}

// Configuration is the top-level input file
type Configuration struct {
	Rules     *AgePensionRules `yaml:"rules,omitempty" json:"rules,omitempty"`
	Scenarios []Scenario       `yaml:"scenarios" json:"scenarios"`
}

// FindScenario returns the named scenario, or the first one when name is empty
func (c *Configuration) FindScenario(name string) (*Scenario, bool) {
	if name == "" {
		if len(c.Scenarios) == 0 {
			return nil, false
		}
		return &c.Scenarios[0], true
	}
	for i := range c.Scenarios {
		if c.Scenarios[i].Name == name {
			return &c.Scenarios[i], true
		}
	}
	return nil, false
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int { return &v }

// DecimalPtr returns a pointer to d
func DecimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }
