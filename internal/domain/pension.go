package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RelationshipStatus selects the single or couple rate tables
type RelationshipStatus string

const (
	RelationshipSingle RelationshipStatus = "single"
	RelationshipCouple RelationshipStatus = "couple"
)

// MapRelationshipStatus collapses the richer questionnaire statuses into the two
// assessment categories. Married and de facto partners are assessed as a couple,
// everyone else as single.
func MapRelationshipStatus(status string) RelationshipStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "married", "defacto", "couple":
		return RelationshipCouple
	default:
		return RelationshipSingle
	}
}

// Valid reports whether the status is one of the two assessment categories
func (rs RelationshipStatus) Valid() bool {
	return rs == RelationshipSingle || rs == RelationshipCouple
}

// Eligibility classifies a pension percentage
type Eligibility string

const (
	EligibilityNone    Eligibility = "not-eligible"
	EligibilityPartial Eligibility = "partial"
	EligibilityFull    Eligibility = "full"
)

// EligibilityFor derives the eligibility category from a pension percentage.
// Exactly zero is not eligible, 100 or more is a full pension.
func EligibilityFor(pensionPercentage decimal.Decimal) Eligibility {
	switch {
	case pensionPercentage.IsZero():
		return EligibilityNone
	case pensionPercentage.GreaterThanOrEqual(decimal.NewFromInt(100)):
		return EligibilityFull
	default:
		return EligibilityPartial
	}
}

// Product is a recommended split between Choice Income and Lifetime Income
type Product string

const (
	ProductA Product = "A"
	ProductB Product = "B"
	ProductC Product = "C"
	ProductD Product = "D"
)

// AllProducts lists every product in display order
var AllProducts = []Product{ProductA, ProductB, ProductC, ProductD}

// Valid reports whether p is one of the four products
func (p Product) Valid() bool {
	switch p {
	case ProductA, ProductB, ProductC, ProductD:
		return true
	}
	return false
}

// ParseProduct parses a product code, case-insensitively
func ParseProduct(s string) (Product, error) {
	p := Product(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown product %q (valid: A, B, C, D)", s)
	}
	return p, nil
}

// PensionInput is the normalized snapshot the means tests are applied to.
// Money fields are never negative; callers validate before building one.
type PensionInput struct {
	Age                int                `yaml:"age" json:"age"`
	RelationshipStatus RelationshipStatus `yaml:"relationship_status" json:"relationshipStatus"`
	HomeOwner          bool               `yaml:"home_owner" json:"homeOwner"`
	IncomePerFortnight decimal.Decimal    `yaml:"income_per_fortnight" json:"incomePerFortnight"` // combined assessable income
	TotalAssets        decimal.Decimal    `yaml:"total_assets" json:"totalAssets"`                // assessable assets including super
}

// PensionResult holds annual Age Pension amounts under each test
type PensionResult struct {
	IncomeTestPension decimal.Decimal `json:"incomeTestPension"`
	AssetTestPension  decimal.Decimal `json:"assetTestPension"`
	FinalPension      decimal.Decimal `json:"finalPension"`      // lower of the two tests
	PensionPercentage decimal.Decimal `json:"pensionPercentage"` // of the full pension, clamped to [0,100]
	Eligibility       Eligibility     `json:"eligibility"`
}

// AllocationResult splits a super balance between the two income products
type AllocationResult struct {
	Product         Product         `json:"product"`
	ChoicePercent   int             `json:"choicePercent"`
	LifetimePercent int             `json:"lifetimePercent"`
	ChoiceAmount    decimal.Decimal `json:"choiceAmount"`
	LifetimeAmount  decimal.Decimal `json:"lifetimeAmount"`
}
