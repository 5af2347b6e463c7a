package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

// RecommendProduct maps a pension percentage to a product band.
// Bands are half-open [min, next min); the top band includes 100.
// Percentages outside [0, 100] are clamped first.
func (apc *AgePensionCalculator) RecommendProduct(pensionPercentage decimal.Decimal) domain.Product {
	pct := decimal.Min(decimal.Max(pensionPercentage, decimal.Zero), oneHundred)

	product := domain.ProductD
	for _, band := range apc.Rules.ProductBands {
		if pct.LessThan(band.MinPercent) {
			break
		}
		product = band.Product
	}
	return product
}

// Allocate splits a super balance between Choice Income and Lifetime Income
// according to the product's fixed percentages
func (apc *AgePensionCalculator) Allocate(product domain.Product, superBalance decimal.Decimal) (domain.AllocationResult, error) {
	split, ok := apc.Rules.Allocations[product]
	if !ok {
		return domain.AllocationResult{}, fmt.Errorf("no allocation configured for product %q", product)
	}

	choicePct := decimal.NewFromInt(int64(split.ChoicePercent))
	lifetimePct := decimal.NewFromInt(int64(split.LifetimePercent))

	return domain.AllocationResult{
		Product:         product,
		ChoicePercent:   split.ChoicePercent,
		LifetimePercent: split.LifetimePercent,
		ChoiceAmount:    superBalance.Mul(choicePct).Div(oneHundred),
		LifetimeAmount:  superBalance.Mul(lifetimePct).Div(oneHundred),
	}, nil
}

// ApplyLifetimeDiscount removes the exempt share of a lifetime income purchase from total assets
func (apc *AgePensionCalculator) ApplyLifetimeDiscount(totalAssets, lifetimeAmount decimal.Decimal) decimal.Decimal {
	return totalAssets.Sub(lifetimeAmount.Mul(apc.Rules.LifetimeIncome.AssetDiscount))
}
