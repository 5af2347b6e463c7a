package calculation

import (
	"github.com/shopspring/decimal"
)

// ChoiceYear is one simulated year of the Choice Income drawdown
type ChoiceYear struct {
	Age        int
	Rate       decimal.Decimal
	Withdrawal decimal.Decimal
	Balance    decimal.Decimal // remaining after the withdrawal
}

// AgeBasedDrawdownRate returns the minimum drawdown rate for an age
func (apc *AgePensionCalculator) AgeBasedDrawdownRate(age int) decimal.Decimal {
	rate := decimal.Zero
	for _, band := range apc.Rules.DrawdownRates {
		if age < band.MinAge {
			break
		}
		rate = band.Rate
	}
	return rate
}

// ProjectChoiceIncomeSchedule simulates the depleting Choice Income account year by year,
// from currentAge to currentAge+years-1. Once the balance is exhausted the remaining years
// withdraw nothing.
func (apc *AgePensionCalculator) ProjectChoiceIncomeSchedule(choiceAmount decimal.Decimal, currentAge, years int) []ChoiceYear {
	if years <= 0 {
		return nil
	}

	schedule := make([]ChoiceYear, 0, years)
	balance := decimal.Max(choiceAmount, decimal.Zero)
	for i := 0; i < years; i++ {
		age := currentAge + i
		rate := apc.AgeBasedDrawdownRate(age)

		withdrawal := decimal.Zero
		if balance.IsPositive() {
			withdrawal = balance.Mul(rate)
			balance = balance.Sub(withdrawal)
		}

		schedule = append(schedule, ChoiceYear{
			Age:        age,
			Rate:       rate,
			Withdrawal: withdrawal,
			Balance:    balance,
		})
	}
	return schedule
}

// ProjectChoiceIncomeAnnualAverage returns the total Choice Income withdrawn over the
// horizon divided by the number of years
func (apc *AgePensionCalculator) ProjectChoiceIncomeAnnualAverage(choiceAmount decimal.Decimal, currentAge, years int) decimal.Decimal {
	if years <= 0 || !choiceAmount.IsPositive() {
		return decimal.Zero
	}

	total := decimal.Zero
	balance := choiceAmount
	for age := currentAge; age < currentAge+years; age++ {
		withdrawal := balance.Mul(apc.AgeBasedDrawdownRate(age))
		balance = balance.Sub(withdrawal)
		total = total.Add(withdrawal)
		if !balance.IsPositive() {
			break
		}
	}
	return total.Div(decimal.NewFromInt(int64(years)))
}

// ProjectLifetimeIncomeAnnual returns the guaranteed annual payment for a lifetime income purchase.
// The payment rate does not depend on age.
func (apc *AgePensionCalculator) ProjectLifetimeIncomeAnnual(lifetimeAmount decimal.Decimal, age int) decimal.Decimal {
	return lifetimeAmount.Mul(apc.Rules.LifetimeIncome.Rate)
}
