package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

// CSVSummarizer implements the summary CSV output (one row per scenario, input order).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Product", "ChoiceAmount", "LifetimeAmount", "InitialPension", "AdjustedPension",
		"PensionIncrease", "LifetimeIncome", "ChoiceIncome", "SafetyNet", "TotalRetirementIncome", "Eligibility"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range results.Scenarios {
		r := sc.Results
		if r == nil {
			continue
		}
		row := []string{
			sc.Name,
			string(r.RecommendedProduct),
			r.Allocation.ChoiceAmount.StringFixed(2),
			r.Allocation.LifetimeAmount.StringFixed(2),
			r.InitialPension.FinalPension.StringFixed(2),
			r.AdjustedPension.FinalPension.StringFixed(2),
			r.PensionIncrease.StringFixed(2),
			r.LifetimeIncomeAnnual.StringFixed(2),
			r.ChoiceIncomeAnnual.StringFixed(2),
			r.SafetyNetAmount.StringFixed(2),
			r.TotalRetirementIncome.StringFixed(2),
			string(r.Eligibility),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// DetailedCSVFormatter writes the yearly income schedule of every scenario
type DetailedCSVFormatter struct{}

func (d DetailedCSVFormatter) Name() string { return "detailed-csv" }

func (d DetailedCSVFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Year", "Age", "ChoiceWithdrawal", "ChoiceBalance", "LifetimeIncome", "AgePension", "TotalIncome"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range results.Scenarios {
		if sc.Results == nil {
			continue
		}
		for _, y := range sc.Results.YearlyBreakdown {
			row := []string{
				sc.Name,
				strconv.Itoa(y.Year),
				strconv.Itoa(y.Age),
				y.ChoiceWithdrawal.StringFixed(2),
				y.ChoiceBalance.StringFixed(2),
				y.LifetimeIncome.StringFixed(2),
				y.AgePension.StringFixed(2),
				y.TotalIncome.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
