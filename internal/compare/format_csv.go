package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Product",
		"Type",
		"Choice Amount",
		"Lifetime Amount",
		"Age Pension",
		"Lifetime Income",
		"Choice Income",
		"Safety Net",
		"Total Income",
		"Income Diff from Base",
		"Income % Change",
		"Pension Diff from Base",
		"Safety Net Diff from Base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.ScenarioName, compSet.BaseResult, "recommended")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(compSet.ScenarioName, &compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(scenarioName string, result *ComparisonResult, rowType string) []string {
	return []string{
		scenarioName,
		string(result.Product),
		rowType,
		result.ChoiceAmount.StringFixed(2),
		result.LifetimeAmount.StringFixed(2),
		result.AdjustedPension.StringFixed(2),
		result.LifetimeIncome.StringFixed(2),
		result.ChoiceIncome.StringFixed(2),
		result.SafetyNet.StringFixed(2),
		result.TotalRetirementIncome.StringFixed(2),
		result.IncomeDiffFromBase.StringFixed(2),
		result.IncomePctFromBase.StringFixed(2),
		result.PensionDiffFromBase.StringFixed(2),
		result.SafetyNetDiffFromBase.StringFixed(2),
	}
}
