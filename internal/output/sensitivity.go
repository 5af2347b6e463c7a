package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

// SensitivityFormatter renders a single-parameter sweep
type SensitivityFormatter interface {
	FormatSensitivityAnalysis(analysis *domain.SensitivityAnalysis) (string, error)
	Name() string
}

// SensitivityConsoleFormatter formats a sweep as a console table
type SensitivityConsoleFormatter struct{}

func (scf SensitivityConsoleFormatter) Name() string { return "console" }

func (scf SensitivityConsoleFormatter) FormatSensitivityAnalysis(analysis *domain.SensitivityAnalysis) (string, error) {
	if analysis == nil || len(analysis.Points) == 0 {
		return "", fmt.Errorf("no results in analysis")
	}

	var buf bytes.Buffer
	param := analysis.Parameter

	fmt.Fprintf(&buf, "SENSITIVITY ANALYSIS: %s\n", strings.ToUpper(strings.ReplaceAll(param.Name, "_", " ")))
	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	if analysis.ScenarioName != "" {
		fmt.Fprintf(&buf, "Scenario: %s\n", analysis.ScenarioName)
	}
	fmt.Fprintf(&buf, "Range: %s to %s (%d steps)\n",
		formatParamValue(param.Name, param.MinValue), formatParamValue(param.Name, param.MaxValue), param.Steps)
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "%-16s %-8s %14s %14s %14s %14s\n",
		"Value", "Product", "Pension Before", "Pension After", "Increase", "Total Income")
	fmt.Fprintln(&buf, strings.Repeat("-", 85))

	for _, pt := range analysis.Points {
		marker := ""
		if pt.Value.Equal(analysis.BestValue) {
			marker = " ← BEST"
		}
		fmt.Fprintf(&buf, "%-16s %-8s %14s %14s %14s %14s%s\n",
			formatParamValue(param.Name, pt.Value),
			pt.RecommendedProduct,
			FormatCurrency(pt.InitialPension),
			FormatCurrency(pt.AdjustedPension),
			FormatCurrency(pt.PensionIncrease),
			FormatCurrency(pt.TotalRetirementIncome),
			marker)
	}
	fmt.Fprintln(&buf)

	if len(analysis.ProductChanges) > 0 {
		fmt.Fprintln(&buf, "PRODUCT CHANGES:")
		for _, ch := range analysis.ProductChanges {
			fmt.Fprintf(&buf, "  • %s → %s between %s and %s\n", ch.From, ch.To,
				formatParamValue(param.Name, ch.FromValue), formatParamValue(param.Name, ch.ToValue))
		}
	} else {
		fmt.Fprintf(&buf, "Recommended product is %s across the whole range\n", analysis.Points[0].RecommendedProduct)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "Highest total income: %s at %s\n",
		FormatCurrency(analysis.BestIncome), formatParamValue(param.Name, analysis.BestValue))
	fmt.Fprintf(&buf, "Income range across sweep: %s\n", FormatCurrency(analysis.IncomeRange))

	return buf.String(), nil
}

// SensitivityCSVFormatter formats a sweep as CSV
type SensitivityCSVFormatter struct{}

func (scf SensitivityCSVFormatter) Name() string { return "csv" }

func (scf SensitivityCSVFormatter) FormatSensitivityAnalysis(analysis *domain.SensitivityAnalysis) (string, error) {
	if analysis == nil || len(analysis.Points) == 0 {
		return "", fmt.Errorf("no results in analysis")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"parameter_name", "parameter_value", "recommended_product", "initial_pension",
		"adjusted_pension", "pension_increase", "total_retirement_income", "eligibility"}
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, pt := range analysis.Points {
		row := []string{
			analysis.Parameter.Name,
			pt.Value.String(),
			string(pt.RecommendedProduct),
			pt.InitialPension.StringFixed(2),
			pt.AdjustedPension.StringFixed(2),
			pt.PensionIncrease.StringFixed(2),
			pt.TotalRetirementIncome.StringFixed(2),
			string(pt.Eligibility),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// SensitivityJSONFormatter formats a sweep as indented JSON
type SensitivityJSONFormatter struct{}

func (sjf SensitivityJSONFormatter) Name() string { return "json" }

func (sjf SensitivityJSONFormatter) FormatSensitivityAnalysis(analysis *domain.SensitivityAnalysis) (string, error) {
	if analysis == nil {
		return "", fmt.Errorf("no results in analysis")
	}
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewSensitivityFormatter creates a sensitivity formatter based on the format name
func NewSensitivityFormatter(format string) SensitivityFormatter {
	switch NormalizeFormatName(format) {
	case "csv":
		return SensitivityCSVFormatter{}
	case "json":
		return SensitivityJSONFormatter{}
	default:
		return SensitivityConsoleFormatter{}
	}
}

func formatParamValue(name string, v decimal.Decimal) string {
	switch name {
	case domain.ParamAge:
		return v.StringFixed(0)
	case domain.ParamRetirementYears:
		return v.StringFixed(0) + " yrs"
	default:
		return FormatCurrency(v)
	}
}
