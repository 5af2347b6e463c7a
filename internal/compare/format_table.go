package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing products
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	// Header
	sb.WriteString("RETIREMENT INCOME PRODUCT COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Scenario: %s\n", compSet.ScenarioName))
	sb.WriteString(fmt.Sprintf("Recommended Product: %s\n", compSet.BaseProduct))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 16
	numWidth := 15

	// Table header
	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Product",
		numWidth, "Age Pension",
		numWidth, "Lifetime Inc.",
		numWidth, "Choice Inc.",
		numWidth, "Total Income"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if base := compSet.BaseResult; base != nil {
		sb.WriteString(tf.formatRow(base, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	// Deltas from the recommended product
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO RECOMMENDED PRODUCT\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\nProduct %s (%s):\n", alt.Product, alt.Description))
			sb.WriteString(fmt.Sprintf("  Total Income:  %s$%s (%s%%)\n",
				tf.deltaSymbol(alt.IncomeDiffFromBase),
				tf.formatDecimal(alt.IncomeDiffFromBase.Abs()),
				alt.IncomePctFromBase.StringFixed(1)))
			if !alt.PensionDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Age Pension:   %s$%s\n",
					tf.deltaSymbol(alt.PensionDiffFromBase),
					tf.formatDecimal(alt.PensionDiffFromBase.Abs())))
			}
			if !alt.SafetyNetDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Safety Net:    %s$%s\n",
					tf.deltaSymbol(alt.SafetyNetDiffFromBase),
					tf.formatDecimal(alt.SafetyNetDiffFromBase.Abs())))
			}
		}
		sb.WriteString("\n")
	}

	// Recommendations
	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single product row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := "Product " + string(result.Product)
	if isBase {
		name += " *"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, "$"+tf.formatDecimal(result.AdjustedPension),
		numWidth, "$"+tf.formatDecimal(result.LifetimeIncome),
		numWidth, "$"+tf.formatDecimal(result.ChoiceIncome),
		numWidth, "$"+tf.formatDecimal(result.TotalRetirementIncome))
}

// formatDecimal formats a decimal for display (in thousands)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns the sign to print before an absolute delta
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Recommended: %s | ", compSet.BaseProduct))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		incomeChange := "="
		if alt.IncomeDiffFromBase.IsPositive() {
			incomeChange = fmt.Sprintf("+$%s", tf.formatDecimal(alt.IncomeDiffFromBase))
		} else if alt.IncomeDiffFromBase.IsNegative() {
			incomeChange = fmt.Sprintf("-$%s", tf.formatDecimal(alt.IncomeDiffFromBase.Abs()))
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.Product, incomeChange))
	}

	return sb.String()
}
