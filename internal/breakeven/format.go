package breakeven

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// TableFormatter formats break-even results as a console table
type TableFormatter struct{}

// Format generates a formatted report for one target's thresholds
func (tf *TableFormatter) Format(results []SearchResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	if len(results) == 0 {
		sb.WriteString("No results\n")
		return sb.String()
	}

	first := results[0]
	if first.ScenarioName != "" {
		sb.WriteString(fmt.Sprintf("Scenario: %s\n", first.ScenarioName))
	}
	sb.WriteString(fmt.Sprintf("Varying:  %s\n", tf.targetLabel(first.Target)))
	sb.WriteString("\n")

	for _, r := range results {
		sb.WriteString(tf.goalLabel(r.Goal) + "\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		if !r.Found {
			sb.WriteString(fmt.Sprintf("Not reached: %s\n\n", r.ConvergenceInfo))
			continue
		}

		sb.WriteString(fmt.Sprintf("Threshold:   %s\n", tf.formatCurrency(r.Value)))
		if r.BeforeResults != nil && r.AfterResults != nil {
			sb.WriteString(fmt.Sprintf("Below:       Product %s, Age Pension %s\n",
				r.BeforeResults.RecommendedProduct, tf.formatCurrency(r.BeforeResults.AdjustedPension.FinalPension)))
			sb.WriteString(fmt.Sprintf("At/above:    Product %s, Age Pension %s\n",
				r.AfterResults.RecommendedProduct, tf.formatCurrency(r.AfterResults.AdjustedPension.FinalPension)))
		}
		sb.WriteString(fmt.Sprintf("Convergence: %s (%d iterations)\n\n", r.ConvergenceInfo, r.Iterations))
	}

	return sb.String()
}

func (tf *TableFormatter) targetLabel(t SearchTarget) string {
	switch t {
	case TargetSuperBalance:
		return "Superannuation balance"
	case TargetNonSuperAssets:
		return "Non-super assets"
	case TargetCombinedIncome:
		return "Annual income"
	default:
		return string(t)
	}
}

func (tf *TableFormatter) goalLabel(g SearchGoal) string {
	switch g {
	case GoalFullPensionLimit:
		return "FULL AGE PENSION LIMIT"
	case GoalProductChange:
		return "RECOMMENDED PRODUCT CHANGE"
	case GoalPensionCutoff:
		return "AGE PENSION CUT-OFF"
	default:
		return strings.ToUpper(string(g))
	}
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// JSONFormatter formats break-even results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(results []SearchResult) (string, error) {
	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(results, "", "  ")
	} else {
		data, err = json.Marshal(results)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal break-even results: %w", err)
	}
	return string(data), nil
}
