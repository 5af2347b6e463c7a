package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

var (
	colorPrimary = lipgloss.Color("#7D56F4")
	colorSuccess = lipgloss.Color("#04B575")
	colorDanger  = lipgloss.Color("#FF5F87")
	colorMuted   = lipgloss.Color("#626262")
	colorBorder  = lipgloss.Color("#3C3C3C")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(30)

	valueStyle = lipgloss.NewStyle().Bold(true)

	positiveStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	negativeStyle = lipgloss.NewStyle().Foreground(colorDanger)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
)

// ConsoleFormatter renders the full styled terminal report
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, titleStyle.Render("RETIREMENT INCOME ANALYSIS"))
	fmt.Fprintln(&buf, strings.Repeat("=", 60))
	fmt.Fprintln(&buf)

	for i, sc := range results.Scenarios {
		if sc.Results == nil {
			continue
		}
		writeScenario(&buf, i+1, sc)
	}

	if rec := AnalyzeScenarios(results); rec.ScenarioName != "" {
		fmt.Fprintln(&buf, sectionStyle.Render("SUMMARY & RECOMMENDATION"))
		fmt.Fprintf(&buf, "Best scenario: %s (Product %s)\n", rec.ScenarioName, rec.Product)
		fmt.Fprintf(&buf, "Total Retirement Income: %s (%s vs %s)\n",
			FormatCurrency(rec.TotalIncome), signed(rec.IncomeChange), results.Scenarios[0].Name)
		fmt.Fprintln(&buf)
	}

	fmt.Fprintln(&buf, sectionStyle.Render("KEY ASSUMPTIONS"))
	for _, a := range assumptionsFor(results) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}

	return buf.Bytes(), nil
}

func writeScenario(buf *bytes.Buffer, index int, sc domain.ScenarioResult) {
	r := sc.Results

	fmt.Fprintln(buf, sectionStyle.Render(fmt.Sprintf("SCENARIO %d: %s", index, sc.Name)))
	if sc.Description != "" {
		fmt.Fprintln(buf, lipgloss.NewStyle().Foreground(colorMuted).Render(sc.Description))
	}
	fmt.Fprintln(buf)

	status := string(r.RelationshipStatus)
	if r.HomeOwner {
		status += ", homeowner"
	} else {
		status += ", non-homeowner"
	}
	writeLine(buf, "Household", fmt.Sprintf("age %d, %d years, %s", r.Age, r.RetirementYears, status))
	writeLine(buf, "Superannuation", FormatCurrency(r.SuperBalance))
	writeLine(buf, "Other assets", FormatCurrency(r.NonSuperAssets))
	writeLine(buf, "Assessable income (fortnight)", FormatCurrency(r.FortnightlyIncome))
	fmt.Fprintln(buf)

	rec := fmt.Sprintf("Recommended Product %s: %d%% Choice Income / %d%% Lifetime Income",
		r.RecommendedProduct, r.Allocation.ChoicePercent, r.Allocation.LifetimePercent)
	fmt.Fprintln(buf, boxStyle.Render(rec))
	writeLine(buf, "Choice Income investment", FormatCurrency(r.Allocation.ChoiceAmount))
	writeLine(buf, "Lifetime Income investment", FormatCurrency(r.Allocation.LifetimeAmount))
	fmt.Fprintln(buf)

	writeLine(buf, "Age Pension before", FormatCurrency(r.InitialPension.FinalPension))
	writeLine(buf, "Age Pension after", FormatCurrency(r.AdjustedPension.FinalPension))
	writeLine(buf, "Age Pension increase", signed(r.PensionIncrease)+" ("+FormatPercentage(r.PensionIncreasePercentage)+")")
	writeLine(buf, "Assessable assets after", FormatCurrency(r.AdjustedTotalAssets))
	writeLine(buf, "Eligibility", fmt.Sprintf("%s (%s of full rate)", r.Eligibility, FormatPercentage(r.PensionPercentage)))
	fmt.Fprintln(buf)

	writeLine(buf, "Lifetime Income (annual)", FormatCurrency(r.LifetimeIncomeAnnual))
	writeLine(buf, "Choice Income (annual avg)", FormatCurrency(r.ChoiceIncomeAnnual))
	writeLine(buf, "Safety net", FormatCurrency(r.SafetyNetAmount))
	writeLine(buf, "TOTAL RETIREMENT INCOME", FormatCurrency(r.TotalRetirementIncome))
	fmt.Fprintln(buf)

	if len(r.YearlyBreakdown) > 0 {
		writeYearlyTable(buf, r.YearlyBreakdown)
		fmt.Fprintln(buf)
	}
}

func writeLine(buf *bytes.Buffer, label, value string) {
	fmt.Fprintf(buf, "%s %s\n", labelStyle.Render(label+":"), valueStyle.Render(value))
}

func writeYearlyTable(buf *bytes.Buffer, years []domain.YearlyIncome) {
	fmt.Fprintf(buf, "%-6s %-5s %14s %14s %14s %14s %14s\n",
		"Year", "Age", "Choice", "Balance", "Lifetime", "Age Pension", "Total")
	fmt.Fprintln(buf, strings.Repeat("-", 87))
	for _, y := range years {
		fmt.Fprintf(buf, "%-6d %-5d %14s %14s %14s %14s %14s\n",
			y.Year, y.Age,
			FormatCurrency(y.ChoiceWithdrawal),
			FormatCurrency(y.ChoiceBalance),
			FormatCurrency(y.LifetimeIncome),
			FormatCurrency(y.AgePension),
			FormatCurrency(y.TotalIncome))
	}
}

func signed(d decimal.Decimal) string {
	switch {
	case d.IsPositive():
		return positiveStyle.Render("+" + FormatCurrency(d))
	case d.IsNegative():
		return negativeStyle.Render("-" + FormatCurrency(d.Abs()))
	default:
		return FormatCurrency(d)
	}
}

// ConsoleLiteFormatter prints one summary line per scenario
type ConsoleLiteFormatter struct{}

func (c ConsoleLiteFormatter) Name() string { return "console-lite" }

func (c ConsoleLiteFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "RETIREMENT SCENARIO SUMMARY")
	fmt.Fprintln(&buf, "===========================")
	fmt.Fprintf(&buf, "%-24s %-8s %14s %14s %14s\n", "Scenario", "Product", "Age Pension", "Safety Net", "Total Income")
	for _, sc := range results.Scenarios {
		if sc.Results == nil {
			continue
		}
		fmt.Fprintf(&buf, "%-24s %-8s %14s %14s %14s\n",
			truncate(sc.Name, 24),
			sc.Results.RecommendedProduct,
			FormatCurrency(sc.Results.AdjustedPension.FinalPension),
			FormatCurrency(sc.Results.SafetyNetAmount),
			FormatCurrency(sc.Results.TotalRetirementIncome))
	}

	if rec := AnalyzeScenarios(results); rec.ScenarioName != "" {
		fmt.Fprintf(&buf, "\nRecommended: %s (Δ %s, %s)\n",
			rec.ScenarioName, FormatCurrency(rec.IncomeChange), FormatPercentage(rec.PercentageChange))
	}
	return buf.Bytes(), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
