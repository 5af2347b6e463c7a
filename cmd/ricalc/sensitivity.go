package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/thomasyao15/retirement-income-calc/internal/calculation"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
	"github.com/thomasyao15/retirement-income-calc/internal/output"
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity [input-file]",
	Short: "Sweep one household input and watch the recommendation change",
	Long: `Recalculate a scenario across a range of one input to see where the recommended
product changes and how the Age Pension and total income respond.

Parameters: ` + strings.Join(domain.SensitivityParameters, ", ") + `

Examples:
  ricalc sensitivity household.yaml --parameter super_balance --range 100000-800000 --steps 8
  ricalc sensitivity household.yaml --parameter super_balance:100000-800000:8
  ricalc sensitivity household.yaml --parameter age --range 60-80 --steps 5 --scenario "Couple renting" --output csv`,
	Args: cobra.ExactArgs(1),
	Run:  runSensitivityAnalysis,
}

var (
	sensitivityParameter    string
	sensitivityRange        string
	sensitivitySteps        int
	sensitivityScenario     string
	sensitivityOutputFormat string
	sensitivityRulesFile    string
)

func init() {
	sensitivityCmd.Flags().StringVar(&sensitivityParameter, "parameter", domain.ParamSuperBalance, "Parameter to analyze (name, or name:min-max:steps)")
	sensitivityCmd.Flags().StringVar(&sensitivityRange, "range", "", "Range for the parameter (format: min-max)")
	sensitivityCmd.Flags().IntVar(&sensitivitySteps, "steps", 5, "Number of steps for parameter sweep")
	sensitivityCmd.Flags().StringVar(&sensitivityScenario, "scenario", "", "Scenario to analyze (default: the first scenario)")
	sensitivityCmd.Flags().StringVarP(&sensitivityOutputFormat, "output", "f", "table", "Output format (table, csv, json)")
	sensitivityCmd.Flags().StringVar(&sensitivityRulesFile, "rules", "", "Path to rules file (default: rules.yaml if it exists)")

	rootCmd.AddCommand(sensitivityCmd)
}

func runSensitivityAnalysis(cmd *cobra.Command, args []string) {
	inputFile := args[0]

	configData, err := loadConfiguration(inputFile, sensitivityRulesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	scenario, ok := configData.FindScenario(sensitivityScenario)
	if !ok {
		fmt.Fprintf(os.Stderr, "Scenario %q not found\n", sensitivityScenario)
		os.Exit(1)
	}

	var param domain.SensitivityParameter
	if strings.Contains(sensitivityParameter, ":") {
		param, err = parseParameterString(sensitivityParameter)
	} else {
		if sensitivityRange == "" {
			fmt.Fprintf(os.Stderr, "Must specify --range or --parameter name:min-max:steps\n")
			os.Exit(1)
		}
		param, err = parseSingleParameter(sensitivityParameter, sensitivityRange, sensitivitySteps)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing parameter: %v\n", err)
		os.Exit(1)
	}

	analyzer := calculation.NewSensitivityAnalyzerWithEngine(newEngine(configData, false))
	analysis, err := analyzer.AnalyzeScenario(context.Background(), *scenario, param)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error performing sensitivity analysis: %v\n", err)
		os.Exit(1)
	}

	formatter := output.NewSensitivityFormatter(sensitivityOutputFormat)
	out, err := formatter.FormatSensitivityAnalysis(analysis)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(out)
}

// parseParameterString parses name:min-max:steps
func parseParameterString(paramStr string) (domain.SensitivityParameter, error) {
	parts := strings.Split(paramStr, ":")
	if len(parts) != 3 {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid parameter format: %s (expected name:min-max:steps)", paramStr)
	}

	var steps int
	if _, err := fmt.Sscanf(parts[2], "%d", &steps); err != nil {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid steps %q: %v", parts[2], err)
	}
	return parseSingleParameter(parts[0], parts[1], steps)
}

func parseSingleParameter(name, rangeStr string, steps int) (domain.SensitivityParameter, error) {
	minValue, maxValue, err := parseRange(rangeStr)
	if err != nil {
		return domain.SensitivityParameter{}, err
	}
	return domain.SensitivityParameter{
		Name:     strings.TrimSpace(name),
		MinValue: minValue,
		MaxValue: maxValue,
		Steps:    steps,
	}, nil
}

// parseRange parses "min-max"; both bounds are non-negative so the first dash separates them
func parseRange(rangeStr string) (decimal.Decimal, decimal.Decimal, error) {
	minStr, maxStr, ok := strings.Cut(rangeStr, "-")
	if !ok {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid range format: %s (expected min-max)", rangeStr)
	}

	minValue, err := parseDecimal(minStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid min value: %v", err)
	}
	maxValue, err := parseDecimal(maxStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid max value: %v", err)
	}
	return minValue, maxValue, nil
}

// parseDecimal accepts plain numbers with optional thousands separators and a "k" suffix
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, ",", "")))
	multiplier := decimal.NewFromInt(1)
	if strings.HasSuffix(s, "k") {
		s = strings.TrimSuffix(s, "k")
		multiplier = decimal.NewFromInt(1000)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Mul(multiplier), nil
}
