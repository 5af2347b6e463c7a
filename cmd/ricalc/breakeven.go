package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/thomasyao15/retirement-income-calc/internal/breakeven"
)

var breakEvenCmd = &cobra.Command{
	Use:   "breakeven [input-file]",
	Short: "Find where the Age Pension or the recommended product changes",
	Long: `Search one household input for the values at which the full Age Pension stops,
the recommended product changes, and the Age Pension cuts out entirely.

Targets: super_balance, non_super_assets, combined_income
Goals:   all, full_pension_limit, product_change, pension_cutoff

Examples:
  ricalc breakeven household.yaml
  ricalc breakeven household.yaml --target combined_income --goal pension_cutoff
  ricalc breakeven household.yaml --scenario "Couple renting" --range 0-2000000 --format json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]
		rulesFile, _ := cmd.Flags().GetString("rules")
		scenarioName, _ := cmd.Flags().GetString("scenario")
		targetStr, _ := cmd.Flags().GetString("target")
		goalStr, _ := cmd.Flags().GetString("goal")
		rangeStr, _ := cmd.Flags().GetString("range")
		tolerance, _ := cmd.Flags().GetFloat64("tolerance")
		outputFormat, _ := cmd.Flags().GetString("format")
		debugMode, _ := cmd.Flags().GetBool("debug")

		configData, err := loadConfiguration(inputFile, rulesFile)
		if err != nil {
			log.Fatal(err)
		}

		scenario, ok := configData.FindScenario(scenarioName)
		if !ok {
			log.Fatalf("scenario %q not found", scenarioName)
		}

		target, err := breakeven.ParseTarget(targetStr)
		if err != nil {
			log.Fatal(err)
		}

		minValue, maxValue := breakeven.DefaultRange(target)
		if rangeStr != "" {
			minValue, maxValue, err = parseRange(rangeStr)
			if err != nil {
				log.Fatalf("invalid --range: %v", err)
			}
		}

		options := breakeven.DefaultSolverOptions()
		if tolerance > 0 {
			options.Tolerance = decimal.NewFromFloat(tolerance)
		}
		solver := breakeven.NewSolver(newEngine(configData, debugMode), options)

		var results []breakeven.SearchResult
		if goalStr == "" || goalStr == "all" {
			results, err = solver.SolveAll(context.Background(), *scenario, target, minValue, maxValue)
		} else {
			results, err = solveGoal(solver, scenario.Name, goalStr, breakeven.SearchRequest{
				Household: scenario.Household,
				Target:    target,
				Min:       minValue,
				Max:       maxValue,
			})
		}
		if err != nil {
			log.Fatalf("Break-even search failed: %v", err)
		}

		out, err := formatBreakEven(results, outputFormat)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(out)
	},
}

func solveGoal(solver *breakeven.Solver, scenarioName, goalStr string, req breakeven.SearchRequest) ([]breakeven.SearchResult, error) {
	goal, err := breakeven.ParseGoal(goalStr)
	if err != nil {
		return nil, err
	}
	req.Goal = goal

	result, err := solver.Solve(context.Background(), req)
	if err != nil {
		return nil, err
	}
	result.ScenarioName = scenarioName
	return []breakeven.SearchResult{*result}, nil
}

func formatBreakEven(results []breakeven.SearchResult, outputFormat string) (string, error) {
	switch strings.ToLower(outputFormat) {
	case "json":
		formatter := &breakeven.JSONFormatter{Pretty: true}
		return formatter.Format(results)
	case "table", "console", "":
		formatter := &breakeven.TableFormatter{}
		return formatter.Format(results), nil
	default:
		return "", fmt.Errorf("unknown output format: %s (valid: table, json)", outputFormat)
	}
}

func init() {
	breakEvenCmd.Flags().String("scenario", "", "Scenario to search (default: the first scenario)")
	breakEvenCmd.Flags().String("target", string(breakeven.TargetSuperBalance), "Input to vary (super_balance, non_super_assets, combined_income)")
	breakEvenCmd.Flags().String("goal", "all", "Threshold to find (all, full_pension_limit, product_change, pension_cutoff)")
	breakEvenCmd.Flags().String("range", "", "Search range min-max (default depends on the target)")
	breakEvenCmd.Flags().Float64("tolerance", 0, "Stop when the bracket is narrower than this many dollars (default 1)")
	breakEvenCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	breakEvenCmd.Flags().Bool("debug", false, "Enable debug output for each iteration")
	breakEvenCmd.Flags().String("rules", "", "Path to rules file (default: rules.yaml if it exists)")

	rootCmd.AddCommand(breakEvenCmd)
}
