package main

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/thomasyao15/retirement-income-calc/internal/calculation"
	"github.com/thomasyao15/retirement-income-calc/internal/config"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
	"github.com/thomasyao15/retirement-income-calc/internal/output"
)

var pensionCmd = &cobra.Command{
	Use:   "pension",
	Short: "Estimate the Age Pension under the income and asset tests",
	Long: `Apply the Age Pension income and asset tests directly, without recommending a product.

Examples:
  ricalc pension --status single --home-owner --income-fortnight 300 --assets 400000
  ricalc pension --status married --assets 650000 --format json`,
	Args: cobra.NoArgs,
	Run:  runPension,
}

var (
	pensionAge          int
	pensionStatus       string
	pensionHomeOwner    bool
	pensionIncome       string
	pensionAssets       string
	pensionRulesFile    string
	pensionOutputFormat string
)

func init() {
	pensionCmd.Flags().IntVar(&pensionAge, "age", 0, "Age of the applicant (optional)")
	pensionCmd.Flags().StringVar(&pensionStatus, "status", "single", "Relationship status (single, couple, married, defacto, ...)")
	pensionCmd.Flags().BoolVar(&pensionHomeOwner, "home-owner", false, "The household owns its home")
	pensionCmd.Flags().StringVar(&pensionIncome, "income-fortnight", "0", "Combined assessable income per fortnight")
	pensionCmd.Flags().StringVar(&pensionAssets, "assets", "0", "Total assessable assets including super")
	pensionCmd.Flags().StringVar(&pensionRulesFile, "rules", "", "Path to rules file")
	pensionCmd.Flags().StringVarP(&pensionOutputFormat, "format", "f", "console", "Output format (console, json)")

	rootCmd.AddCommand(pensionCmd)
}

// buildPensionInput turns command line values into a validated means test input
func buildPensionInput(age int, status string, homeOwner bool, income, assets string) (domain.PensionInput, error) {
	incomeValue, err := decimal.NewFromString(income)
	if err != nil {
		return domain.PensionInput{}, fmt.Errorf("invalid income %q: %w", income, err)
	}
	assetsValue, err := decimal.NewFromString(assets)
	if err != nil {
		return domain.PensionInput{}, fmt.Errorf("invalid assets %q: %w", assets, err)
	}

	input := domain.PensionInput{
		Age:                age,
		RelationshipStatus: domain.MapRelationshipStatus(status),
		HomeOwner:          homeOwner,
		IncomePerFortnight: incomeValue,
		TotalAssets:        assetsValue,
	}
	if err := config.NewInputParser().ValidatePensionInput(&input); err != nil {
		return domain.PensionInput{}, err
	}
	return input, nil
}

func runPension(cmd *cobra.Command, args []string) {
	input, err := buildPensionInput(pensionAge, pensionStatus, pensionHomeOwner, pensionIncome, pensionAssets)
	if err != nil {
		log.Fatal(err)
	}

	calc := calculation.NewAgePensionCalculator()
	if pensionRulesFile != "" {
		rules, err := config.NewInputParser().LoadRulesFromFile(pensionRulesFile)
		if err != nil {
			log.Fatal(err)
		}
		calc = calculation.NewAgePensionCalculatorWithConfig(rules)
	}

	report := output.PensionReport{Input: input, Result: calc.CalculatePension(input)}
	data, err := output.FormatPensionReport(report, pensionOutputFormat)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(string(data))
}
