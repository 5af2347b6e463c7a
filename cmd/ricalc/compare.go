package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thomasyao15/retirement-income-calc/internal/compare"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
	"github.com/thomasyao15/retirement-income-calc/internal/output"
)

var compareCmd = &cobra.Command{
	Use:   "compare [input-file]",
	Short: "Compare the recommended product against the other products",
	Long: `Compare the recommended Choice/Lifetime Income split for a scenario against
the other products, forcing each allocation in turn.

Examples:
  ricalc compare household.yaml
  ricalc compare household.yaml --scenario "Couple renting" --products C,D
  ricalc compare household.yaml --format csv
  ricalc compare household.yaml --format pdf`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]
		rulesFile, _ := cmd.Flags().GetString("rules")
		scenarioName, _ := cmd.Flags().GetString("scenario")
		productsStr, _ := cmd.Flags().GetString("products")
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

		products, err := parseProductList(productsStr)
		if err != nil {
			log.Fatal(err)
		}

		compareEngine := compare.NewCompareEngine(newEngine(configData, debugMode))

		comparisonSet, err := compareEngine.CompareProductList(context.Background(), *scenario, products)
		if err != nil {
			log.Fatalf("Comparison failed: %v", err)
		}
		comparisonSet.ConfigPath = inputFile

		// Binary formats go to a timestamped file instead of the terminal
		if strings.ToLower(outputFormat) == "pdf" {
			filename, err := output.WriteFormatted(output.PDFFormatter{}, comparisonSet.ToScenarioComparison(), "pdf")
			if err != nil {
				log.Fatal(err)
			}
			fmt.Printf("Report written to %s\n", filename)
			return
		}

		out, err := formatComparison(comparisonSet, outputFormat)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(out)
	},
}

// parseProductList parses a comma-separated product list; empty means every product
func parseProductList(s string) ([]domain.Product, error) {
	if strings.TrimSpace(s) == "" {
		return domain.AllProducts, nil
	}
	var products []domain.Product
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := domain.ParseProduct(part)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("no valid products in %q", s)
	}
	return products, nil
}

func formatComparison(comparisonSet *compare.ComparisonSet, outputFormat string) (string, error) {
	switch strings.ToLower(outputFormat) {
	case "csv":
		formatter := &compare.CSVFormatter{}
		return formatter.Format(comparisonSet)
	case "json":
		formatter := &compare.JSONFormatter{Pretty: true}
		return formatter.Format(comparisonSet)
	case "compact":
		formatter := &compare.TableFormatter{}
		return formatter.FormatCompact(comparisonSet) + "\n", nil
	case "table", "console", "":
		formatter := &compare.TableFormatter{}
		return formatter.Format(comparisonSet), nil
	case "html", "pdf":
		formatter := output.GetFormatterByName(outputFormat)
		data, err := formatter.Format(comparisonSet.ToScenarioComparison())
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown output format: %s (valid: table, compact, csv, json, html, pdf)", outputFormat)
	}
}

func init() {
	compareCmd.Flags().String("scenario", "", "Scenario to compare (default: the first scenario)")
	compareCmd.Flags().String("products", "", "Comma-separated products to compare against (default: all)")
	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json, html, pdf)")
	compareCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
	compareCmd.Flags().String("rules", "", "Path to rules file (default: rules.yaml if it exists)")

	rootCmd.AddCommand(compareCmd)
}
