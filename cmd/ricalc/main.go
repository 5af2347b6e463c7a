package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/thomasyao15/retirement-income-calc/internal/calculation"
	"github.com/thomasyao15/retirement-income-calc/internal/config"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
	"github.com/thomasyao15/retirement-income-calc/internal/output"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ricalc %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// fileExists checks if a file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

var rootCmd = &cobra.Command{
	Use:   "ricalc",
	Short: "Retirement income calculator CLI",
	Long: `Estimates the Australian Age Pension under the income and asset tests,
recommends a split of superannuation between Choice Income and Lifetime Income,
and projects the resulting retirement income.`,
}

// loadConfiguration loads a scenario file with an optional rules override
func loadConfiguration(inputFile, rulesFile string) (*domain.Configuration, error) {
	parser := config.NewInputParser()
	if rulesFile != "" && !fileExists(rulesFile) {
		return nil, fmt.Errorf("rules file %s does not exist", rulesFile)
	}
	return parser.LoadFromFileWithRules(inputFile, rulesFile)
}

// newEngine builds an engine for the configuration's rules
func newEngine(configData *domain.Configuration, debugMode bool) *calculation.CalculationEngine {
	engine := calculation.NewCalculationEngineWithConfig(config.EffectiveRules(configData))
	if debugMode {
		engine.SetLogger(simpleCLILogger{})
	}
	engine.Debug = debugMode
	return engine
}

// selectScenarios narrows the configuration to one scenario when a name is given
func selectScenarios(configData *domain.Configuration, name string) error {
	if name == "" {
		return nil
	}
	scenario, ok := configData.FindScenario(name)
	if !ok {
		return fmt.Errorf("scenario %q not found", name)
	}
	configData.Scenarios = []domain.Scenario{*scenario}
	return nil
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [input-file]",
	Short: "Calculate retirement income for every scenario",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]
		rulesFile, _ := cmd.Flags().GetString("rules")
		scenarioName, _ := cmd.Flags().GetString("scenario")
		debugMode, _ := cmd.Flags().GetBool("debug")
		outputFormat, _ := cmd.Flags().GetString("format")
		outputFile, _ := cmd.Flags().GetString("output")

		configData, err := loadConfiguration(inputFile, rulesFile)
		if err != nil {
			log.Fatal(err)
		}
		if err := selectScenarios(configData, scenarioName); err != nil {
			log.Fatal(err)
		}

		engine := newEngine(configData, debugMode)
		results, err := engine.RunScenarios(context.Background(), configData)
		if err != nil {
			log.Fatal(err)
		}

		formatter := output.GetFormatterByName(outputFormat)
		if formatter == nil {
			log.Fatalf("Unknown output format: %s (valid: %v)", outputFormat, output.AvailableFormatterNames())
		}

		if outputFile != "" {
			if err := output.WriteToFile(formatter, results, outputFile); err != nil {
				log.Fatal(err)
			}
			fmt.Printf("Report written to %s\n", outputFile)
			return
		}

		// Binary formats go to a timestamped file instead of the terminal
		if formatter.Name() == "pdf" {
			filename, err := output.WriteFormatted(formatter, results, output.FileExtension(outputFormat))
			if err != nil {
				log.Fatal(err)
			}
			fmt.Printf("Report written to %s\n", filename)
			return
		}

		data, err := formatter.Format(results)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(string(data))
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate a configuration file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]
		rulesFile, _ := cmd.Flags().GetString("rules")

		configData, err := loadConfiguration(inputFile, rulesFile)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("Configuration file %s is valid (%d scenarios)\n", inputFile, len(configData.Scenarios))
	},
}

func init() {
	calculateCmd.Flags().StringP("format", "f", "console", "Output format (console, console-lite, csv, detailed-csv, json, html, pdf)")
	calculateCmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")
	calculateCmd.Flags().String("scenario", "", "Only calculate the named scenario")
	calculateCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
	calculateCmd.Flags().String("rules", "", "Path to rules file (default: rules.yaml if it exists)")

	validateCmd.Flags().String("rules", "", "Path to rules file (default: rules.yaml if it exists)")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
