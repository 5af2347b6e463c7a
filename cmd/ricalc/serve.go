package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thomasyao15/retirement-income-calc/internal/calculation"
	"github.com/thomasyao15/retirement-income-calc/internal/config"
	"github.com/thomasyao15/retirement-income-calc/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculator as a JSON API",
	Long: `Serve the calculator over HTTP.

Settings come from RICALC_ADDR, RICALC_RULES_PATH, RICALC_DEBUG, RICALC_MAX_BODY_BYTES,
RICALC_READ_TIMEOUT and RICALC_WRITE_TIMEOUT; flags override the environment.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadServerConfig()
		if err != nil {
			log.Fatal(err)
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("rules") {
			cfg.RulesPath, _ = cmd.Flags().GetString("rules")
		}
		if cmd.Flags().Changed("debug") {
			cfg.Debug, _ = cmd.Flags().GetBool("debug")
		}
		if err := cfg.Validate(); err != nil {
			log.Fatal(err)
		}

		engine := calculation.NewCalculationEngine()
		if cfg.RulesPath != "" {
			rules, err := config.NewInputParser().LoadRulesFromFile(cfg.RulesPath)
			if err != nil {
				log.Fatal(err)
			}
			engine = calculation.NewCalculationEngineWithConfig(rules)
		}
		if cfg.Debug {
			engine.SetLogger(simpleCLILogger{})
		}

		srv := server.New(cfg, engine)
		srv.SetLogger(simpleCLILogger{})

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := srv.ListenAndServe(ctx); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().String("rules", "", "Path to rules file")
	serveCmd.Flags().Bool("debug", false, "Log calculation steps")

	rootCmd.AddCommand(serveCmd)
}
