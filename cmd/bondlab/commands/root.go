package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/bondlab/pkg/config"
	"github.com/wonny/bondlab/pkg/logger"
)

var (
	// Global flags
	env         string
	verbose     bool
	curveSource string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bondlab",
	Short: "bondlab - 채권 분석 / 금리 리스크 / 부채 헤지",
	Long: `bondlab Unified CLI

Fixed-income analytics: yield curve, bond pricing, duration/convexity,
key-rate duration, portfolio aggregation and liability hedging.

Usage:
  go run ./cmd/bondlab [command]

Examples:
  go run ./cmd/bondlab curve
  go run ./cmd/bondlab bond --maturity 10 --coupon 0.05 --shock 100
  go run ./cmd/bondlab portfolio --scenario configs/scenarios/pension.yaml
  go run ./cmd/bondlab hedge --scenario configs/scenarios/pension.yaml
  go run ./cmd/bondlab api`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&curveSource, "source", "", "curve source override (fred|file|flat)")
}

// setup loads config, applies global flag overrides and builds the logger
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if env != "" {
		cfg.Env = env
	}
	if curveSource != "" {
		cfg.Curve.Source = curveSource
	}
	if verbose {
		cfg.LogLevel = "debug"
		cfg.LogFormat = "console"
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, logger.New(cfg), nil
}
