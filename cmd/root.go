// Package cmd wires the docsite CLI.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/foomo/docsite-mcp/check"
	"github.com/foomo/docsite-mcp/config"
	"github.com/foomo/docsite-mcp/site"
)

var (
	flagConfig string
	flagDocs   string
	flagDebug  bool
)

var rootCmd = &cobra.Command{
	Use:           "docsite",
	Short:         "Tooling for a markdown documentation tree",
	Long:          "docsite loads a markdown documentation tree, validates its structure, renders and serves it, and exposes it over MCP.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "docsite.yaml", "config file")
	rootCmd.PersistentFlags().StringVar(&flagDocs, "docs", "", "docs root directory (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "debug logging and output")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads config and builds the logger shared by all commands.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, nil, err
	}
	if flagDocs != "" {
		cfg.Docs = flagDocs
	}
	if flagDebug {
		cfg.Debug = true
	}

	var logger *zap.Logger
	if cfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return cfg, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, logger, nil
}

// loadTree loads the docs tree named by the config.
func loadTree(cfg config.Config) (*site.Tree, error) {
	return site.Load(cfg.Docs)
}

// buildChecker creates a checker with the config's severity overrides.
func buildChecker(cfg config.Config, logger *zap.Logger) (*check.Checker, error) {
	severities := map[check.Rule]check.Severity{}
	for rule, severity := range cfg.Check.Severities {
		switch check.Severity(severity) {
		case check.SeverityError, check.SeverityWarning, check.SeverityOff:
			severities[check.Rule(rule)] = check.Severity(severity)
		default:
			return nil, fmt.Errorf("invalid severity %q for rule %q", severity, rule)
		}
	}
	return check.New(logger,
		check.WithSeverities(severities),
		check.WithWorkers(cfg.Check.Workers),
	), nil
}
