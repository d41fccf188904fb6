// Command lotse serves the tax wizard over HTTP and offers terminal tools to
// walk it, inspect navigation decisions and export its OpenAPI description.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-lotse/internal/config"
	"github.com/goliatone/go-lotse/pkg/i18n"
	"github.com/goliatone/go-lotse/pkg/lotse"
	"github.com/goliatone/go-lotse/pkg/orchestrator"
	"github.com/goliatone/go-lotse/pkg/render"
)

// app carries what every subcommand shares once the root command has run
// its PersistentPreRunE.
type app struct {
	cfg    config.Config
	logger *zap.Logger

	taxYear   int
	flowDir   string
	locale    string
	logLevel  string
	debugData bool
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "lotse",
		Short:         "Step navigation and field visibility for the Lotse tax wizard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.IntVar(&a.taxYear, "tax-year", 0, "tax year (overrides LOTSE_TAX_YEAR)")
	flags.StringVar(&a.flowDir, "flow-dir", "", "directory with step definitions (overrides LOTSE_FLOW_DIR)")
	flags.StringVar(&a.locale, "locale", "", "message locale (overrides LOTSE_LOCALE)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (overrides LOTSE_LOG_LEVEL)")
	flags.BoolVar(&a.debugData, "debug-data", false, "prefill answers with sample data (overrides LOTSE_DEBUG_DATA)")

	root.AddCommand(
		newServeCmd(a),
		newWizardCmd(a),
		newResolveCmd(a),
		newVisibilityCmd(a),
		newOpenAPICmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("tax-year") {
		cfg.TaxYear = a.taxYear
	}
	if flags.Changed("flow-dir") {
		cfg.FlowDir = a.flowDir
	}
	if flags.Changed("locale") {
		cfg.Locale = a.locale
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("debug-data") {
		cfg.DebugData = a.debugData
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) wizard() (*lotse.Wizard, error) {
	options := []lotse.Option{
		lotse.WithPeriod(a.cfg.Period()),
		lotse.WithLogger(a.logger),
	}
	if a.cfg.FlowDir != "" {
		options = append(options, lotse.WithDefinitions(os.DirFS(a.cfg.FlowDir)))
	}
	return lotse.New(options...)
}

func (a *app) orchestrator(registry *render.Registry) (*orchestrator.Orchestrator, error) {
	wizard, err := a.wizard()
	if err != nil {
		return nil, err
	}
	return orchestrator.New(
		orchestrator.WithWizard(wizard),
		orchestrator.WithRegistry(registry),
		orchestrator.WithLogger(a.logger),
		orchestrator.WithDebugData(a.cfg.DebugData),
	), nil
}

func (a *app) translator() (*i18n.Bundle, string, error) {
	bundle, err := i18n.Default()
	if err != nil {
		return nil, "", err
	}
	return bundle, bundle.Match(a.cfg.Locale), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "lotse:", err)
		os.Exit(1)
	}
}
