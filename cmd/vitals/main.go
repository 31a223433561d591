package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vcscsvcscs/vitals-tracker/internal/app"
	"github.com/vcscsvcscs/vitals-tracker/internal/config"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	envFiles []string
	output   string
	style    string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "vitals",
		Short:         "Track blood pressure and pulse readings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return validateOutput(opts.output)
		},
	}
	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "dotenv files to load before reading the environment")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", outputTable, "output format: table|json|yaml")
	root.PersistentFlags().StringVar(&opts.style, "style", "dark", "glamour style for assistant replies (dark|light|notty)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(newSubmitCmd(opts))
	root.AddCommand(newRecordsCmd(opts))
	root.AddCommand(newCSVCmd(opts))
	root.AddCommand(newDashboardCmd(opts))
	root.AddCommand(newChartCmd(opts))
	root.AddCommand(newAskCmd(opts))
	root.AddCommand(newAnalyzeCmd(opts))
	root.AddCommand(newReportCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	return root
}

// newLogger keeps the CLI quiet unless asked otherwise
func newLogger(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return app.NewLogger(cfg)
}

func loadApp(ctx context.Context, opts *globalOptions) (*app.App, error) {
	cfg, err := config.Read(opts.envFiles...)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg, opts.verbose)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, logger)
}
