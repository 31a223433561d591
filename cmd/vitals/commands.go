package main

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cli/browser"
	"github.com/spf13/cobra"
	"github.com/vcscsvcscs/vitals-tracker/internal/config"
	"github.com/vcscsvcscs/vitals-tracker/internal/prompt"
	"github.com/vcscsvcscs/vitals-tracker/internal/service"
	"github.com/vcscsvcscs/vitals-tracker/pkg/model"
)

func newSubmitCmd(opts *globalOptions) *cobra.Command {
	form := &model.VitalsForm{}
	var systolic, diastolic, pulse string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Record a blood pressure and pulse reading",
		Example: "  vitals submit --systolic 120 --diastolic 80 --pulse 72 --meds\n" +
			"  vitals submit -s 135 -d 88 -p 90 --stress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			form.Systolic = model.FormValue(systolic)
			form.Diastolic = model.FormValue(diastolic)
			form.Pulse = model.FormValue(pulse)

			key, err := a.Vitals.Submit(ctx, form)
			if err != nil {
				return err
			}
			if ok, err := writeStructured(cmd.OutOrStdout(), opts.output, map[string]string{"key": key}); ok {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Vital signs recorded (%s)\n", key)
			return err
		},
	}
	cmd.Flags().StringVarP(&systolic, "systolic", "s", "", "systolic pressure in mmHg (50-300)")
	cmd.Flags().StringVarP(&diastolic, "diastolic", "d", "", "diastolic pressure in mmHg (40-200)")
	cmd.Flags().StringVarP(&pulse, "pulse", "p", "", "pulse rate in bpm (30-200)")
	cmd.Flags().BoolVar(&form.MedicationTaken, "meds", false, "medication taken")
	cmd.Flags().BoolVar(&form.HadSymptoms, "symptoms", false, "had symptoms")
	cmd.Flags().BoolVar(&form.ExercisedToday, "exercise", false, "exercised today")
	cmd.Flags().BoolVar(&form.HighStressLevel, "stress", false, "high stress level")
	return cmd
}

func newRecordsCmd(opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "records",
		Short: "List recorded readings, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			batch, err := a.Vitals.Records(ctx)
			if err != nil {
				return err
			}
			if limit > 0 && len(batch.Records) > limit {
				batch.Records = batch.Records[:limit]
			}
			return writeRecords(cmd.OutOrStdout(), opts.output, batch)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n readings (0 shows all)")
	return cmd
}

func newCSVCmd(opts *globalOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Export readings as the two-block CSV document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			doc, err := a.Vitals.CSV(ctx)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), doc)
				return err
			}
			return os.WriteFile(out, []byte(doc), 0o644)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "write to a file instead of stdout")
	return cmd
}

func newDashboardCmd(opts *globalOptions) *cobra.Command {
	var window string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show trend statistics for a window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			dash, err := a.Dashboard.Summary(ctx, window)
			if err != nil {
				return err
			}
			return writeDashboard(cmd.OutOrStdout(), opts.output, dash)
		},
	}
	cmd.Flags().StringVarP(&window, "range", "r", "7days", "trend window: 7days|14days|1month")
	return cmd
}

func newChartCmd(opts *globalOptions) *cobra.Command {
	var window, metric, out string
	var open bool

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render a trend chart as an HTML page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			page, err := a.Dashboard.Chart(ctx, window, metric)
			if errors.Is(err, service.ErrNoData) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), prompt.NoHealthData)
				return nil
			}
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Join(os.TempDir(), fmt.Sprintf("vitals-%s-%s.html", metric, window))
			}
			if err := os.WriteFile(out, page, 0o644); err != nil {
				return fmt.Errorf("failed to write chart: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Chart written to %s\n", out)

			if open {
				return browser.OpenFile(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&window, "range", "r", "7days", "trend window: 7days|14days|1month")
	cmd.Flags().StringVarP(&metric, "metric", "m", "blood_pressure", "chart metric: blood_pressure|pulse")
	cmd.Flags().StringVar(&out, "out", "", "output file (defaults to the temp directory)")
	cmd.Flags().BoolVar(&open, "open", false, "open the chart in the default browser")
	return cmd
}

func newAskCmd(opts *globalOptions) *cobra.Command {
	var includeHealthData bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the health assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			svc, _, err := a.Assistant(ctx)
			if err != nil {
				return err
			}
			session := svc.NewSession(a.Config.Assistant.HistorySize)
			ex, err := svc.Send(ctx, session, strings.Join(args, " "), includeHealthData)
			if err != nil {
				return err
			}
			return writeExchange(cmd.OutOrStdout(), opts.output, opts.style, ex)
		},
	}
	cmd.Flags().BoolVar(&includeHealthData, "health-data", true, "attach recorded readings to the question")
	return cmd
}

func newAnalyzeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Fetch the latest reading and ask the assistant for an analysis",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			svc, _, err := a.Assistant(ctx)
			if err != nil {
				return err
			}
			session := svc.NewSession(a.Config.Assistant.HistorySize)
			ex, err := svc.FetchHealthData(ctx, session)
			if err != nil {
				return err
			}
			return writeExchange(cmd.OutOrStdout(), opts.output, opts.style, ex)
		},
	}
}

func newReportCmd(opts *globalOptions) *cobra.Command {
	report := &cobra.Command{Use: "report", Short: "Generate and download stored reports"}

	var window string
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Render CSV and PDF reports and upload them to blob storage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			svc, err := a.Reports()
			if err != nil {
				return err
			}
			r, err := svc.Generate(ctx, window)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), opts.output, r)
		},
	}
	generate.Flags().StringVarP(&window, "range", "r", "7days", "trend window: 7days|14days|1month")

	var out string
	download := &cobra.Command{
		Use:   "download <file>",
		Short: "Download a stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			svc, err := a.Reports()
			if err != nil {
				return err
			}
			data, err := svc.Download(ctx, args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = path.Base(args[0])
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", out)
			return err
		},
	}
	download.Flags().StringVar(&out, "out", "", "output file (defaults to the blob name)")

	report.AddCommand(generate, download)
	return report
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Read(opts.envFiles...)
			if err != nil {
				return err
			}
			format := opts.output
			if format == outputTable {
				format = outputYAML
			}
			_, err = writeStructured(cmd.OutOrStdout(), format, cfg.Redacted())
			return err
		},
	}
}
