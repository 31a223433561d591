package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/vcscsvcscs/vitals-tracker/internal/service"
	"github.com/vcscsvcscs/vitals-tracker/internal/vitals"
	"github.com/vcscsvcscs/vitals-tracker/pkg/model"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

const timestampLayout = "2006-01-02 15:04"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

func validateOutput(format string) error {
	switch format {
	case outputTable, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

// writeStructured writes v as JSON or YAML. ok is false for the table format.
func writeStructured(w io.Writer, format string, v any) (ok bool, err error) {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func flagMark(set bool) string {
	if set {
		return "yes"
	}
	return "-"
}

func recordsTable(records []model.VitalRecord) string {
	t := newTable("Time", "BP", "Pulse", "Meds", "Symptoms", "Exercise", "Stress", "Notes")
	for _, r := range records {
		t.Row(
			r.Timestamp.Format(timestampLayout),
			fmt.Sprintf("%d/%d", r.BloodPressure.Systolic, r.BloodPressure.Diastolic),
			strconv.Itoa(r.Pulse),
			flagMark(r.Flags.MedicationTaken),
			flagMark(r.Flags.HadSymptoms),
			flagMark(r.Flags.ExercisedToday),
			flagMark(r.Flags.HighStressLevel),
			r.Notes,
		)
	}
	return t.String()
}

func writeRecords(w io.Writer, format string, batch vitals.Batch) error {
	if ok, err := writeStructured(w, format, batch); ok {
		return err
	}
	if batch.NoData() {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No vital signs recorded yet"))
		return err
	}
	if _, err := fmt.Fprintln(w, recordsTable(batch.Records)); err != nil {
		return err
	}
	if batch.Skipped > 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d entries without a timestamp were skipped", batch.Skipped)))
		return err
	}
	return nil
}

func statsTable(stats vitals.Statistics) string {
	t := newTable("Metric", "Average", "Range")
	t.Row("Systolic", stats.Systolic.AverageText(), stats.Systolic.RangeText())
	t.Row("Diastolic", stats.Diastolic.AverageText(), stats.Diastolic.RangeText())
	t.Row("Pulse", stats.Pulse.AverageText(), stats.Pulse.RangeText())
	return t.String()
}

func writeDashboard(w io.Writer, format string, dash *service.Dashboard) error {
	if ok, err := writeStructured(w, format, dash); ok {
		return err
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Trends: "+dash.WindowLabel) + "\n")
	if dash.Latest != nil && dash.Status != nil {
		fmt.Fprintf(&b, "Latest %s  BP %d/%d %s  Pulse %d %s\n",
			dash.Latest.Timestamp.Format(timestampLayout),
			dash.Latest.BloodPressure.Systolic, dash.Latest.BloodPressure.Diastolic, dash.Status.BloodPressureBadge,
			dash.Latest.Pulse, dash.Status.PulseBadge,
		)
	}
	if dash.Message != "" {
		b.WriteString(mutedStyle.Render(dash.Message) + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	stats := dash.Trend.Stats
	b.WriteString(statsTable(stats) + "\n")
	fmt.Fprintf(&b, "Readings %d  Meds %d  Symptoms %d  Exercise %d  Stress %d\n",
		stats.Count, stats.Days.MedicationTaken, stats.Days.HadSymptoms, stats.Days.ExercisedToday, stats.Days.HighStressLevel)

	details := newTable("Time", "Stress", "Symptoms", "Exercise", "Meds", "Notes")
	for _, d := range dash.Trend.Details {
		details.Row(d.Timestamp.Format(timestampLayout), d.Stress, d.Symptoms, d.Exercise, d.Meds, d.Notes)
	}
	b.WriteString(details.String() + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// renderMarkdown renders assistant replies; unusable styles fall back to plain text
func renderMarkdown(text, style string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}

func writeExchange(w io.Writer, format, style string, ex *service.Exchange) error {
	if ok, err := writeStructured(w, format, ex); ok {
		return err
	}

	var b strings.Builder
	for _, m := range ex.Messages {
		if m.IsBot {
			fmt.Fprintf(&b, "%s\n%s", mutedStyle.Render("assistant "+m.Timestamp), renderMarkdown(m.Text, style))
			continue
		}
		fmt.Fprintf(&b, "%s\n%s\n\n", mutedStyle.Render("you "+m.Timestamp), m.Text)
	}
	if ex.Alert != "" {
		b.WriteString(alertStyle.Render(ex.Alert) + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeReport(w io.Writer, format string, report *service.Report) error {
	if ok, err := writeStructured(w, format, report); ok {
		return err
	}
	t := newTable("Window", "Readings", "CSV", "PDF")
	t.Row(string(report.Window), strconv.Itoa(report.Readings), report.CSVBlob, report.PDFBlob)
	_, err := fmt.Fprintln(w, t.String())
	return err
}
