// Package chart renders trend windows as standalone HTML line charts.
package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/vcscsvcscs/vitals-tracker/internal/vitals"
)

// Metric selects which measurement a chart plots
type Metric string

const (
	MetricBloodPressure Metric = "blood_pressure"
	MetricPulse         Metric = "pulse"
)

// ParseMetric validates a metric selector; empty means blood pressure
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case "", MetricBloodPressure:
		return MetricBloodPressure, nil
	case MetricPulse:
		return MetricPulse, nil
	default:
		return "", fmt.Errorf("unknown chart metric %q", s)
	}
}

// Title is the chart heading for the metric
func (m Metric) Title() string {
	if m == MetricPulse {
		return "Pulse Rate Trends"
	}
	return "Blood Pressure Trends"
}

// Render writes an HTML page with the trend chart for metric
func Render(w io.Writer, trend vitals.Trend, metric Metric) error {
	line := newLine(trend, metric)
	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func newLine(trend vitals.Trend, metric Metric) *charts.Line {
	subtitle := "Last " + trend.Window.Label()
	if trend.Empty() {
		subtitle = "No health data available"
	}

	yName := "mmHg"
	if metric == MetricPulse {
		yName = "bpm"
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "macarons", PageTitle: metric.Title()}),
		charts.WithTitleOpts(opts.Title{
			Title:    metric.Title(),
			Subtitle: subtitle,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: 45},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         yName,
			NameLocation: "middle",
			NameGap:      40,
			Scale:        opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
	)

	series := trend.Series
	line.SetXAxis(series.Labels)
	if metric == MetricPulse {
		line.AddSeries("Pulse", lineItems(series.Pulse))
	} else {
		line.AddSeries("Systolic", lineItems(series.Systolic))
		line.AddSeries("Diastolic", lineItems(series.Diastolic))
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	return line
}

func lineItems(values []int) []opts.LineData {
	items := make([]opts.LineData, 0, len(values))
	for _, v := range values {
		items = append(items, opts.LineData{Value: v})
	}
	return items
}
