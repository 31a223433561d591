package vitals

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/vcscsvcscs/vitals-tracker/pkg/model"
)

// Undefined is shown in place of a statistic over an empty window
const Undefined = "--"

// Window selects how far back the trend view reaches
type Window string

const (
	Window7Days  Window = "7days"
	Window14Days Window = "14days"
	Window1Month Window = "1month"
)

// Windows lists the selectable windows in display order
var Windows = []Window{Window7Days, Window14Days, Window1Month}

// ParseWindow maps a selector to a window. Unknown selectors fall back to
// seven days; ok reports whether the selector was recognized.
func ParseWindow(s string) (w Window, ok bool) {
	switch Window(s) {
	case Window7Days, Window14Days, Window1Month:
		return Window(s), true
	default:
		return Window7Days, false
	}
}

// Label is the human readable window name
func (w Window) Label() string {
	switch w {
	case Window14Days:
		return "14 Days"
	case Window1Month:
		return "1 Month"
	default:
		return "7 Days"
	}
}

// Cutoff returns the exclusive lower bound of the window ending at now
func (w Window) Cutoff(now time.Time) time.Time {
	switch w {
	case Window14Days:
		return now.AddDate(0, 0, -14)
	case Window1Month:
		return subtractMonth(now)
	default:
		return now.AddDate(0, 0, -7)
	}
}

// subtractMonth moves back one calendar month, clamping the day to the
// length of the target month (Mar 31 becomes Feb 28 or 29).
func subtractMonth(t time.Time) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month-1, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// FilterWindow keeps records strictly newer than the window cutoff, preserving order
func FilterWindow(records []model.VitalRecord, w Window, now time.Time) []model.VitalRecord {
	cutoff := w.Cutoff(now)
	out := make([]model.VitalRecord, 0, len(records))
	for _, r := range records {
		if r.Timestamp.After(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

// Metric is the average, minimum and maximum of one measurement
type Metric struct {
	Average int  `json:"average"`
	Min     int  `json:"min"`
	Max     int  `json:"max"`
	Defined bool `json:"defined"`
}

func summarizeMetric(values []int) Metric {
	if len(values) == 0 {
		return Metric{}
	}
	m := Metric{Min: values[0], Max: values[0], Defined: true}
	sum := 0
	for _, v := range values {
		sum += v
		if v < m.Min {
			m.Min = v
		}
		if v > m.Max {
			m.Max = v
		}
	}
	m.Average = int(math.Floor(float64(sum)/float64(len(values)) + 0.5))
	return m
}

// AverageText renders the average or the undefined sentinel
func (m Metric) AverageText() string {
	return m.text(m.Average)
}

// MinText renders the minimum or the undefined sentinel
func (m Metric) MinText() string {
	return m.text(m.Min)
}

// MaxText renders the maximum or the undefined sentinel
func (m Metric) MaxText() string {
	return m.text(m.Max)
}

// RangeText renders "min-max"
func (m Metric) RangeText() string {
	return m.MinText() + "-" + m.MaxText()
}

// MarshalJSON adds the rendered average and range so clients get the
// undefined sentinel for empty windows.
func (m Metric) MarshalJSON() ([]byte, error) {
	type metric Metric
	return json.Marshal(struct {
		metric
		AverageText string `json:"average_text"`
		RangeText   string `json:"range_text"`
	}{
		metric:      metric(m),
		AverageText: m.AverageText(),
		RangeText:   m.RangeText(),
	})
}

func (m Metric) text(v int) string {
	if !m.Defined {
		return Undefined
	}
	return strconv.Itoa(v)
}

// FlagDays counts the records on which each flag was set
type FlagDays struct {
	MedicationTaken int `json:"medication_taken"`
	HadSymptoms     int `json:"had_symptoms"`
	ExercisedToday  int `json:"exercised_today"`
	HighStressLevel int `json:"high_stress_level"`
}

// Statistics summarizes the records of one window
type Statistics struct {
	Count     int      `json:"count"`
	Systolic  Metric   `json:"systolic"`
	Diastolic Metric   `json:"diastolic"`
	Pulse     Metric   `json:"pulse"`
	Days      FlagDays `json:"days"`
}

// Summarize computes statistics over records
func Summarize(records []model.VitalRecord) Statistics {
	systolic := make([]int, 0, len(records))
	diastolic := make([]int, 0, len(records))
	pulse := make([]int, 0, len(records))
	stats := Statistics{Count: len(records)}

	for _, r := range records {
		systolic = append(systolic, r.BloodPressure.Systolic)
		diastolic = append(diastolic, r.BloodPressure.Diastolic)
		pulse = append(pulse, r.Pulse)
		if r.Flags.MedicationTaken {
			stats.Days.MedicationTaken++
		}
		if r.Flags.HadSymptoms {
			stats.Days.HadSymptoms++
		}
		if r.Flags.ExercisedToday {
			stats.Days.ExercisedToday++
		}
		if r.Flags.HighStressLevel {
			stats.Days.HighStressLevel++
		}
	}

	stats.Systolic = summarizeMetric(systolic)
	stats.Diastolic = summarizeMetric(diastolic)
	stats.Pulse = summarizeMetric(pulse)
	return stats
}

// Series holds chart-ready values in chronological order
type Series struct {
	Labels    []string `json:"labels"`
	Systolic  []int    `json:"systolic"`
	Diastolic []int    `json:"diastolic"`
	Pulse     []int    `json:"pulse"`
}

// ChartSeries builds chart series from newest-first records
func ChartSeries(records []model.VitalRecord) Series {
	s := Series{
		Labels:    make([]string, 0, len(records)),
		Systolic:  make([]int, 0, len(records)),
		Diastolic: make([]int, 0, len(records)),
		Pulse:     make([]int, 0, len(records)),
	}
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		s.Labels = append(s.Labels, fmt.Sprintf("%d/%d", r.Timestamp.Day(), int(r.Timestamp.Month())))
		s.Systolic = append(s.Systolic, r.BloodPressure.Systolic)
		s.Diastolic = append(s.Diastolic, r.BloodPressure.Diastolic)
		s.Pulse = append(s.Pulse, r.Pulse)
	}
	return s
}

// Detail is one line of the per-record breakdown
type Detail struct {
	Key       string    `json:"key"`
	Timestamp time.Time `json:"timestamp"`
	Stress    string    `json:"stress"`
	Symptoms  string    `json:"symptoms"`
	Exercise  string    `json:"exercise"`
	Meds      string    `json:"meds"`
	Notes     string    `json:"notes"`
}

// DetailFor renders the flag summary of a record
func DetailFor(r model.VitalRecord) Detail {
	d := Detail{
		Key:       r.Key,
		Timestamp: r.Timestamp,
		Stress:    "😊 Normal",
		Symptoms:  "😃 Healthy",
		Exercise:  "🛌 No exercise",
		Meds:      "❌ No meds",
		Notes:     r.Notes,
	}
	if d.Notes == "" {
		d.Notes = "No notes"
	}
	if r.Flags.HighStressLevel {
		d.Stress = "😟 Stressed"
	}
	if r.Flags.HadSymptoms {
		d.Symptoms = "🤒 Symptoms"
	}
	if r.Flags.ExercisedToday {
		d.Exercise = "🏋️ Exercised"
	}
	if r.Flags.MedicationTaken {
		d.Meds = "💊 Meds taken"
	}
	return d
}

// Trend is the aggregated view of one window
type Trend struct {
	Window  Window              `json:"window"`
	Cutoff  time.Time           `json:"cutoff"`
	Records []model.VitalRecord `json:"records"`
	Stats   Statistics          `json:"stats"`
	Series  Series              `json:"series"`
	Details []Detail            `json:"details"`
}

// Empty reports whether the window holds no record
func (t Trend) Empty() bool {
	return len(t.Records) == 0
}

// Aggregate filters newest-first records to the window and summarizes them
func Aggregate(records []model.VitalRecord, w Window, now time.Time) Trend {
	filtered := FilterWindow(records, w, now)
	details := make([]Detail, 0, len(filtered))
	for _, r := range filtered {
		details = append(details, DetailFor(r))
	}
	return Trend{
		Window:  w,
		Cutoff:  w.Cutoff(now),
		Records: filtered,
		Stats:   Summarize(filtered),
		Series:  ChartSeries(filtered),
		Details: details,
	}
}
