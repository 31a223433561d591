package vitals

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/vitals-tracker/pkg/model"
)

func record(key string, ts time.Time, systolic, diastolic, pulse int) model.VitalRecord {
	return model.VitalRecord{
		Key:           key,
		Timestamp:     ts,
		BloodPressure: model.BloodPressure{Systolic: systolic, Diastolic: diastolic},
		Pulse:         pulse,
	}
}

func TestParseWindow(t *testing.T) {
	w, ok := ParseWindow("14days")
	assert.True(t, ok)
	assert.Equal(t, Window14Days, w)

	w, ok = ParseWindow("1year")
	assert.False(t, ok)
	assert.Equal(t, Window7Days, w)
	assert.Equal(t, "7 Days", w.Label())
	assert.Equal(t, "1 Month", Window1Month.Label())
}

func TestWindow_Cutoff(t *testing.T) {
	tests := []struct {
		name string
		w    Window
		now  time.Time
		want time.Time
	}{
		{"7 days", Window7Days, testNow, testNow.AddDate(0, 0, -7)},
		{"14 days", Window14Days, testNow, testNow.AddDate(0, 0, -14)},
		{"month", Window1Month, testNow, time.Date(2025, time.May, 15, 12, 0, 0, 0, time.UTC)},
		{"month clamps to february", Window1Month,
			time.Date(2025, time.March, 31, 9, 0, 0, 0, time.UTC),
			time.Date(2025, time.February, 28, 9, 0, 0, 0, time.UTC)},
		{"month clamps to leap february", Window1Month,
			time.Date(2024, time.March, 30, 9, 0, 0, 0, time.UTC),
			time.Date(2024, time.February, 29, 9, 0, 0, 0, time.UTC)},
		{"month crosses year", Window1Month,
			time.Date(2025, time.January, 31, 9, 0, 0, 0, time.UTC),
			time.Date(2024, time.December, 31, 9, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.w.Cutoff(tt.now))
		})
	}
}

func TestFilterWindow_ExcludesCutoffInstant(t *testing.T) {
	cutoff := Window7Days.Cutoff(testNow)
	records := []model.VitalRecord{
		record("new", testNow.Add(-time.Hour), 120, 80, 70),
		record("edge", cutoff, 130, 85, 75),
		record("old", cutoff.Add(-time.Second), 140, 90, 80),
	}

	got := FilterWindow(records, Window7Days, testNow)

	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Key)
}

func TestAggregate_Statistics(t *testing.T) {
	// Arrange
	records := []model.VitalRecord{
		record("c", testNow.Add(-1*time.Hour), 130, 85, 75),
		record("b", testNow.Add(-24*time.Hour), 120, 80, 70),
		record("a", testNow.Add(-48*time.Hour), 125, 81, 72),
	}
	records[0].Flags = model.HealthFlags{MedicationTaken: true, HighStressLevel: true}
	records[1].Flags = model.HealthFlags{MedicationTaken: true, ExercisedToday: true}

	// Act
	trend := Aggregate(records, Window7Days, testNow)

	// Assert
	assert.False(t, trend.Empty())
	assert.Equal(t, 3, trend.Stats.Count)
	assert.Equal(t, Metric{Average: 125, Min: 120, Max: 130, Defined: true}, trend.Stats.Systolic)
	assert.Equal(t, Metric{Average: 82, Min: 80, Max: 85, Defined: true}, trend.Stats.Diastolic)
	assert.Equal(t, Metric{Average: 72, Min: 70, Max: 75, Defined: true}, trend.Stats.Pulse)
	assert.Equal(t, FlagDays{MedicationTaken: 2, ExercisedToday: 1, HighStressLevel: 1}, trend.Stats.Days)
	assert.Equal(t, "125", trend.Stats.Systolic.AverageText())
	assert.Equal(t, "70-75", trend.Stats.Pulse.RangeText())
}

func TestAggregate_AverageRoundsHalfUp(t *testing.T) {
	records := []model.VitalRecord{
		record("a", testNow.Add(-time.Hour), 121, 80, 70),
		record("b", testNow.Add(-2*time.Hour), 122, 81, 71),
	}

	stats := Aggregate(records, Window7Days, testNow).Stats

	assert.Equal(t, 122, stats.Systolic.Average)
	assert.Equal(t, 81, stats.Diastolic.Average)
	assert.Equal(t, 71, stats.Pulse.Average)
}

func TestAggregate_EmptyWindowIsUndefined(t *testing.T) {
	records := []model.VitalRecord{record("old", testNow.AddDate(0, 0, -30), 120, 80, 70)}

	trend := Aggregate(records, Window7Days, testNow)

	assert.True(t, trend.Empty())
	assert.Equal(t, Undefined, trend.Stats.Systolic.AverageText())
	assert.Equal(t, Undefined, trend.Stats.Pulse.MinText())
	assert.Equal(t, Undefined, trend.Stats.Diastolic.MaxText())
	assert.Equal(t, FlagDays{}, trend.Stats.Days)
	assert.Empty(t, trend.Series.Labels)
}

func TestMetric_MarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		metric  Metric
		average string
		rng     string
	}{
		{"undefined", Metric{}, Undefined, Undefined + "-" + Undefined},
		{"defined", Metric{Average: 72, Min: 60, Max: 88, Defined: true}, "72", "60-88"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.metric)
			require.NoError(t, err)

			var decoded map[string]any
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.average, decoded["average_text"])
			assert.Equal(t, tt.rng, decoded["range_text"])
			assert.Equal(t, tt.metric.Defined, decoded["defined"])
			assert.EqualValues(t, tt.metric.Average, decoded["average"])

			var back Metric
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.metric, back)
		})
	}
}

func TestChartSeries_ChronologicalLabels(t *testing.T) {
	records := []model.VitalRecord{
		record("b", time.Date(2025, time.June, 14, 8, 0, 0, 0, time.UTC), 130, 85, 75),
		record("a", time.Date(2025, time.June, 9, 8, 0, 0, 0, time.UTC), 120, 80, 70),
	}

	s := ChartSeries(records)

	assert.Equal(t, []string{"9/6", "14/6"}, s.Labels)
	assert.Equal(t, []int{120, 130}, s.Systolic)
	assert.Equal(t, []int{80, 85}, s.Diastolic)
	assert.Equal(t, []int{70, 75}, s.Pulse)
}

func TestDetailFor(t *testing.T) {
	r := record("k", testNow, 120, 80, 70)
	d := DetailFor(r)
	assert.Equal(t, "😊 Normal", d.Stress)
	assert.Equal(t, "😃 Healthy", d.Symptoms)
	assert.Equal(t, "🛌 No exercise", d.Exercise)
	assert.Equal(t, "❌ No meds", d.Meds)
	assert.Equal(t, "No notes", d.Notes)

	r.Flags = model.HealthFlags{MedicationTaken: true, HadSymptoms: true, ExercisedToday: true, HighStressLevel: true}
	d = DetailFor(r)
	assert.Equal(t, "😟 Stressed", d.Stress)
	assert.Equal(t, "🤒 Symptoms", d.Symptoms)
	assert.Equal(t, "🏋️ Exercised", d.Exercise)
	assert.Equal(t, "💊 Meds taken", d.Meds)

	r.Notes = "after run"
	assert.Equal(t, "after run", DetailFor(r).Notes)
}

// Window statistics stay within the bounds of the records they summarize
func TestProperty_StatisticsBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("min <= average <= max and flag days <= count", prop.ForAll(
		func(values []int, ages []int) bool {
			n := len(values)
			if len(ages) < n {
				n = len(ages)
			}
			records := make([]model.VitalRecord, 0, n)
			for i := 0; i < n; i++ {
				r := record(strconv.Itoa(i), testNow.Add(-time.Duration(ages[i])*time.Hour), values[i], values[i]/2, values[i]/3)
				r.Flags.HadSymptoms = values[i]%2 == 0
				records = append(records, r)
			}

			trend := Aggregate(records, Window14Days, testNow)
			stats := trend.Stats
			if stats.Count != len(trend.Records) {
				return false
			}

			kept := make(map[string]bool, len(trend.Records))
			for _, r := range trend.Records {
				if !r.Timestamp.After(trend.Cutoff) {
					return false
				}
				kept[r.Key] = true
			}
			for _, r := range records {
				if !kept[r.Key] && r.Timestamp.After(trend.Cutoff) {
					return false
				}
			}

			if stats.Count == 0 {
				return !stats.Systolic.Defined && stats.Systolic.AverageText() == Undefined
			}
			for _, m := range []Metric{stats.Systolic, stats.Diastolic, stats.Pulse} {
				if m.Min > m.Average || m.Average > m.Max {
					return false
				}
			}
			return stats.Days.HadSymptoms <= stats.Count
		},
		gen.SliceOf(gen.IntRange(30, 300)),
		gen.SliceOf(gen.IntRange(0, 24*40)),
	))

	properties.TestingRun(t)
}
