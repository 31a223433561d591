// Package prompt composes the text sent to the generative model and the
// fixed assistant messages shown around it.
package prompt

import (
	"fmt"
	"strings"

	"github.com/vcscsvcscs/vitals-tracker/internal/vitals"
	"github.com/vcscsvcscs/vitals-tracker/pkg/model"
)

const (
	assistantPreamble = "You are a medical AI assistant. "
	historyIntro      = "Here is the patient's complete health history in CSV format:\n\n"

	dataInstructions = "Please analyze this data and provide:\n" +
		"1. Any concerning trends or patterns\n" +
		"2. Specific recommendations based on the data\n" +
		"3. When to seek immediate medical attention\n" +
		"4. Lifestyle adjustments if needed"
	generalInstructions = "Please provide general medical advice."

	analysisIntro        = "You are a doctor analyzing a patient's health data. Consider these trends:\n\n"
	analysisInstructions = "Provide analysis covering:\n" +
		"1. Trend interpretation\n" +
		"2. Immediate concerns\n" +
		"3. Recommended actions\n" +
		"4. When to seek help"

	// NoTrends stands in for an empty trend summary
	NoTrends = "No significant trends detected"
	// NoHealthData is the formatted status of a missing record
	NoHealthData = "No health data available"
)

// Question builds the prompt for a user question. When includeHealthData is
// set the CSV projection is embedded ahead of the question.
func Question(question, csv string, includeHealthData bool) string {
	var b strings.Builder
	b.WriteString(assistantPreamble)
	if includeHealthData {
		b.WriteString(historyIntro)
		b.WriteString(csv)
		b.WriteString("\n")
		fmt.Fprintf(&b, "Question: %s\n\n", question)
		b.WriteString(dataInstructions)
		return b.String()
	}
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	b.WriteString(generalInstructions)
	return b.String()
}

// TrendSummary lists the readings of the history, oldest first, one per line
func TrendSummary(history []model.VitalRecord) string {
	lines := make([]string, 0, len(history))
	for i, r := range history {
		lines = append(lines, fmt.Sprintf("Reading %d: BP %d/%d, Pulse %d",
			i+1, r.BloodPressure.Systolic, r.BloodPressure.Diastolic, r.Pulse))
	}
	return strings.Join(lines, "\n")
}

// Analysis builds the automatic analysis prompt from the bounded history and
// the formatted current status.
func Analysis(history []model.VitalRecord, status string) string {
	trend := TrendSummary(history)
	if trend == "" {
		trend = NoTrends
	}
	return analysisIntro + trend + "\n\nCurrent Status:\n" + status + "\n\n" + analysisInstructions
}

// FormatStatus renders the current-status block for a record; nil renders
// the no-data placeholder.
func FormatStatus(r *model.VitalRecord) string {
	if r == nil {
		return NoHealthData
	}

	var b strings.Builder
	bp := r.BloodPressure
	fmt.Fprintf(&b, "🩺 Blood Pressure: %d/%d mmHg %s\n", bp.Systolic, bp.Diastolic,
		vitals.BloodPressureBadge(vitals.ClassifyBloodPressure(bp.Systolic, bp.Diastolic)))
	if r.Pulse != 0 {
		fmt.Fprintf(&b, "💓 Pulse: %d bpm %s\n", r.Pulse, vitals.PulseBadge(vitals.ClassifyPulse(r.Pulse)))
	}
	fmt.Fprintf(&b, "💊 Medication: %s\n", choose(r.Flags.MedicationTaken, "Taken", "Not taken"))
	fmt.Fprintf(&b, "😷 Symptoms: %s\n", choose(r.Flags.HadSymptoms, "Present", "None reported"))
	fmt.Fprintf(&b, "🏃 Activity: %s\n", choose(r.Flags.ExercisedToday, "Active", "Sedentary"))
	fmt.Fprintf(&b, "😰 Stress: %s\n", choose(r.Flags.HighStressLevel, "High", "Normal"))
	if r.Notes != "" {
		fmt.Fprintf(&b, "📝 Notes: %s\n", r.Notes)
	}
	return b.String()
}

func choose(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
