package vitals

// Status is a coarse classification of a reading
type Status string

const (
	StatusElevated Status = "Elevated"
	StatusNormal   Status = "Normal"
	StatusLow      Status = "Low"
	StatusHigh     Status = "High"
)

// ClassifyBloodPressure applies the first matching rule.
// Readings above 140/90 up to 160/100 report Normal.
func ClassifyBloodPressure(systolic, diastolic int) Status {
	switch {
	case systolic > 160 || diastolic > 100:
		return StatusElevated
	case systolic > 140 || diastolic > 90:
		return StatusNormal
	case systolic < 90 || diastolic < 60:
		return StatusLow
	default:
		return StatusNormal
	}
}

// ClassifyPulse classifies a pulse rate in bpm
func ClassifyPulse(pulse int) Status {
	switch {
	case pulse > 100:
		return StatusHigh
	case pulse < 60:
		return StatusLow
	default:
		return StatusNormal
	}
}

// BloodPressureBadge renders a blood pressure status for display
func BloodPressureBadge(s Status) string {
	switch s {
	case StatusElevated:
		return "🟡 Elevated"
	case StatusLow:
		return "🔴 Low"
	default:
		return "🟢 Normal"
	}
}

// PulseBadge renders a pulse status for display
func PulseBadge(s Status) string {
	switch s {
	case StatusHigh:
		return "🔴 High (Tachycardia)"
	case StatusLow:
		return "🔴 Low (Bradycardia)"
	default:
		return "🟢 Normal"
	}
}
