package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Form field names, also used as keys of FieldErrors
const (
	FieldSystolic  = "systolic"
	FieldDiastolic = "diastolic"
	FieldPulse     = "pulse"
)

// Accepted input ranges, inclusive
const (
	SystolicMin  = 50
	SystolicMax  = 300
	DiastolicMin = 40
	DiastolicMax = 200
	PulseMin     = 30
	PulseMax     = 200
)

// FormValue is the raw text of a numeric form input.
// It decodes from a JSON string, a JSON number or null.
type FormValue string

// UnmarshalJSON accepts "120", 120 and null
func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("form value must be a string or a number: %w", err)
	}
	*v = FormValue(n.String())
	return nil
}

// Int parses the input as a base-10 integer
func (v FormValue) Int() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(string(v)))
	if err != nil {
		return 0, false
	}
	return n, true
}

// VitalsForm is the state of the vital-signs entry form
type VitalsForm struct {
	Systolic        FormValue `json:"systolic"`
	Diastolic       FormValue `json:"diastolic"`
	Pulse           FormValue `json:"pulse"`
	MedicationTaken bool      `json:"medication_taken"`
	HadSymptoms     bool      `json:"had_symptoms"`
	ExercisedToday  bool      `json:"exercised_today"`
	HighStressLevel bool      `json:"high_stress_level"`
}

// FieldErrors maps a form field to its user-facing message
type FieldErrors map[string]string

// Error joins the messages in field order
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f+": "+e[f])
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every numeric input against its range.
// It returns nil when the form can be submitted.
func (f *VitalsForm) Validate() FieldErrors {
	errs := FieldErrors{}
	if !inRange(f.Systolic, SystolicMin, SystolicMax) {
		errs[FieldSystolic] = fmt.Sprintf("Enter a valid systolic pressure (%d-%d)", SystolicMin, SystolicMax)
	}
	if !inRange(f.Diastolic, DiastolicMin, DiastolicMax) {
		errs[FieldDiastolic] = fmt.Sprintf("Enter a valid diastolic pressure (%d-%d)", DiastolicMin, DiastolicMax)
	}
	if !inRange(f.Pulse, PulseMin, PulseMax) {
		errs[FieldPulse] = fmt.Sprintf("Enter a valid pulse rate (%d-%d)", PulseMin, PulseMax)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func inRange(v FormValue, min, max int) bool {
	n, ok := v.Int()
	return ok && n >= min && n <= max
}

// Document builds the persisted submission. Call only on a validated form.
func (f *VitalsForm) Document(now time.Time) VitalSignsDocument {
	systolic, _ := f.Systolic.Int()
	diastolic, _ := f.Diastolic.Int()
	pulse, _ := f.Pulse.Int()

	return VitalSignsDocument{
		VitalSigns: VitalSigns{
			Timestamp: now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			BloodPressure: BloodPressureReading{
				Systolic:  systolic,
				Diastolic: diastolic,
				Unit:      UnitMmHg,
			},
			PulseRate: PulseRate{
				Value: pulse,
				Unit:  UnitBPM,
			},
			MedicationTaken: f.MedicationTaken,
			HadSymptoms:     f.HadSymptoms,
			ExercisedToday:  f.ExercisedToday,
			HighStressLevel: f.HighStressLevel,
			Notes:           "",
		},
	}
}

// Reset clears every input back to empty/false
func (f *VitalsForm) Reset() {
	*f = VitalsForm{}
}
