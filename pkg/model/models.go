package model

import "time"

// BloodPressure holds a systolic/diastolic pair in mmHg
type BloodPressure struct {
	Systolic  int `json:"systolic"`
	Diastolic int `json:"diastolic"`
}

// HealthFlags are the self-reported daily yes/no answers
type HealthFlags struct {
	MedicationTaken bool `json:"medication_taken"`
	HadSymptoms     bool `json:"had_symptoms"`
	ExercisedToday  bool `json:"exercised_today"`
	HighStressLevel bool `json:"high_stress_level"`
}

// VitalRecord is one fully defaulted vital-signs submission
type VitalRecord struct {
	Key           string        `json:"key"`
	Timestamp     time.Time     `json:"timestamp"`
	BloodPressure BloodPressure `json:"blood_pressure"`
	Pulse         int           `json:"pulse"`
	Flags         HealthFlags   `json:"flags"`
	Notes         string        `json:"notes"`
}

// Units used by the submission schema
const (
	UnitMmHg = "mmHg"
	UnitBPM  = "bpm"
)

// VitalSignsDocument is the persisted shape of a submission in the document store
type VitalSignsDocument struct {
	VitalSigns VitalSigns `json:"vital_signs"`
}

// VitalSigns is the body of a persisted submission
type VitalSigns struct {
	Timestamp       string               `json:"timestamp"`
	BloodPressure   BloodPressureReading `json:"blood_pressure"`
	PulseRate       PulseRate            `json:"pulse_rate"`
	MedicationTaken bool                 `json:"medication_taken"`
	HadSymptoms     bool                 `json:"had_symptoms"`
	ExercisedToday  bool                 `json:"exercised_today"`
	HighStressLevel bool                 `json:"high_stress_level"`
	Notes           string               `json:"notes"`
}

// BloodPressureReading is the persisted blood pressure object
type BloodPressureReading struct {
	Systolic  int    `json:"systolic"`
	Diastolic int    `json:"diastolic"`
	Unit      string `json:"unit"`
}

// PulseRate is the persisted pulse object
type PulseRate struct {
	Value int    `json:"value"`
	Unit  string `json:"unit"`
}

// ChatMessage is one bubble in the assistant transcript
type ChatMessage struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsBot     bool   `json:"is_bot"`
	Timestamp string `json:"timestamp"`
}
