package vitals

import (
	"sort"
	"time"

	"github.com/vcscsvcscs/vitals-tracker/pkg/model"
)

// Batch is the outcome of normalizing a store listing
type Batch struct {
	// Records sorted newest first
	Records []model.VitalRecord `json:"records"`
	// Skipped counts entries dropped for lacking a parseable timestamp
	Skipped int `json:"skipped"`
}

// NoData reports whether the listing produced no usable record
func (b Batch) NoData() bool {
	return len(b.Records) == 0
}

// Latest returns the newest record
func (b Batch) Latest() (model.VitalRecord, bool) {
	if b.NoData() {
		return model.VitalRecord{}, false
	}
	return b.Records[0], true
}

// Normalize converts a raw listing into defaulted records sorted descending by
// timestamp. Entries without a parseable timestamp are dropped; equal
// timestamps keep key order. Zone-less timestamps are read in now's location.
func Normalize(raw RawCollection, now time.Time) Batch {
	loc := now.Location()
	batch := Batch{Records: make([]model.VitalRecord, 0, len(raw))}

	for _, entry := range raw {
		ts, ok := entry.VitalSigns.Timestamp.Time(loc)
		if !ok {
			batch.Skipped++
			continue
		}
		rec := fillRecord(entry)
		rec.Timestamp = ts
		batch.Records = append(batch.Records, rec)
	}

	sort.SliceStable(batch.Records, func(i, j int) bool {
		return batch.Records[i].Timestamp.After(batch.Records[j].Timestamp)
	})
	return batch
}

// NormalizeEntry converts a single raw entry. A missing or unparseable
// timestamp defaults to now.
func NormalizeEntry(entry RawEntry, now time.Time) model.VitalRecord {
	rec := fillRecord(entry)
	ts, ok := entry.VitalSigns.Timestamp.Time(now.Location())
	if !ok {
		ts = now
	}
	rec.Timestamp = ts
	return rec
}

// EmptyRecord is the all-default record stamped with now
func EmptyRecord(now time.Time) model.VitalRecord {
	return model.VitalRecord{Timestamp: now}
}

func fillRecord(entry RawEntry) model.VitalRecord {
	vs := entry.VitalSigns
	systolic, _ := vs.BloodPressure.Field("systolic").Int()
	diastolic, _ := vs.BloodPressure.Field("diastolic").Int()
	pulse, _ := vs.PulseRate.Field("value").Int()
	medication, _ := vs.MedicationTaken.Bool()
	symptoms, _ := vs.HadSymptoms.Bool()
	exercised, _ := vs.ExercisedToday.Bool()
	stressed, _ := vs.HighStressLevel.Bool()
	notes, _ := vs.Notes.Text()

	return model.VitalRecord{
		Key: entry.Key,
		BloodPressure: model.BloodPressure{
			Systolic:  systolic,
			Diastolic: diastolic,
		},
		Pulse: pulse,
		Flags: model.HealthFlags{
			MedicationTaken: medication,
			HadSymptoms:     symptoms,
			ExercisedToday:  exercised,
			HighStressLevel: stressed,
		},
		Notes: notes,
	}
}
