package vitals

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// RawField is an undecoded JSON value from the document store.
// Its accessors never fail; they report whether the value was usable.
type RawField json.RawMessage

// Present reports whether the field exists and is not null
func (f RawField) Present() bool {
	b := bytes.TrimSpace(f)
	return len(b) > 0 && !bytes.Equal(b, []byte("null"))
}

// Int decodes a JSON number or numeric string, rounded to the nearest integer
func (f RawField) Int() (int, bool) {
	if !f.Present() {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(f, &n); err != nil {
		var s string
		if err := json.Unmarshal(f, &s); err != nil {
			return 0, false
		}
		n, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
	}
	if math.IsNaN(n) || math.IsInf(n, 0) || math.Abs(n) > math.MaxInt32 {
		return 0, false
	}
	return int(math.Round(n)), true
}

// Bool decodes a JSON boolean
func (f RawField) Bool() (bool, bool) {
	if !f.Present() {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(f, &b); err != nil {
		return false, false
	}
	return b, true
}

// Text decodes a JSON string
func (f RawField) Text() (string, bool) {
	if !f.Present() {
		return "", false
	}
	var s string
	if err := json.Unmarshal(f, &s); err != nil {
		return "", false
	}
	return s, true
}

// timestampLayouts are tried in order; zone-less layouts use the caller's location
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time decodes an ISO-8601 string or a numeric epoch in milliseconds
func (f RawField) Time(loc *time.Location) (time.Time, bool) {
	if !f.Present() {
		return time.Time{}, false
	}
	if s, ok := f.Text(); ok {
		s = strings.TrimSpace(s)
		for _, layout := range timestampLayouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
	var ms float64
	if err := json.Unmarshal(f, &ms); err != nil || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).In(loc), true
}

// RawObject is an undecoded JSON object; nil when the value was absent or not an object
type RawObject map[string]RawField

// Field returns the named member, or an absent field
func (o RawObject) Field(name string) RawField {
	if o == nil {
		return nil
	}
	return o[name]
}

func decodeObject(raw json.RawMessage) RawObject {
	if !RawField(raw).Present() {
		return nil
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil
	}
	obj := make(RawObject, len(members))
	for k, v := range members {
		obj[k] = RawField(v)
	}
	return obj
}

// RawVitalSigns is the loosely typed vital_signs object of one stored entry
type RawVitalSigns struct {
	Timestamp       RawField
	BloodPressure   RawObject
	PulseRate       RawObject
	MedicationTaken RawField
	HadSymptoms     RawField
	ExercisedToday  RawField
	HighStressLevel RawField
	Notes           RawField
}

// RawEntry is one keyed document as returned by the store
type RawEntry struct {
	Key        string
	VitalSigns RawVitalSigns
}

// RawCollection is the store payload ordered by key
type RawCollection []RawEntry

// ParseCollection decodes a store listing: a JSON object of key to
// {vital_signs: {...}}, or null. Entries that are not objects are kept with
// empty vital signs so that normalization decides what to drop.
func ParseCollection(body []byte) (RawCollection, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return RawCollection{}, nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		var list []json.RawMessage
		if errList := json.Unmarshal(body, &list); errList != nil {
			return nil, fmt.Errorf("failed to decode store listing: %w", err)
		}
		entries = make(map[string]json.RawMessage, len(list))
		for i, v := range list {
			entries[strconv.Itoa(i)] = v
		}
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	collection := make(RawCollection, 0, len(keys))
	for _, k := range keys {
		collection = append(collection, ParseEntry(k, entries[k]))
	}
	return collection, nil
}

// ParseEntry decodes one {vital_signs: {...}} document
func ParseEntry(key string, raw json.RawMessage) RawEntry {
	entry := RawEntry{Key: key}
	doc := decodeObject(raw)
	vs := decodeObject(json.RawMessage(doc.Field("vital_signs")))
	if vs == nil {
		return entry
	}
	entry.VitalSigns = RawVitalSigns{
		Timestamp:       vs.Field("timestamp"),
		BloodPressure:   decodeObject(json.RawMessage(vs.Field("blood_pressure"))),
		PulseRate:       decodeObject(json.RawMessage(vs.Field("pulse_rate"))),
		MedicationTaken: vs.Field("medication_taken"),
		HadSymptoms:     vs.Field("had_symptoms"),
		ExercisedToday:  vs.Field("exercised_today"),
		HighStressLevel: vs.Field("high_stress_level"),
		Notes:           vs.Field("notes"),
	}
	return entry
}
