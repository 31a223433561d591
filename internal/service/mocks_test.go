package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/vitals-tracker/internal/vitals"
	"github.com/vcscsvcscs/vitals-tracker/pkg/model"
	"go.uber.org/goleak"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

// MockVitalsStore is a mock implementation of VitalsStore
type MockVitalsStore struct {
	mock.Mock
}

func (m *MockVitalsStore) List(ctx context.Context) (vitals.RawCollection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(vitals.RawCollection), args.Error(1)
}

func (m *MockVitalsStore) Append(ctx context.Context, doc model.VitalSignsDocument) (string, error) {
	args := m.Called(ctx, doc)
	return args.String(0), args.Error(1)
}

// MockGenerator is a mock implementation of Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Name() string {
	return "mock"
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func collection(t *testing.T, body string) vitals.RawCollection {
	t.Helper()
	raw, err := vitals.ParseCollection(json.RawMessage(body))
	require.NoError(t, err)
	return raw
}

const twoReadings = `{
	"-Na": {"vital_signs": {
		"timestamp": "2025-06-10T08:00:00.000Z",
		"blood_pressure": {"systolic": 120, "diastolic": 80, "unit": "mmHg"},
		"pulse_rate": {"value": 70, "unit": "bpm"},
		"medication_taken": true
	}},
	"-Nb": {"vital_signs": {
		"timestamp": "2025-06-14T08:00:00.000Z",
		"blood_pressure": {"systolic": 170, "diastolic": 95, "unit": "mmHg"},
		"pulse_rate": {"value": 105, "unit": "bpm"},
		"high_stress_level": true,
		"notes": "after coffee"
	}}
}`

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
