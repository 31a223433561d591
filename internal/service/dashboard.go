package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/vcscsvcscs/vitals-tracker/internal/chart"
	"github.com/vcscsvcscs/vitals-tracker/internal/prompt"
	"github.com/vcscsvcscs/vitals-tracker/internal/vitals"
	"github.com/vcscsvcscs/vitals-tracker/pkg/model"
	"go.uber.org/zap"
)

// DashboardService aggregates the collection into trend views
type DashboardService struct {
	store    VitalsStore
	logger   *zap.Logger
	settings settings
	refresh  *inFlight
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(store VitalsStore, logger *zap.Logger, opts ...Option) *DashboardService {
	return &DashboardService{
		store:    store,
		logger:   logger,
		settings: newSettings(opts),
		refresh:  newInFlight(ControlDashboard),
	}
}

// Status is the classification of the newest reading
type Status struct {
	BloodPressure vitals.Status `json:"blood_pressure"`
	Pulse         vitals.Status `json:"pulse"`
	// Badges are the display renderings of the statuses
	BloodPressureBadge string `json:"blood_pressure_badge"`
	PulseBadge         string `json:"pulse_badge"`
}

// Dashboard is the trend view of one window
type Dashboard struct {
	Window      vitals.Window      `json:"window"`
	WindowLabel string             `json:"window_label"`
	Trend       vitals.Trend       `json:"trend"`
	Latest      *model.VitalRecord `json:"latest,omitempty"`
	Status      *Status            `json:"status,omitempty"`
	// Message is set when there is nothing to show
	Message string `json:"message,omitempty"`
}

// Summary fetches the collection and aggregates the selected window.
// Unknown window selectors fall back to seven days.
func (s *DashboardService) Summary(ctx context.Context, window string) (*Dashboard, error) {
	release, err := s.refresh.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	return s.summary(ctx, window)
}

func (s *DashboardService) summary(ctx context.Context, window string) (*Dashboard, error) {
	w, ok := vitals.ParseWindow(window)
	if !ok && window != "" {
		s.logger.Warn("unknown trend window, defaulting to 7 days", zap.String("window", window))
	}

	raw, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("failed to fetch vital signs for dashboard",
			zap.Error(err),
			zap.String("window", string(w)),
		)
		return nil, fmt.Errorf("failed to fetch vital signs: %w", err)
	}

	now := s.settings.clock()
	batch := vitals.Normalize(raw, now)
	trend := vitals.Aggregate(batch.Records, w, now)

	dash := &Dashboard{
		Window:      w,
		WindowLabel: w.Label(),
		Trend:       trend,
	}
	if latest, ok := batch.Latest(); ok {
		bp := vitals.ClassifyBloodPressure(latest.BloodPressure.Systolic, latest.BloodPressure.Diastolic)
		pulse := vitals.ClassifyPulse(latest.Pulse)
		dash.Latest = &latest
		dash.Status = &Status{
			BloodPressure:      bp,
			Pulse:              pulse,
			BloodPressureBadge: vitals.BloodPressureBadge(bp),
			PulseBadge:         vitals.PulseBadge(pulse),
		}
	}
	if batch.NoData() {
		dash.Message = prompt.NoHealthData
	}

	s.logger.Info("dashboard summary computed",
		zap.String("window", string(w)),
		zap.Int("records", len(batch.Records)),
		zap.Int("in_window", trend.Stats.Count),
	)
	return dash, nil
}

// Chart renders the selected window and metric as an HTML page.
// It returns ErrNoData when the window holds no readings.
func (s *DashboardService) Chart(ctx context.Context, window, metric string) ([]byte, error) {
	m, err := chart.ParseMetric(metric)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, model.FieldErrors{"metric": err.Error()})
	}

	release, err := s.refresh.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	dash, err := s.summary(ctx, window)
	if err != nil {
		return nil, err
	}

	if dash.Trend.Empty() {
		s.logger.Info("no readings in window, chart not rendered",
			zap.String("window", string(dash.Window)),
			zap.String("metric", string(m)),
		)
		return nil, ErrNoData
	}

	var buf bytes.Buffer
	if err := chart.Render(&buf, dash.Trend, m); err != nil {
		s.logger.Error("failed to render chart", zap.Error(err), zap.String("metric", string(m)))
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}
