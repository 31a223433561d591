package service

import (
	"context"
	"fmt"

	"github.com/vcscsvcscs/vitals-tracker/internal/vitals"
	"github.com/vcscsvcscs/vitals-tracker/pkg/model"
	"go.uber.org/zap"
)

// VitalsService records submissions and reads the normalized collection
type VitalsService struct {
	store    VitalsStore
	logger   *zap.Logger
	settings settings
	submit   *inFlight
}

// NewVitalsService creates a new VitalsService
func NewVitalsService(store VitalsStore, logger *zap.Logger, opts ...Option) *VitalsService {
	return &VitalsService{
		store:    store,
		logger:   logger,
		settings: newSettings(opts),
		submit:   newInFlight(ControlSubmit),
	}
}

// Submit validates the form and appends one document. On success the form is
// reset; on any failure it is left untouched. Invalid forms never reach the store.
func (s *VitalsService) Submit(ctx context.Context, form *model.VitalsForm) (string, error) {
	if errs := form.Validate(); errs != nil {
		s.logger.Info("vital signs submission rejected", zap.Any("fields", errs))
		return "", fmt.Errorf("%w: %w", ErrValidation, errs)
	}

	release, err := s.submit.acquire()
	if err != nil {
		return "", err
	}
	defer release()

	doc := form.Document(s.settings.now())
	key, err := s.store.Append(ctx, doc)
	if err != nil {
		s.logger.Error("failed to submit vital signs", zap.Error(err))
		return "", fmt.Errorf("failed to submit vital signs: %w", err)
	}

	form.Reset()
	s.logger.Info("vital signs submitted",
		zap.String("key", key),
		zap.Int("systolic", doc.VitalSigns.BloodPressure.Systolic),
		zap.Int("diastolic", doc.VitalSigns.BloodPressure.Diastolic),
		zap.Int("pulse", doc.VitalSigns.PulseRate.Value),
	)
	return key, nil
}

// Records fetches and normalizes the whole collection, newest first
func (s *VitalsService) Records(ctx context.Context) (vitals.Batch, error) {
	raw, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("failed to fetch vital signs", zap.Error(err))
		return vitals.Batch{}, fmt.Errorf("failed to fetch vital signs: %w", err)
	}

	batch := vitals.Normalize(raw, s.settings.clock())
	if batch.Skipped > 0 {
		s.logger.Warn("discarded entries without a usable timestamp", zap.Int("skipped", batch.Skipped))
	}
	return batch, nil
}

// CSV fetches the collection and renders its tabular projection
func (s *VitalsService) CSV(ctx context.Context) (string, error) {
	raw, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("failed to fetch vital signs for csv", zap.Error(err))
		return "", fmt.Errorf("failed to fetch vital signs: %w", err)
	}
	return vitals.Project(raw, s.settings.location).String(), nil
}
