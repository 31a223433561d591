package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/vcscsvcscs/vitals-tracker/internal/azure"
	"github.com/vcscsvcscs/vitals-tracker/internal/pdf"
	"github.com/vcscsvcscs/vitals-tracker/internal/vitals"
	"go.uber.org/zap"
)

// ErrReportsDisabled is returned when no report storage is configured
var ErrReportsDisabled = errors.New("report storage is not configured")

const reportTimeLayout = "20060102-150405"

// Report describes one generated report pair
type Report struct {
	Window      vitals.Window `json:"window"`
	CSVBlob     string        `json:"csv_blob"`
	PDFBlob     string        `json:"pdf_blob"`
	Readings    int           `json:"readings"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// ReportService renders trend reports and keeps them in blob storage
type ReportService struct {
	store    VitalsStore
	storage  azure.ReportStorage
	pdfGen   *pdf.PDFGenerator
	logger   *zap.Logger
	settings settings
	generate *inFlight
}

// NewReportService creates a new ReportService. A nil storage disables reports.
func NewReportService(
	store VitalsStore,
	storage azure.ReportStorage,
	pdfGen *pdf.PDFGenerator,
	logger *zap.Logger,
	opts ...Option,
) *ReportService {
	return &ReportService{
		store:    store,
		storage:  storage,
		pdfGen:   pdfGen,
		logger:   logger,
		settings: newSettings(opts),
		generate: newInFlight(ControlReport),
	}
}

// Enabled reports whether a storage backend is configured
func (s *ReportService) Enabled() bool {
	return s.storage != nil
}

// Generate renders the CSV projection and a PDF summary of the window and
// uploads both.
func (s *ReportService) Generate(ctx context.Context, window string) (*Report, error) {
	if !s.Enabled() {
		return nil, ErrReportsDisabled
	}

	release, err := s.generate.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	w, _ := vitals.ParseWindow(window)
	raw, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("failed to fetch vital signs for report",
			zap.Error(err),
			zap.String("window", string(w)),
		)
		return nil, fmt.Errorf("failed to fetch vital signs: %w", err)
	}

	now := s.settings.clock()
	batch := vitals.Normalize(raw, now)
	trend := vitals.Aggregate(batch.Records, w, now)

	pdfBytes, err := s.pdfGen.Generate(&pdf.ReportData{
		Title:       "Vital Signs Report",
		Trend:       trend,
		GeneratedAt: now,
		Location:    s.settings.location,
	})
	if err != nil {
		s.logger.Error("failed to generate PDF", zap.Error(err), zap.String("window", string(w)))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	base := fmt.Sprintf("vitals-%s-%s", w, now.UTC().Format(reportTimeLayout))
	csvBlob, err := s.storage.UploadReport(ctx, base+".csv", "text/csv", []byte(vitals.Project(raw, s.settings.location).String()))
	if err != nil {
		s.logger.Error("failed to upload CSV report", zap.Error(err), zap.String("name", base))
		return nil, fmt.Errorf("failed to upload CSV report: %w", err)
	}
	pdfBlob, err := s.storage.UploadReport(ctx, base+".pdf", "application/pdf", pdfBytes)
	if err != nil {
		s.logger.Error("failed to upload PDF report", zap.Error(err), zap.String("name", base))
		if delErr := s.storage.DeleteReport(context.WithoutCancel(ctx), csvBlob); delErr != nil {
			s.logger.Warn("failed to remove CSV report after PDF upload failure",
				zap.Error(delErr),
				zap.String("csv_blob", csvBlob),
			)
		}
		return nil, fmt.Errorf("failed to upload PDF report: %w", err)
	}

	s.logger.Info("report generated",
		zap.String("window", string(w)),
		zap.String("csv_blob", csvBlob),
		zap.String("pdf_blob", pdfBlob),
		zap.Int("readings", trend.Stats.Count),
	)

	return &Report{
		Window:      w,
		CSVBlob:     csvBlob,
		PDFBlob:     pdfBlob,
		Readings:    trend.Stats.Count,
		GeneratedAt: now,
	}, nil
}

// Download returns a stored report by file name
func (s *ReportService) Download(ctx context.Context, name string) ([]byte, error) {
	if !s.Enabled() {
		return nil, ErrReportsDisabled
	}

	file := path.Base(name)
	if file == "." || file == "/" || file == "" {
		return nil, fmt.Errorf("%w: invalid report name", ErrValidation)
	}

	data, err := s.storage.DownloadReport(ctx, azure.ReportPrefix+file)
	if err != nil {
		s.logger.Error("failed to download report", zap.Error(err), zap.String("name", file))
		return nil, fmt.Errorf("failed to download report: %w", err)
	}
	return data, nil
}
