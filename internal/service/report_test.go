package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/vitals-tracker/internal/azure"
	"github.com/vcscsvcscs/vitals-tracker/internal/pdf"
	"github.com/vcscsvcscs/vitals-tracker/internal/repository"
	"github.com/vcscsvcscs/vitals-tracker/internal/vitals"
	"go.uber.org/zap"
)

func newReportService(store VitalsStore, storage azure.ReportStorage) *ReportService {
	logger := zap.NewNop()
	return NewReportService(store, storage, pdf.NewPDFGenerator(logger), logger, WithClock(testClock), WithLocation(time.UTC))
}

func TestReportService_Generate_Success(t *testing.T) {
	// Arrange
	store := new(MockVitalsStore)
	storage := azure.NewMockBlobStorageClient(zap.NewNop())
	service := newReportService(store, storage)
	store.On("List", mock.Anything).Return(collection(t, twoReadings), nil)

	// Act
	report, err := service.Generate(context.Background(), "14days")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, vitals.Window14Days, report.Window)
	assert.Equal(t, 2, report.Readings)
	assert.Equal(t, "reports/vitals-14days-20250615-120000.csv", report.CSVBlob)
	assert.Equal(t, "reports/vitals-14days-20250615-120000.pdf", report.PDFBlob)
	assert.Equal(t, []string{report.CSVBlob, report.PDFBlob}, storage.ListBlobs())
	assert.Equal(t, "text/csv", storage.ContentTypes[report.CSVBlob])
	assert.Equal(t, "application/pdf", storage.ContentTypes[report.PDFBlob])

	csv, err := service.Download(context.Background(), "vitals-14days-20250615-120000.csv")
	require.NoError(t, err)
	assert.Contains(t, string(csv), "Blood Pressure Data\n")

	pdfBytes, err := service.Download(context.Background(), report.PDFBlob)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}

func TestReportService_Disabled(t *testing.T) {
	store := new(MockVitalsStore)
	service := newReportService(store, nil)

	_, err := service.Generate(context.Background(), "7days")
	assert.ErrorIs(t, err, ErrReportsDisabled)

	_, err = service.Download(context.Background(), "x.pdf")
	assert.ErrorIs(t, err, ErrReportsDisabled)
	assert.False(t, service.Enabled())
	store.AssertNotCalled(t, "List", mock.Anything)
}

func TestReportService_Generate_Failures(t *testing.T) {
	t.Run("store", func(t *testing.T) {
		store := new(MockVitalsStore)
		storage := azure.NewMockBlobStorageClient(zap.NewNop())
		store.On("List", mock.Anything).Return(nil, repository.ErrStoreUnavailable)

		_, err := newReportService(store, storage).Generate(context.Background(), "7days")

		assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
		assert.Empty(t, storage.ListBlobs())
	})

	t.Run("upload", func(t *testing.T) {
		store := new(MockVitalsStore)
		storage := azure.NewMockBlobStorageClient(zap.NewNop())
		storage.FailUploads = true
		store.On("List", mock.Anything).Return(vitals.RawCollection{}, nil)

		_, err := newReportService(store, storage).Generate(context.Background(), "7days")

		assert.Error(t, err)
	})

	t.Run("pdf upload removes csv", func(t *testing.T) {
		// Arrange
		store := new(MockVitalsStore)
		storage := azure.NewMockBlobStorageClient(zap.NewNop())
		storage.FailContentType = "application/pdf"
		store.On("List", mock.Anything).Return(collection(t, twoReadings), nil)

		// Act
		report, err := newReportService(store, storage).Generate(context.Background(), "7days")

		// Assert
		require.ErrorContains(t, err, "failed to upload PDF report")
		assert.Nil(t, report)
		assert.Empty(t, storage.ListBlobs())
	})
}

func TestReportService_Download_Missing(t *testing.T) {
	storage := azure.NewMockBlobStorageClient(zap.NewNop())

	_, err := newReportService(new(MockVitalsStore), storage).Download(context.Background(), "../missing.pdf")

	assert.ErrorIs(t, err, azure.ErrReportNotFound)
}
