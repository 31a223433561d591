package azure

import (
	"context"
	"errors"
)

// ErrReportNotFound is returned when a requested report does not exist
var ErrReportNotFound = errors.New("report not found")

// ReportStorage stores generated report files
type ReportStorage interface {
	UploadReport(ctx context.Context, filename, contentType string, data []byte) (string, error)
	DownloadReport(ctx context.Context, blobName string) ([]byte, error)
	DeleteReport(ctx context.Context, blobName string) error
}

var (
	_ ReportStorage = (*BlobStorageClient)(nil)
	_ ReportStorage = (*MockBlobStorageClient)(nil)
)
