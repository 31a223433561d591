package azure

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// MockBlobStorageClient is an in-memory ReportStorage for tests and local runs
type MockBlobStorageClient struct {
	Storage      map[string][]byte
	ContentTypes map[string]string
	// FailUploads makes every upload return an error
	FailUploads bool
	// FailContentType makes uploads of this content type return an error
	FailContentType string
	mu              sync.RWMutex
	logger          *zap.Logger
}

// NewMockBlobStorageClient creates a new mock blob storage client
func NewMockBlobStorageClient(logger *zap.Logger) *MockBlobStorageClient {
	return &MockBlobStorageClient{
		Storage:      make(map[string][]byte),
		ContentTypes: make(map[string]string),
		logger:       logger,
	}
}

// UploadReport stores a report in memory
func (c *MockBlobStorageClient) UploadReport(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.FailUploads || (c.FailContentType != "" && c.FailContentType == contentType) {
		return "", fmt.Errorf("mock: upload failed")
	}
	if filename == "" {
		return "", fmt.Errorf("filename is required")
	}

	blobName := ReportPrefix + path.Base(filename)
	c.Storage[blobName] = bytes.Clone(data)
	c.ContentTypes[blobName] = contentType

	if c.logger != nil {
		c.logger.Info("mock: report uploaded",
			zap.String("blob_name", blobName),
			zap.Int("size_bytes", len(data)),
		)
	}

	return blobName, nil
}

// DownloadReport returns a stored report
func (c *MockBlobStorageClient) DownloadReport(ctx context.Context, blobName string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, exists := c.Storage[blobName]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, blobName)
	}

	return bytes.Clone(data), nil
}

// DeleteReport removes a stored report
func (c *MockBlobStorageClient) DeleteReport(ctx context.Context, blobName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.Storage[blobName]; !exists {
		return fmt.Errorf("%w: %s", ErrReportNotFound, blobName)
	}
	delete(c.Storage, blobName)
	delete(c.ContentTypes, blobName)

	return nil
}

// Clear removes all data from in-memory storage
func (c *MockBlobStorageClient) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Storage = make(map[string][]byte)
	c.ContentTypes = make(map[string]string)
}

// ListBlobs returns all blob names in storage, sorted
func (c *MockBlobStorageClient) ListBlobs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	blobs := make([]string, 0, len(c.Storage))
	for name := range c.Storage {
		blobs = append(blobs, name)
	}
	sort.Strings(blobs)

	return blobs
}
