package azure

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"go.uber.org/zap"
)

// ReportPrefix is the virtual folder all generated reports are stored under
const ReportPrefix = "reports/"

// BlobConfig configures the report storage client
type BlobConfig struct {
	AccountName string
	AccountKey  string
	Container   string
	// ServiceURL overrides https://<account>.blob.core.windows.net/, e.g. for Azurite
	ServiceURL string
}

// BlobStorageClient wraps Azure Blob Storage SDK for report files
type BlobStorageClient struct {
	client        *azblob.Client
	containerName string
	logger        *zap.Logger
}

// NewBlobStorageClient creates a new Azure Blob Storage client
func NewBlobStorageClient(cfg BlobConfig, logger *zap.Logger) (*BlobStorageClient, error) {
	if cfg.AccountName == "" || cfg.AccountKey == "" || cfg.Container == "" {
		return nil, fmt.Errorf("accountName, accountKey, and containerName are required")
	}

	serviceURL := cfg.ServiceURL
	if serviceURL == "" {
		serviceURL = fmt.Sprintf("https://%s.blob.core.windows.net/", cfg.AccountName)
	}

	credential, err := azblob.NewSharedKeyCredential(cfg.AccountName, cfg.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared key credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &BlobStorageClient{
		client:        client,
		containerName: cfg.Container,
		logger:        logger,
	}, nil
}

// UploadReport stores a report file and returns its blob name
func (c *BlobStorageClient) UploadReport(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename is required")
	}

	blobName := ReportPrefix + path.Base(filename)
	c.logger.Info("uploading report to blob storage",
		zap.String("blob_name", blobName),
		zap.Int("size_bytes", len(data)),
	)

	blobClient := c.client.ServiceClient().NewContainerClient(c.containerName).NewBlockBlobClient(blobName)

	_, err := blobClient.UploadBuffer(ctx, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: toPtr(contentType)},
		Metadata: map[string]*string{
			"contenttype": toPtr(contentType),
		},
	})
	if err != nil {
		c.logger.Error("failed to upload report",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to upload report: %w", err)
	}

	c.logger.Info("report uploaded successfully", zap.String("blob_name", blobName))
	return blobName, nil
}

// DownloadReport reads a stored report back
func (c *BlobStorageClient) DownloadReport(ctx context.Context, blobName string) ([]byte, error) {
	blobClient := c.client.ServiceClient().NewContainerClient(c.containerName).NewBlockBlobClient(blobName)

	downloadResponse, err := blobClient.DownloadStream(ctx, nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, blobName)
	}
	if err != nil {
		c.logger.Error("failed to download report",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to download report: %w", err)
	}
	defer downloadResponse.Body.Close()

	data, err := io.ReadAll(downloadResponse.Body)
	if err != nil {
		c.logger.Error("failed to read report data",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to read report data: %w", err)
	}

	c.logger.Info("report downloaded",
		zap.String("blob_name", blobName),
		zap.Int("size_bytes", len(data)),
	)
	return data, nil
}

// DeleteReport removes a stored report
func (c *BlobStorageClient) DeleteReport(ctx context.Context, blobName string) error {
	_, err := c.client.DeleteBlob(ctx, c.containerName, blobName, nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return fmt.Errorf("%w: %s", ErrReportNotFound, blobName)
	}
	if err != nil {
		c.logger.Error("failed to delete report",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return fmt.Errorf("failed to delete report: %w", err)
	}

	c.logger.Info("report deleted", zap.String("blob_name", blobName))
	return nil
}

func toPtr[T any](v T) *T {
	return &v
}
