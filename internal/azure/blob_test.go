package azure

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAccountKey = "dGVzdGtleQ==" // base64 "testkey"

func TestNewBlobStorageClient(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name    string
		cfg     BlobConfig
		wantErr bool
	}{
		{
			name:    "valid configuration",
			cfg:     BlobConfig{AccountName: "testaccount", AccountKey: testAccountKey, Container: "test-container"},
			wantErr: false,
		},
		{
			name:    "missing account name",
			cfg:     BlobConfig{AccountKey: testAccountKey, Container: "test-container"},
			wantErr: true,
		},
		{
			name:    "missing account key",
			cfg:     BlobConfig{AccountName: "testaccount", Container: "test-container"},
			wantErr: true,
		},
		{
			name:    "missing container name",
			cfg:     BlobConfig{AccountName: "testaccount", AccountKey: testAccountKey},
			wantErr: true,
		},
		{
			name:    "invalid account key format",
			cfg:     BlobConfig{AccountName: "testaccount", AccountKey: "invalid-key-format", Container: "test-container"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewBlobStorageClient(tt.cfg, logger)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Container, client.containerName)
		})
	}
}

func TestBlobStorageClient_UploadReport(t *testing.T) {
	var (
		mu          sync.Mutex
		gotPath     string
		gotMethod   string
		gotBody     string
		contentType string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotPath, gotMethod, gotBody = r.URL.Path, r.Method, string(body)
		contentType = r.Header.Get("x-ms-blob-content-type")
		mu.Unlock()
		w.Header().Set("ETag", `"0x1"`)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client, err := NewBlobStorageClient(BlobConfig{
		AccountName: "testaccount",
		AccountKey:  testAccountKey,
		Container:   "vitals",
		ServiceURL:  srv.URL + "/",
	}, zap.NewNop())
	require.NoError(t, err)

	name, err := client.UploadReport(context.Background(), "vitals-7days.csv", "text/csv", []byte("a,b\n"))

	require.NoError(t, err)
	assert.Equal(t, "reports/vitals-7days.csv", name)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/vitals/reports/vitals-7days.csv", gotPath)
	assert.Equal(t, "a,b\n", gotBody)
	assert.Equal(t, "text/csv", contentType)
}

func TestBlobStorageClient_UploadReport_RequiresFilename(t *testing.T) {
	client, err := NewBlobStorageClient(BlobConfig{AccountName: "testaccount", AccountKey: testAccountKey, Container: "c"}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.UploadReport(context.Background(), "", "application/pdf", []byte("pdf"))
	assert.Error(t, err)
}

func TestBlobStorageClient_DownloadReport_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-ms-error-code", "BlobNotFound")
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := NewBlobStorageClient(BlobConfig{
		AccountName: "testaccount",
		AccountKey:  testAccountKey,
		Container:   "vitals",
		ServiceURL:  srv.URL + "/",
	}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.DownloadReport(context.Background(), "reports/missing.pdf")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestBlobStorageClient_DeleteReport(t *testing.T) {
	var (
		mu        sync.Mutex
		gotPath   string
		gotMethod string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotPath, gotMethod = r.URL.Path, r.Method
		mu.Unlock()
		if r.URL.Path == "/vitals/reports/missing.csv" {
			w.Header().Set("x-ms-error-code", "BlobNotFound")
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client, err := NewBlobStorageClient(BlobConfig{
		AccountName: "testaccount",
		AccountKey:  testAccountKey,
		Container:   "vitals",
		ServiceURL:  srv.URL + "/",
	}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, client.DeleteReport(context.Background(), "reports/vitals-7days.csv"))
	mu.Lock()
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/vitals/reports/vitals-7days.csv", gotPath)
	mu.Unlock()

	err = client.DeleteReport(context.Background(), "reports/missing.csv")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestMockBlobStorageClient_RoundTrip(t *testing.T) {
	mock := NewMockBlobStorageClient(zap.NewNop())

	name, err := mock.UploadReport(context.Background(), "nested/report.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "reports/report.pdf", name)

	data, err := mock.DownloadReport(context.Background(), name)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), data)
	assert.Equal(t, []string{"reports/report.pdf"}, mock.ListBlobs())

	require.NoError(t, mock.DeleteReport(context.Background(), name))
	assert.Empty(t, mock.ListBlobs())
	assert.ErrorIs(t, mock.DeleteReport(context.Background(), name), ErrReportNotFound)

	mock.FailContentType = "application/pdf"
	_, err = mock.UploadReport(context.Background(), "x.pdf", "application/pdf", nil)
	assert.Error(t, err)
	_, err = mock.UploadReport(context.Background(), "x.csv", "text/csv", nil)
	assert.NoError(t, err)

	mock.FailUploads = true
	_, err = mock.UploadReport(context.Background(), "x.pdf", "application/pdf", nil)
	assert.Error(t, err)

	mock.Clear()
	assert.Empty(t, mock.ListBlobs())
}
