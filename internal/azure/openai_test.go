package azure

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const completionReply = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1718353800,
	"model": "gpt-4o",
	"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Rest and hydrate."}}],
	"usage": {"prompt_tokens": 10, "completion_tokens": 4, "total_tokens": 14}
}`

func TestNewOpenAIClient(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name    string
		cfg     OpenAIConfig
		wantErr bool
	}{
		{
			name:    "valid configuration",
			cfg:     OpenAIConfig{Endpoint: "https://test.openai.azure.com/", APIKey: "test-key", Deployment: "gpt-4o"},
			wantErr: false,
		},
		{
			name:    "missing endpoint",
			cfg:     OpenAIConfig{APIKey: "test-key", Deployment: "gpt-4o"},
			wantErr: true,
		},
		{
			name:    "missing api key",
			cfg:     OpenAIConfig{Endpoint: "https://test.openai.azure.com/", Deployment: "gpt-4o"},
			wantErr: true,
		},
		{
			name:    "missing deployment",
			cfg:     OpenAIConfig{Endpoint: "https://test.openai.azure.com/", APIKey: "test-key"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewOpenAIClient(tt.cfg, logger)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Deployment, client.deployment)
			assert.Equal(t, 1, client.maxAttempts)
			assert.Equal(t, time.Second, client.baseDelay)
		})
	}
}

func TestOpenAIClient_isRetryable(t *testing.T) {
	client := &OpenAIClient{logger: zap.NewNop(), maxAttempts: 3, baseDelay: time.Second}
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want bool
	}{
		{"nil error", context.Background(), nil, false},
		{"authentication error", context.Background(), errors.New("authentication failed"), false},
		{"401 error", context.Background(), errors.New("status code 401"), false},
		{"bad request error", context.Background(), errors.New("bad request"), false},
		{"rate limit error", context.Background(), errors.New("rate limit exceeded"), true},
		{"network error", context.Background(), errors.New("network connection failed"), true},
		{"cancelled context", cancelled, errors.New("network connection failed"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, client.isRetryable(tt.ctx, tt.err))
		})
	}
}

func TestOpenAIClient_Generate(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.True(t, strings.Contains(r.URL.Path, "/deployments/gpt-4o/chat/completions"), r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "Is 150/95 high?")

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionReply)
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(OpenAIConfig{Endpoint: srv.URL, APIKey: "k", Deployment: "gpt-4o"}, zap.NewNop())
	require.NoError(t, err)

	text, err := client.Generate(context.Background(), "Is 150/95 high?")

	require.NoError(t, err)
	assert.Equal(t, "Rest and hydrate.", text)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOpenAIClient_Generate_SingleAttemptByDefault(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"boom","type":"server_error"}}`)
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(OpenAIConfig{Endpoint: srv.URL, APIKey: "k", Deployment: "gpt-4o"}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "hello")

	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOpenAIClient_Generate_ContextCancellation(t *testing.T) {
	client, err := NewOpenAIClient(OpenAIConfig{Endpoint: "https://test.openai.azure.com/", APIKey: "k", Deployment: "gpt-4o"}, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.Generate(ctx, "test message")
	assert.Error(t, err)
}
