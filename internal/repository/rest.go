package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/vcscsvcscs/vitals-tracker/internal/vitals"
	"github.com/vcscsvcscs/vitals-tracker/pkg/model"
	"go.uber.org/zap"
)

const maxListingBytes = 16 << 20

// RESTStore talks to a REST document endpoint where GET lists every
// submission keyed by id and POST appends one.
type RESTStore struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewRESTStore creates a new RESTStore. A nil client uses http.DefaultClient.
func NewRESTStore(url string, client *http.Client, logger *zap.Logger) *RESTStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &RESTStore{
		url:    url,
		client: client,
		logger: logger,
	}
}

type appendResponse struct {
	Name string `json:"name"`
}

// List fetches the whole collection. A null body is an empty collection.
func (s *RESTStore) List(ctx context.Context) (raw vitals.RawCollection, err error) {
	defer func() { observe(BackendREST, "list", err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create list request: %w", err)
	}

	body, err := s.do(req)
	if err != nil {
		s.logger.Error("failed to list vital signs", zap.Error(err), zap.String("url", s.url))
		return nil, fmt.Errorf("failed to list vital signs: %w: %w", ErrStoreUnavailable, err)
	}

	raw, err = vitals.ParseCollection(body)
	if err != nil {
		s.logger.Error("failed to decode vital signs listing", zap.Error(err), zap.Int("bytes", len(body)))
		return nil, fmt.Errorf("failed to list vital signs: %w: %w", ErrStoreUnavailable, err)
	}

	s.logger.Debug("listed vital signs", zap.Int("entries", len(raw)))
	return raw, nil
}

// Append posts one submission and returns the key assigned by the store
func (s *RESTStore) Append(ctx context.Context, doc model.VitalSignsDocument) (key string, err error) {
	defer func() { observe(BackendREST, "append", err) }()

	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal vital signs: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create append request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := s.do(req)
	if err != nil {
		s.logger.Error("failed to append vital signs", zap.Error(err), zap.String("url", s.url))
		return "", fmt.Errorf("failed to append vital signs: %w: %w", ErrStoreUnavailable, err)
	}

	var resp appendResponse
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &resp); err != nil {
			s.logger.Warn("store returned an unreadable append response", zap.Error(err))
		}
	}

	s.logger.Info("vital signs appended", zap.String("key", resp.Name))
	return resp.Name, nil
}

func (s *RESTStore) do(req *http.Request) ([]byte, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxListingBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
