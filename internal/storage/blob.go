package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"temple-portal/internal/config"
)

// BlobStore uploads a blob and returns its public URL. Image storage
// mechanics beyond that are the provider's business.
type BlobStore interface {
	Upload(ctx context.Context, path string, content io.Reader, contentType string) (string, error)
}

// HTTPBlobStore uploads to an object-storage HTTP API (Supabase-style
// bucket endpoints) using a service key.
type HTTPBlobStore struct {
	cfg    config.StorageConfig
	client *http.Client
}

func NewHTTPBlobStore(cfg config.StorageConfig, client *http.Client) *HTTPBlobStore {
	return &HTTPBlobStore{cfg: cfg, client: client}
}

func (s *HTTPBlobStore) Upload(ctx context.Context, path string, content io.Reader, contentType string) (string, error) {
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.cfg.BaseURL, s.cfg.Bucket, path)

	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, content)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.ServiceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("blob upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("blob upload failed, status %d: %s", resp.StatusCode, string(body))
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.cfg.BaseURL, s.cfg.Bucket, path), nil
}
