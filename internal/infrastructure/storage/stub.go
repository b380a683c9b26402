package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	appcatalog "github.com/mjpos/backend/internal/application/catalog"
)

// StubObjectStorage satisfies the storage contract without any backend. Used
// when storage is disabled in config; uploads succeed and return a fake URL.
type StubObjectStorage struct {
	BaseURL string
}

var _ appcatalog.ObjectStorageService = (*StubObjectStorage)(nil)

func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{BaseURL: "https://storage.example.com"}
}

func (s *StubObjectStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	_, _ = io.Copy(io.Discard, body)
	return fmt.Sprintf("%s/%s", s.BaseURL, key), nil
}

func (s *StubObjectStorage) Delete(ctx context.Context, key string) error {
	return nil
}

func (s *StubObjectStorage) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("%s/%s?expires=%d", s.BaseURL, key, int(expiry.Seconds())), nil
}
