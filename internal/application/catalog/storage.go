package catalog

import (
	"context"
	"io"
	"time"
)

// ObjectStorageService stores item photos. Implemented by the S3 adapter in
// the infrastructure layer.
type ObjectStorageService interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
