package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	blobpkg "github.com/tourkita/admin-backend/internal/blob"
	bloblocal "github.com/tourkita/admin-backend/internal/blob/local"
	blobs3 "github.com/tourkita/admin-backend/internal/blob/s3"
	"github.com/tourkita/admin-backend/internal/config"
)

// NewBlobStore returns a blob.Store for the configured driver.
func NewBlobStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (blobpkg.Store, error) {
	switch cfg.BlobDriver {
	case "local":
		return bloblocal.New(cfg.BlobLocalPath, cfg.BlobLocalBaseURL)
	case "s3":
		return blobs3.New(ctx, blobs3.Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown BLOB_DRIVER: %s", cfg.BlobDriver)
	}
}
