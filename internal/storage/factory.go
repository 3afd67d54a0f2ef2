package storage

import (
	"context"
	"fmt"

	"github.com/palko-app/rentmanager/internal/common/config"
)

// NewStore creates a blob store based on configuration
func NewStore(ctx context.Context, cfg *config.BlobConfig) (Store, error) {
	switch cfg.Type {
	case "", "disk":
		path := cfg.Disk.Path
		if path == "" {
			path = "data/bills"
		}
		return NewDiskStore(path)
	case "s3":
		return NewS3Store(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported blob store type: %s", cfg.Type)
	}
}
