package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hiredesk/hiredesk/internal/infrastructure/logging"
)

// S3Config holds the bucket settings for snapshot uploads.
type S3Config struct {
	Bucket string
	Region string
	Prefix string
}

// SnapshotStore writes warehouse snapshots to S3.
// each snapshot is a single object, so consumers never see a partial export.
type SnapshotStore struct {
	client *s3.Client
	bucket string
	prefix string
	logger *logging.Logger
}

// NewSnapshotStore creates a SnapshotStore from the config.
// returns nil if the bucket is empty (export disabled).
func NewSnapshotStore(ctx context.Context, cfg S3Config, logger *logging.Logger) (*SnapshotStore, error) {
	if cfg.Bucket == "" {
		logger.Info("warehouse export disabled: no WAREHOUSE_BUCKET configured")
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return &SnapshotStore{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: logger.WithComponent("snapshot_store"),
	}, nil
}

// PutSnapshot uploads one snapshot under the configured prefix.
func (s *SnapshotStore) PutSnapshot(ctx context.Context, key string, body []byte) error {
	fullKey := path.Join(s.prefix, key)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(fullKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("uploading snapshot %s: %w", fullKey, err)
	}

	s.logger.Info("snapshot uploaded", "key", fullKey, "bytes", len(body))
	return nil
}
