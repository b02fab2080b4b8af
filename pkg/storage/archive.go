package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bottega-backend/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ConfigArchive writes retired shipping configurations to an S3-compatible
// bucket as JSON snapshots. The archive is an audit trail beside the
// soft-retired database rows; losing a snapshot never blocks a replace.
type ConfigArchive struct {
	client       *s3.Client
	bucketName   string
	writeTimeout time.Duration
}

// NewConfigArchive connects to an S3-compatible endpoint (R2, MinIO, S3
// itself via an empty endpoint) with static credentials.
func NewConfigArchive(ctx context.Context, endpoint, accessKey, secretKey, region, bucketName string, writeTimeout time.Duration) (*ConfigArchive, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		config.WithRegion(region),
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &ConfigArchive{
		client:       client,
		bucketName:   bucketName,
		writeTimeout: writeTimeout,
	}, nil
}

// ArchiveConfiguration stores a retired configuration under
// configs/<id>.json. Keys embed the configuration ID, so re-archiving the
// same version is idempotent.
func (a *ConfigArchive) ArchiveConfiguration(ctx context.Context, cfg *domain.ShippingConfiguration) (string, error) {
	body, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode configuration %s: %w", cfg.ID, err)
	}

	key := fmt.Sprintf("configs/%s.json", cfg.ID)

	writeCtx, cancel := context.WithTimeout(ctx, a.writeTimeout)
	defer cancel()

	_, err = a.client.PutObject(writeCtx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive configuration %s: %w", cfg.ID, err)
	}

	return key, nil
}
