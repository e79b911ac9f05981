package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// s3Store implements Store on AWS S3. Root-relative public paths map onto
// object keys without the leading slash, so the stored path in the product
// record stays the same regardless of backend.
type s3Store struct {
	client *s3.Client
	bucket string
	logger zerolog.Logger
}

// NewS3Store creates an S3-backed blob store.
func NewS3Store(ctx context.Context, bucket, region string, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("component", "s3-blob-store").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 blob store initialised")

	return &s3Store{
		client: client,
		bucket: bucket,
		logger: logger,
	}, nil
}

func objectKey(filePath string) string {
	return strings.TrimPrefix(filePath, "/")
}

// Write stores the content under the given path.
func (s *s3Store) Write(ctx context.Context, filePath string, content io.Reader) error {
	key := objectKey(filePath)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   content,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to put object to S3")
		return fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}

	s.logger.Debug().
		Str("bucket", s.bucket).
		Str("key", key).
		Msg("image object written to S3")

	return nil
}

// DeleteIfExists removes the object at the given path. S3 deletes are
// idempotent, so a missing object needs no special handling.
func (s *s3Store) DeleteIfExists(ctx context.Context, filePath string) error {
	if filePath == "" {
		return nil
	}

	key := objectKey(filePath)

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to delete object from S3")
		return fmt.Errorf("failed to delete object from S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}

	s.logger.Debug().
		Str("bucket", s.bucket).
		Str("key", key).
		Msg("image object deleted from S3")

	return nil
}

// Exists reports whether an object is stored under the given path.
func (s *s3Store) Exists(ctx context.Context, filePath string) (bool, error) {
	key := objectKey(filePath)

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to head object in S3")
		return false, fmt.Errorf("failed to head object in S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}

	return true, nil
}
