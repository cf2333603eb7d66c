package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// expiresAtMetadataKey is the S3 object metadata key carrying the snapshot
// expiry. S3 lowercases user metadata keys.
const expiresAtMetadataKey = "reval-expires-at"

// S3Store stores snapshots in S3-compatible object storage.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	client := s3.NewFromConfig(cfg)
//	store := persist.NewS3Store(client, "my-bucket", "snapshots/")
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Store creates a new S3 snapshot store.
//
// Parameters:
//   - client: AWS S3 client from aws-sdk-go-v2
//   - bucket: S3 bucket name
//   - prefix: key prefix for snapshots (e.g., "snapshots/")
func NewS3Store(client *s3.Client, bucket, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Save uploads a snapshot to S3. Expiry is carried in object metadata and
// enforced on Load; bucket lifecycle rules can reap expired objects.
func (s *S3Store) Save(ctx context.Context, key string, data []byte, expiresAt time.Time) error {
	metadata := map[string]string{}
	if !expiresAt.IsZero() {
		metadata[expiresAtMetadataKey] = expiresAt.UTC().Format(time.RFC3339)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.prefix + key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata:    metadata,
	})
	if err != nil {
		return fmt.Errorf("persist: s3 upload failed: %w", err)
	}
	return nil
}

// Load retrieves a snapshot from S3.
// Returns (nil, nil) when the object is missing or past its recorded expiry.
func (s *S3Store) Load(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, nil
		}
		return nil, fmt.Errorf("persist: s3 get failed: %w", err)
	}
	defer result.Body.Close()

	if raw, ok := result.Metadata[expiresAtMetadataKey]; ok {
		expiresAt, perr := time.Parse(time.RFC3339, raw)
		if perr == nil && time.Now().After(expiresAt) {
			return nil, nil
		}
	}

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("persist: s3 read failed: %w", err)
	}
	return data, nil
}

// Delete removes a snapshot from S3.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		return fmt.Errorf("persist: s3 delete failed: %w", err)
	}
	return nil
}

// Close implements Store. The S3 client is owned by the caller.
func (s *S3Store) Close() error {
	return nil
}

var _ Store = (*S3Store)(nil)
