package infra_s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

var ErrObjectNotFound = errors.New("object not found")

// Storage archives replay documents in a single bucket.
type Storage struct {
	client *s3.Client
	logger *slog.Logger

	prefix     string
	bucketName string
}

type Option func(*Storage)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Storage) {
		s.logger = logger
	}
}

// New checks the bucket and creates it when missing.
func New(ctx context.Context, client *s3.Client, bucketName string, prefix string, opts ...Option) (*Storage, error) {
	storage := &Storage{
		client:     client,
		logger:     slog.Default(),
		prefix:     prefix,
		bucketName: bucketName,
	}
	for _, opt := range opts {
		opt(storage)
	}

	_, err := client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucketName),
	})
	if err == nil {
		storage.logger.Info("bucket exists", "bucket", bucketName)
		return storage, nil
	}

	var apiError smithy.APIError
	if !errors.As(err, &apiError) {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucketName, err)
	}
	if _, notFound := apiError.(*types.NotFound); !notFound {
		return nil, fmt.Errorf("no access to bucket %s: %w", bucketName, err)
	}

	if _, err := client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucketName),
	}); err != nil {
		return nil, fmt.Errorf("failed to create bucket %s: %w", bucketName, err)
	}
	storage.logger.Info("bucket created", "bucket", bucketName)

	return storage, nil
}

func (s *Storage) buildKey(paths ...string) string {
	var cleaned []string
	for _, p := range paths {
		clean := strings.ReplaceAll(p, "\\", "")
		clean = strings.ReplaceAll(clean, "/", "")
		if clean != "" {
			cleaned = append(cleaned, clean)
		}
	}
	return path.Join(cleaned...)
}

func (s *Storage) Save(ctx context.Context, name string, data []byte) (string, error) {
	key := s.buildKey(s.prefix, name)
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucketName,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		ACL:         types.ObjectCannedACLPrivate,
	}); err != nil {
		return "", fmt.Errorf("failed to save object to S3: %w", err)
	}
	s.logger.Debug("replay archived", "key", key, "bytes", len(data))
	return key, nil
}

func (s *Storage) Load(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucketName,
		Key:    &key,
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to load object from S3: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object content: %w", err)
	}
	return data, nil
}
