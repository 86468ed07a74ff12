// Package storage keeps archived exports in object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	appledger "github.com/debtbook/backend/internal/application/ledger"
	"github.com/debtbook/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ appledger.ExportArchive = (*S3ExportArchive)(nil)

// ErrKeyRequired is returned for operations on an empty object key
var ErrKeyRequired = errors.New("storage key is required")

const defaultPresignExpiration = 15 * time.Minute

// S3ExportArchive stores exports in an S3-compatible bucket (AWS S3, MinIO,
// RustFS) and signs time-limited download links to them
type S3ExportArchive struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	presignExpiration time.Duration
	logger            *zap.Logger
}

// S3Option configures S3ExportArchive
type S3Option func(*S3ExportArchive)

// WithLogger sets the archive logger
func WithLogger(logger *zap.Logger) S3Option {
	return func(s *S3ExportArchive) {
		s.logger = logger
	}
}

// NewS3ExportArchive creates an archive for the configured bucket. It does
// not contact the server; call EnsureBucket at startup for that.
func NewS3ExportArchive(cfg *config.StorageConfig, opts ...S3Option) (*S3ExportArchive, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	var endpoint string
	if cfg.Endpoint != "" {
		endpoint = cfg.Endpoint
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			if cfg.UseSSL {
				endpoint = "https://" + endpoint
			} else {
				endpoint = "http://" + endpoint
			}
		}
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	a := &S3ExportArchive{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		presignExpiration: cfg.PresignExpiration,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.presignExpiration <= 0 {
		a.presignExpiration = defaultPresignExpiration
	}
	return a, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (a *S3ExportArchive) EnsureBucket(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(a.bucket)})
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	a.logger.Info("Creating export bucket", zap.String("bucket", a.bucket))
	_, err = a.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(a.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Ping checks that the bucket is reachable
func (a *S3ExportArchive) Ping(ctx context.Context) error {
	if _, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(a.bucket)}); err != nil {
		return fmt.Errorf("export bucket unreachable: %w", err)
	}
	return nil
}

// Put uploads data under key
func (a *S3ExportArchive) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return ErrKeyRequired
	}
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	a.logger.Debug("Export uploaded", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// DownloadURL signs a GET link to key. A non-positive expiresIn uses the
// configured default.
func (a *S3ExportArchive) DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrKeyRequired
	}
	if expiresIn <= 0 {
		expiresIn = a.presignExpiration
	}
	req, err := a.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate download URL: %w", err)
	}
	return req.URL, time.Now().Add(expiresIn), nil
}

// Bucket returns the bucket name
func (a *S3ExportArchive) Bucket() string {
	return a.bucket
}
