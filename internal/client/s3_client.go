package client

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appConfig "synthdata-wizard-api/internal/config"
)

// DefaultPresignTTL is used when the archive is configured without a TTL
const DefaultPresignTTL = 15 * time.Minute

// ExportArchive stores generated export files for later download
type ExportArchive interface {
	GenerateExportKey(sessionID, filename string, at time.Time) string
	UploadExport(ctx context.Context, key string, payload io.Reader, contentType string) error
	PresignDownload(ctx context.Context, key, filename string) (string, error)
	DeleteExport(ctx context.Context, key string) error
}

// S3Client archives exports in an S3 (or MinIO) bucket
type S3Client struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	region        string
	endpoint      string
	presignTTL    time.Duration
}

// NewS3Client creates a new S3 client
func NewS3Client(cfg *appConfig.S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("S3 region is required")
	}
	if cfg.Endpoint != "" && (cfg.AccessKey == "" || cfg.SecretKey == "") {
		return nil, fmt.Errorf("access key and secret key are required for a custom endpoint")
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	// Without explicit keys the default chain applies (IAM role, ~/.aws)
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO
		}
	})

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = DefaultPresignTTL
	}

	return &S3Client{
		client:        s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		endpoint:      cfg.Endpoint,
		presignTTL:    ttl,
	}, nil
}

// GenerateExportKey builds a unique object key
// Format: exports/{year}/{month}/{sessionId}/{uuid}_{filename}
func (c *S3Client) GenerateExportKey(sessionID, filename string, at time.Time) string {
	return exportKey(sessionID, filename, at)
}

func exportKey(sessionID, filename string, at time.Time) string {
	at = at.UTC()
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		name = "export"
	}
	return fmt.Sprintf("exports/%s/%s/%s/%s_%s",
		at.Format("2006"), at.Format("01"), sessionID, uuid.New().String(), name)
}

// UploadExport stores a generated file
func (c *S3Client) UploadExport(ctx context.Context, key string, payload io.Reader, contentType string) error {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        payload,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload export to S3: %w", err)
	}
	return nil
}

// PresignDownload returns a time limited GET URL that downloads the object
// under filename
func (c *S3Client) PresignDownload(ctx context.Context, key, filename string) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}
	if filename != "" {
		input.ResponseContentDisposition = aws.String(
			mime.FormatMediaType("attachment", map[string]string{"filename": filename}),
		)
	}

	presigned, err := c.presignClient.PresignGetObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = c.presignTTL
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	finalURL := presigned.URL

	// Inside docker-compose MinIO is reachable as minio:9000, browsers need the public host
	if c.endpoint != "" {
		const internalMinIOHost = "minio:9000"
		externalHost := strings.TrimPrefix(strings.TrimPrefix(c.endpoint, "http://"), "https://")
		finalURL = strings.Replace(finalURL, internalMinIOHost, externalHost, 1)
	}

	return finalURL, nil
}

// DeleteExport removes an archived export
func (c *S3Client) DeleteExport(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete export from S3: %w", err)
	}
	return nil
}

// ObjectURL returns the unsigned URL of an object
func (c *S3Client) ObjectURL(key string) string {
	if c.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(c.endpoint, "/"), c.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}
