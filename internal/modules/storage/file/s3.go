package file

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ministry-site/core/internal/config"
)

type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Backend stores objects in an S3-compatible bucket.
type S3Backend struct {
	client    s3API
	bucket    string
	prefix    string
	publicURL string
}

func NewS3Backend(cfg config.S3Config) (*S3Backend, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	region := strings.TrimSpace(cfg.Region)
	if bucket == "" || region == "" {
		return nil, fmt.Errorf("incomplete s3 config: bucket and region are required")
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	endpoint = strings.TrimSuffix(endpoint, "/")
	// custom endpoints (MinIO, R2) generally need path-style addressing
	pathStyle := cfg.PathStyle || endpoint != ""

	opts := s3.Options{
		Region:       region,
		UsePathStyle: pathStyle,
	}
	if cfg.AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
	}

	return &S3Backend{
		client:    s3.New(opts),
		bucket:    bucket,
		prefix:    strings.Trim(cfg.Prefix, "/"),
		publicURL: objectBaseURL(cfg.PublicURL, endpoint, bucket, region, pathStyle),
	}, nil
}

func objectBaseURL(publicURL, endpoint, bucket, region string, pathStyle bool) string {
	if v := strings.TrimRight(strings.TrimSpace(publicURL), "/"); v != "" {
		return v
	}
	if endpoint != "" {
		if pathStyle {
			return endpoint + "/" + bucket
		}
		scheme, host, _ := strings.Cut(endpoint, "://")
		return scheme + "://" + bucket + "." + host
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
}

func (b *S3Backend) Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error) {
	if b.prefix != "" {
		key = b.prefix + "/" + key
	}
	in := &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := b.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return b.publicURL + "/" + key, nil
}
