// Package registry versions trained model artifacts in S3-compatible object
// storage. Keys follow models/<name>/v_<timestamp>/model.bin; the newest
// version wins.
package registry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sethvargo/go-retry"
)

const (
	artifactFile = "model.bin"
	versionStamp = "20060102_150405"
	partSize     = 10 * 1024 * 1024
)

// ErrNoVersions is returned when the registry holds no artifact for the
// configured model name.
var ErrNoVersions = errors.New("no model versions in registry")

type Config struct {
	// Endpoint is optional; set it for MinIO or another S3-compatible store.
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// ModelName scopes the version keys, e.g. "flight-delay".
	ModelName string
}

type Registry struct {
	client *s3.Client
	bucket string
	prefix string
}

// New builds a registry client. Static credentials are used when provided;
// otherwise the ambient AWS configuration (env, shared config, instance
// role) applies.
func New(ctx context.Context, cfg Config) (*Registry, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("registry bucket is required")
	}
	if cfg.ModelName == "" {
		return nil, errors.New("registry model name is required")
	}

	var client *s3.Client
	if cfg.AccessKey != "" {
		client = s3.NewFromConfig(aws.Config{Region: cfg.Region}, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
				o.UsePathStyle = true
			}
			o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		})
	} else {
		sdkConfig, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		client = s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
				o.UsePathStyle = true
			}
		})
	}

	return &Registry{
		client: client,
		bucket: cfg.Bucket,
		prefix: "models/" + cfg.ModelName + "/",
	}, nil
}

// Upload stores data as a new artifact version and returns its key.
func (r *Registry) Upload(ctx context.Context, data []byte) (string, error) {
	key := fmt.Sprintf("%sv_%s/%s", r.prefix, time.Now().UTC().Format(versionStamp), artifactFile)
	uploader := manager.NewUploader(r.client, func(u *manager.Uploader) {
		u.PartSize = partSize
	})
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("upload artifact: %w", err)
	}
	return key, nil
}

// LatestKey lists the version directories and returns the artifact key of
// the newest one. The timestamp format sorts lexicographically.
func (r *Registry) LatestKey(ctx context.Context) (string, error) {
	paginator := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(r.prefix),
	})

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("list artifacts: %w", err)
		}
		for _, object := range page.Contents {
			key := aws.ToString(object.Key)
			if strings.HasSuffix(key, "/"+artifactFile) {
				keys = append(keys, key)
			}
		}
	}
	if len(keys) == 0 {
		return "", ErrNoVersions
	}
	sort.Strings(keys)
	return keys[len(keys)-1], nil
}

// Download fetches an artifact, retrying transient failures with Fibonacci
// backoff.
func (r *Registry) Download(ctx context.Context, key string) ([]byte, error) {
	downloader := manager.NewDownloader(r.client, func(d *manager.Downloader) {
		d.PartSize = partSize
	})

	var payload []byte
	backoff := retry.NewFibonacci(1 * time.Second)
	err := retry.Do(ctx, retry.WithMaxRetries(3, backoff), func(ctx context.Context) error {
		buffer := manager.NewWriteAtBuffer([]byte{})
		if _, err := downloader.Download(ctx, buffer, &s3.GetObjectInput{
			Bucket: aws.String(r.bucket),
			Key:    aws.String(key),
		}); err != nil {
			return retry.RetryableError(err)
		}
		payload = buffer.Bytes()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("download artifact %s: %w", key, err)
	}
	return payload, nil
}

// DownloadLatest resolves the newest version and fetches it.
func (r *Registry) DownloadLatest(ctx context.Context) ([]byte, string, error) {
	key, err := r.LatestKey(ctx)
	if err != nil {
		return nil, "", err
	}
	payload, err := r.Download(ctx, key)
	if err != nil {
		return nil, "", err
	}
	return payload, key, nil
}
