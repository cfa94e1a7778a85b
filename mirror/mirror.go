// Package mirror archives sent documents to S3-compatible storage.
//
// Archival is a best-effort post-send hook: the upload path never fails
// because a mirror write failed.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/botpost/courier/iox"
)

// Config holds configuration for the S3 mirror backend.
type Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string
	// Prefix is the key prefix within the bucket (optional).
	Prefix string
	// Region is the AWS region (optional, uses default chain if empty).
	Region string
	// Endpoint is a custom S3 endpoint URL for S3-compatible providers
	// (e.g. Cloudflare R2, MinIO). Empty uses the default AWS endpoint.
	Endpoint string
	// UsePathStyle forces path-style addressing (bucket in path, not
	// subdomain). Required by most S3-compatible providers.
	UsePathStyle bool
}

// Validate checks that required mirror configuration is present.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("mirror bucket is required")
	}
	return nil
}

// Enabled reports whether a mirror is configured at all.
func (c *Config) Enabled() bool {
	return c.Bucket != ""
}

// Archiver copies sent documents into an S3 bucket.
type Archiver struct {
	client *s3.Client
	cfg    Config
}

// putObjectAPI is the subset of the S3 client the archiver uses.
// Extracted for test doubles.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// New creates an Archiver using the AWS SDK default credential chain
// (env vars, shared config, IAM role).
func New(ctx context.Context, cfg Config) (*Archiver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return &Archiver{
		client: s3.NewFromConfig(awsConfig, s3Opts...),
		cfg:    cfg,
	}, nil
}

// Archive streams the local file to the bucket under the configured
// prefix. The object body is the open file handle, so memory use does
// not scale with file size.
func (a *Archiver) Archive(ctx context.Context, localPath, remoteName string) error {
	return putObject(ctx, a.client, a.cfg, localPath, remoteName)
}

// putObject is the transport-independent core of Archive.
func putObject(ctx context.Context, api putObjectAPI, cfg Config, localPath, remoteName string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("mirror open %s: %w", localPath, err)
	}
	defer iox.DiscardClose(f)

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("mirror stat %s: %w", localPath, err)
	}

	key := ObjectKey(cfg.Prefix, remoteName)
	size := info.Size()
	_, err = api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &cfg.Bucket,
		Key:           &key,
		Body:          f,
		ContentLength: &size,
	})
	if err != nil {
		return fmt.Errorf("mirror put %s: %w", key, err)
	}
	return nil
}

// ObjectKey joins the configured prefix and the remote file name.
func ObjectKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return strings.TrimSuffix(prefix, "/") + "/" + name
}
