// Package backup uploads export snapshots to S3-compatible object storage
// (AWS S3 or a MinIO-style endpoint with static credentials).
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/vault"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}

	nowFn = time.Now
)

// Config holds S3 settings. Endpoint is optional; when set it points at an
// S3-compatible service (e.g. MinIO) instead of AWS.
type Config struct {
	Region    string
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
}

type Uploader struct {
	config Config
	log    logging.Logger
}

func NewUploader(config Config, log logging.Logger) (*Uploader, error) {
	if config.Bucket == "" {
		return nil, fmt.Errorf("backup: bucket is required")
	}
	return &Uploader{config: config, log: log}, nil
}

func (u *Uploader) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(u.config.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.config.AccessKey,
			u.config.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if u.config.Endpoint != "" {
			o.BaseEndpoint = aws.String(u.config.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Upload stores the snapshot as a JSON object under
// exports/{userId}/{timestamp}.json and returns the object key.
func (u *Uploader) Upload(ctx context.Context, snap vault.Snapshot) (string, error) {
	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}

	client, err := u.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 client: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%d.json", snap.UserID, nowFn().UTC().Unix())

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("uploading snapshot: %w", err)
	}

	u.log.Info(ctx, "snapshot uploaded", "bucket", u.config.Bucket, "key", key, "records", len(snap.Passwords))
	return key, nil
}
