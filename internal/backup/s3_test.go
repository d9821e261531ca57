package backup

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/vault"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func stubSeams(t *testing.T) *[]*s3.PutObjectInput {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewClient := newS3ClientFromConfig
	origPut := putObject
	origNow := nowFn
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewClient
		putObject = origPut
		nowFn = origNow
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	nowFn = func() time.Time { return time.Unix(1748779200, 0) }

	var puts []*s3.PutObjectInput
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		puts = append(puts, in)
		return &s3.PutObjectOutput{}, nil
	}
	return &puts
}

func TestNewUploader_RequiresBucket(t *testing.T) {
	_, err := NewUploader(Config{}, testLogger())
	require.Error(t, err)
}

func TestUpload_PutsSnapshotJSON(t *testing.T) {
	puts := stubSeams(t)

	u, err := NewUploader(Config{Region: "us-east-1", Bucket: "vault-backups"}, testLogger())
	require.NoError(t, err)

	snap := vault.Snapshot{
		UserID:     "u1",
		Passwords:  []vault.Record{{ID: "p1", Website: "a.com", Username: "u", Password: "secret", CreatedAt: "2025-06-01T12:00:00Z"}},
		ExportDate: "2025-06-01T12:00:00Z",
	}

	key, err := u.Upload(context.Background(), snap)
	require.NoError(t, err)
	require.Equal(t, "exports/u1/1748779200.json", key)

	require.Len(t, *puts, 1)
	in := (*puts)[0]
	require.Equal(t, "vault-backups", aws.ToString(in.Bucket))
	require.Equal(t, key, aws.ToString(in.Key))
	require.Equal(t, "application/json", aws.ToString(in.ContentType))

	body, err := io.ReadAll(in.Body)
	require.NoError(t, err)
	var got vault.Snapshot
	require.NoError(t, json.Unmarshal(body, &got))
	require.Equal(t, snap, got)
}

func TestUpload_PutFailure(t *testing.T) {
	stubSeams(t)

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return nil, errors.New("access denied")
	}

	u, err := NewUploader(Config{Bucket: "b"}, testLogger())
	require.NoError(t, err)

	_, err = u.Upload(context.Background(), vault.Snapshot{UserID: "u1"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "uploading snapshot")
}
