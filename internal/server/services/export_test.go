package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
	sc "github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/config"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/models"
)

func exportConfig() *sc.Config {
	return &sc.Config{
		S3Region:       "eu-central-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "listings",
	}
}

func stubAWS(t *testing.T) {
	t.Helper()
	origLoad, origNew, origPut := loadDefaultAWSConfig, newS3ClientFromConfig, putObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, putObject = origLoad, origNew, origPut
	})
}

func TestNewS3Exporter_DisabledWithoutBucket(t *testing.T) {
	c := exportConfig()
	c.S3Bucket = ""
	e, err := NewS3Exporter(context.Background(), c)
	require.NoError(t, err)
	require.Nil(t, e)
}

func TestNewS3Exporter_AppliesConfig(t *testing.T) {
	stubAWS(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		if lo.Region != "eu-central-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		if lo.Credentials == nil {
			t.Fatalf("credentials not applied")
		}
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	e, err := NewS3Exporter(context.Background(), exportConfig())
	require.NoError(t, err)
	require.NotNil(t, e)
	require.Equal(t, "http://127.0.0.1:9000", aws.ToString(opts.BaseEndpoint))
	require.True(t, opts.UsePathStyle)
}

func TestNewS3Exporter_ConfigError(t *testing.T) {
	stubAWS(t)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no creds")
	}

	_, err := NewS3Exporter(context.Background(), exportConfig())
	require.ErrorContains(t, err, "no creds")
}

func TestS3Exporter_Export(t *testing.T) {
	stubAWS(t)

	var (
		gotKey, gotBucket string
		doc               map[string]any
	)
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		gotKey, gotBucket = aws.ToString(in.Key), aws.ToString(in.Bucket)
		body, err := io.ReadAll(in.Body)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, err
		}
		return &s3.PutObjectOutput{}, nil
	}

	e := &S3Exporter{client: &s3.Client{}, bucket: "listings"}
	err := e.Export(context.Background(), &models.Listing{
		EntityID:    "taxi-ba-1",
		Fields:      listing.Fields{"name": listing.Text("Taxi Bratislava")},
		ContentHash: "abc",
		PublishedAt: time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, "listings/taxi-ba-1.json", gotKey)
	require.Equal(t, "listings", gotBucket)
	require.Equal(t, "abc", doc["content_hash"])
	require.Equal(t, "2026-05-04T12:00:00Z", doc["published_at"])
	require.Equal(t, map[string]any{"name": "Taxi Bratislava"}, doc["fields"])
}

func TestS3Exporter_PutError(t *testing.T) {
	stubAWS(t)
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("access denied")
	}

	e := &S3Exporter{client: &s3.Client{}, bucket: "listings"}
	err := e.Export(context.Background(), &models.Listing{EntityID: "taxi-ba-1"})
	require.ErrorContains(t, err, "put listings/taxi-ba-1.json: access denied")
}
