package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
	sc "github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/config"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/models"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// S3Exporter writes every published listing as a JSON document to an
// S3-compatible bucket, where the public site picks it up.
type S3Exporter struct {
	client *s3.Client
	bucket string
}

// listingDocument is the exported JSON shape.
type listingDocument struct {
	EntityID    string         `json:"entity_id"`
	Fields      listing.Fields `json:"fields"`
	ContentHash string         `json:"content_hash"`
	PublishedAt time.Time      `json:"published_at"`
}

// NewS3Exporter returns nil and no error when no bucket is configured.
func NewS3Exporter(ctx context.Context, c *sc.Config) (*S3Exporter, error) {
	if c.S3Bucket == "" {
		return nil, nil
	}
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3RootUser,
			c.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
		o.UsePathStyle = true
	})
	return &S3Exporter{client: client, bucket: c.S3Bucket}, nil
}

// ObjectKey is the bucket key of an entity's exported listing.
func ObjectKey(entityID string) string {
	return "listings/" + entityID + ".json"
}

func (e *S3Exporter) Export(ctx context.Context, l *models.Listing) error {
	body, err := json.Marshal(listingDocument{
		EntityID:    l.EntityID,
		Fields:      l.Fields,
		ContentHash: l.ContentHash,
		PublishedAt: l.PublishedAt.UTC(),
	})
	if err != nil {
		return err
	}

	_, err = putObject(e.client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(ObjectKey(l.EntityID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", ObjectKey(l.EntityID), err)
	}
	return nil
}
