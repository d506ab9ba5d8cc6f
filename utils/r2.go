// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// PayloadArchive stores raw webhook bodies for later inspection or replay.
type PayloadArchive interface {
	Put(ctx context.Context, webhookType, webhookCode string, body []byte) (string, error)
}

// R2Archive writes payloads to a Cloudflare R2 bucket through the S3 API.
type R2Archive struct {
	client *s3.Client
	bucket string
}

var _ PayloadArchive = (*R2Archive)(nil)

func NewR2Archive(ctx context.Context, cfg ArchiveConfig) (*R2Archive, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.AccessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return &R2Archive{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads the body and returns its object key.
func (a *R2Archive) Put(ctx context.Context, webhookType, webhookCode string, body []byte) (string, error) {
	key := ArchiveKey(time.Now().UTC(), webhookType, webhookCode, uuid.NewString())
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}
	return key, nil
}

// ArchiveKey builds "webhooks/<date>/<type-code slug>/<id>.json".
func ArchiveKey(at time.Time, webhookType, webhookCode, id string) string {
	name := slug.Make(webhookType + "-" + webhookCode)
	if name == "" {
		name = "unknown"
	}
	return fmt.Sprintf("webhooks/%s/%s/%s.json", at.Format("2006-01-02"), name, id)
}
