package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	a "giftlink/backend/aws"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// ImageUploader stores gift images and returns the URL they are served from
type ImageUploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type Uploader struct {
	S3        *a.S3Client
	PublicURL string
	manager   *manager.Uploader
}

func NewUploader(s *a.S3Client, publicURL string) *Uploader {
	return &Uploader{
		S3:        s,
		PublicURL: strings.TrimSuffix(publicURL, "/"),
		manager: manager.NewUploader(s.C, func(u *manager.Uploader) {
			u.Concurrency = 3
			u.PartSize = 6 << 20
		}),
	}
}

// Upload puts body into the bucket under key. The manager switches to a
// multipart upload on its own once body is bigger than a single part.
func (u *Uploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	zap.L().Debug("Uploading image", zap.String("key", key), zap.String("contentType", contentType))

	_, err := u.manager.Upload(ctx, &s3.PutObjectInput{
		Bucket:       u.S3.Bucket,
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to s3, %w", err)
	}

	return u.PublicURL + "/" + key, nil
}
