// Package aws defines functions used to interact with S3 compatible object storage
package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/spf13/viper"
)

type S3Config struct {
	Bucket          string
	Region          string
	AccessKey       string
	SecretAccessKey string
	// Endpoint points the client at any S3 compatible service. For
	// Cloudflare R2 it's https://<account_id>.r2.cloudflarestorage.com
	// with region "auto".
	Endpoint string
}

// S3ConfigFromViper reads the storage.* keys
func S3ConfigFromViper() S3Config {
	return S3Config{
		Bucket:          viper.GetString("storage.bucket"),
		Region:          viper.GetString("storage.region"),
		AccessKey:       viper.GetString("storage.access_key"),
		SecretAccessKey: viper.GetString("storage.secret_access_key"),
		Endpoint:        viper.GetString("storage.endpoint"),
	}
}

type S3Client struct {
	C      *s3.Client
	Bucket *string
}

// NewS3 builds a client for cfg.Bucket and fails if the bucket can't be reached
func NewS3(ctx context.Context, cfg S3Config) (*S3Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config, %w", err)
	}

	c := &S3Client{
		C: s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
				// R2 and most self hosted services don't support virtual hosted buckets
				o.UsePathStyle = true
			}
		}),
		Bucket: aws.String(cfg.Bucket),
	}

	if err := c.checkBucket(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *S3Client) checkBucket(ctx context.Context) error {
	_, err := c.C.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: c.Bucket})
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchBucket":
			return fmt.Errorf("bucket %q does not exist", *c.Bucket)
		case "Forbidden", "AccessDenied":
			return fmt.Errorf("no access to bucket %q, check the storage credentials", *c.Bucket)
		}
	}

	return fmt.Errorf("failed to check if bucket exists, %w", err)
}
