package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Service stores images in an S3 bucket (or compatible API). URLs
// are object keys under the configured prefix.
type S3Service struct {
	client    *s3.Client
	uploader  *manager.Uploader
	bucket    string
	keyPrefix string
}

func NewS3Service(client *s3.Client, bucket, keyPrefix string) *S3Service {
	return &S3Service{
		client:    client,
		uploader:  manager.NewUploader(client),
		bucket:    bucket,
		keyPrefix: strings.Trim(keyPrefix, "/"),
	}
}

func (s *S3Service) SaveImage(ctx context.Context, dir, filename string, r io.Reader) (string, error) {
	if s.bucket == "" {
		return "", fmt.Errorf("storage bucket is required")
	}

	key := strings.Trim(dir, "/") + "/" + uniqueFilename(filename)
	fullKey := key
	if s.keyPrefix != "" {
		fullKey = s.keyPrefix + "/" + key
	}

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fullKey),
		Body:   r,
	})
	if err != nil {
		return "", fmt.Errorf("upload image %s: %w", fullKey, err)
	}

	return key, nil
}

func (s *S3Service) Delete(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	fullKey := url
	if s.keyPrefix != "" {
		fullKey = s.keyPrefix + "/" + url
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fullKey),
	})
	if err != nil {
		return fmt.Errorf("delete image %s: %w", fullKey, err)
	}
	return nil
}

var _ Service = (*S3Service)(nil)
