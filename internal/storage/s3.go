package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/xplorhq/asset-service/internal/config"
)

// Uploader is the object-storage boundary consumed by the asset service.
type Uploader interface {
	Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (fileID, key, url string, err error)
	Delete(ctx context.Context, key string) error
}

// S3Storage uploads asset binaries to a single bucket and builds their
// public URLs. A custom endpoint switches it to MinIO-style deployments.
type S3Storage struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
}

func NewS3(ctx context.Context, cfg config.AWSConfig) (*S3Storage, error) {
	ac, err := awscfg.LoadDefaultConfig(ctx,
		awscfg.WithRegion(cfg.Region),
		awscfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(ac, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Storage{client: client, bucket: cfg.Bucket, region: cfg.Region, endpoint: cfg.Endpoint}, nil
}

// ObjectKey builds the bucket key for an upload: <folder>/<fileID>_<filename>.
func ObjectKey(folder, fileID, filename string) string {
	return fmt.Sprintf("%s/%s_%s", folder, fileID, filename)
}

// ObjectURL builds the public URL for a stored key.
func ObjectURL(bucket, region, endpoint, key string) string {
	if endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", endpoint, bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}

func (st *S3Storage) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, string, string, error) {
	fileID := uuid.NewString()
	key := ObjectKey(folder, fileID, filename)

	_, err := st.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(st.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", "", err
	}
	return fileID, key, ObjectURL(st.bucket, st.region, st.endpoint, key), nil
}

func (st *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := st.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(st.bucket),
		Key:    aws.String(key),
	})
	return err
}
