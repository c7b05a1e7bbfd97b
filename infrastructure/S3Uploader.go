package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Uploader copies export artifacts to a bucket
type S3Uploader struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

func NewS3Uploader(s3UploadClient manager.UploadAPIClient, bucket string, prefix string) (*S3Uploader, error) {
	if s3UploadClient == nil {
		return nil, errors.New("s3 upload client nil")
	}
	if bucket == "" {
		return nil, errors.New("bucket name is empty")
	}
	return &S3Uploader{
		uploader: manager.NewUploader(s3UploadClient),
		bucket:   bucket,
		prefix:   prefix,
	}, nil
}

// Upload store body under the bucket prefix, returns the s3 url of the object
func (u *S3Uploader) Upload(ctx context.Context, filename string, body io.Reader) (string, error) {
	key := path.Join(u.prefix, filename)
	_, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return "", fmt.Errorf("upload failed filename=[%s], bucket=[%s]: %w", filename, u.bucket, err)
	}
	return fmt.Sprintf("s3://%s/%s", u.bucket, key), nil
}
