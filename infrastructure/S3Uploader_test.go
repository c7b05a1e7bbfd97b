package infrastructure

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3Client struct {
	keys   []string
	bodies []string
	err    error
}

func (f *fakeS3Client) PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(input.Body)
	f.keys = append(f.keys, aws.ToString(input.Key))
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3Client) UploadPart(ctx context.Context, input *s3.UploadPartInput, opts ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New("not expected")
}

func (f *fakeS3Client) CreateMultipartUpload(ctx context.Context, input *s3.CreateMultipartUploadInput, opts ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("not expected")
}

func (f *fakeS3Client) CompleteMultipartUpload(ctx context.Context, input *s3.CompleteMultipartUploadInput, opts ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("not expected")
}

func (f *fakeS3Client) AbortMultipartUpload(ctx context.Context, input *s3.AbortMultipartUploadInput, opts ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return nil, errors.New("not expected")
}

func TestNewS3Uploader(t *testing.T) {
	_, err := NewS3Uploader(nil, "bucket", "")
	assert.Error(t, err)
	_, err = NewS3Uploader(&fakeS3Client{}, "", "")
	assert.Error(t, err)
}

func TestS3Uploader_Upload(t *testing.T) {
	client := &fakeS3Client{}
	uploader, err := NewS3Uploader(client, "exports", "health")
	require.NoError(t, err)

	url, err := uploader.Upload(context.Background(), "health_data.json", strings.NewReader(`{"ok":true}`))
	require.NoError(t, err)
	assert.Equal(t, "s3://exports/health/health_data.json", url)
	assert.Equal(t, []string{"health/health_data.json"}, client.keys)
	assert.Equal(t, []string{`{"ok":true}`}, client.bodies)

	client.err = errors.New("denied")
	_, err = uploader.Upload(context.Background(), "other.json", strings.NewReader("{}"))
	assert.ErrorContains(t, err, "other.json")
}
