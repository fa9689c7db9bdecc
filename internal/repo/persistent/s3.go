package persistent

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/imagehub/imagehub/internal/entity"
	"github.com/imagehub/imagehub/pkg/s3client"
)

// ImageStorage keeps rendition bytes in S3. Every method translates
// SDK failures into the errs model; raw transport errors never cross
// into the use-case layer.
type ImageStorage struct {
	*s3client.S3Client
	bucket string
}

func NewImageStorage(s3c *s3client.S3Client, bucket string) *ImageStorage {
	return &ImageStorage{s3c, bucket}
}

func (r *ImageStorage) Upload(ctx context.Context, key, fileName, contentType string, data []byte) (string, error) {
	_, err := r.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		Metadata: map[string]string{
			"originalname": fileName,
			"extension":    filepath.Ext(fileName),
		},
	})
	if err != nil {
		return "", fmt.Errorf("ImageStorage - Upload - r.Client.PutObject: %w",
			entity.ErrFileUploadFailed.WithCause(err))
	}

	return key, nil
}

func (r *ImageStorage) DownloadBytes(ctx context.Context, key string) ([]byte, error) {
	result, err := r.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("ImageStorage - DownloadBytes - r.Client.GetObject: %w",
			entity.ErrFileRetrievalFailed(key).WithCause(err))
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("ImageStorage - DownloadBytes - io.ReadAll: %w",
			entity.ErrFileRetrievalFailed(key).WithCause(err))
	}

	return data, nil
}

func (r *ImageStorage) Delete(ctx context.Context, key string) error {
	_, err := r.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("ImageStorage - Delete - r.Client.DeleteObject: %w",
			entity.ErrFileDeletionFailed(key).WithCause(err))
	}

	return nil
}

func (r *ImageStorage) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(r.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("ImageStorage - ListKeys - paginator.NextPage: %w",
				entity.ErrFileListFailed(prefix).WithCause(err))
		}

		for _, object := range page.Contents {
			keys = append(keys, aws.ToString(object.Key))
		}
	}

	return keys, nil
}

func (r *ImageStorage) PreSignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	request, err := r.Presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("ImageStorage - PreSignedURL - r.Presign.PresignGetObject: %w",
			entity.ErrPreSignedURLFailed(key).WithCause(err))
	}

	return request.URL, nil
}
