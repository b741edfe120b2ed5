package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"socialmedia-api/config"
	"socialmedia-api/internal/application/ports"
	"socialmedia-api/internal/domain/media"
)

const (
	keyPrefix = "media/"
	noSuchKey = "NoSuchKey"
)

type s3Client interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// minioClient makes GetObject fail up front for missing keys instead of on
// the first Read.
type minioClient struct {
	*minio.Client
}

func (c minioClient) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := c.Client.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	if _, err = obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, err
	}

	return obj, nil
}

var newMinioClient = func(endpoint string, opts *minio.Options) (s3Client, error) {
	c, err := minio.New(endpoint, opts)
	if err != nil {
		return nil, err
	}
	return minioClient{Client: c}, nil
}

type Client struct {
	logger *zap.Logger
	client s3Client
	bucket string
}

func New(
	ctx context.Context,
	logger *zap.Logger,
	cfg config.S3,
) (ports.BlobStore, error) {
	region := strings.TrimSpace(cfg.Region)
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		if region == "" {
			endpoint = "s3.amazonaws.com"
		} else {
			endpoint = fmt.Sprintf("s3.%s.amazonaws.com", region)
		}
	} else if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		endpoint = parsed.Host
	}

	client, err := newMinioClient(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.BucketUploads)
	if err != nil {
		return nil, fmt.Errorf("failed to verify s3 bucket %q: %w", cfg.BucketUploads, err)
	}
	if !exists {
		return nil, fmt.Errorf("s3 bucket %q does not exist or is not accessible", cfg.BucketUploads)
	}

	logger.Info("s3 blob store ready", zap.String("endpoint", endpoint), zap.String("bucket", cfg.BucketUploads))

	return &Client{
		logger: logger,
		client: client,
		bucket: cfg.BucketUploads,
	}, nil
}

func (c *Client) Key(id media.ID) string { return keyPrefix + media.BlobKey(id) }

func (c *Client) Put(ctx context.Context, id media.ID, r io.Reader, size int64, contentType string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := c.client.PutObject(ctx, c.bucket, c.Key(id), r, size, opts); err != nil {
		return fmt.Errorf("upload to s3 failed: %w", err)
	}

	return nil
}

func (c *Client) Open(ctx context.Context, id media.ID) (io.ReadCloser, error) {
	rc, err := c.client.GetObject(ctx, c.bucket, c.Key(id), minio.GetObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == noSuchKey {
			return nil, fmt.Errorf("blob %s: %w", id, media.ErrMediaNotFound)
		}
		return nil, fmt.Errorf("read from s3 failed: %w", err)
	}

	return rc, nil
}

func (c *Client) Delete(ctx context.Context, id media.ID) error {
	if err := c.client.RemoveObject(ctx, c.bucket, c.Key(id), minio.RemoveObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == noSuchKey {
			return nil
		}
		return fmt.Errorf("delete from s3 failed: %w", err)
	}

	return nil
}
