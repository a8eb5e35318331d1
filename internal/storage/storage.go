// Package storage wraps bucket and object operations of the S3 object store.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"go-aws-clients/internal/awsconf"
)

// Client forwards bucket and object operations to S3.
type Client struct {
	api      S3API
	uploader Uploader
	region   string
	log      zerolog.Logger
}

type Option func(*Client)

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithRegion sets the region used as the location constraint on CreateBucket.
func WithRegion(region string) Option {
	return func(c *Client) { c.region = region }
}

func New(api S3API, uploader Uploader, opts ...Option) *Client {
	c := &Client{
		api:      api,
		uploader: uploader,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromCredentials builds a Client backed by a fresh S3 SDK client.
func NewFromCredentials(ctx context.Context, creds awsconf.Credentials, opts ...Option) (*Client, error) {
	cfg, err := awsconf.Load(ctx, creds)
	if err != nil {
		return nil, err
	}

	api := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if ep := creds.BaseEndpoint(); ep != nil {
			o.BaseEndpoint = ep
			o.UsePathStyle = true
		}
	})

	opts = append([]Option{WithRegion(creds.Region)}, opts...)
	return New(api, manager.NewUploader(api), opts...), nil
}

func (c *Client) ListBuckets(ctx context.Context) ([]string, error) {
	out, err := c.api.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}

	names := make([]string, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		names = append(names, aws.ToString(b.Name))
	}
	c.log.Info().Strs("buckets", names).Msg("list of all buckets")
	return names, nil
}

func (c *Client) CreateBucket(ctx context.Context, name string) error {
	in := &s3.CreateBucketInput{Bucket: aws.String(name)}
	// us-east-1 rejects an explicit location constraint
	if c.region != "" && c.region != "us-east-1" {
		in.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(c.region),
		}
	}
	if _, err := c.api.CreateBucket(ctx, in); err != nil {
		return fmt.Errorf("create bucket %s: %w", name, err)
	}
	return nil
}

func (c *Client) DeleteBucket(ctx context.Context, name string) error {
	if _, err := c.api.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(name)}); err != nil {
		return fmt.Errorf("delete bucket %s: %w", name, err)
	}
	return nil
}

// ListObjects returns every key in bucket. An empty bucket yields an empty slice.
func (c *Client) ListObjects(ctx context.Context, bucket string) ([]string, error) {
	keys := []string{}
	p := s3.NewListObjectsV2Paginator(c.api, &s3.ListObjectsV2Input{Bucket: aws.String(bucket)})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects %s: %w", bucket, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

// UploadFile uploads the file at path into bucket under ObjectKey(folder, path).
func (c *Client) UploadFile(ctx context.Context, path, bucket, folder string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	defer f.Close()

	key := ObjectKey(folder, path)
	_, err = c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("upload %s to %s/%s: %w", path, bucket, key, err)
	}
	return nil
}

func (c *Client) DeleteObject(ctx context.Context, bucket, key string) error {
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s/%s: %w", bucket, key, err)
	}
	return nil
}

// ObjectKey is folder + "/" + the base name of path, or just the base name when
// folder is empty.
func ObjectKey(folder, path string) string {
	name := filepath.Base(path)
	if folder == "" {
		return name
	}
	return folder + "/" + name
}
