package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	buckets map[string][]string
	pages   [][]string
	err     error

	created *s3.CreateBucketInput
	deleted []string
	listIn  []*s3.ListObjectsV2Input
}

func (f *fakeS3) ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := &s3.ListBucketsOutput{}
	for name := range f.buckets {
		out.Buckets = append(out.Buckets, types.Bucket{Name: aws.String(name)})
	}
	return out, nil
}

func (f *fakeS3) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = params
	return &s3.CreateBucketOutput{}, nil
}

func (f *fakeS3) DeleteBucket(ctx context.Context, params *s3.DeleteBucketInput, optFns ...func(*s3.Options)) (*s3.DeleteBucketOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, aws.ToString(params.Bucket))
	return &s3.DeleteBucketOutput{}, nil
}

// ListObjectsV2 serves f.pages one page per call, chained by continuation token.
func (f *fakeS3) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.listIn = append(f.listIn, params)
	if len(f.pages) == 0 {
		return &s3.ListObjectsV2Output{}, nil
	}

	idx := 0
	if params.ContinuationToken != nil {
		idx = int((*params.ContinuationToken)[0] - '0')
	}
	out := &s3.ListObjectsV2Output{}
	for _, k := range f.pages[idx] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if idx+1 < len(f.pages) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(string(rune('0' + idx + 1)))
	}
	return out, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

type fakeUploader struct {
	bucket string
	key    string
	body   []byte
}

func (u *fakeUploader) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	u.bucket = aws.ToString(input.Bucket)
	u.key = aws.ToString(input.Key)
	b, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	u.body = b
	return &manager.UploadOutput{Key: input.Key}, nil
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		folder string
		path   string
		want   string
	}{
		{"", "photo.jpeg", "photo.jpeg"},
		{"", "/tmp/dir/photo.jpeg", "photo.jpeg"},
		{"images", "photo.jpeg", "images/photo.jpeg"},
		{"images", "/tmp/dir/photo.jpeg", "images/photo.jpeg"},
		{"a/b", "dir/photo.jpeg", "a/b/photo.jpeg"},
		{"trailing/", "photo.jpeg", "trailing//photo.jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.folder+"|"+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectKey(tt.folder, tt.path))
		})
	}
}

func TestClient_ListBuckets_LogsNames(t *testing.T) {
	var buf bytes.Buffer
	api := &fakeS3{buckets: map[string][]string{"alpha": nil}}
	c := New(api, nil, WithLogger(zerolog.New(&buf)))

	names, err := c.ListBuckets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, names)
	assert.Contains(t, buf.String(), "alpha")
	assert.Contains(t, buf.String(), `"level":"info"`)
}

func TestClient_ListBuckets_PropagatesError(t *testing.T) {
	boom := errors.New("access denied")
	c := New(&fakeS3{err: boom}, nil)

	_, err := c.ListBuckets(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestClient_CreateBucket_LocationConstraint(t *testing.T) {
	api := &fakeS3{}

	require.NoError(t, New(api, nil, WithRegion("eu-west-1")).CreateBucket(context.Background(), "b1"))
	require.NotNil(t, api.created.CreateBucketConfiguration)
	assert.Equal(t, types.BucketLocationConstraint("eu-west-1"), api.created.CreateBucketConfiguration.LocationConstraint)

	require.NoError(t, New(api, nil, WithRegion("us-east-1")).CreateBucket(context.Background(), "b2"))
	assert.Nil(t, api.created.CreateBucketConfiguration)
	assert.Equal(t, "b2", aws.ToString(api.created.Bucket))
}

func TestClient_DeleteBucket(t *testing.T) {
	api := &fakeS3{}
	require.NoError(t, New(api, nil).DeleteBucket(context.Background(), "b1"))
	assert.Equal(t, []string{"b1"}, api.deleted)
}

func TestClient_ListObjects_EmptyBucket(t *testing.T) {
	c := New(&fakeS3{}, nil)

	keys, err := c.ListObjects(context.Background(), "empty")
	require.NoError(t, err)
	require.NotNil(t, keys)
	assert.Empty(t, keys)
}

func TestClient_ListObjects_AllPages(t *testing.T) {
	api := &fakeS3{pages: [][]string{{"a", "b"}, {"c"}}}
	c := New(api, nil)

	keys, err := c.ListObjects(context.Background(), "bkt")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)
	assert.Len(t, api.listIn, 2)
	assert.Equal(t, "bkt", aws.ToString(api.listIn[0].Bucket))
}

func TestClient_UploadFile_KeyAndBody(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test_file.jpeg")
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0o600))

	up := &fakeUploader{}
	c := New(&fakeS3{}, up)

	require.NoError(t, c.UploadFile(context.Background(), path, "bkt", "folder"))
	assert.Equal(t, "bkt", up.bucket)
	assert.Equal(t, "folder/test_file.jpeg", up.key)
	assert.Equal(t, []byte("payload"), up.body)

	require.NoError(t, c.UploadFile(context.Background(), path, "bkt", ""))
	assert.Equal(t, "test_file.jpeg", up.key)
}

func TestClient_UploadFile_MissingFile(t *testing.T) {
	up := &fakeUploader{}
	c := New(&fakeS3{}, up)

	err := c.UploadFile(context.Background(), filepath.Join(t.TempDir(), "nope"), "bkt", "")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, up.key)
}

func TestClient_DeleteObject(t *testing.T) {
	api := &fakeS3{}
	require.NoError(t, New(api, nil).DeleteObject(context.Background(), "bkt", "k/1"))
	assert.Equal(t, []string{"bkt/k/1"}, api.deleted)
}
