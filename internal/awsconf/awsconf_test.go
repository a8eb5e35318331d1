package awsconf

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_StaticCredentials(t *testing.T) {
	ctx := context.Background()
	cfg, err := Load(ctx, Credentials{
		AccessKey: "AKIDEXAMPLE",
		SecretKey: "secret",
		Region:    "eu-west-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.Region)

	got, err := cfg.Credentials.Retrieve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AKIDEXAMPLE", got.AccessKeyID)
	assert.Equal(t, "secret", got.SecretAccessKey)
}

func TestCredentials_BaseEndpoint(t *testing.T) {
	assert.Nil(t, Credentials{}.BaseEndpoint())

	ep := Credentials{Endpoint: "http://localhost:4566"}.BaseEndpoint()
	require.NotNil(t, ep)
	assert.Equal(t, "http://localhost:4566", *ep)
}

func TestErrorCode(t *testing.T) {
	apiErr := &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "gone"}
	wrapped := fmt.Errorf("delete bucket: %w", apiErr)

	assert.Equal(t, "NoSuchBucket", ErrorCode(wrapped))
	assert.True(t, IsNotFound(wrapped))

	assert.Equal(t, "", ErrorCode(errors.New("plain")))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
}

func TestIsNotFound_QueueCodes(t *testing.T) {
	assert.True(t, IsNotFound(&smithy.GenericAPIError{Code: "AWS.SimpleQueueService.NonExistentQueue"}))
	assert.True(t, IsNotFound(&smithy.GenericAPIError{Code: "QueueDoesNotExist"}))
}
