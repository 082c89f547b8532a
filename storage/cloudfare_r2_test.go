package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(fmt.Errorf("wrapped: %w", &types.NoSuchKey{})))
	assert.True(t, isNotFound(&smithy.GenericAPIError{Code: "NotFound"}))
	assert.False(t, isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isNotFound(fmt.Errorf("boom")))
}

func TestNewCloudflareR2StoreRequiresAllFields(t *testing.T) {
	_, err := NewCloudflareR2Store(context.Background(), CloudflareR2Config{AccountID: "acc", BucketName: "b"})
	require.Error(t, err)

	store, err := NewCloudflareR2Store(context.Background(), CloudflareR2Config{
		AccountID:       "acc",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "bucket",
	})
	require.NoError(t, err)
	assert.NotNil(t, store)
}
