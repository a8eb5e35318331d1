// Package awsconf builds SDK configuration from explicitly supplied credentials.
package awsconf

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// Credentials identify the account and region every call of a client is issued with.
// Endpoint optionally overrides the service base endpoint (LocalStack, ElasticMQ).
type Credentials struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
}

// Load resolves an aws.Config for creds. Static keys are used when both are set;
// otherwise the SDK's default credential chain applies.
func Load(ctx context.Context, creds Credentials) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(creds.Region),
	}

	if creds.AccessKey != "" && creds.SecretKey != "" {
		opts = append(opts,
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(creds.AccessKey, creds.SecretKey, ""),
			),
		)
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// BaseEndpoint returns the endpoint override as the SDK expects it, or nil.
func (c Credentials) BaseEndpoint() *string {
	if c.Endpoint == "" {
		return nil
	}
	return aws.String(c.Endpoint)
}
