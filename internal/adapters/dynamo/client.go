// Package dynamo adapts the batch writer to Amazon DynamoDB.
package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Options selects the credentials and endpoint for the DynamoDB client.
type Options struct {
	// Profile is the shared config profile (~/.aws/config). Empty uses the
	// default credential chain.
	Profile string

	// Region is the AWS region, e.g. "us-east-1".
	Region string

	// Endpoint overrides the service endpoint, e.g. for DynamoDB Local.
	Endpoint string

	// MaxAttempts caps the SDK's own per-call retries. Zero keeps the SDK default.
	MaxAttempts int
}

// NewClient builds a DynamoDB client from the shared AWS configuration.
func NewClient(ctx context.Context, opts Options) (*dynamodb.Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.MaxAttempts > 0 {
		loadOpts = append(loadOpts, config.WithRetryMaxAttempts(opts.MaxAttempts))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	}), nil
}
