// Package secrets resolves the tracker API token from AWS Secrets Manager
// when it is not supplied directly.
package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Fetcher returns the plaintext value of a named secret.
type Fetcher interface {
	GetSecret(ctx context.Context, id string) (string, error)
}

// API is the subset of the Secrets Manager client used here.
type API interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSFetcher reads string secrets from AWS Secrets Manager.
type AWSFetcher struct {
	Client API
}

// NewAWSFetcher loads the default AWS credential chain. An empty region
// defers to AWS_REGION and the shared config.
func NewAWSFetcher(ctx context.Context, region string) (*AWSFetcher, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &AWSFetcher{Client: secretsmanager.NewFromConfig(cfg)}, nil
}

// GetSecret returns the SecretString of id. Binary secrets are rejected.
func (f *AWSFetcher) GetSecret(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", errors.New("secret id is required")
	}
	out, err := f.Client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		return "", fmt.Errorf("fetching secret %s: %w", id, err)
	}
	v := aws.ToString(out.SecretString)
	if v == "" {
		return "", fmt.Errorf("secret %s has no string value", id)
	}
	return v, nil
}
