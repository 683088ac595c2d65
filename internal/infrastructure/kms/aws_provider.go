package kms

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awskms "github.com/aws/aws-sdk-go-v2/service/kms"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// kmsAPI is the slice of the AWS KMS client the provider uses. Tests
// substitute a fake.
type kmsAPI interface {
	DescribeKey(ctx context.Context, params *awskms.DescribeKeyInput, optFns ...func(*awskms.Options)) (*awskms.DescribeKeyOutput, error)
	CreateKey(ctx context.Context, params *awskms.CreateKeyInput, optFns ...func(*awskms.Options)) (*awskms.CreateKeyOutput, error)
	RotateKeyOnDemand(ctx context.Context, params *awskms.RotateKeyOnDemandInput, optFns ...func(*awskms.Options)) (*awskms.RotateKeyOnDemandOutput, error)
	Decrypt(ctx context.Context, params *awskms.DecryptInput, optFns ...func(*awskms.Options)) (*awskms.DecryptOutput, error)
}

// AWSProvider manages the master key through AWS KMS. The credential layer's
// master key material is an envelope: the configured key material is a
// KMS-encrypted data key that Decrypt unwraps on demand.
type AWSProvider struct {
	client kmsAPI
	keyID  string
	// wrappedKey is the base64 KMS-encrypted data key from configuration
	wrappedKey string

	mu        sync.Mutex
	rotations int
}

// NewAWSProvider creates an AWS KMS-backed provider
func NewAWSProvider(ctx context.Context, region, keyID, wrappedKey string) (*AWSProvider, error) {
	if keyID == "" {
		return nil, fmt.Errorf("%w: aws provider requires a key id", domain.ErrKMSConfiguration)
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKMSConfiguration, err)
	}
	return &AWSProvider{
		client:     awskms.NewFromConfig(cfg),
		keyID:      keyID,
		wrappedKey: wrappedKey,
	}, nil
}

// NewAWSProviderWithClient wires an explicit client (used by tests)
func NewAWSProviderWithClient(client kmsAPI, keyID, wrappedKey string) *AWSProvider {
	return &AWSProvider{client: client, keyID: keyID, wrappedKey: wrappedKey}
}

func (p *AWSProvider) Name() string { return "aws" }

// HealthCheck implements Provider
func (p *AWSProvider) HealthCheck(ctx context.Context) bool {
	_, err := p.client.DescribeKey(ctx, &awskms.DescribeKeyInput{KeyId: aws.String(p.keyID)})
	return err == nil
}

// RotateKey implements Provider
func (p *AWSProvider) RotateKey(ctx context.Context) (string, error) {
	out, err := p.client.RotateKeyOnDemand(ctx, &awskms.RotateKeyOnDemandInput{
		KeyId: aws.String(p.keyID),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrKMSConnectivity, err)
	}
	p.mu.Lock()
	p.rotations++
	rotations := p.rotations
	p.mu.Unlock()
	return fmt.Sprintf("%s/%d", aws.ToString(out.KeyId), rotations+1), nil
}

// GetKeyMetadata implements Provider
func (p *AWSProvider) GetKeyMetadata(ctx context.Context) (*domain.KeyMetadata, error) {
	out, err := p.client.DescribeKey(ctx, &awskms.DescribeKeyInput{KeyId: aws.String(p.keyID)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKMSConnectivity, err)
	}
	p.mu.Lock()
	rotations := p.rotations
	p.mu.Unlock()

	meta := &domain.KeyMetadata{
		KeyID:    aws.ToString(out.KeyMetadata.KeyId),
		Version:  rotations + 1,
		Provider: p.Name(),
	}
	if out.KeyMetadata.CreationDate != nil {
		meta.CreatedAt = *out.KeyMetadata.CreationDate
	}
	if rotations > 0 {
		now := time.Now()
		meta.RotatedAt = &now
	}
	return meta, nil
}

// CreateKey implements Provider
func (p *AWSProvider) CreateKey(ctx context.Context, id, description string) (string, error) {
	out, err := p.client.CreateKey(ctx, &awskms.CreateKeyInput{
		Description: aws.String(description),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrKMSConnectivity, err)
	}
	keyID := aws.ToString(out.KeyMetadata.KeyId)
	p.mu.Lock()
	p.keyID = keyID
	p.rotations = 0
	p.mu.Unlock()
	return keyID, nil
}

// MasterKey implements Provider
func (p *AWSProvider) MasterKey(ctx context.Context) ([]byte, error) {
	if p.wrappedKey == "" {
		return nil, fmt.Errorf("%w: aws provider has no wrapped data key configured", domain.ErrKMSConfiguration)
	}
	blob, err := base64.StdEncoding.DecodeString(p.wrappedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: wrapped data key is not valid base64", domain.ErrKMSConfiguration)
	}
	out, err := p.client.Decrypt(ctx, &awskms.DecryptInput{
		CiphertextBlob: blob,
		KeyId:          aws.String(p.keyID),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKMSConnectivity, err)
	}
	return out.Plaintext, nil
}
