// Package s3store stores proof-of-delivery signatures and remittance
// receipts in S3. Object keys are derived from the blob content, so a
// replayed upload of the same signature lands on the same key and produces
// the same reference.
package s3store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"mime"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"dispatch/internal/pkg/errs"
)

const keyPrefix = "pods"

// S3SignatureStore uploads signature blobs to a single S3 bucket.
type S3SignatureStore struct {
	client *s3.Client
	bucket string
}

// NewS3SignatureStore creates a store backed by the given bucket, loading
// AWS credentials and endpoint settings from the default config chain.
func NewS3SignatureStore(ctx context.Context, bucket, region string) (*S3SignatureStore, error) {
	if bucket == "" {
		return nil, errs.NewValueIsRequiredError("bucket")
	}
	if region == "" {
		return nil, errs.NewValueIsRequiredError("region")
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &S3SignatureStore{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

// NewS3SignatureStoreWithClient creates a store with a preconfigured client.
// Used by tests and local setups pointing at an S3-compatible endpoint.
func NewS3SignatureStoreWithClient(client *s3.Client, bucket string) (*S3SignatureStore, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}
	if bucket == "" {
		return nil, errs.NewValueIsRequiredError("bucket")
	}

	return &S3SignatureStore{client: client, bucket: bucket}, nil
}

// Store uploads the blob under a content-derived key and returns that key.
// Uploading the same bytes twice writes the same object, so callers retrying
// a completion get back the reference of the first attempt.
func (s *S3SignatureStore) Store(ctx context.Context, blob []byte, contentType string) (string, error) {
	if len(blob) == 0 {
		return "", errs.NewValueIsRequiredError("blob")
	}

	key := objectKey(blob, contentType)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(blob),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload signature to S3: %w", err)
	}

	return key, nil
}

func objectKey(blob []byte, contentType string) string {
	sum := sha256.Sum256(blob)
	return keyPrefix + "/" + hex.EncodeToString(sum[:]) + extensionFor(contentType)
}

func extensionFor(contentType string) string {
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
