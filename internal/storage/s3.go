package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"subtrack/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Certificate objects live under a fixed prefix inside the bucket.
const certificatePrefix = "insurance-certificates"

// Presigned retrieval URLs stay valid for 7 days. A captured URL stops
// working after that window; there is no refresh mechanism.
const URLValidity = 7 * 24 * time.Hour

// CertificateStore writes certificate files to S3 and issues time-limited
// retrieval URLs for them.
type CertificateStore struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

func NewCertificateStore(client *s3.Client, bucket string) *CertificateStore {
	return &CertificateStore{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
	}
}

// Upload stores the file bytes under the certificate prefix and returns
// the full object key.
func (s *CertificateStore) Upload(ctx context.Context, storedName string, data []byte, contentType string) (string, error) {
	if s.bucket == "" {
		return "", fmt.Errorf("%w: S3 bucket is not configured", types.ErrStorageUnavailable)
	}

	key := fmt.Sprintf("%s/%s", certificatePrefix, storedName)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put object %s: %v", types.ErrStorageUnavailable, key, err)
	}

	return key, nil
}

// PresignedURL issues a retrieval URL for a previously written object.
func (s *CertificateStore) PresignedURL(ctx context.Context, key string) (string, error) {
	if s.bucket == "" {
		return "", fmt.Errorf("%w: S3 bucket is not configured", types.ErrStorageUnavailable)
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(URLValidity))
	if err != nil {
		return "", fmt.Errorf("%w: presign object %s: %v", types.ErrStorageUnavailable, key, err)
	}

	return req.URL, nil
}

// Delete removes an object by key. No in-scope code path calls this;
// subcontractor deletion deliberately leaves stored objects behind.
func (s *CertificateStore) Delete(ctx context.Context, key string) error {
	if s.bucket == "" {
		return fmt.Errorf("%w: S3 bucket is not configured", types.ErrStorageUnavailable)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: delete object %s: %v", types.ErrStorageUnavailable, key, err)
	}

	return nil
}
