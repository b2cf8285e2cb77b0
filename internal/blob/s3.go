package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/akuznecov/skyvault/internal/common"
	"github.com/akuznecov/skyvault/internal/config"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
	getObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
		return c.GetObject(ctx, in, optFns...)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// S3Store implements Store against an S3-compatible endpoint (MinIO in
// development). A client is built per call from static credentials, matching
// how the backend settings can change between config reloads.
type S3Store struct {
	bucket       string
	region       string
	rootUser     string
	rootPassword string
	baseEndpoint string
}

// NewS3Store constructs an S3Store from the application config.
func NewS3Store(cfg *config.Config) *S3Store {
	return &S3Store{
		bucket:       cfg.S3Bucket,
		region:       cfg.S3Region,
		rootUser:     cfg.S3RootUser,
		rootPassword: cfg.S3RootPassword,
		baseEndpoint: cfg.S3BaseEndpoint,
	}
}

func (s *S3Store) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.rootUser,
			s.rootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.baseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

func (s *S3Store) Upload(ctx context.Context, path string, payload io.Reader, size int64, contentType string) error {
	client, err := s.getClient(ctx)
	if err != nil {
		return &common.BlobError{Kind: "connectivity", Err: err}
	}

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &path,
		Body:          payload,
		ContentLength: aws.Int64(size),
		ContentType:   &contentType,
	})
	if err != nil {
		return &common.BlobError{Kind: "connectivity", Err: fmt.Errorf("put %s: %w", path, err)}
	}
	return nil
}

func (s *S3Store) Download(ctx context.Context, path string) ([]byte, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, &common.BlobError{Kind: "connectivity", Err: err}
	}

	out, err := getObject(client, ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &path,
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, &common.BlobError{Kind: "absent", Err: fmt.Errorf("get %s: %w", path, err)}
		}
		return nil, &common.BlobError{Kind: "connectivity", Err: fmt.Errorf("get %s: %w", path, err)}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &common.BlobError{Kind: "connectivity", Err: fmt.Errorf("read %s: %w", path, err)}
	}
	return data, nil
}

// Remove is idempotent: S3 DeleteObject succeeds for absent keys, so deleting
// the same path twice yields no error the second time.
func (s *S3Store) Remove(ctx context.Context, paths []string) error {
	client, err := s.getClient(ctx)
	if err != nil {
		return &common.BlobError{Kind: "connectivity", Err: err}
	}

	for _, path := range paths {
		_, err := deleteObject(client, ctx, &s3.DeleteObjectInput{
			Bucket: &s.bucket,
			Key:    aws.String(path),
		})
		if err != nil {
			return &common.BlobError{Kind: "connectivity", Err: fmt.Errorf("delete %s: %w", path, err)}
		}
	}
	return nil
}

func (s *S3Store) CreateSignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", &common.BlobError{Kind: "connectivity", Err: err}
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &path,
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", &common.BlobError{Kind: "connectivity", Err: fmt.Errorf("presign %s: %w", path, err)}
	}

	return req.URL, nil
}

// isNoSuchKey matches the S3 "no such key" API error without binding to a
// concrete error type.
func isNoSuchKey(err error) bool {
	type apiError interface{ ErrorCode() string }
	var ae apiError
	if errors.As(err, &ae) {
		return ae.ErrorCode() == "NoSuchKey" || ae.ErrorCode() == "NotFound"
	}
	return false
}
