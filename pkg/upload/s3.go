package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrS3 wraps failures reading an object from S3.
var ErrS3 = errors.New("upload: s3 fetch failed")

// S3API is the subset of the S3 client S3Source needs.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source opens s3://bucket/key references.
//
// Example usage:
//
//	client := upload.NewS3Client(upload.S3ClientOptions{Region: "us-east-1"})
//	src := upload.NewS3Source(client)
//	f, err := src.Open(ctx, "s3://invoices/2024/march.pdf")
type S3Source struct {
	client S3API
}

// NewS3Source creates a new S3 file source.
func NewS3Source(client S3API) *S3Source {
	return &S3Source{client: client}
}

// Open fetches the object and streams its body as the file content.
func (s *S3Source) Open(ctx context.Context, ref string) (*File, error) {
	bucket, key, err := ParseS3URI(ref)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrS3, ref, err)
	}

	size := int64(-1)
	if out.ContentLength != nil {
		size = *out.ContentLength
	}

	return &File{
		Filename:    path.Base(key),
		ContentType: aws.ToString(out.ContentType),
		Size:        size,
		URL:         ref,
		Reader:      out.Body,
	}, nil
}

// ParseS3URI splits s3://bucket/key.
func ParseS3URI(ref string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(ref, "s3://")
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedScheme, ref)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("%w: %s: want s3://bucket/key", ErrUnsupportedScheme, ref)
	}
	return bucket, key, nil
}

// S3ClientOptions configures NewS3Client.
type S3ClientOptions struct {
	// Region is the AWS region. Empty falls back to AWS_REGION.
	Region string

	// Endpoint overrides the service endpoint (MinIO, localstack).
	Endpoint string

	// PathStyle forces path-style bucket addressing.
	PathStyle bool
}

// NewS3Client builds an S3 client with credentials taken from the standard
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN variables.
func NewS3Client(opts S3ClientOptions) *s3.Client {
	region := opts.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}

	o := s3.Options{
		Region:       region,
		Credentials:  aws.NewCredentialsCache(EnvCredentials()),
		UsePathStyle: opts.PathStyle,
	}
	if opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(opts.Endpoint)
	}
	return s3.New(o)
}

// EnvCredentials returns a provider reading static keys from the environment.
func EnvCredentials() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		creds := aws.Credentials{
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "EnvCredentials",
		}
		if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
			return aws.Credentials{}, errors.New("upload: AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
		}
		return creds, nil
	})
}
