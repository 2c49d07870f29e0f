package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client used here.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config configures the client built for s3:// sources.
type S3Config struct {
	// Region defaults to us-east-1.
	Region string

	// Endpoint overrides the service endpoint (MinIO, LocalStack).
	Endpoint string

	// UsePathStyle addresses buckets as a path segment instead of a
	// subdomain.
	UsePathStyle bool
}

// NewS3Client builds an S3 client. Credentials come from the standard
// AWS_* environment variables; without them requests are anonymous, which
// is enough for public buckets.
func NewS3Client(cfg S3Config) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	opts := s3.Options{
		Region:       region,
		Credentials:  envCredentials(),
		UsePathStyle: cfg.UsePathStyle,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

func envCredentials() aws.CredentialsProvider {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}
	token := os.Getenv("AWS_SESSION_TOKEN")
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    token,
			Source:          "Environment",
		}, nil
	})
}

// S3Source reads one S3 object.
type S3Source struct {
	Client  S3API
	Bucket  string
	Key     string
	MaxSize int64
}

func (s *S3Source) String() string {
	return "s3://" + s.Bucket + "/" + s.Key
}

// Fetch downloads the object. Its ETag becomes the document version.
func (s *S3Source) Fetch(ctx context.Context) (*Document, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var noBucket *types.NoSuchBucket
		if errors.As(err, &noKey) || errors.As(err, &noBucket) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s)
		}
		return nil, fmt.Errorf("source: get %s: %w", s, err)
	}
	defer out.Body.Close()

	max := s.MaxSize
	if max <= 0 {
		max = DefaultMaxSize
	}
	if out.ContentLength != nil && *out.ContentLength > max {
		return nil, fmt.Errorf("%s: %w: %d bytes", s, ErrTooLarge, *out.ContentLength)
	}

	data, err := readLimited(out.Body, max)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s, err)
	}

	return &Document{
		Name:    s.String(),
		Data:    data,
		ModTime: aws.ToTime(out.LastModified),
		Version: strings.Trim(aws.ToString(out.ETag), `"`),
	}, nil
}
