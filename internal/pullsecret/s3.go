package pullsecret

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// maxSecretSize bounds how much of an object is read
const maxSecretSize = 64 * 1024

// ObjectAPI is the subset of the S3 client used by S3Source
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Source keeps one pull secret object per user in a bucket
type S3Source struct {
	client ObjectAPI
	bucket string
	prefix string
}

// NewS3Source creates a source over an existing S3 client
func NewS3Source(client ObjectAPI, bucket, prefix string) *S3Source {
	return &S3Source{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// NewS3SourceFromEnv loads the default AWS configuration and creates a source
func NewS3SourceFromEnv(ctx context.Context, region, bucket, prefix string) (*S3Source, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewS3Source(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func (s *S3Source) key(userID string) string {
	return s.prefix + userID + ".json"
}

// Get implements Source
func (s *S3Source) Get(ctx context.Context, userID string) (string, bool, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(userID)),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get pull secret object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxSecretSize))
	if err != nil {
		return "", false, fmt.Errorf("read pull secret object: %w", err)
	}

	secret := strings.TrimSpace(string(data))
	return secret, secret != "", nil
}

// Save implements Saver
func (s *S3Source) Save(ctx context.Context, userID, secret string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(s.key(userID)),
		Body:                 strings.NewReader(secret),
		ContentType:          aws.String("application/json"),
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
	})
	if err != nil {
		return fmt.Errorf("put pull secret object: %w", err)
	}
	return nil
}
