package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// objectAPI is the slice of the S3 client we use.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// S3Config points the uploader at AWS S3 or anything speaking its API (MinIO).
type S3Config struct {
	Region    string
	Endpoint  string // empty for AWS
	Bucket    string
	AccessKey string
	SecretKey string

	// PublicBaseURL is prepended to keys, e.g. a CDN in front of the bucket.
	PublicBaseURL string
	Prefix        string
}

// S3Uploader stores images as S3 objects.
type S3Uploader struct {
	api     objectAPI
	cfg     S3Config
	baseURL string
	now     func() time.Time
}

// NewS3Uploader builds the client with static credentials and path-style
// addressing so MinIO works without DNS tricks.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("media: s3 bucket is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("media: load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	return newS3Uploader(client, cfg), nil
}

func newS3Uploader(api objectAPI, cfg S3Config) *S3Uploader {
	return &S3Uploader{api: api, cfg: cfg, baseURL: publicBase(cfg), now: time.Now}
}

// publicBase works out where objects are reachable from a browser.
func publicBase(cfg S3Config) string {
	switch {
	case cfg.PublicBaseURL != "":
		return cfg.PublicBaseURL
	case cfg.Endpoint != "":
		return joinURL(cfg.Endpoint, cfg.Bucket)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

// Upload implements Uploader.
func (u *S3Uploader) Upload(ctx context.Context, localPath string) (*Asset, error) {
	defer removeTemp(ctx, localPath)

	f, ct, ext, size, err := sniff(localPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	key := objectKey(u.cfg.Prefix, ext, u.now())
	_, err = u.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.cfg.Bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(ct),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return nil, fmt.Errorf("media: put object: %w", err)
	}

	return &Asset{
		URL:         joinURL(u.baseURL, key),
		Key:         key,
		Bytes:       size,
		ContentType: ct,
	}, nil
}

// EnsureBucket creates the bucket when it doesn't exist yet.
func (u *S3Uploader) EnsureBucket(ctx context.Context) error {
	if err := u.Ping(ctx); err == nil {
		return nil
	}

	_, err := u.api.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(u.cfg.Bucket)})
	var owned *types.BucketAlreadyOwnedByYou
	if err != nil && !errors.As(err, &owned) {
		return fmt.Errorf("media: create bucket: %w", err)
	}
	return nil
}

// Ping checks the bucket is reachable with our credentials.
func (u *S3Uploader) Ping(ctx context.Context) error {
	_, err := u.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(u.cfg.Bucket)})
	return err
}
