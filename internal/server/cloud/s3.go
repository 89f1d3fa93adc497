package cloud

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
		_, err := c.PutObject(ctx, in)
		return err
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) error {
		_, err := c.DeleteObject(ctx, in)
		return err
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// S3Options configures an S3-compatible backend (AWS or MinIO).
type S3Options struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	Bucket       string
}

// S3Storage is Storage on top of aws-sdk-go-v2. The client is built on first
// use.
type S3Storage struct {
	opts S3Options

	once      sync.Once
	client    *s3.Client
	presigner *s3.PresignClient
	initErr   error
}

func NewS3Storage(opts S3Options) *S3Storage {
	return &S3Storage{opts: opts}
}

func (s *S3Storage) init(ctx context.Context) error {
	s.once.Do(func() {
		cfg, err := loadDefaultAWSConfig(ctx,
			config.WithRegion(s.opts.Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				s.opts.AccessKey,
				s.opts.SecretKey,
				"",
			)))
		if err != nil {
			s.initErr = err
			return
		}

		s.client = newS3ClientFromConfig(cfg, func(o *s3.Options) {
			if s.opts.BaseEndpoint != "" {
				o.BaseEndpoint = aws.String(s.opts.BaseEndpoint)
			}
			// MinIO serves buckets by path.
			o.UsePathStyle = true
		})
		s.presigner = newS3PresignClient(s.client)
	})
	return s.initErr
}

func (s *S3Storage) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if err := s.init(ctx); err != nil {
		return err
	}
	return putObject(s.client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
}

func (s *S3Storage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := s.init(ctx); err != nil {
		return "", err
	}
	req, err := presignGetObject(s.presigner, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if err := s.init(ctx); err != nil {
		return err
	}
	return deleteObject(s.client, ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	})
}
