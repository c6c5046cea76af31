package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rotisserie/eris"
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type R2Options struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

// R2Client stores uploaded menu images and dated snapshot backups in an
// S3-compatible bucket.
type R2Client struct {
	client  objectPutter
	bucket  string
	baseURL string
}

func NewR2Client(ctx context.Context, opts R2Options) (*R2Client, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				opts.AccessKey,
				opts.SecretKey,
				"",
			),
		),
	)
	if err != nil {
		return nil, eris.Wrap(err, "load r2 config")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
	})

	return &R2Client{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: strings.TrimRight(opts.PublicBaseURL, "/"),
	}, nil
}

// Upload writes body under key and returns its public URL, or "" when no
// public base URL is configured.
func (r *R2Client) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	in := &s3.PutObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := r.client.PutObject(ctx, in); err != nil {
		return "", eris.Wrapf(err, "put object %s", key)
	}

	if r.baseURL == "" {
		return "", nil
	}
	return fmt.Sprintf("%s/%s", r.baseURL, key), nil
}

// Backup keeps one snapshot object per calendar day.
func (r *R2Client) Backup(ctx context.Context, day string, snapshot []byte) error {
	key := fmt.Sprintf("backups/restaurants-%s.json", day)
	_, err := r.Upload(ctx, key, bytes.NewReader(snapshot), "application/json")
	return err
}
