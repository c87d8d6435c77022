package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// UploadURLTTL matches the original presign expiry of 60 seconds.
const UploadURLTTL = 60 * time.Second

// Options holds S3 settings for media storage.
type Options struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	CustomDomain    string
	PathStyleAccess bool
}

// Client issues presigned PUT URLs and public object paths.
type Client struct {
	opts    Options
	presign *s3.PresignClient
}

func New(opts Options) (*Client, error) {
	if opts.Bucket == "" || opts.Region == "" {
		return nil, fmt.Errorf("incomplete s3 config: bucket and region are required")
	}

	cfg := aws.Config{
		Region:      opts.Region,
		Credentials: credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
	}

	s3c := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
		if opts.PathStyleAccess {
			o.UsePathStyle = true
		}
	})

	return &Client{opts: opts, presign: s3.NewPresignClient(s3c)}, nil
}

// UploadURL returns a presigned PUT URL for the given object key.
func (c *Client) UploadURL(ctx context.Context, key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.opts.Bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	out, err := c.presign.PresignPutObject(ctx, input, s3.WithPresignExpires(UploadURLTTL))
	if err != nil {
		return "", fmt.Errorf("presign put object: %w", err)
	}
	return out.URL, nil
}

// PublicPath returns the public URL of an object key.
func (c *Client) PublicPath(key string) string {
	key = strings.TrimPrefix(key, "/")
	if c.opts.CustomDomain != "" {
		return strings.TrimRight(c.opts.CustomDomain, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.opts.Bucket, c.opts.Region, key)
}
