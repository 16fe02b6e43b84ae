// Package publish uploads rendered snapshots to S3-compatible storage.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"go.uber.org/zap"

	"github.com/Faultbox/hexfractal/internal/config"
)

// ErrNoBucket is returned when publishing is configured without a bucket.
var ErrNoBucket = errors.New("publish: no bucket configured")

const defaultTimeout = 30 * time.Second

// Publisher puts objects into a single bucket under a key prefix.
type Publisher struct {
	client  s3iface.S3API
	bucket  string
	prefix  string
	timeout time.Duration
	log     *zap.Logger
}

// New creates a Publisher from the publish section of the config.
// Static credentials are used when an access key is set; otherwise the
// SDK's default credential chain applies.
func New(cfg config.PublishConfig, log *zap.Logger) (*Publisher, error) {
	if cfg.Bucket == "" {
		return nil, ErrNoBucket
	}

	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.PathStyle),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("creating S3 session: %w", err)
	}
	return NewWithClient(s3.New(sess), cfg, log), nil
}

// NewWithClient wraps an existing S3 client.
func NewWithClient(client s3iface.S3API, cfg config.PublishConfig, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Publisher{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
		timeout: timeout,
		log:     log,
	}
}

// Key returns the object key name is stored under.
func (p *Publisher) Key(name string) string {
	return path.Join(p.prefix, name)
}

// Upload stores data as name and returns the object key.
func (p *Publisher) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	key := p.Key(name)
	size := int64(len(data))
	_, err := p.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}

	p.log.Info("snapshot published",
		zap.String("bucket", p.bucket),
		zap.String("key", key),
		zap.Int64("bytes", size))
	return key, nil
}
