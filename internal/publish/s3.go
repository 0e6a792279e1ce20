// Package publish uploads finished output files to object storage.
package publish

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config contains minimal configuration for creating an S3 client.
// Values are optional and fall back to the standard AWS config chain.
type Config struct {
	Bucket       string
	Prefix       string
	Region       string
	Profile      string
	UsePathStyle bool
}

// objectPutter is the slice of the S3 API the publisher needs.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher copies <dir>/<name>.jsonl to s3://<bucket>/<prefix>/<name>.jsonl.
type S3Publisher struct {
	client objectPutter
	bucket string
	prefix string
	// Path resolves a community to its local output file.
	Path func(name string) string
}

// NewS3 creates a publisher using the default AWS configuration chain.
func NewS3(ctx context.Context, cfg Config, pathFn func(string) string) (*S3Publisher, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	c := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &S3Publisher{client: c, bucket: cfg.Bucket, prefix: cfg.Prefix, Path: pathFn}, nil
}

// Key is the object key for a local file.
func (p *S3Publisher) Key(file string) string {
	return path.Join(p.prefix, path.Base(file))
}

func (p *S3Publisher) Publish(ctx context.Context, name string) error {
	file := p.Path(name)
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	key := p.Key(file)
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", p.bucket, key, err)
	}
	return nil
}
