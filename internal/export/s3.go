package export

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Writer buffers the whole object in memory and uploads it on Close.
// Snapshot exports are small (one row per menu item) so a single PutObject
// per file is enough.
type S3Writer struct {
	client     *s3.Client
	bucket     string
	objectPath string
	buffer     bytes.Buffer
}

type S3WriterFactory struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3WriterFactory(region, bucket, prefix string) (*S3WriterFactory, error) {
	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3WriterFactory{client: client, bucket: bucket, prefix: prefix}, nil
}

func (f *S3WriterFactory) NewWriter(objectPath string) (CloudWriter, error) {
	return &S3Writer{
		client:     f.client,
		bucket:     f.bucket,
		objectPath: path.Join(f.prefix, objectPath),
	}, nil
}

func (w *S3Writer) Write(data []byte) (int, error) {
	return w.buffer.Write(data)
}

func (w *S3Writer) Close() error {
	ctx := context.Background()
	_, err := w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(w.objectPath),
		Body:   bytes.NewReader(w.buffer.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("unable to upload %s to s3: %w", w.objectPath, err)
	}
	return nil
}
