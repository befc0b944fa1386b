package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/gabriel-vasile/mimetype"
	"google.golang.org/api/iterator"
)

// GCSStorage keeps blobs in a Cloud Storage bucket under an optional
// object prefix.
type GCSStorage struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewGCSStorage(ctx context.Context, bucket, prefix string) (*GCSStorage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStorage{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}

func (s *GCSStorage) Save(ctx context.Context, name string, data []byte) (string, error) {
	object := s.objectName(name)

	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	w.ContentType = mimetype.Detect(data).String()

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to upload %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", object, err)
	}

	return gcsScheme + s.bucket + "/" + object, nil
}

func (s *GCSStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	object := s.objectName(name)

	r, err := s.client.Bucket(s.bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open gs://%s/%s: %w", s.bucket, object, err)
	}
	return r, nil
}

// List returns object names relative to the storage prefix.
func (s *GCSStorage) List(ctx context.Context, prefix string) ([]string, error) {
	query := &storage.Query{Prefix: s.objectName(prefix)}

	var names []string
	it := s.client.Bucket(s.bucket).Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		names = append(names, s.relativeName(attrs.Name))
	}

	return names, nil
}

func (s *GCSStorage) objectName(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + strings.TrimPrefix(name, "/")
}

func (s *GCSStorage) relativeName(object string) string {
	if s.prefix == "" {
		return object
	}
	return strings.TrimPrefix(object, s.prefix+"/")
}
