package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const gcsScheme = "gs://"

// Store reads and writes named blobs. Names use forward slashes and may
// contain directories.
type Store interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

func IsGCSRef(ref string) bool {
	return strings.HasPrefix(ref, gcsScheme)
}

// ParseGCSRef splits gs://bucket/object into its bucket and object name.
func ParseGCSRef(ref string) (bucket, object string, err error) {
	if !IsGCSRef(ref) {
		return "", "", fmt.Errorf("not a gs:// reference: %q", ref)
	}
	bucket, object, ok := strings.Cut(strings.TrimPrefix(ref, gcsScheme), "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("invalid gs:// reference %q, want gs://bucket/object", ref)
	}
	return bucket, object, nil
}

// Resolve returns the store holding ref and the name of ref inside it.
// gs://bucket/object refs are served from Cloud Storage, anything else from
// the local filesystem. The caller closes the store.
func Resolve(ctx context.Context, ref string) (Store, string, error) {
	if IsGCSRef(ref) {
		bucket, object, err := ParseGCSRef(ref)
		if err != nil {
			return nil, "", err
		}
		s, err := NewGCSStorage(ctx, bucket, "")
		if err != nil {
			return nil, "", err
		}
		return s, object, nil
	}

	return NewLocalStorage(filepath.Dir(ref)), filepath.Base(ref), nil
}
