package filestorage

import (
	"context"
	"fmt"
	"io"

	"github.com/kurin/blazer/b2"
)

// B2Storage uploads submission files to a Backblaze B2 bucket.
type B2Storage struct {
	client *b2.Client
	bucket *b2.Bucket
}

func NewB2Storage(ctx context.Context, keyID, appKey, bucketName string) (*B2Storage, error) {
	client, err := b2.NewClient(ctx, keyID, appKey)
	if err != nil {
		return nil, fmt.Errorf("b2.NewClient: %w", err)
	}

	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket(%s): %w", bucketName, err)
	}

	return &B2Storage{client: client, bucket: bucket}, nil
}

// Put stores r under key and returns the public download URL of the object.
func (s *B2Storage) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	w := s.bucket.Object(key).NewWriter(ctx)
	if contentType != "" {
		w = w.WithAttrs(&b2.Attrs{ContentType: contentType})
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer for %s: %w", key, err)
	}

	logger(ctx).Debug("uploaded file to b2", "key", key)

	return objectURL(s.bucket.BaseURL(), s.bucket.Name(), key), nil
}

func objectURL(baseURL, bucket, key string) string {
	return fmt.Sprintf("%s/file/%s/%s", baseURL, bucket, key)
}
