package helpers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ErrNotImage is returned when an image upload carries another content type.
var ErrNotImage = errors.New("content type is not an image")

const imageCacheControl = "public, max-age=86400"

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// UploadObject streams r into bucket/objectPath and returns the object's public URL.
func UploadObject(ctx context.Context, client *storage.Client, bucket, objectPath, contentType, cacheControl string, r io.Reader) (string, error) {
	wc := client.Bucket(bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = cacheControl
	wc.ChunkSize = 0 // single request; avatars are small
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("gcs write %s: %w", objectPath, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("gcs close %s: %w", objectPath, err)
	}
	return PublicURL(bucket, objectPath), nil
}

// UploadImageToGCS uploads an image/* object with a public cache policy.
func UploadImageToGCS(ctx context.Context, client *storage.Client, bucket, objectPath, contentType string, r io.Reader) (string, error) {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return "", ErrNotImage
	}
	return UploadObject(ctx, client, bucket, objectPath, contentType, imageCacheControl, r)
}

// PublicURL builds the public URL of an object, escaping each path segment.
func PublicURL(bucket, objectPath string) string {
	segs := strings.Split(objectPath, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return "https://storage.googleapis.com/" + url.PathEscape(bucket) + "/" + strings.Join(segs, "/")
}
