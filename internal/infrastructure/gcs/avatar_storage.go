package gcs

import (
	"context"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/oksasatya/blogsphere/internal/application"
	"github.com/oksasatya/blogsphere/pkg/helpers"
)

// AvatarStorage uploads profile images to a GCS bucket.
type AvatarStorage struct {
	Client *storage.Client
	Bucket string
}

func NewAvatarStorage(client *storage.Client, bucket string) *AvatarStorage {
	return &AvatarStorage{Client: client, Bucket: bucket}
}

func (s *AvatarStorage) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	return helpers.UploadImageToGCS(ctx, s.Client, s.Bucket, avatarObjectPath(userID, filename), contentType, r)
}

// avatarObjectPath returns avatars/<user>/<random><ext>, keeping only the
// lowercased extension of the client-supplied name.
func avatarObjectPath(userID, filename string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(filename, "\\", "/")))
	return path.Join("avatars", userID, uuid.NewString()+ext)
}

var _ application.AvatarStorage = (*AvatarStorage)(nil)
