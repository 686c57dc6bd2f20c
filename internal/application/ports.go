package application

import (
	"context"
	"io"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
)

// PostIndexer keeps a search index of posts. Implementations may be slow or
// down; the content service treats indexing as best-effort.
type PostIndexer interface {
	Index(ctx context.Context, p *entity.Post) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]string, error)
}

// CommentNotification is handed to a CommentNotifier after a comment is stored.
type CommentNotification struct {
	Post      *entity.Post
	Comment   entity.Comment
	Author    *entity.User
	Commenter entity.Author
}

// CommentNotifier tells post authors about new comments.
type CommentNotifier interface {
	NotifyComment(ctx context.Context, n CommentNotification) error
}

// AvatarStorage stores profile images and returns their public URL.
type AvatarStorage interface {
	UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error)
}
