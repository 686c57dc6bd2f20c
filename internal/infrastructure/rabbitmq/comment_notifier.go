package rabbitmq

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blogsphere/internal/application"
	"github.com/oksasatya/blogsphere/pkg/helpers"
	"github.com/oksasatya/blogsphere/pkg/mailer"
	"github.com/oksasatya/blogsphere/pkg/mailer/templates"
)

// Publisher is satisfied by *helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// CommentNotifier enqueues an email job for the post author whenever someone
// else comments. The email worker renders and sends it.
type CommentNotifier struct {
	Pub     Publisher
	AppName string
	BaseURL string
	Logger  *logrus.Logger
}

func NewCommentNotifier(pub Publisher, appName, baseURL string, logger *logrus.Logger) *CommentNotifier {
	return &CommentNotifier{Pub: pub, AppName: appName, BaseURL: strings.TrimRight(baseURL, "/"), Logger: logger}
}

func (n *CommentNotifier) NotifyComment(ctx context.Context, cn application.CommentNotification) error {
	if cn.Author == nil || cn.Author.Email == "" {
		helpers.LogInfo(n.Logger, "comment notification skipped: author has no email", logrus.Fields{"post_id": cn.Post.ID})
		return nil
	}

	name := cn.Author.FullName
	if name == "" {
		name = cn.Author.Username
	}
	commenter := cn.Commenter.Username
	if cn.Commenter.FullName != "" {
		commenter = cn.Commenter.FullName
	}

	job := mailer.EmailJob{
		To:       cn.Author.Email,
		Template: templates.CommentNotification,
		Data: templates.NewCommentNotificationData(
			n.AppName, name, cn.Author.Email,
			cn.Post.Title, n.BaseURL+"/post/"+cn.Post.ID,
			commenter, cn.Comment.Content,
			templates.WithTime(cn.Comment.CreatedAt),
		),
	}
	return n.Pub.PublishJSON(ctx, job)
}

var (
	_ application.CommentNotifier = (*CommentNotifier)(nil)
	_ Publisher                   = (*helpers.RabbitPublisher)(nil)
)
