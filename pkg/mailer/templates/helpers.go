package templates

import (
	"strings"
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithUnsubscribeURL(url string) Option { return func(d *EmailData) { d.UnsubscribeURL = url } }

// NewCommentNotificationData builds the payload telling a post author about a new comment.
func NewCommentNotificationData(appName, authorName, authorEmail, postTitle, postURL, commenter, comment string, opts ...Option) map[string]any {
	d := EmailData{
		Name:           strings.TrimSpace(authorName),
		RecipientEmail: authorEmail,
		Type:           CommentNotification,
		AppName:        appName,
		PostTitle:      postTitle,
		PostURL:        postURL,
		Commenter:      commenter,
		CommentText:    excerpt(comment, 280),
	}
	for _, o := range opts {
		o(&d)
	}
	return ToMap(d)
}

func excerpt(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "…"
}
