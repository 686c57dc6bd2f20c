package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oksasatya/blogsphere/pkg/mailer/templates"
)

// Sender delivers one rendered message; *Mailgun implements it.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// ErrPermanent marks jobs that will never succeed and should be dropped
// rather than requeued.
var ErrPermanent = errors.New("permanent email job failure")

// Prepare returns the subject and bodies of job, rendering its template
// when one is named.
func Prepare(job *EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", errors.New("either template or subject with text/html is required")
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	job.EnsureRecipient()
	return templates.Render(job.Template, job.Data)
}

// Handle decodes, renders and sends one queued job. Decode, validation and
// render failures are wrapped with ErrPermanent; send failures are not.
func Handle(ctx context.Context, body []byte, sender Sender) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: decode: %w", ErrPermanent, err)
	}
	if job.To == "" {
		return fmt.Errorf("%w: missing recipient", ErrPermanent)
	}
	subject, text, html, err := Prepare(&job)
	if err != nil {
		return fmt.Errorf("%w: render %q: %w", ErrPermanent, job.Template, err)
	}
	return sender.Send(ctx, job.To, subject, text, html)
}
