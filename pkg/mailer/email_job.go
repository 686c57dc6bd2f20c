package mailer

import "fmt"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Html is optional; Text is recommended as fallback.
// You can also use a template by specifying Template and Data.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "comment_notification"
	Data     map[string]any `json:"data,omitempty"`
}

// EnsureRecipient copies To into the template data when the producer left it out.
func (j *EmailJob) EnsureRecipient() {
	if j.Data == nil {
		j.Data = map[string]any{}
	}
	if v, ok := j.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		j.Data["RecipientEmail"] = j.To
	}
}
