package mailer

import (
	"errors"
	"strings"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (+Data) or Subject with Text/HTML must be provided.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "activation"
	Data     map[string]any `json:"data,omitempty"`
}

var ErrInvalidJob = errors.New("email job: missing recipient or content")

// Normalize fills the recipient from Data when To is empty and trims it.
func (j *EmailJob) Normalize() {
	if strings.TrimSpace(j.To) == "" && j.Data != nil {
		if v, ok := j.Data["Email"].(string); ok {
			j.To = v
		}
	}
	j.To = strings.TrimSpace(j.To)
}

func (j *EmailJob) Validate() error {
	if j.To == "" {
		return ErrInvalidJob
	}
	if j.Template == "" && j.Text == "" && j.HTML == "" {
		return ErrInvalidJob
	}
	return nil
}
