package mailer

import (
	"context"

	mailtpl "github.com/oksasatya/go-account-service/pkg/mailer/templates"
)

// Deliver renders job (when it names a template) and hands it to s.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	job.Normalize()
	if err := job.Validate(); err != nil {
		return err
	}
	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		var err error
		subject, text, html, err = mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return err
		}
	}
	return s.Send(ctx, job.To, subject, text, html)
}
