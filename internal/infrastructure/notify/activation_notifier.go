package notify

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/pkg/mailer"
	mailtpl "github.com/oksasatya/go-account-service/pkg/mailer/templates"
)

// JobPublisher enqueues an email job; *helpers.RabbitPublisher satisfies it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

func activationJob(appName string, msg application.ActivationMessage) mailer.EmailJob {
	return mailer.EmailJob{
		To:       msg.Email,
		Template: mailtpl.Activation,
		Data: mailtpl.ActivationData{
			AppName:       appName,
			Username:      msg.Username,
			Email:         msg.Email,
			ActivationURL: msg.Link,
			ExpiresAt:     msg.ExpiresAt,
		}.ToMap(),
	}
}

// QueueNotifier publishes activation emails to RabbitMQ for the email worker.
type QueueNotifier struct {
	Publisher JobPublisher
	AppName   string
}

func NewQueueNotifier(p JobPublisher, appName string) *QueueNotifier {
	return &QueueNotifier{Publisher: p, AppName: appName}
}

func (n *QueueNotifier) SendActivation(ctx context.Context, msg application.ActivationMessage) error {
	return n.Publisher.PublishJSON(ctx, activationJob(n.AppName, msg))
}

// DirectNotifier renders and sends the activation email in-process.
type DirectNotifier struct {
	Sender  mailer.Sender
	AppName string
}

func NewDirectNotifier(s mailer.Sender, appName string) *DirectNotifier {
	return &DirectNotifier{Sender: s, AppName: appName}
}

func (n *DirectNotifier) SendActivation(ctx context.Context, msg application.ActivationMessage) error {
	return mailer.Deliver(ctx, n.Sender, activationJob(n.AppName, msg))
}

// LogNotifier records that an activation email would have been sent. The
// link carries the token, so it is logged only when IncludeLink is set
// (development).
type LogNotifier struct {
	Logger      *logrus.Logger
	IncludeLink bool
}

func (n *LogNotifier) SendActivation(_ context.Context, msg application.ActivationMessage) error {
	fields := logrus.Fields{
		"to":         msg.Email,
		"expires_at": msg.ExpiresAt,
	}
	if n.IncludeLink {
		fields["link"] = msg.Link
	}
	n.Logger.WithFields(fields).Info("activation email (delivery disabled)")
	return nil
}

var (
	_ application.ActivationNotifier = (*QueueNotifier)(nil)
	_ application.ActivationNotifier = (*DirectNotifier)(nil)
	_ application.ActivationNotifier = (*LogNotifier)(nil)
)
