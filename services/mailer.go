package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/dropx/dropx-api/models"
	"go.uber.org/zap"
)

// Email is a rendered outbound message
type Email struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers transactional email
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

var mailerInstance Mailer

// GetMailer returns the global mailer
func GetMailer() Mailer {
	return mailerInstance
}

// SetMailer installs the global mailer
func SetMailer(m Mailer) {
	mailerInstance = m
}

// LogMailer writes messages to the log instead of sending them. Used when no
// contact recipient is configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a mailer that only logs
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger.Named("mailer")}
}

func (m *LogMailer) Send(_ context.Context, email Email) error {
	m.logger.Info("email not sent, mail delivery disabled",
		zap.Strings("to", email.To),
		zap.String("subject", email.Subject),
	)
	return nil
}

var contactTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<body>
<h1>New message from {{.FirstName}} {{.LastName}}</h1>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Mobile:</strong> {{.Mobile}}</p>
<p>{{.Message}}</p>
</body>
</html>`))

// RenderContactEmail builds the notification for a contact form submission
func RenderContactEmail(msg models.ContactMessage, from, recipient string) (Email, error) {
	var html bytes.Buffer
	if err := contactTemplate.Execute(&html, msg); err != nil {
		return Email{}, fmt.Errorf("render contact email: %w", err)
	}

	text := fmt.Sprintf("New message from %s %s\nEmail: %s\nMobile: %s\n\n%s\n",
		msg.FirstName, msg.LastName, msg.Email, msg.Mobile, msg.Message)

	return Email{
		From:    fmt.Sprintf("DROPX <%s>", from),
		To:      []string{recipient},
		Subject: fmt.Sprintf("Contact form: %s %s", msg.FirstName, msg.LastName),
		HTML:    html.String(),
		Text:    text,
	}, nil
}
