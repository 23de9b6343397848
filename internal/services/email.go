package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"

	"github.com/dimitrije/officehub/internal/config"
	"github.com/dimitrije/officehub/internal/i18n"
	"github.com/dimitrije/officehub/internal/models"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type mailClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// EmailService sends notifications through SendGrid. Without an API key every
// send is a no-op.
type EmailService struct {
	cfg    config.MailConfig
	client mailClient
}

func NewEmailService(cfg config.MailConfig) *EmailService {
	s := &EmailService{cfg: cfg}
	if cfg.SendGridAPIKey != "" {
		s.client = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	}
	return s
}

func (s *EmailService) IsConfigured() bool {
	return s.client != nil && s.cfg.From != ""
}

func (s *EmailService) Send(ctx context.Context, to, subject, body string) error {
	if !s.IsConfigured() || to == "" {
		return nil
	}

	message := mail.NewV3Mail()
	message.From = mail.NewEmail(s.cfg.FromName, s.cfg.From)
	message.Subject = subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", to))
	message.AddPersonalizations(p)
	message.AddContent(mail.NewContent("text/html", body))

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("while sending mail through SendGrid: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("non-2XX response while sending mail through SendGrid: %d %s", resp.StatusCode, resp.Body)
	}
	return nil
}

var leaveReviewedTemplate = template.Must(template.New("leave").Parse(`
<html>
<body>
	<h2>{{.Subject}}</h2>
	<p>{{.Body}}</p>
</body>
</html>
`))

// SendLeaveReviewed tells an employee their leave was approved or rejected.
func (s *EmailService) SendLeaveReviewed(ctx context.Context, locale string, user *models.User, l *models.Leave) error {
	status := i18n.T(locale, "status."+l.Status)
	data := map[string]any{
		"Name":      user.DisplayName,
		"Type":      l.Type,
		"StartDate": l.StartDate,
		"EndDate":   l.EndDate,
		"Status":    status,
	}
	subject := i18n.T(locale, "mail.leave_reviewed.subject", data)

	var body bytes.Buffer
	if err := leaveReviewedTemplate.Execute(&body, map[string]string{
		"Subject": subject,
		"Body":    i18n.T(locale, "mail.leave_reviewed.body", data),
	}); err != nil {
		return fmt.Errorf("while templating leave mail: %w", err)
	}
	return s.Send(ctx, user.Email, subject, body.String())
}

var announcementTemplate = template.Must(template.New("announcement").Parse(`
<html>
<body>
	<h2>{{.Title}}</h2>
	<p>{{.Content}}</p>
	<p><em>{{.AuthorName}}</em></p>
</body>
</html>
`))

// SendUrgentAnnouncement mails an urgent announcement to every recipient.
// Failures are logged per recipient and do not stop the rest.
func (s *EmailService) SendUrgentAnnouncement(ctx context.Context, locale string, a *models.Announcement, recipients []string) {
	if !s.IsConfigured() {
		return
	}

	var body bytes.Buffer
	if err := announcementTemplate.Execute(&body, a); err != nil {
		log.Printf("Failed to template announcement %s: %v", a.ID, err)
		return
	}
	subject := i18n.T(locale, "mail.urgent_announcement.subject", map[string]any{"Title": a.Title})

	for _, to := range recipients {
		if err := s.Send(ctx, to, subject, body.String()); err != nil {
			log.Printf("Failed to mail announcement %s to %s: %v", a.ID, to, err)
		}
	}
}
