package notifications

import (
	"fmt"
	"net/smtp"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// MailerImpl implements domain.NotificationService over SMTP. Callers invoke
// it fire-and-forget; a delivery failure is logged by the caller and never
// fails the triggering request.
type MailerImpl struct {
	addr string
	from string
	auth smtp.Auth
}

// NewMailer creates a new SMTP notification service
func NewMailer(host string, port int, from, user, pass string) domain.NotificationService {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}
	return &MailerImpl{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
		auth: auth,
	}
}

// SendEmail implements domain.NotificationService
func (m *MailerImpl) SendEmail(to, subject, body string) error {
	// If no mail host is configured, log instead of sending
	if m.addr == ":0" || m.from == "" {
		fmt.Printf("[MOCK EMAIL] To: %s, Subject: %s, Body: %s\n", to, subject, body)
		return nil
	}

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.from, to, subject, body))

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
