package service

import (
	"fmt"
	"net/url"

	"github.com/signalforge/zairix-api/internal/config"
	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail. A nil Mailer in the auth flows
// means "mail transport not configured" and surfaces as 503.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// smtpMailer implements Mailer over SMTP via gomail.
type smtpMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer returns nil when no SMTP host is configured, so
// callers can detect the missing transport instead of failing mid-send.
func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	if !cfg.Configured() {
		return nil
	}
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)

	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// magicLinkURL builds the verification URL carried in the email. The
// raw token travels only here; storage holds its peppered hash.
func magicLinkURL(baseURL, email, rawToken, next string) string {
	q := url.Values{}
	q.Set("token", rawToken)
	q.Set("email", email)
	if next != "" {
		q.Set("next", next)
	}
	return baseURL + "/api/auth/verify?" + q.Encode()
}

func passwordResetURL(baseURL, email, rawToken string) string {
	q := url.Values{}
	q.Set("token", rawToken)
	q.Set("email", email)
	return baseURL + "/reset-password?" + q.Encode()
}

func magicLinkBody(link string) string {
	return fmt.Sprintf(`<p>Sign in to SignalForge with this link. It expires in 15 minutes and works once.</p>
<p><a href="%s">Sign in</a></p>
<p>If you did not request this, you can ignore this email.</p>`, link)
}

func passwordResetBody(link string) string {
	return fmt.Sprintf(`<p>Reset your SignalForge password with this link. It expires in 30 minutes and works once.</p>
<p><a href="%s">Reset password</a></p>
<p>If you did not request this, you can ignore this email.</p>`, link)
}
