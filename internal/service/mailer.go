package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"net/url"
	"strings"
)

// Mailer hands a verification token to the mail transport. Implementations
// must not retry; the user-initiated resend flow is the retry path.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, email, token string) error
}

func verificationURL(base, token string) string {
	return base + "?token=" + url.QueryEscape(token)
}

// DevMailer logs the verification link instead of sending it. Default
// outside production.
type DevMailer struct {
	logger  *slog.Logger
	baseURL string
}

func NewDevMailer(logger *slog.Logger, baseURL string) *DevMailer {
	return &DevMailer{logger: logger, baseURL: baseURL}
}

func (m *DevMailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	m.logger.InfoContext(ctx, "verification mail (dev)",
		"email", email,
		"verification_url", verificationURL(m.baseURL, token),
	)
	return nil
}

// SMTPMailer sends the verification mail over plain SMTP with optional
// auth.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	baseURL  string
}

func NewSMTPMailer(host, port, username, password, from, baseURL string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		baseURL:  baseURL,
	}
}

func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	link := verificationURL(m.baseURL, token)
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + email,
		"Subject: Welcome to MailBOX! Confirm your Email",
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Welcome!",
		"",
		"Please confirm your email address by opening the link below.",
		"The link expires in 24 hours.",
		"",
		link,
		"",
	}, "\r\n")

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	addr := m.host + ":" + m.port
	if err := smtp.SendMail(addr, auth, m.from, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", m.host, err)
	}
	return nil
}
