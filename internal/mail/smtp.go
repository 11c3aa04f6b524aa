package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"

	"apotheca/pkg/email"
)

// SMTPMailer sends mail over implicit-TLS SMTP (port 465 style). Credentials
// come from configuration; the connection is per-send, which is fine at the
// volume of identity emails.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	if from == "" {
		from = username
	}
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, to, link, name string) error {
	if name == "" {
		name = email.DeriveDisplayName(to)
	}
	body := fmt.Sprintf(verificationBody, name, link)
	return m.send(ctx, to, verificationSubject, body)
}

func (m *SMTPMailer) SendPasswordResetEmail(ctx context.Context, to, link, name string) error {
	if name == "" {
		name = email.DeriveDisplayName(to)
	}
	body := fmt.Sprintf(passwordResetBody, name, link)
	return m.send(ctx, to, passwordResetSubject, body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	msg := []byte(
		fmt.Sprintf("From: %s\r\n", m.from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	serverAddr := m.host + ":" + m.port

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: m.host}}
	conn, err := dialer.DialContext(ctx, "tcp", serverAddr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	return w.Close()
}
