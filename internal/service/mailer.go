package service

import (
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/sehatguru/backend/internal/config"
	"github.com/sehatguru/backend/internal/template"
)

// Mailer delivers the two transactional emails the auth flows produce.
type Mailer interface {
	SendVerificationEmail(to, link string) error
	SendPasswordResetEmail(to, link string) error
}

// SMTPMailer sends multipart text+HTML mail over SMTP with STARTTLS.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	fromName string
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.User,
		password: cfg.Password,
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

func (m *SMTPMailer) SendVerificationEmail(to, link string) error {
	data := template.EmailData{AppName: m.fromName, Link: link, Expiry: "24 hours"}
	return m.send(to,
		fmt.Sprintf("Verify your %s account", m.fromName),
		template.RenderEmail(template.VerificationText, data),
		template.RenderEmail(template.VerificationHTML, data),
	)
}

func (m *SMTPMailer) SendPasswordResetEmail(to, link string) error {
	data := template.EmailData{AppName: m.fromName, Link: link, Expiry: "1 hour"}
	return m.send(to,
		fmt.Sprintf("Reset your %s password", m.fromName),
		template.RenderEmail(template.PasswordResetText, data),
		template.RenderEmail(template.PasswordResetHTML, data),
	)
}

func (m *SMTPMailer) send(to, subject, textBody, htmlBody string) error {
	const boundary = "sehatguru-mail-boundary"

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.fromName, m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(textBody)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	addr := net.JoinHostPort(m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
