package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// EmailConfig represents email service configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// SMTPEmailService sends account emails over SMTP
type SMTPEmailService struct {
	config        EmailConfig
	resetTemplate *template.Template
}

const passwordResetTemplate = `
<html>
<body>
	<h2>Password reset</h2>
	<p>Hi {{.Name}},</p>
	<p>We received a request to reset your password. Click the link below to
	choose a new one. The link expires in one hour.</p>
	<p><a href="{{.ResetLink}}">Reset your password</a></p>
	<p>If you did not request this, you can ignore this email.</p>
</body>
</html>`

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(config EmailConfig) *SMTPEmailService {
	return &SMTPEmailService{
		config:        config,
		resetTemplate: template.Must(template.New("password_reset").Parse(passwordResetTemplate)),
	}
}

// SendPasswordReset delivers a password reset link
func (s *SMTPEmailService) SendPasswordReset(to, name, resetLink string) error {
	var body bytes.Buffer
	err := s.resetTemplate.Execute(&body, struct {
		Name      string
		ResetLink string
	}{Name: name, ResetLink: resetLink})
	if err != nil {
		return fmt.Errorf("failed to render reset email: %w", err)
	}

	msg := bytes.Buffer{}
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: Reset your password\r\n")
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.Write(body.Bytes())

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	return nil
}
