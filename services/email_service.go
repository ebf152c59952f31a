package services

import (
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/salillakra/e-summit26-sub001/config"
)

// EmailService sends transactional mail (welcome, registration confirmations)
// over SMTP. Sending failures are reported to the caller, who treats them as
// best-effort.
type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + to + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	if s.cfg.SMTPPort != 465 {
		return smtp.SendMail(addr, auth, s.cfg.SMTPFrom, []string{to}, msg)
	}

	// Port 465 expects an implicit TLS connection rather than STARTTLS.
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.SMTPHost})
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth failed: %w", err)
	}
	if err = client.Mail(s.cfg.SMTPFrom); err != nil {
		return err
	}
	if err = client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func (s *EmailService) SendWelcomeEmail(to, firstName string) error {
	body := fmt.Sprintf(
		"<h2>Welcome to E-Summit, %s!</h2><p>Your account is ready. Create a team or join one with a code to get started.</p>",
		firstName,
	)
	return s.SendEmail(to, "Welcome to E-Summit", body)
}

func (s *EmailService) SendRegistrationConfirmation(to, teamName, eventName string) error {
	body := fmt.Sprintf(
		"<h2>Registration confirmed</h2><p>Team <b>%s</b> is registered for <b>%s</b>. See you there!</p>",
		teamName, eventName,
	)
	return s.SendEmail(to, "E-Summit registration confirmed", body)
}
