package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"ptoportal/internal/platform/config"
)

// PasscodeEmail is the parameter bag for the one-time passcode message.
type PasscodeEmail struct {
	ToEmail   string
	ToName    string
	Passcode  string
	ExpiresAt time.Time
}

type Mailer interface {
	SendPasscode(ctx context.Context, msg PasscodeEmail) error
}

func New(cfg config.Config) Mailer {
	switch cfg.EmailMode {
	case config.EmailModeSMTP:
		return &smtpMailer{cfg: cfg}
	case config.EmailModeAPI:
		return &apiMailer{cfg: cfg, client: &http.Client{Timeout: 10 * time.Second}}
	default:
		return noopMailer{}
	}
}

type noopMailer struct{}

func (noopMailer) SendPasscode(ctx context.Context, msg PasscodeEmail) error {
	return nil
}

// apiMailer posts to a transactional email API that accepts a service
// and template identifier pair plus template parameters.
type apiMailer struct {
	cfg    config.Config
	client *http.Client
}

type apiPayload struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

func (m *apiMailer) SendPasscode(ctx context.Context, msg PasscodeEmail) error {
	if strings.TrimSpace(msg.ToEmail) == "" {
		return nil
	}

	payload := apiPayload{
		ServiceID:  m.cfg.EmailAPIServiceID,
		TemplateID: m.cfg.EmailAPITemplateID,
		UserID:     m.cfg.EmailAPIPublicKey,
		TemplateParams: map[string]string{
			"to_email": msg.ToEmail,
			"to_name":  msg.ToName,
			"passcode": msg.Passcode,
			"time":     msg.ExpiresAt.Format("Jan 2, 2006 3:04 PM"),
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.EmailAPIURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("email api returned status %d", resp.StatusCode)
	}
	return nil
}

type smtpMailer struct {
	cfg config.Config
}

func (s *smtpMailer) SendPasscode(ctx context.Context, msg PasscodeEmail) error {
	if strings.TrimSpace(msg.ToEmail) == "" {
		return nil
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	subject := "Your login passcode"
	body := buildPasscodeBody(msg)
	raw := buildMessage(s.cfg.EmailFrom, msg.ToEmail, subject, body)

	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		return err
	}
	defer client.Close()

	if s.cfg.SMTPUseTLS {
		tlsConfig := &tls.Config{ServerName: s.cfg.SMTPHost}
		if err := client.StartTLS(tlsConfig); err != nil {
			return err
		}
	}

	if s.cfg.SMTPUser != "" {
		auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(s.cfg.EmailFrom); err != nil {
		return err
	}
	if err := client.Rcpt(msg.ToEmail); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildPasscodeBody(msg PasscodeEmail) string {
	return fmt.Sprintf(
		"Hi %s,\r\n\r\nYour login passcode is %s.\r\nIt expires at %s.\r\n\r\nIf you did not request this, you can ignore this email.\r\n",
		msg.ToName, msg.Passcode, msg.ExpiresAt.Format("Jan 2, 2006 3:04 PM"),
	)
}

func buildMessage(from, to, subject, body string) []byte {
	headers := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n" + body)
}
