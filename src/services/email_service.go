package services

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/username/salesreport/src/config"
	"github.com/username/salesreport/src/logger"
)

// ReportEmail is one message with a single binary attachment.
type ReportEmail struct {
	From           string
	To             string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
	Date           time.Time
}

type EmailService interface {
	SendReport(ctx context.Context, msg ReportEmail) error
}

func NewEmailService(cfg *config.AppConfig) EmailService {
	provider := strings.ToLower(cfg.EmailServiceProvider)
	logger.L.Info("Initializing email service", "provider", provider)

	switch provider {
	case "mailgun":
		mg := mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunPrivateAPIKey)
		logger.L.Info("Mailgun client initialized", "domain", cfg.MailgunDomain)
		return &MailgunEmailService{mg: mg, timeout: cfg.SMTPTimeout}
	case "smtp":
		return &SMTPEmailService{
			SMTPServer:   cfg.SMTPServer,
			SMTPPort:     cfg.SMTPPort,
			SMTPUser:     cfg.SMTPUser,
			SMTPPassword: cfg.SMTPPassword,
			Timeout:      cfg.SMTPTimeout,
		}
	default:
		logger.L.Info("Defaulting to MockEmailService.")
		return &MockEmailService{}
	}
}

// SMTPEmailService delivers through one authenticated STARTTLS session per
// message: dial, upgrade, authenticate, send, quit.
type SMTPEmailService struct {
	SMTPServer   string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	Timeout      time.Duration
	TLSConfig    *tls.Config // nil verifies SMTPServer against the system roots
}

func (s *SMTPEmailService) SendReport(ctx context.Context, msg ReportEmail) error {
	raw, err := BuildMIMEMessage(msg)
	if err != nil {
		return fmt.Errorf("building report email: %w", err)
	}

	addr := net.JoinHostPort(s.SMTPServer, strconv.Itoa(s.SMTPPort))
	dialer := &net.Dialer{Timeout: s.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		logger.L.Error("Failed to connect to SMTP server", "error", err, "addr", addr)
		return fmt.Errorf("connecting to SMTP server %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, s.SMTPServer)
	if err != nil {
		conn.Close()
		return fmt.Errorf("starting SMTP session with %s: %w", addr, err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); !ok {
		return fmt.Errorf("SMTP server %s does not offer STARTTLS", addr)
	}
	tlsConfig := s.TLSConfig
	if tlsConfig == nil {
		tlsConfig = &tls.Config{ServerName: s.SMTPServer}
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("STARTTLS with %s: %w", addr, err)
	}
	if err := client.Auth(smtp.PlainAuth("", s.SMTPUser, s.SMTPPassword, s.SMTPServer)); err != nil {
		return fmt.Errorf("SMTP authentication as %s: %w", s.SMTPUser, err)
	}
	if err := client.Mail(msg.From); err != nil {
		return fmt.Errorf("SMTP MAIL FROM %s: %w", msg.From, err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("SMTP RCPT TO %s: %w", msg.To, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		w.Close()
		return fmt.Errorf("writing message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finishing message: %w", err)
	}
	if err := client.Quit(); err != nil {
		logger.L.Warn("SMTP QUIT failed after message was accepted", "error", err)
	}

	logger.L.Info("Report email sent successfully via SMTP", "to", msg.To, "attachment", msg.AttachmentName)
	return nil
}

type MailgunEmailService struct {
	mg      mailgun.Mailgun
	timeout time.Duration
}

func (s *MailgunEmailService) SendReport(ctx context.Context, msg ReportEmail) error {
	if len(msg.Attachment) == 0 {
		return errors.New("report email has no attachment")
	}
	message := s.mg.NewMessage(msg.From, msg.Subject, msg.Body, msg.To)
	message.AddBufferAttachment(msg.AttachmentName, msg.Attachment)

	timeout := s.timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, id, err := s.mg.Send(ctx, message)
	if err != nil {
		logger.L.Error("Failed to send report email via Mailgun", "error", err, "to", msg.To, "mailgunResp", resp, "mailgunId", id)
		return fmt.Errorf("mailgun send failed: %w. Response: %s", err, resp)
	}
	logger.L.Info("Report email sent successfully via Mailgun", "to", msg.To, "id", id, "mailgunResp", resp)
	return nil
}

// MockEmailService only logs; it also records the last message for tests.
type MockEmailService struct {
	Sent []ReportEmail
}

func (m *MockEmailService) SendReport(ctx context.Context, msg ReportEmail) error {
	m.Sent = append(m.Sent, msg)
	logger.L.Info("MockEmailService: Would send report email.",
		"to", msg.To, "subject", msg.Subject, "attachment", msg.AttachmentName, "attachmentBytes", len(msg.Attachment))
	return nil
}
