// Package mailer sends transactional email through either the Resend
// HTTP API or plain SMTP, selected by configuration. An unconfigured
// mailer logs and drops messages instead of failing the caller.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dalemusser/recordhub/internal/app/system/timeouts"
	mail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const resendEndpoint = "https://api.resend.com/emails"

// Email is a single outbound message.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Config selects and parameterizes the delivery provider.
type Config struct {
	Provider string // "resend", "smtp", or "" (disabled)

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string

	ResendAPIKey string

	From     string // sender address
	FromName string // display name
}

// Mailer delivers Email messages. Build one at startup and share it.
type Mailer struct {
	cfg        Config
	log        *zap.Logger
	httpClient *http.Client
}

// New builds a Mailer. A missing or unknown provider is not an error;
// Send will log and drop instead.
func New(cfg Config, log *zap.Logger) *Mailer {
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	return &Mailer{
		cfg:        cfg,
		log:        log,
		httpClient: &http.Client{},
	}
}

// Enabled reports whether a delivery provider is configured.
func (m *Mailer) Enabled() bool {
	switch m.cfg.Provider {
	case "resend":
		return m.cfg.ResendAPIKey != ""
	case "smtp":
		return m.cfg.SMTPHost != "" && m.cfg.SMTPPort != 0 && m.cfg.From != ""
	default:
		return false
	}
}

// Send delivers msg with the configured provider. When no provider is
// configured the message is logged and dropped without error.
func (m *Mailer) Send(ctx context.Context, msg Email) error {
	if !m.Enabled() {
		m.log.Warn("mailer not configured, dropping message",
			zap.String("to", msg.To), zap.String("subject", msg.Subject))
		return nil
	}

	switch m.cfg.Provider {
	case "resend":
		return m.sendResend(ctx, msg)
	case "smtp":
		return m.sendSMTP(ctx, msg)
	default:
		return fmt.Errorf("unknown mail provider %q", m.cfg.Provider)
	}
}

// SendAsync delivers msg in the background. Failures are logged, never
// surfaced to the caller.
func (m *Mailer) SendAsync(msg Email) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Mail())
		defer cancel()
		if err := m.Send(ctx, msg); err != nil {
			m.log.Error("async mail delivery failed",
				zap.Error(err), zap.String("to", msg.To), zap.String("subject", msg.Subject))
			return
		}
		m.log.Info("email sent", zap.String("to", msg.To), zap.String("provider", m.cfg.Provider))
	}()
}

func (m *Mailer) from() string {
	if m.cfg.FromName != "" {
		return fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.From)
	}
	return m.cfg.From
}

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

func (m *Mailer) sendResend(ctx context.Context, msg Email) error {
	body, err := json.Marshal(resendPayload{
		From:    m.from(),
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTMLBody,
		Text:    msg.TextBody,
	})
	if err != nil {
		return fmt.Errorf("marshal resend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.cfg.ResendAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("resend request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("resend returned status %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}

func (m *Mailer) sendSMTP(ctx context.Context, msg Email) error {
	opts := []mail.Option{
		mail.WithPort(m.cfg.SMTPPort),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	}
	if m.cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.SMTPUser),
			mail.WithPassword(m.cfg.SMTPPass),
		)
	}

	client, err := mail.NewClient(m.cfg.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	mm := mail.NewMsg()
	if err := mm.From(m.from()); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := mm.To(msg.To); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	if msg.HTMLBody != "" {
		mm.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	}

	return client.DialAndSendWithContext(ctx, mm)
}
