package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

// Config holds mail provider settings.
type Config struct {
	Enable    bool
	Host      string
	Port      int
	User      string
	Pass      string
	From      string
	ReplyTo   string
	ResendKey string
}

// Message is a single email to send.
type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// Sender sends emails via SMTP or Resend.
type Sender struct {
	cfg    Config
	client *http.Client
	// resendURL is overridden in tests.
	resendURL string
}

func New(cfg Config) *Sender {
	return &Sender{
		cfg:       cfg,
		client:    &http.Client{Timeout: 15 * time.Second},
		resendURL: resendEndpoint,
	}
}

// Enabled reports whether Send actually delivers mail.
func (s *Sender) Enabled() bool { return s.cfg.Enable }

// Send dispatches an email. Uses Resend if an API key is configured,
// otherwise SMTP. A disabled sender drops the message.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if !s.cfg.Enable {
		return nil
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("mail: no recipients")
	}
	if s.cfg.ResendKey != "" {
		return s.sendResend(ctx, msg)
	}
	return s.sendSMTP(msg)
}

func (s *Sender) from() string {
	if s.cfg.From != "" {
		return s.cfg.From
	}
	return s.cfg.User
}

func (s *Sender) replyTo(msg Message) string {
	if msg.ReplyTo != "" {
		return msg.ReplyTo
	}
	return s.cfg.ReplyTo
}

func (s *Sender) sendSMTP(msg Message) error {
	port := s.cfg.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, port)

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	}
	return smtp.SendMail(addr, auth, s.from(), msg.To, buildMIME(s.from(), s.replyTo(msg), msg))
}

func buildMIME(from, replyTo string, msg Message) []byte {
	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&body, "From: %s\r\n", from)
	fmt.Fprintf(&body, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&body, "Subject: %s\r\n", sanitizeHeader(msg.Subject))
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	if replyTo != "" {
		fmt.Fprintf(&body, "Reply-To: %s\r\n", sanitizeHeader(replyTo))
	}
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)
	return body.Bytes()
}

// sanitizeHeader strips line breaks so user input cannot inject headers.
func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

func (s *Sender) sendResend(ctx context.Context, msg Message) error {
	body := map[string]interface{}{
		"from":    s.from(),
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
	}
	if rt := s.replyTo(msg); rt != "" {
		body["reply_to"] = rt
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.resendURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.ResendKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("resend error %d: %s", resp.StatusCode, errResp.Message)
	}
	return nil
}
