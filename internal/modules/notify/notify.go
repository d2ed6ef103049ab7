// Package notify turns domain events into emails. Single messages are queued
// for background delivery; newsletters are sent inline so the caller gets
// per-recipient results.
package notify

import (
	"context"
	"encoding/json"
	"html/template"
	"net/url"
	"strings"

	"github.com/ministry-site/core/internal/config"
	"github.com/ministry-site/core/internal/models"
	"github.com/ministry-site/core/internal/pkg/mail"
	"github.com/ministry-site/core/internal/pkg/markdown"
	"github.com/ministry-site/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

// TaskSendMail is the queue task type carrying one mail.Message.
const TaskSendMail = "mail.send"

const unsubscribePath = "/api/subscribers/unsubscribe"

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

// Config names the recipients and links used in mails.
type Config struct {
	SiteName        string
	SiteURL         string
	AdminEmail      string
	PrayerTeamEmail string
}

// ConfigFrom maps the application config onto Config.
func ConfigFrom(cfg *config.AppConfig) Config {
	return Config{
		SiteName:        cfg.Site.Name,
		SiteURL:         cfg.Site.URL,
		AdminEmail:      cfg.Mail.AdminEmail,
		PrayerTeamEmail: cfg.Mail.PrayerTeamEmail,
	}
}

// BroadcastStats summarizes a newsletter run.
type BroadcastStats struct {
	Total    int `json:"total"`
	Success  int `json:"success"`
	Failures int `json:"failures"`
}

type Service struct {
	sender Mailer
	queue  *taskqueue.Queue
	cfg    Config
	log    *zap.Logger
}

// New builds the service and registers its task handler on queue.
func New(sender Mailer, queue *taskqueue.Queue, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{sender: sender, queue: queue, cfg: cfg, log: log}
	queue.Handle(TaskSendMail, s.handleSend)
	return s
}

func (s *Service) handleSend(ctx context.Context, payload json.RawMessage) error {
	var msg mail.Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return err
	}
	return s.sender.Send(ctx, msg)
}

func (s *Service) enqueue(ctx context.Context, kind string, msg mail.Message, buildErr error) {
	if buildErr != nil {
		s.log.Warn("render mail failed", zap.String("kind", kind), zap.Error(buildErr))
		return
	}
	if len(msg.To) == 0 || strings.TrimSpace(msg.To[0]) == "" {
		return
	}
	// the request context ends with the response; the task must outlive it
	if _, err := s.queue.Enqueue(context.WithoutCancel(ctx), TaskSendMail, msg); err != nil {
		s.log.Warn("enqueue mail failed", zap.String("kind", kind), zap.Error(err))
	}
}

// ContactReceived notifies staff and acknowledges the sender.
func (s *Service) ContactReceived(ctx context.Context, m *models.ContactMessageModel) {
	data := mail.ContactData{
		SiteName: s.cfg.SiteName,
		Name:     m.Name,
		Email:    m.Email,
		Subject:  m.Subject,
		Message:  m.Message,
	}
	if s.cfg.AdminEmail != "" {
		msg, err := mail.ContactNotice(s.cfg.AdminEmail, data)
		s.enqueue(ctx, "contact_notice", msg, err)
	}
	msg, err := mail.ContactConfirmation(data)
	s.enqueue(ctx, "contact_confirm", msg, err)
}

// PrayerReceived notifies the prayer team and, when an address was given,
// acknowledges the requester.
func (s *Service) PrayerReceived(ctx context.Context, p *models.PrayerRequestModel) {
	data := mail.PrayerData{
		SiteName:     s.cfg.SiteName,
		Name:         p.Name,
		Category:     p.Category,
		Request:      p.Request,
		AllowSharing: p.AllowSharing,
	}
	if p.Email != nil {
		data.Email = *p.Email
	}
	if to := firstNonEmpty(s.cfg.PrayerTeamEmail, s.cfg.AdminEmail); to != "" {
		msg, err := mail.PrayerNotice(to, data)
		s.enqueue(ctx, "prayer_notice", msg, err)
	}
	if data.Email != "" {
		msg, err := mail.PrayerConfirmation(data)
		s.enqueue(ctx, "prayer_confirm", msg, err)
	}
}

// Subscribed sends the welcome mail.
func (s *Service) Subscribed(ctx context.Context, sub *models.SubscriberModel) {
	data := mail.WelcomeData{
		SiteName:       s.cfg.SiteName,
		UnsubscribeURL: s.UnsubscribeURL(sub.UnsubscribeToken),
	}
	if sub.Name != nil {
		data.Name = *sub.Name
	}
	msg, err := mail.Welcome(sub.Email, data)
	s.enqueue(ctx, "welcome", msg, err)
}

// Broadcast sends one newsletter per recipient, in order. A failed recipient
// is counted and logged, and the loop continues.
func (s *Service) Broadcast(ctx context.Context, subject, content string, recipients []models.SubscriberModel) BroadcastStats {
	// Delivery outlives the admin request that triggered it.
	ctx = context.WithoutCancel(ctx)
	stats := BroadcastStats{Total: len(recipients)}
	body := template.HTML(markdown.Render(content))
	for i := range recipients {
		sub := &recipients[i]
		msg, err := mail.Newsletter(sub.Email, subject, mail.NewsletterData{
			SiteName:       s.cfg.SiteName,
			Content:        body,
			UnsubscribeURL: s.UnsubscribeURL(sub.UnsubscribeToken),
		})
		if err == nil {
			err = s.sender.Send(ctx, msg)
		}
		if err != nil {
			stats.Failures++
			s.log.Warn("newsletter delivery failed", zap.String("email", sub.Email), zap.Error(err))
			continue
		}
		stats.Success++
	}
	s.log.Info("newsletter sent",
		zap.String("subject", subject),
		zap.Int("total", stats.Total),
		zap.Int("failures", stats.Failures),
	)
	return stats
}

// UnsubscribeURL is the one-click link embedded in subscriber mails.
func (s *Service) UnsubscribeURL(token string) string {
	if token == "" {
		return ""
	}
	base := strings.TrimRight(s.cfg.SiteURL, "/")
	return base + unsubscribePath + "?token=" + url.QueryEscape(token)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
