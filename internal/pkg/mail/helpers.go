package mail

import (
	"github.com/ministry-site/core/internal/config"
)

// BuildMailConfig constructs a mail.Config from the application config.
func BuildMailConfig(cfg *config.AppConfig) Config {
	if cfg == nil {
		return Config{}
	}
	return Config{
		Enable:    cfg.Mail.Enable,
		Host:      cfg.Mail.Host,
		Port:      cfg.Mail.Port,
		User:      cfg.Mail.User,
		Pass:      cfg.Mail.Pass,
		From:      cfg.Mail.From,
		ReplyTo:   cfg.Mail.ReplyTo,
		ResendKey: cfg.Mail.ResendKey,
	}
}
