package subscribe

import (
	"errors"
	"strings"
)

var (
	errAlreadySubscribed = errors.New("email is already subscribed")
	statuses             = []string{"active", "unsubscribed"}
)

type SubscribeDTO struct {
	Email string  `json:"email" binding:"required,email,max=191"`
	Name  *string `json:"name"  binding:"omitempty,max=100"`
}

func (d *SubscribeDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	if d.Name != nil {
		n := strings.TrimSpace(*d.Name)
		if n == "" {
			d.Name = nil
		} else {
			d.Name = &n
		}
	}
}

type UnsubscribeDTO struct {
	Email string `json:"email" binding:"required,email"`
}

func (d *UnsubscribeDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
}

type NewsletterDTO struct {
	Subject string `json:"subject" binding:"required,max=255"`
	Content string `json:"content" binding:"required"`
}

func (d *NewsletterDTO) Normalize() {
	d.Subject = strings.TrimSpace(d.Subject)
	d.Content = strings.TrimSpace(d.Content)
}
