package prayer

import (
	"strings"
	"time"

	"github.com/ministry-site/core/internal/models"
)

var statuses = []string{
	string(models.PrayerNew),
	string(models.PrayerPraying),
	string(models.PrayerPrayed),
	string(models.PrayerAnswered),
}

type CreatePrayerDTO struct {
	Name         string  `json:"name"          binding:"max=100"`
	Email        *string `json:"email"         binding:"omitempty,email,max=191"`
	Category     string  `json:"category"      binding:"required,max=100"`
	Request      string  `json:"request"       binding:"required,min=10,max=5000"`
	IsAnonymous  bool    `json:"is_anonymous"`
	AllowSharing bool    `json:"allow_sharing"`
}

func (d *CreatePrayerDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		d.Name = models.AnonymousName
	}
	d.Category = strings.TrimSpace(d.Category)
	d.Request = strings.TrimSpace(d.Request)
	if d.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*d.Email))
		if e == "" {
			d.Email = nil
		} else {
			d.Email = &e
		}
	}
}

type UpdateStatusDTO struct {
	Status string  `json:"status" binding:"required,oneof=new praying prayed answered"`
	Notes  *string `json:"notes"  binding:"omitempty,max=5000"`
}

func (d *UpdateStatusDTO) Normalize() {
	d.Status = strings.TrimSpace(d.Status)
}

type ListQuery struct {
	Status   string
	Category string
}

// SharedPrayer is the public view of a request on the prayer wall.
type SharedPrayer struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Request   string    `json:"request"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toShared(p models.PrayerRequestModel) SharedPrayer {
	name := p.Name
	if p.IsAnonymous || name == "" {
		name = models.AnonymousName
	}
	return SharedPrayer{
		ID:        p.ID,
		Name:      name,
		Category:  p.Category,
		Request:   p.Request,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}
