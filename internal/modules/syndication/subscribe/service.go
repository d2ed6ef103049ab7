package subscribe

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/ministry-site/core/internal/models"
	"github.com/ministry-site/core/internal/modules/notify"
	"github.com/ministry-site/core/internal/modules/stats/aggregate"
	"github.com/ministry-site/core/internal/pkg/pagination"
	"github.com/ministry-site/core/internal/pkg/response"
	"gorm.io/gorm"
)

// Notifier sends the welcome mail and newsletters.
type Notifier interface {
	Subscribed(ctx context.Context, sub *models.SubscriberModel)
	Broadcast(ctx context.Context, subject, content string, recipients []models.SubscriberModel) notify.BroadcastStats
}

type Service struct {
	db       *gorm.DB
	notifier Notifier
}

// NewService builds the service. notifier may be nil.
func NewService(db *gorm.DB, notifier Notifier) *Service {
	return &Service{db: db, notifier: notifier}
}

func newToken() (string, error) {
	token := make([]byte, 24)
	if _, err := rand.Read(token); err != nil {
		return "", err
	}
	return hex.EncodeToString(token), nil
}

// Subscribe stores a new subscriber or reactivates an unsubscribed one. It
// reports whether a row was created and fails with errAlreadySubscribed for
// an active address.
func (s *Service) Subscribe(ctx context.Context, dto *SubscribeDTO) (*models.SubscriberModel, bool, error) {
	existing, err := s.byEmail(ctx, dto.Email)
	if err != nil {
		return nil, false, err
	}

	if existing != nil {
		if existing.Status == models.SubscriberActive {
			return nil, false, errAlreadySubscribed
		}
		updates := map[string]interface{}{"status": models.SubscriberActive}
		if dto.Name != nil {
			updates["name"] = *dto.Name
		}
		if err := s.db.WithContext(ctx).Model(existing).Updates(updates).Error; err != nil {
			return nil, false, err
		}
		existing.Status = models.SubscriberActive
		if dto.Name != nil {
			existing.Name = dto.Name
		}
		s.welcome(ctx, existing)
		return existing, false, nil
	}

	token, err := newToken()
	if err != nil {
		return nil, false, err
	}
	sub := models.SubscriberModel{
		Email:            dto.Email,
		Name:             dto.Name,
		Status:           models.SubscriberActive,
		UnsubscribeToken: token,
	}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, errAlreadySubscribed
		}
		return nil, false, err
	}
	s.welcome(ctx, &sub)
	return &sub, true, nil
}

func (s *Service) welcome(ctx context.Context, sub *models.SubscriberModel) {
	if s.notifier != nil {
		s.notifier.Subscribed(ctx, sub)
	}
}

// UnsubscribeEmail reports whether an active subscriber with this address
// existed.
func (s *Service) UnsubscribeEmail(ctx context.Context, email string) (bool, error) {
	return s.unsubscribe(ctx, "email = ?", email)
}

// UnsubscribeToken is the one-click variant used by mail links.
func (s *Service) UnsubscribeToken(ctx context.Context, token string) (bool, error) {
	return s.unsubscribe(ctx, "unsubscribe_token = ?", token)
}

func (s *Service) unsubscribe(ctx context.Context, cond string, arg string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.SubscriberModel{}).
		Where(cond, arg).
		Where("status = ?", models.SubscriberActive).
		Update("status", models.SubscriberUnsubscribed)
	return res.RowsAffected > 0, res.Error
}

func (s *Service) List(ctx context.Context, status string, page pagination.Query) ([]models.SubscriberModel, response.Pagination, error) {
	tx := s.db.WithContext(ctx).Model(&models.SubscriberModel{})
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	tx = tx.Order("subscribed_at DESC").Order("id DESC")

	var rows []models.SubscriberModel
	meta, err := pagination.Paginate(tx, page, &rows)
	return rows, meta, err
}

func (s *Service) Stats(ctx context.Context) (aggregate.StatusCounts, error) {
	return aggregate.CountByStatus(ctx, s.db, &models.SubscriberModel{}, statuses...)
}

// SendNewsletter mails every active subscriber. A missing notifier counts
// every recipient as delivered, the same as a disabled mailer.
func (s *Service) SendNewsletter(ctx context.Context, subject, content string) (notify.BroadcastStats, error) {
	var recipients []models.SubscriberModel
	err := s.db.WithContext(ctx).
		Where("status = ?", models.SubscriberActive).
		Order("id ASC").
		Find(&recipients).Error
	if err != nil {
		return notify.BroadcastStats{}, err
	}
	if s.notifier == nil {
		return notify.BroadcastStats{Total: len(recipients), Success: len(recipients)}, nil
	}
	return s.notifier.Broadcast(ctx, subject, content, recipients), nil
}

func (s *Service) byEmail(ctx context.Context, email string) (*models.SubscriberModel, error) {
	var sub models.SubscriberModel
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}
