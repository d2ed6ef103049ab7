package prayer

import (
	"context"
	"errors"

	"github.com/ministry-site/core/internal/models"
	"github.com/ministry-site/core/internal/modules/stats/aggregate"
	"github.com/ministry-site/core/internal/pkg/pagination"
	"github.com/ministry-site/core/internal/pkg/response"
	"gorm.io/gorm"
)

// Notifier is told about every stored request.
type Notifier interface {
	PrayerReceived(ctx context.Context, p *models.PrayerRequestModel)
}

type Service struct {
	db       *gorm.DB
	notifier Notifier
}

// NewService builds the service. notifier may be nil.
func NewService(db *gorm.DB, notifier Notifier) *Service {
	return &Service{db: db, notifier: notifier}
}

func (s *Service) Create(ctx context.Context, dto *CreatePrayerDTO) (*models.PrayerRequestModel, error) {
	p := models.PrayerRequestModel{
		Name:         dto.Name,
		Email:        dto.Email,
		Category:     dto.Category,
		Request:      dto.Request,
		IsAnonymous:  dto.IsAnonymous,
		AllowSharing: dto.AllowSharing,
		Status:       models.PrayerNew,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.PrayerReceived(ctx, &p)
	}
	return &p, nil
}

// Shared returns a page of requests whose authors allowed sharing.
func (s *Service) Shared(ctx context.Context, page pagination.Query) ([]SharedPrayer, response.Pagination, error) {
	tx := s.db.WithContext(ctx).Model(&models.PrayerRequestModel{}).
		Where("allow_sharing = ?", true).
		Order("created_at DESC").Order("id DESC")

	var rows []models.PrayerRequestModel
	meta, err := pagination.Paginate(tx, page, &rows)
	if err != nil {
		return nil, meta, err
	}
	out := make([]SharedPrayer, 0, len(rows))
	for _, p := range rows {
		out = append(out, toShared(p))
	}
	return out, meta, nil
}

func (s *Service) List(ctx context.Context, q ListQuery, page pagination.Query) ([]models.PrayerRequestModel, response.Pagination, error) {
	tx := s.db.WithContext(ctx).Model(&models.PrayerRequestModel{})
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	tx = tx.Order("created_at DESC").Order("id DESC")

	var rows []models.PrayerRequestModel
	meta, err := pagination.Paginate(tx, page, &rows)
	return rows, meta, err
}

func (s *Service) Stats(ctx context.Context) (aggregate.StatusCounts, error) {
	return aggregate.CountByStatus(ctx, s.db, &models.PrayerRequestModel{}, statuses...)
}

func (s *Service) Get(ctx context.Context, id uint) (*models.PrayerRequestModel, error) {
	var p models.PrayerRequestModel
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// UpdateStatus moves a request to any status. Notes are replaced only when
// given. It returns nil when no row matched.
func (s *Service) UpdateStatus(ctx context.Context, id uint, dto *UpdateStatusDTO) (*models.PrayerRequestModel, error) {
	updates := map[string]interface{}{"status": dto.Status}
	if dto.Notes != nil {
		updates["notes"] = *dto.Notes
	}
	res := s.db.WithContext(ctx).Model(&models.PrayerRequestModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.PrayerRequestModel{}, id)
	return res.RowsAffected > 0, res.Error
}
