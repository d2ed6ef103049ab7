package contact

import (
	"context"
	"errors"

	"github.com/ministry-site/core/internal/models"
	"github.com/ministry-site/core/internal/modules/stats/aggregate"
	"github.com/ministry-site/core/internal/pkg/pagination"
	"github.com/ministry-site/core/internal/pkg/response"
	"gorm.io/gorm"
)

// Notifier is told about every stored message.
type Notifier interface {
	ContactReceived(ctx context.Context, m *models.ContactMessageModel)
}

type Service struct {
	db       *gorm.DB
	notifier Notifier
}

// NewService builds the service. notifier may be nil.
func NewService(db *gorm.DB, notifier Notifier) *Service {
	return &Service{db: db, notifier: notifier}
}

func (s *Service) Create(ctx context.Context, dto *CreateContactDTO) (*models.ContactMessageModel, error) {
	m := models.ContactMessageModel{
		Name:    dto.Name,
		Email:   dto.Email,
		Subject: dto.Subject,
		Message: dto.Message,
		Status:  statusNew,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.ContactReceived(ctx, &m)
	}
	return &m, nil
}

func (s *Service) List(ctx context.Context, status string, page pagination.Query) ([]models.ContactMessageModel, response.Pagination, error) {
	tx := s.db.WithContext(ctx).Model(&models.ContactMessageModel{})
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	tx = tx.Order("created_at DESC").Order("id DESC")

	var rows []models.ContactMessageModel
	meta, err := pagination.Paginate(tx, page, &rows)
	return rows, meta, err
}

func (s *Service) Stats(ctx context.Context) (aggregate.StatusCounts, error) {
	return aggregate.CountByStatus(ctx, s.db, &models.ContactMessageModel{}, statusNew)
}

func (s *Service) Get(ctx context.Context, id uint) (*models.ContactMessageModel, error) {
	var m models.ContactMessageModel
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// UpdateStatus returns nil when no row matched.
func (s *Service) UpdateStatus(ctx context.Context, id uint, status string) (*models.ContactMessageModel, error) {
	res := s.db.WithContext(ctx).Model(&models.ContactMessageModel{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.ContactMessageModel{}, id)
	return res.RowsAffected > 0, res.Error
}
