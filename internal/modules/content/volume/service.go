package volume

import (
	"context"
	"errors"

	"github.com/ministry-site/core/internal/models"
	"github.com/ministry-site/core/internal/pkg/markdown"
	"github.com/ministry-site/core/internal/pkg/pagination"
	"github.com/ministry-site/core/internal/pkg/response"
	"github.com/ministry-site/core/internal/pkg/validation"
	"gorm.io/gorm"
)

const excerptLength = 200

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List(ctx context.Context, q ListQuery, page pagination.Query, publishedOnly bool) ([]models.VolumeModel, response.Pagination, error) {
	tx := s.db.WithContext(ctx).Model(&models.VolumeModel{})
	if publishedOnly {
		tx = tx.Where("status = ?", models.StatusPublished)
	} else if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.Search != "" {
		like := pagination.ContainsPattern(q.Search)
		tx = tx.Where("title LIKE ? ESCAPE '!' OR description LIKE ? ESCAPE '!'", like, like)
	}
	tx = tx.Order("created_at DESC").Order("id DESC")

	var volumes []models.VolumeModel
	meta, err := pagination.Paginate(tx, page, &volumes)
	return volumes, meta, err
}

func (s *Service) Categories(ctx context.Context) ([]CategoryStat, error) {
	stats := make([]CategoryStat, 0)
	err := s.db.WithContext(ctx).Model(&models.VolumeModel{}).
		Select("category, COUNT(*) AS count").
		Where("status = ?", models.StatusPublished).
		Group("category").
		Order("count DESC").Order("category ASC").
		Scan(&stats).Error
	return stats, err
}

func (s *Service) Get(ctx context.Context, id uint, publishedOnly bool) (*models.VolumeModel, error) {
	tx := s.db.WithContext(ctx)
	if publishedOnly {
		tx = tx.Where("status = ?", models.StatusPublished)
	}
	var v models.VolumeModel
	if err := tx.First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (s *Service) Create(ctx context.Context, dto *CreateVolumeDTO) (*models.VolumeModel, error) {
	v := models.VolumeModel{
		Title:        dto.Title,
		Description:  dto.Description,
		Excerpt:      dto.Excerpt,
		Category:     dto.Category,
		Price:        dto.Price,
		Image:        dto.Image,
		DownloadLink: dto.DownloadLink,
		Content:      dto.Content,
		AudioURL:     dto.AudioURL,
		Status:       models.StatusDraft,
	}
	if dto.Status != nil {
		v.Status = models.ContentStatus(*dto.Status)
	}
	if v.Excerpt == "" && v.Description != "" {
		v.Excerpt = markdown.Excerpt(v.Description, excerptLength)
	}
	return &v, s.db.WithContext(ctx).Create(&v).Error
}

// Update applies the allow-listed fields. It returns nil when no row matched.
func (s *Service) Update(ctx context.Context, id uint, dto *UpdateVolumeDTO) (*models.VolumeModel, error) {
	updates := dto.updates()
	if len(updates) == 0 {
		return nil, validation.New("body", "no updatable fields provided")
	}
	res := s.db.WithContext(ctx).Model(&models.VolumeModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.Get(ctx, id, false)
}

func (s *Service) Delete(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.VolumeModel{}, id)
	return res.RowsAffected > 0, res.Error
}

func (s *Service) IncrementDownloads(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Model(&models.VolumeModel{}).
		Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + ?", 1)).Error
}
