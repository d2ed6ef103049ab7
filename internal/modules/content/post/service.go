package post

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

// List returns a page of posts, newest first. publishedOnly ignores q.Status.
func (s *Service) List(ctx context.Context, q ListQuery, page pagination.Query, publishedOnly bool) ([]models.PostModel, response.Pagination, error) {
	tx := s.db.WithContext(ctx).Model(&models.PostModel{})
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
		tx = tx.Where("title LIKE ? ESCAPE '!' OR content LIKE ? ESCAPE '!' OR tags LIKE ? ESCAPE '!'", like, like, like)
	}
	tx = tx.Order("created_at DESC").Order("id DESC")

	var posts []models.PostModel
	meta, err := pagination.Paginate(tx, page, &posts)
	return posts, meta, err
}

// Categories counts published posts per category, largest first.
func (s *Service) Categories(ctx context.Context) ([]CategoryStat, error) {
	stats := make([]CategoryStat, 0)
	err := s.db.WithContext(ctx).Model(&models.PostModel{}).
		Select("category, COUNT(*) AS count").
		Where("status = ?", models.StatusPublished).
		Group("category").
		Order("count DESC").Order("category ASC").
		Scan(&stats).Error
	return stats, err
}

// Get returns the post or nil. With publishedOnly, drafts are reported as
// missing.
func (s *Service) Get(ctx context.Context, id uint, publishedOnly bool) (*models.PostModel, error) {
	tx := s.db.WithContext(ctx)
	if publishedOnly {
		tx = tx.Where("status = ?", models.StatusPublished)
	}
	var p models.PostModel
	if err := tx.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) Create(ctx context.Context, dto *CreatePostDTO) (*models.PostModel, error) {
	p := models.PostModel{
		Title:    dto.Title,
		Content:  dto.Content,
		Excerpt:  dto.Excerpt,
		Category: dto.Category,
		Tags:     dto.Tags,
		Image:    dto.Image,
		Author:   dto.Author,
		Status:   models.StatusDraft,
	}
	if dto.Status != nil {
		p.Status = models.ContentStatus(*dto.Status)
	}
	if p.Excerpt == "" && p.Content != "" {
		p.Excerpt = markdown.Excerpt(p.Content, excerptLength)
	}
	return &p, s.db.WithContext(ctx).Create(&p).Error
}

// Update applies the allow-listed fields. It returns nil when no row matched.
func (s *Service) Update(ctx context.Context, id uint, dto *UpdatePostDTO) (*models.PostModel, error) {
	updates := dto.updates()
	if len(updates) == 0 {
		return nil, validation.New("body", "no updatable fields provided")
	}
	res := s.db.WithContext(ctx).Model(&models.PostModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.Get(ctx, id, false)
}

// Delete removes the post and its comments. It reports whether a post existed.
func (s *Service) Delete(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.PostModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		if !deleted {
			return nil
		}
		return tx.Where("post_id = ?", id).Delete(&models.CommentModel{}).Error
	})
	return deleted, err
}

// IncrementViews bumps the view counter in a single statement.
func (s *Service) IncrementViews(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Model(&models.PostModel{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}
