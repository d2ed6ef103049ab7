package comment

import (
	"context"
	"errors"

	"github.com/ministry-site/core/internal/models"
	"github.com/ministry-site/core/internal/pkg/pagination"
	"github.com/ministry-site/core/internal/pkg/response"
	"github.com/ministry-site/core/internal/pkg/validation"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// published reports whether the post exists and is visible to readers.
func (s *Service) published(ctx context.Context, postID uint) (bool, error) {
	var post models.PostModel
	err := s.db.WithContext(ctx).Select("id").
		Where("status = ?", models.StatusPublished).
		First(&post, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Latest returns the newest comments of a published post, or nil when the
// post is missing or still a draft.
func (s *Service) Latest(ctx context.Context, postID uint) ([]models.CommentModel, error) {
	ok, err := s.published(ctx, postID)
	if err != nil || !ok {
		return nil, err
	}
	comments := make([]models.CommentModel, 0, latestLimit)
	err = s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").Order("id DESC").
		Limit(latestLimit).
		Find(&comments).Error
	return comments, err
}

// Create stores a comment on a published post.
func (s *Service) Create(ctx context.Context, dto *CreateCommentDTO) (*models.CommentModel, error) {
	ok, err := s.published(ctx, dto.PostID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, validation.New("post_id", "post does not exist")
	}
	c := models.CommentModel{PostID: dto.PostID, Author: dto.Author, Content: dto.Content}
	return &c, s.db.WithContext(ctx).Create(&c).Error
}

// List returns a page of comments with their post titles, newest first.
func (s *Service) List(ctx context.Context, postID uint, page pagination.Query) ([]AdminComment, response.Pagination, error) {
	tx := s.db.WithContext(ctx).Table("comments AS c").
		Select("c.id, c.post_id, c.author, c.content, c.created_at, p.title AS post_title").
		Joins("LEFT JOIN posts AS p ON p.id = c.post_id")
	if postID != 0 {
		tx = tx.Where("c.post_id = ?", postID)
	}
	tx = tx.Order("c.created_at DESC").Order("c.id DESC")

	var rows []AdminComment
	meta, err := pagination.Paginate(tx, page, &rows)
	return rows, meta, err
}

func (s *Service) Delete(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.CommentModel{}, id)
	return res.RowsAffected > 0, res.Error
}
