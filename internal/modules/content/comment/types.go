package comment

import (
	"strings"
	"time"

	"github.com/ministry-site/core/internal/models"
)

const latestLimit = 3

type CreateCommentDTO struct {
	PostID  uint   `json:"post_id" binding:"required"`
	Author  string `json:"author"  binding:"max=100"`
	Content string `json:"content" binding:"required,max=5000"`
}

func (d *CreateCommentDTO) Normalize() {
	d.Author = strings.TrimSpace(d.Author)
	d.Content = strings.TrimSpace(d.Content)
	if d.Author == "" {
		d.Author = models.AnonymousName
	}
}

// AdminComment is a comment joined with the title of its post. PostTitle is
// empty when the post no longer exists.
type AdminComment struct {
	ID        uint      `json:"id"`
	PostID    uint      `json:"post_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	PostTitle *string   `json:"post_title"`
}
