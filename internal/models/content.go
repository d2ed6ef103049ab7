package models

// PostModel is a blog article.
type PostModel struct {
	Base
	Title    string        `json:"title"    gorm:"size:255;not null"`
	Content  string        `json:"content"  gorm:"type:longtext"`
	Excerpt  string        `json:"excerpt"  gorm:"type:text"`
	Category string        `json:"category" gorm:"size:100;not null;index"`
	Tags     string        `json:"tags"     gorm:"size:500"` // comma separated
	Image    string        `json:"image"    gorm:"size:500"`
	Author   string        `json:"author"   gorm:"size:100"`
	Status   ContentStatus `json:"status"   gorm:"size:20;not null;default:draft;index"`
	Views    uint          `json:"views"    gorm:"not null;default:0"`
}

func (PostModel) TableName() string { return "posts" }

// VolumeModel is a poetry collection with optional audio reading.
type VolumeModel struct {
	Base
	Title        string        `json:"title"         gorm:"size:255;not null"`
	Description  string        `json:"description"   gorm:"type:text"`
	Excerpt      string        `json:"excerpt"       gorm:"type:text"`
	Category     string        `json:"category"      gorm:"size:100;not null;index"`
	Price        float64       `json:"price"         gorm:"type:decimal(10,2);not null;default:0"`
	Image        string        `json:"image"         gorm:"size:500"`
	DownloadLink string        `json:"download_link" gorm:"size:500"`
	Content      string        `json:"content"       gorm:"type:longtext"`
	AudioURL     string        `json:"audio_url"     gorm:"column:audio_url;size:500"`
	Status       ContentStatus `json:"status"        gorm:"size:20;not null;default:draft;index"`
	Downloads    uint          `json:"downloads"     gorm:"not null;default:0"`
}

func (VolumeModel) TableName() string { return "volumes" }

// CommentModel is a reader comment on a post.
type CommentModel struct {
	Base
	PostID  uint   `json:"post_id" gorm:"not null;index"`
	Author  string `json:"author"  gorm:"size:100;not null;default:Anonymous"`
	Content string `json:"content" gorm:"type:text;not null"`
}

func (CommentModel) TableName() string { return "comments" }
