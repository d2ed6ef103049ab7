package feed

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/feeds"
	"github.com/ministry-site/core/internal/config"
	"github.com/ministry-site/core/internal/models"
	"github.com/ministry-site/core/internal/pkg/markdown"
	"github.com/ministry-site/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const feedSize = 20

// RegisterRoutes mounts RSS and Atom feeds of the latest published posts.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, site config.SiteConfig, log *zap.Logger) {
	render := func(c *gin.Context, kind string) {
		f, err := build(c, db, site)
		if err != nil {
			log.Error("build feed failed", zap.Error(err))
			response.InternalError(c, err)
			return
		}
		var (
			body        string
			contentType string
		)
		if kind == "atom" {
			body, err = f.ToAtom()
			contentType = "application/atom+xml; charset=utf-8"
		} else {
			body, err = f.ToRss()
			contentType = "application/rss+xml; charset=utf-8"
		}
		if err != nil {
			response.InternalError(c, err)
			return
		}
		c.Data(http.StatusOK, contentType, []byte(body))
	}

	rg.GET("/feed", func(c *gin.Context) { render(c, c.DefaultQuery("type", "rss")) })
	rg.GET("/feed.xml", func(c *gin.Context) { render(c, "rss") })
	rg.GET("/atom.xml", func(c *gin.Context) { render(c, "atom") })
}

func build(c *gin.Context, db *gorm.DB, site config.SiteConfig) (*feeds.Feed, error) {
	var posts []models.PostModel
	err := db.WithContext(c.Request.Context()).
		Where("status = ?", models.StatusPublished).
		Order("created_at DESC").Order("id DESC").
		Limit(feedSize).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	base := strings.TrimRight(site.URL, "/")
	f := &feeds.Feed{
		Title:       site.Name,
		Link:        &feeds.Link{Href: base},
		Description: site.Name + " blog",
		Created:     time.Now(),
	}
	if len(posts) > 0 {
		f.Updated = posts[0].UpdatedAt
	}
	for _, p := range posts {
		item := &feeds.Item{
			Title:       p.Title,
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/blog/%d", base, p.ID)},
			Id:          fmt.Sprintf("%s/blog/%d", base, p.ID),
			Description: p.Excerpt,
			Content:     markdown.Render(p.Content),
			Created:     p.CreatedAt,
			Updated:     p.UpdatedAt,
		}
		if p.Author != "" {
			item.Author = &feeds.Author{Name: p.Author}
		}
		f.Items = append(f.Items, item)
	}
	return f, nil
}
