package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ministry-site/core/internal/config"
	"github.com/ministry-site/core/internal/models"
	"github.com/ministry-site/core/internal/pkg/response"
	"gorm.io/gorm"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []url    `xml:"url"`
}

type url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// static lists the fixed site sections and their change frequency.
var static = []struct{ path, freq, priority string }{
	{"", "daily", "1.0"},
	{"/blog", "daily", "0.9"},
	{"/volumes", "weekly", "0.8"},
	{"/prayer", "monthly", "0.6"},
	{"/contact", "yearly", "0.4"},
}

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, site config.SiteConfig) {
	render := func(c *gin.Context) {
		set, err := build(c.Request.Context(), db, strings.TrimRight(site.URL, "/"))
		if err != nil {
			response.InternalError(c, err)
			return
		}
		out, err := xml.MarshalIndent(set, "", "  ")
		if err != nil {
			response.InternalError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
	}
	rg.GET("/sitemap.xml", render)
	rg.GET("/sitemap", render)
}

type entry struct {
	ID        uint
	UpdatedAt time.Time
}

func build(ctx context.Context, db *gorm.DB, base string) (*urlSet, error) {
	set := &urlSet{Xmlns: xmlns}
	for _, s := range static {
		set.URLs = append(set.URLs, url{Loc: base + s.path, ChangeFreq: s.freq, Priority: s.priority})
	}

	sections := []struct {
		model    interface{}
		path     string
		freq     string
		priority string
	}{
		{&models.PostModel{}, "/blog", "weekly", "0.7"},
		{&models.VolumeModel{}, "/volumes", "monthly", "0.6"},
	}
	for _, s := range sections {
		var rows []entry
		err := db.WithContext(ctx).Model(s.model).
			Select("id, updated_at").
			Where("status = ?", models.StatusPublished).
			Order("id ASC").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			set.URLs = append(set.URLs, url{
				Loc:        fmt.Sprintf("%s%s/%d", base, s.path, r.ID),
				LastMod:    r.UpdatedAt.Format("2006-01-02"),
				ChangeFreq: s.freq,
				Priority:   s.priority,
			})
		}
	}
	return set, nil
}
