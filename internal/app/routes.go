package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ministry-site/core/internal/middleware"
	"github.com/ministry-site/core/internal/modules/auth/auth"
	"github.com/ministry-site/core/internal/modules/content/comment"
	"github.com/ministry-site/core/internal/modules/content/post"
	"github.com/ministry-site/core/internal/modules/content/volume"
	"github.com/ministry-site/core/internal/modules/outreach/contact"
	"github.com/ministry-site/core/internal/modules/outreach/prayer"
	"github.com/ministry-site/core/internal/modules/stats/aggregate"
	"github.com/ministry-site/core/internal/modules/storage/file"
	"github.com/ministry-site/core/internal/modules/syndication/feed"
	"github.com/ministry-site/core/internal/modules/syndication/sitemap"
	"github.com/ministry-site/core/internal/modules/syndication/subscribe"
	"github.com/ministry-site/core/internal/modules/system/core/health"
	"github.com/ministry-site/core/internal/pkg/response"
)

const apiPrefix = "/api"

var appInfo = gin.H{
	"name":    "ministry-core",
	"version": "1.0.0",
}

func (a *App) rateLimitCounter() middleware.Counter {
	if a.redis != nil {
		return a.redis
	}
	return middleware.NewMemoryCounter()
}

func (a *App) registerRoutes() {
	r := a.router
	db := a.db
	authMW := middleware.Auth(a.signer)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})

	if !a.cfg.Upload.S3.Enable {
		r.Static(a.cfg.Upload.URLPrefix, a.cfg.UploadDir())
	}

	api := r.Group(apiPrefix)
	api.Use(middleware.RateLimit(a.rateLimitCounter(), a.cfg.RateLimit.Max, a.cfg.RateLimit.Window))

	api.GET("", func(c *gin.Context) { c.JSON(http.StatusOK, appInfo) })
	api.GET("/uptime", func(c *gin.Context) {
		up := time.Since(a.started)
		c.JSON(http.StatusOK, gin.H{
			"timestamp": up.Milliseconds(),
			"humanize":  humanizeDuration(up),
		})
	})

	// Infrastructure
	healthDeps := health.Deps{
		DB:         db,
		Scheduler:  a.sched,
		Mailer:     a.mailer,
		AdminEmail: a.cfg.Mail.AdminEmail,
	}
	if a.redis != nil {
		healthDeps.Redis = a.redis
	}
	health.RegisterRoutes(api, healthDeps, authMW)
	aggregate.RegisterRoutes(api, db, authMW)

	// Auth
	auth.NewHandler(auth.NewService(db, a.signer)).RegisterRoutes(api, authMW)

	// Content
	uploadImage := a.uploader.Handler(file.KindImage, "imageUrl")
	post.NewHandler(post.NewService(db), uploadImage, a.logger.Named("post")).RegisterRoutes(api, authMW)
	volume.NewHandler(volume.NewService(db), volume.Uploads{
		Image: uploadImage,
		Audio: a.uploader.Handler(file.KindAudio, "audioUrl"),
	}, a.logger.Named("volume")).RegisterRoutes(api, authMW)
	comment.NewHandler(comment.NewService(db)).RegisterRoutes(api, authMW)

	// Outreach
	prayer.NewHandler(prayer.NewService(db, a.notifier)).RegisterRoutes(api, authMW)
	contact.NewHandler(contact.NewService(db, a.notifier)).RegisterRoutes(api, authMW)
	subscribe.NewHandler(subscribe.NewService(db, a.notifier)).RegisterRoutes(api, authMW)

	// Syndication
	feed.RegisterRoutes(api, db, a.cfg.Site, a.logger.Named("feed"))
	sitemap.RegisterRoutes(api, db, a.cfg.Site)
}
