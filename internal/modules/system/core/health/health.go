package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ministry-site/core/internal/database"
	"github.com/ministry-site/core/internal/pkg/cron"
	"github.com/ministry-site/core/internal/pkg/mail"
	"github.com/ministry-site/core/internal/pkg/response"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

// Mailer is the outbound mail used by the admin test endpoint.
type Mailer interface {
	Enabled() bool
	Send(ctx context.Context, msg mail.Message) error
}

// Pinger is an optional backing service such as Redis.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps groups what the health endpoints inspect.
type Deps struct {
	DB         *gorm.DB
	Redis      Pinger // nil when not configured
	Scheduler  *cron.Scheduler
	Mailer     Mailer
	AdminEmail string
}

func RegisterRoutes(rg *gin.RouterGroup, deps Deps, authMW gin.HandlerFunc) {
	rg.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		status, dbState, code := "OK", "connected", http.StatusOK
		if err := database.Ping(ctx, deps.DB); err != nil {
			status, dbState, code = "DEGRADED", "disconnected", http.StatusServiceUnavailable
		}
		// a Redis outage degrades the report but keeps the probe at 200
		redisState := "disabled"
		if deps.Redis != nil {
			redisState = "connected"
			if err := deps.Redis.Ping(ctx); err != nil {
				status, redisState = "DEGRADED", "disconnected"
			}
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"database":  dbState,
			"redis":     redisState,
		})
	})

	adminHealth := rg.Group("/health", authMW)
	cronGroup := adminHealth.Group("/cron")
	{
		cronGroup.GET("", func(c *gin.Context) {
			response.OK(c, deps.Scheduler.List())
		})

		cronGroup.POST("/run/:name", func(c *gin.Context) {
			if err := deps.Scheduler.Run(c.Param("name")); err != nil {
				response.NotFoundMsg(c, err.Error())
				return
			}
			response.Message(c, "job triggered")
		})
	}

	adminHealth.POST("/email/test", func(c *gin.Context) {
		if deps.Mailer == nil || !deps.Mailer.Enabled() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": 0, "code": http.StatusUnprocessableEntity, "message": "mail is not enabled"})
			return
		}
		if deps.AdminEmail == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": 0, "code": http.StatusUnprocessableEntity, "message": "admin email not set"})
			return
		}
		err := deps.Mailer.Send(c.Request.Context(), mail.Message{
			To:      []string{deps.AdminEmail},
			Subject: "Mail configuration test",
			HTML:    "<h1>Mail is configured correctly.</h1><p>If you can read this, outgoing mail works.</p>",
		})
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": 0, "code": http.StatusUnprocessableEntity, "message": err.Error()})
			return
		}
		response.Message(c, "test mail sent")
	})
}
