package aggregate

import (
	"github.com/gin-gonic/gin"
	"github.com/ministry-site/core/internal/models"
	"github.com/ministry-site/core/internal/pkg/response"
	"gorm.io/gorm"
)

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, authMW gin.HandlerFunc) {
	rg.GET("/stats/overview", authMW, func(c *gin.Context) {
		tx := db.WithContext(c.Request.Context())
		var stat overviewResponse
		steps := []*gorm.DB{
			tx.Model(&models.PostModel{}).Where("status = ?", models.StatusPublished).Count(&stat.Posts.Published),
			tx.Model(&models.PostModel{}).Where("status = ?", models.StatusDraft).Count(&stat.Posts.Drafts),
			tx.Model(&models.VolumeModel{}).Where("status = ?", models.StatusPublished).Count(&stat.Volumes.Published),
			tx.Model(&models.VolumeModel{}).Where("status = ?", models.StatusDraft).Count(&stat.Volumes.Drafts),
			tx.Model(&models.CommentModel{}).Count(&stat.Comments),
			tx.Model(&models.PostModel{}).Select("COALESCE(SUM(views), 0)").Scan(&stat.Views),
			tx.Model(&models.VolumeModel{}).Select("COALESCE(SUM(downloads), 0)").Scan(&stat.Downloads),
			tx.Model(&models.PrayerRequestModel{}).Where("status = ?", models.PrayerNew).Count(&stat.NewPrayers),
			tx.Model(&models.ContactMessageModel{}).Where("status = ?", "new").Count(&stat.NewMessages),
			tx.Model(&models.SubscriberModel{}).Where("status = ?", models.SubscriberActive).Count(&stat.Subscribers),
		}
		for _, step := range steps {
			if step.Error != nil {
				response.InternalError(c, step.Error)
				return
			}
		}
		response.OK(c, stat)
	})
}
