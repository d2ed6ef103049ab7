package file

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/ministry-site/core/internal/config"
	"github.com/ministry-site/core/internal/pkg/response"
	"github.com/ministry-site/core/internal/pkg/validation"
)

// NewFromConfig selects the S3 backend when enabled, local disk otherwise.
func NewFromConfig(cfg *config.AppConfig) (*Uploader, error) {
	if cfg.Upload.S3.Enable {
		b, err := NewS3Backend(cfg.Upload.S3)
		if err != nil {
			return nil, err
		}
		return NewUploader(b, cfg.Upload.MaxFileSize), nil
	}
	return NewUploader(NewLocalBackend(cfg.UploadDir(), cfg.Upload.URLPrefix), cfg.Upload.MaxFileSize), nil
}

// Handler returns a route handler reading the multipart field named after
// kind and answering {respKey: url}.
func (u *Uploader) Handler(kind Kind, respKey string) gin.HandlerFunc {
	field := string(kind)
	return func(c *gin.Context) {
		fh, err := c.FormFile(field)
		if err != nil {
			response.ValidationFailed(c, []response.FieldError{{Field: field, Message: "file is required"}})
			return
		}
		url, err := u.Store(c.Request.Context(), kind, fh)
		if err != nil {
			var verr *validation.Error
			if errors.As(err, &verr) {
				response.ValidationFailed(c, verr.Fields)
				return
			}
			response.InternalError(c, err)
			return
		}
		response.OK(c, gin.H{respKey: url})
	}
}
