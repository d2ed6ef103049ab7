package volume

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ministry-site/core/internal/models"
	"github.com/ministry-site/core/internal/pkg/pagination"
	"github.com/ministry-site/core/internal/pkg/response"
	"github.com/ministry-site/core/internal/pkg/validation"
	"go.uber.org/zap"
)

const notFoundMsg = "Volume not found"

// Uploads bundles the multipart upload endpoints mounted under /volumes.
type Uploads struct {
	Image gin.HandlerFunc
	Audio gin.HandlerFunc
}

type Handler struct {
	svc     *Service
	uploads Uploads
	log     *zap.Logger
}

func NewHandler(svc *Service, uploads Uploads, log *zap.Logger) *Handler {
	return &Handler{svc: svc, uploads: uploads, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/volumes")
	g.GET("", h.listPublished)
	g.GET("/categories", h.categories)
	g.GET("/:id", h.getPublished)
	g.POST("/:id/download", h.download)

	authed := g.Group("", authMW)
	authed.GET("/admin/all", h.listAll)
	authed.GET("/admin/:id", h.getAny)
	authed.POST("", h.create)
	authed.PUT("/:id", h.update)
	authed.DELETE("/:id", h.delete)
	if h.uploads.Image != nil {
		authed.POST("/upload-image", h.uploads.Image)
	}
	if h.uploads.Audio != nil {
		authed.POST("/upload-audio", h.uploads.Audio)
	}
}

func listQuery(c *gin.Context) ListQuery {
	return ListQuery{
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
		Status:   strings.TrimSpace(c.Query("status")),
	}
}

func (h *Handler) listPublished(c *gin.Context) {
	volumes, meta, err := h.svc.List(c.Request.Context(), listQuery(c), pagination.FromContext(c), true)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, volumes, meta)
}

func (h *Handler) listAll(c *gin.Context) {
	q := listQuery(c)
	if q.Status != "" && q.Status != string(models.StatusDraft) && q.Status != string(models.StatusPublished) {
		response.ValidationFailed(c, []response.FieldError{{Field: "status", Message: "must be one of: draft, published"}})
		return
	}
	volumes, meta, err := h.svc.List(c.Request.Context(), q, pagination.FromContext(c), false)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, volumes, meta)
}

func (h *Handler) categories(c *gin.Context) {
	stats, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, stats)
}

func (h *Handler) load(c *gin.Context, publishedOnly bool) (*models.VolumeModel, bool) {
	id, ok := validation.ParamID(c, "id")
	if !ok {
		response.NotFoundMsg(c, notFoundMsg)
		return nil, false
	}
	v, err := h.svc.Get(c.Request.Context(), id, publishedOnly)
	if err != nil {
		response.InternalError(c, err)
		return nil, false
	}
	if v == nil {
		response.NotFoundMsg(c, notFoundMsg)
		return nil, false
	}
	return v, true
}

func (h *Handler) getPublished(c *gin.Context) {
	if v, ok := h.load(c, true); ok {
		response.OK(c, v)
	}
}

func (h *Handler) getAny(c *gin.Context) {
	if v, ok := h.load(c, false); ok {
		response.OK(c, v)
	}
}

func (h *Handler) download(c *gin.Context) {
	v, ok := h.load(c, true)
	if !ok {
		return
	}
	if v.DownloadLink == "" {
		response.NotFoundMsg(c, "No download available for this volume")
		return
	}
	if err := h.svc.IncrementDownloads(c.Request.Context(), v.ID); err != nil {
		h.log.Warn("increment downloads failed", zap.Uint("volume_id", v.ID), zap.Error(err))
	} else {
		v.Downloads++
	}
	response.OK(c, DownloadResult{DownloadLink: v.DownloadLink, Downloads: v.Downloads})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateVolumeDTO
	if err := validation.BindJSON(c, &dto); err != nil {
		response.ValidationFailed(c, validation.Fields(err))
		return
	}
	v, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"id": v.ID, "message": "Volume created successfully"})
}

func (h *Handler) update(c *gin.Context) {
	id, ok := validation.ParamID(c, "id")
	if !ok {
		response.NotFoundMsg(c, notFoundMsg)
		return
	}
	var dto UpdateVolumeDTO
	if err := validation.BindJSON(c, &dto); err != nil {
		response.ValidationFailed(c, validation.Fields(err))
		return
	}
	v, err := h.svc.Update(c.Request.Context(), id, &dto)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			response.ValidationFailed(c, verr.Fields)
			return
		}
		response.InternalError(c, err)
		return
	}
	if v == nil {
		response.NotFoundMsg(c, notFoundMsg)
		return
	}
	response.OK(c, gin.H{"message": "Volume updated successfully", "data": v})
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := validation.ParamID(c, "id")
	if !ok {
		response.NotFoundMsg(c, notFoundMsg)
		return
	}
	deleted, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !deleted {
		response.NotFoundMsg(c, notFoundMsg)
		return
	}
	response.Message(c, "Volume deleted successfully")
}
