package post

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

type Handler struct {
	svc         *Service
	uploadImage gin.HandlerFunc
	log         *zap.Logger
}

func NewHandler(svc *Service, uploadImage gin.HandlerFunc, log *zap.Logger) *Handler {
	return &Handler{svc: svc, uploadImage: uploadImage, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/blog")
	g.GET("", h.listPublished)
	g.GET("/categories", h.categories)
	g.GET("/:id", h.getPublished)

	authed := g.Group("", authMW)
	authed.GET("/admin/all", h.listAll)
	authed.GET("/admin/:id", h.getAny)
	authed.POST("", h.create)
	authed.PUT("/:id", h.update)
	authed.DELETE("/:id", h.delete)
	if h.uploadImage != nil {
		authed.POST("/upload-image", h.uploadImage)
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
	posts, meta, err := h.svc.List(c.Request.Context(), listQuery(c), pagination.FromContext(c), true)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, posts, meta)
}

func (h *Handler) listAll(c *gin.Context) {
	q := listQuery(c)
	if q.Status != "" && q.Status != string(models.StatusDraft) && q.Status != string(models.StatusPublished) {
		response.ValidationFailed(c, []response.FieldError{{Field: "status", Message: "must be one of: draft, published"}})
		return
	}
	posts, meta, err := h.svc.List(c.Request.Context(), q, pagination.FromContext(c), false)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, posts, meta)
}

func (h *Handler) categories(c *gin.Context) {
	stats, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, stats)
}

func (h *Handler) getPublished(c *gin.Context) {
	id, ok := validation.ParamID(c, "id")
	if !ok {
		response.NotFoundMsg(c, "Post not found")
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id, true)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, "Post not found")
		return
	}
	if err := h.svc.IncrementViews(c.Request.Context(), id); err != nil {
		h.log.Warn("increment views failed", zap.Uint("post_id", id), zap.Error(err))
	} else {
		p.Views++
	}
	response.OK(c, p)
}

func (h *Handler) getAny(c *gin.Context) {
	id, ok := validation.ParamID(c, "id")
	if !ok {
		response.NotFoundMsg(c, "Post not found")
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id, false)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, "Post not found")
		return
	}
	response.OK(c, p)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := validation.BindJSON(c, &dto); err != nil {
		response.ValidationFailed(c, validation.Fields(err))
		return
	}
	p, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"id": p.ID, "message": "Post created successfully"})
}

func (h *Handler) update(c *gin.Context) {
	id, ok := validation.ParamID(c, "id")
	if !ok {
		response.NotFoundMsg(c, "Post not found")
		return
	}
	var dto UpdatePostDTO
	if err := validation.BindJSON(c, &dto); err != nil {
		response.ValidationFailed(c, validation.Fields(err))
		return
	}
	p, err := h.svc.Update(c.Request.Context(), id, &dto)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			response.ValidationFailed(c, verr.Fields)
			return
		}
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, "Post not found")
		return
	}
	response.OK(c, gin.H{"message": "Post updated successfully", "data": p})
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := validation.ParamID(c, "id")
	if !ok {
		response.NotFoundMsg(c, "Post not found")
		return
	}
	deleted, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !deleted {
		response.NotFoundMsg(c, "Post not found")
		return
	}
	response.Message(c, "Post deleted successfully")
}
