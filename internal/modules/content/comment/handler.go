package comment

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ministry-site/core/internal/pkg/pagination"
	"github.com/ministry-site/core/internal/pkg/response"
	"github.com/ministry-site/core/internal/pkg/validation"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/comments")
	g.GET("/post/:postId", h.latest)
	g.POST("", h.create)

	authed := g.Group("", authMW)
	authed.GET("", h.list)
	authed.DELETE("/:id", h.delete)
}

func (h *Handler) latest(c *gin.Context) {
	postID, ok := validation.ParamID(c, "postId")
	if !ok {
		response.NotFoundMsg(c, "Post not found")
		return
	}
	comments, err := h.svc.Latest(c.Request.Context(), postID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if comments == nil {
		response.NotFoundMsg(c, "Post not found")
		return
	}
	response.OK(c, comments)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCommentDTO
	if err := validation.BindJSON(c, &dto); err != nil {
		response.ValidationFailed(c, validation.Fields(err))
		return
	}
	comment, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			response.ValidationFailed(c, verr.Fields)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"id": comment.ID, "message": "Comment added successfully", "data": comment})
}

func (h *Handler) list(c *gin.Context) {
	var postID uint
	if raw := c.Query("post_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.ValidationFailed(c, []response.FieldError{{Field: "post_id", Message: "must be a positive integer"}})
			return
		}
		postID = uint(v)
	}
	rows, meta, err := h.svc.List(c.Request.Context(), postID, pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, rows, meta)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := validation.ParamID(c, "id")
	if !ok {
		response.NotFoundMsg(c, "Comment not found")
		return
	}
	deleted, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !deleted {
		response.NotFoundMsg(c, "Comment not found")
		return
	}
	response.Message(c, "Comment deleted successfully")
}
