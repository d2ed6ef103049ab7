package contact

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ministry-site/core/internal/pkg/pagination"
	"github.com/ministry-site/core/internal/pkg/response"
	"github.com/ministry-site/core/internal/pkg/validation"
)

const notFoundMsg = "Message not found"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/contact")
	g.POST("", h.create)

	authed := g.Group("", authMW)
	authed.GET("", h.list)
	authed.GET("/stats", h.stats)
	authed.GET("/:id", h.get)
	authed.PUT("/:id/status", h.updateStatus)
	authed.DELETE("/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateContactDTO
	if err := validation.BindJSON(c, &dto); err != nil {
		response.ValidationFailed(c, validation.Fields(err))
		return
	}
	m, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"id": m.ID, "message": "Message sent successfully"})
}

func (h *Handler) list(c *gin.Context) {
	rows, meta, err := h.svc.List(c.Request.Context(), strings.TrimSpace(c.Query("status")), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, rows, meta)
}

func (h *Handler) stats(c *gin.Context) {
	counts, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, counts)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := validation.ParamID(c, "id")
	if !ok {
		response.NotFoundMsg(c, notFoundMsg)
		return
	}
	m, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFoundMsg(c, notFoundMsg)
		return
	}
	response.OK(c, m)
}

func (h *Handler) updateStatus(c *gin.Context) {
	id, ok := validation.ParamID(c, "id")
	if !ok {
		response.NotFoundMsg(c, notFoundMsg)
		return
	}
	var dto UpdateStatusDTO
	if err := validation.BindJSON(c, &dto); err != nil {
		response.ValidationFailed(c, validation.Fields(err))
		return
	}
	m, err := h.svc.UpdateStatus(c.Request.Context(), id, dto.Status)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFoundMsg(c, notFoundMsg)
		return
	}
	response.OK(c, gin.H{"message": "Message updated successfully", "data": m})
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
	response.Message(c, "Message deleted successfully")
}
