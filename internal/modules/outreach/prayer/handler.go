package prayer

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ministry-site/core/internal/pkg/pagination"
	"github.com/ministry-site/core/internal/pkg/response"
	"github.com/ministry-site/core/internal/pkg/validation"
)

const notFoundMsg = "Prayer request not found"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/prayers")
	g.POST("", h.create)
	g.GET("/shared", h.shared)

	authed := g.Group("", authMW)
	authed.GET("", h.list)
	authed.GET("/stats", h.stats)
	authed.GET("/:id", h.get)
	authed.POST("/:id/status", h.updateStatus)
	authed.DELETE("/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreatePrayerDTO
	if err := validation.BindJSON(c, &dto); err != nil {
		response.ValidationFailed(c, validation.Fields(err))
		return
	}
	p, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"id": p.ID, "message": "Prayer request submitted successfully"})
}

func (h *Handler) shared(c *gin.Context) {
	rows, meta, err := h.svc.Shared(c.Request.Context(), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, rows, meta)
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Status:   strings.TrimSpace(c.Query("status")),
		Category: strings.TrimSpace(c.Query("category")),
	}
	if q.Status != "" && !slices.Contains(statuses, q.Status) {
		response.ValidationFailed(c, []response.FieldError{{Field: "status", Message: "must be one of: " + strings.Join(statuses, ", ")}})
		return
	}
	rows, meta, err := h.svc.List(c.Request.Context(), q, pagination.FromContext(c))
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
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, notFoundMsg)
		return
	}
	response.OK(c, p)
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
	p, err := h.svc.UpdateStatus(c.Request.Context(), id, &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, notFoundMsg)
		return
	}
	response.OK(c, gin.H{"message": "Prayer request updated successfully", "data": p})
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
	response.Message(c, "Prayer request deleted successfully")
}
