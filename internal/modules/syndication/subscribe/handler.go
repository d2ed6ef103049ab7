package subscribe

import (
	"errors"
	"slices"
	"strings"

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
	g := rg.Group("/subscribers")
	g.POST("/subscribe", h.subscribe)
	g.POST("/unsubscribe", h.unsubscribeEmail)
	g.GET("/unsubscribe", h.unsubscribeToken)

	authed := g.Group("", authMW)
	authed.GET("", h.list)
	authed.GET("/stats", h.stats)
	authed.POST("/send-newsletter", h.sendNewsletter)
}

func (h *Handler) subscribe(c *gin.Context) {
	var dto SubscribeDTO
	if err := validation.BindJSON(c, &dto); err != nil {
		response.ValidationFailed(c, validation.Fields(err))
		return
	}
	_, created, err := h.svc.Subscribe(c.Request.Context(), &dto)
	if err != nil {
		if errors.Is(err, errAlreadySubscribed) {
			response.BadRequest(c, "Email is already subscribed")
			return
		}
		response.InternalError(c, err)
		return
	}
	if created {
		response.Created(c, gin.H{"message": "Successfully subscribed to newsletter"})
		return
	}
	response.Message(c, "Subscription reactivated successfully")
}

func (h *Handler) unsubscribeEmail(c *gin.Context) {
	var dto UnsubscribeDTO
	if err := validation.BindJSON(c, &dto); err != nil {
		response.ValidationFailed(c, validation.Fields(err))
		return
	}
	ok, err := h.svc.UnsubscribeEmail(c.Request.Context(), dto.Email)
	h.unsubscribed(c, ok, err)
}

func (h *Handler) unsubscribeToken(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.ValidationFailed(c, []response.FieldError{{Field: "token", Message: "is required"}})
		return
	}
	ok, err := h.svc.UnsubscribeToken(c.Request.Context(), token)
	h.unsubscribed(c, ok, err)
}

func (h *Handler) unsubscribed(c *gin.Context, ok bool, err error) {
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !ok {
		response.NotFoundMsg(c, "Subscriber not found")
		return
	}
	response.Message(c, "Successfully unsubscribed from newsletter")
}

func (h *Handler) list(c *gin.Context) {
	status := strings.TrimSpace(c.Query("status"))
	if status != "" && !slices.Contains(statuses, status) {
		response.ValidationFailed(c, []response.FieldError{{Field: "status", Message: "must be one of: " + strings.Join(statuses, ", ")}})
		return
	}
	rows, meta, err := h.svc.List(c.Request.Context(), status, pagination.FromContext(c))
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

func (h *Handler) sendNewsletter(c *gin.Context) {
	var dto NewsletterDTO
	if err := validation.BindJSON(c, &dto); err != nil {
		response.ValidationFailed(c, validation.Fields(err))
		return
	}
	stats, err := h.svc.SendNewsletter(c.Request.Context(), dto.Subject, dto.Content)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Newsletter sent", "stats": stats})
}
