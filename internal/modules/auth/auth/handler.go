package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/ministry-site/core/internal/middleware"
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
	a := rg.Group("/auth")
	a.POST("/login", h.login)

	authed := a.Group("", authMW)
	authed.GET("/me", h.me)
	authed.PUT("/password", h.changePassword)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := validation.BindJSON(c, &dto); err != nil {
		response.ValidationFailed(c, validation.Fields(err))
		return
	}
	res, err := h.svc.Login(c.Request.Context(), dto.Username, dto.Password)
	if err != nil {
		if errors.Is(err, errInvalidCredentials) {
			response.UnauthorizedMsg(c, "Invalid credentials")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, res)
}

func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.GetByID(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.UnauthorizedMsg(c, "Invalid token")
		return
	}
	response.OK(c, gin.H{"user": toUserResponse(u)})
}

func (h *Handler) changePassword(c *gin.Context) {
	var dto ChangePasswordDTO
	if err := validation.BindJSON(c, &dto); err != nil {
		response.ValidationFailed(c, validation.Fields(err))
		return
	}
	err := h.svc.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), dto.CurrentPassword, dto.NewPassword)
	switch {
	case errors.Is(err, errWrongPassword):
		response.UnauthorizedMsg(c, "Current password is incorrect")
	case errors.Is(err, errUserNotFound):
		response.UnauthorizedMsg(c, "Invalid token")
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Message(c, "Password updated successfully")
	}
}
