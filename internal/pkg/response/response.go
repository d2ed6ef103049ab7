package response

import (
	"math/rand/v2"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
)

// DebugKey marks a request whose 5xx responses may carry error details.
const DebugKey = "response_debug"

var notFoundMessages = []string{
	"Nothing to see here.",
	"We looked everywhere, but it isn't here.",
	"This page has gone on a retreat.",
	"Not found.",
}

// FieldError describes one failing input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Pagination metadata returned with paginated responses.
type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// pagedResponse is the envelope for paginated list responses.
type pagedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// OK sends a 200 response. Arrays/slices are wrapped in {data: [...]}.
func OK(c *gin.Context, data interface{}) {
	if data != nil {
		v := reflect.ValueOf(data)
		if v.Kind() == reflect.Slice {
			c.JSON(http.StatusOK, gin.H{"data": data})
			return
		}
	}
	c.JSON(http.StatusOK, data)
}

// Message sends a 200 {message} response.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Paged sends a paginated response.
func Paged(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, pagedResponse{
		Data:       data,
		Pagination: pagination,
	})
}

// Created sends a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"ok": 0, "code": status, "message": message})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, message)
}

// ValidationFailed sends a 400 listing every failing field.
func ValidationFailed(c *gin.Context, errs []FieldError) {
	if errs == nil {
		errs = []FieldError{}
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"ok":      0,
		"code":    http.StatusBadRequest,
		"message": "Validation failed",
		"errors":  errs,
	})
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context) {
	abort(c, http.StatusUnauthorized, "Authentication required")
}

// UnauthorizedMsg sends a 401 error response with a custom message.
func UnauthorizedMsg(c *gin.Context, message string) {
	abort(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 error response.
func Forbidden(c *gin.Context) {
	abort(c, http.StatusForbidden, "Forbidden")
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context) {
	abort(c, http.StatusNotFound, notFoundMessages[rand.IntN(len(notFoundMessages))])
}

// NotFoundMsg sends a 404 error with a custom message.
func NotFoundMsg(c *gin.Context, message string) {
	abort(c, http.StatusNotFound, message)
}

// PayloadTooLarge sends a 413 error response.
func PayloadTooLarge(c *gin.Context) {
	abort(c, http.StatusRequestEntityTooLarge, "Request body too large")
}

// InternalError sends a 500 error response. Details are only exposed when
// the request was marked with DebugKey.
func InternalError(c *gin.Context, err error) {
	msg := "Internal server error"
	if err != nil {
		_ = c.Error(err)
		if c.GetBool(DebugKey) {
			msg = err.Error()
		}
	}
	abort(c, http.StatusInternalServerError, msg)
}
