package pagination

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ministry-site/core/internal/pkg/response"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Query holds parsed offset pagination parameters.
type Query struct {
	Limit  int
	Offset int
}

// FromContext extracts and clamps limit/offset from the query string.
func FromContext(c *gin.Context) Query {
	limit := parseIntOr(c.Query("limit"), DefaultLimit)
	offset := parseIntOr(c.Query("offset"), 0)

	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Query{Limit: limit, Offset: offset}
}

// Paginate counts the rows matched by db, then loads one page into dest.
func Paginate[T any](db *gorm.DB, q Query, dest *[]T) (response.Pagination, error) {
	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return response.Pagination{}, err
	}

	*dest = make([]T, 0, q.Limit)
	if err := db.Session(&gorm.Session{}).Offset(q.Offset).Limit(q.Limit).Find(dest).Error; err != nil {
		return response.Pagination{}, err
	}
	return Meta(total, q), nil
}

// Meta builds pagination metadata for a known total.
func Meta(total int64, q Query) response.Pagination {
	return response.Pagination{
		Total:   total,
		Limit:   q.Limit,
		Offset:  q.Offset,
		HasMore: int64(q.Offset+q.Limit) < total,
	}
}

var likeReplacer = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// ContainsPattern turns user input into a LIKE pattern matching it literally
// anywhere in the column. Use it with ESCAPE '!'.
func ContainsPattern(s string) string {
	return "%" + likeReplacer.Replace(s) + "%"
}

func parseIntOr(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
