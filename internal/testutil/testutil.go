// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ministry-site/core/internal/database"
	"github.com/ministry-site/core/internal/middleware"
	"github.com/ministry-site/core/internal/pkg/jwt"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const TestSecret = "test-secret-for-handlers"

// NewDB returns a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:"), logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every new connection would see a fresh empty :memory: database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// NewSigner returns the token signer used by NewRouter's auth middleware.
func NewSigner() *jwt.Signer {
	return jwt.NewSigner(TestSecret, time.Hour)
}

// NewRouter builds a test-mode engine and returns it with an /api group and
// an admin middleware bound to NewSigner.
func NewRouter() (*gin.Engine, *gin.RouterGroup, gin.HandlerFunc) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Environment(true))
	api := r.Group("/api")
	return r, api, middleware.Auth(NewSigner())
}

// AdminToken signs a token for a synthetic admin principal.
func AdminToken(t *testing.T) string {
	t.Helper()
	token, _, err := NewSigner().Sign(1, "admin", "admin")
	require.NoError(t, err)
	return token
}

// Logger returns a no-op zap logger.
func Logger() *zap.Logger { return zap.NewNop() }

// Do performs a request with an optional JSON body and bearer token.
func Do(r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// JSON decodes a recorder body into a generic map.
func JSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// FieldNames extracts the "field" values from a validation error body.
func FieldNames(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	body := JSON(t, w)
	raw, ok := body["errors"].([]interface{})
	require.True(t, ok, "expected errors array in %s", w.Body.String())
	fields := make([]string, 0, len(raw))
	for _, item := range raw {
		fields = append(fields, item.(map[string]interface{})["field"].(string))
	}
	return fields
}
