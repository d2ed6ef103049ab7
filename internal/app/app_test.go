package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ministry-site/core/internal/config"
	"github.com/ministry-site/core/internal/modules/auth/auth"
	"github.com/ministry-site/core/internal/pkg/jwt"
	"github.com/ministry-site/core/internal/pkg/mail"
	"github.com/ministry-site/core/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *captureMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *captureMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	return &config.AppConfig{
		Port:           5000,
		Env:            "production",
		AllowedOrigins: []string{"https://ministry.example", "*.preview.example"},
		JWT:            config.JWTConfig{Secret: testutil.TestSecret, ExpiresIn: time.Hour},
		Mail:           config.MailConfig{AdminEmail: "staff@ministry.example"},
		Site:           config.SiteConfig{Name: "Ministry", URL: "https://ministry.example"},
		Upload:         config.UploadConfig{Dir: t.TempDir(), URLPrefix: "/uploads", MaxFileSize: 1 << 20},
		RateLimit:      config.RateLimitConfig{Window: time.Minute, Max: 1000},
		BodyLimit:      1 << 20,
		Queue:          config.QueueConfig{Workers: 1, Buffer: 16},
	}
}

func newTestApp(t *testing.T, cfg *config.AppConfig) (*App, *captureMailer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	m := &captureMailer{}
	a, err := build(deps{cfg: cfg, db: testutil.NewDB(t), mailer: m})
	require.NoError(t, err)
	a.start()
	t.Cleanup(a.Shutdown)
	return a, m
}

func TestEndToEnd(t *testing.T) {
	a, m := newTestApp(t, testConfig(t))
	r := a.Router()

	w := testutil.Do(r, "GET", "/api/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", testutil.JSON(t, w)["status"])

	_, err := auth.NewService(a.db, a.signer).EnsureAdmin(context.Background(), "admin", "admin@ministry.example", "correct-horse", false)
	require.NoError(t, err)
	w = testutil.Do(r, "POST", "/api/auth/login", gin.H{"username": "admin", "password": "correct-horse"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := testutil.JSON(t, w)["token"].(string)

	w = testutil.Do(r, "POST", "/api/blog", gin.H{"title": "Welcome", "category": "news", "status": "published", "content": "Hello"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = testutil.Do(r, "GET", "/api/blog", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, testutil.JSON(t, w)["data"].([]interface{}), 1)

	w = testutil.Do(r, "POST", "/api/contact", gin.H{"name": "Ann", "email": "ann@x.com", "subject": "Hi", "message": "1234567890"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Eventually(t, func() bool { return m.count() == 2 }, 2*time.Second, 10*time.Millisecond)

	w = testutil.Do(r, "GET", "/api/stats/overview", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.Do(r, "GET", "/api/health/cron", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cleanup_tasks")
}

func TestTokensFromAnotherSecretAreRejected(t *testing.T) {
	a, _ := newTestApp(t, testConfig(t))
	forged, _, err := jwt.NewSigner("some-other-secret", time.Hour).Sign(1, "admin", "admin")
	require.NoError(t, err)

	w := testutil.Do(a.Router(), "GET", "/api/blog/admin/all", nil, forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = testutil.Do(a.Router(), "GET", "/api/blog/admin/all", nil, testutil.AdminToken(t))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownRouteIs404(t *testing.T) {
	a, _ := newTestApp(t, testConfig(t))
	w := testutil.Do(a.Router(), "GET", "/api/nothing-here", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, float64(0), testutil.JSON(t, w)["ok"])
}

func TestCORS(t *testing.T) {
	a, _ := newTestApp(t, testConfig(t))

	for origin, allowed := range map[string]bool{
		"https://ministry.example":     true,
		"https://pr-7.preview.example": true,
		"https://evil.example":         false,
	} {
		req := httptest.NewRequest("OPTIONS", "/api/blog", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", "GET")
		w := httptest.NewRecorder()
		a.Router().ServeHTTP(w, req)
		if allowed {
			assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"), origin)
		} else {
			assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"), origin)
		}
	}
}

func TestRateLimitAppliesToAPI(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.Max = 2
	a, _ := newTestApp(t, cfg)

	assert.Equal(t, http.StatusOK, testutil.Do(a.Router(), "GET", "/api/blog", nil, "").Code)
	assert.Equal(t, http.StatusOK, testutil.Do(a.Router(), "GET", "/api/blog", nil, "").Code)
	w := testutil.Do(a.Router(), "GET", "/api/blog", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestUploadsAreServed(t *testing.T) {
	cfg := testConfig(t)
	a, _ := newTestApp(t, cfg)
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Upload.Dir, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Upload.Dir, "images", "a.txt"), []byte("hi"), 0o644))

	w := testutil.Do(a.Router(), "GET", "/uploads/images/a.txt", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hi", w.Body.String())
}

func TestMatchOrigin(t *testing.T) {
	assert.True(t, matchOrigin("https://site.org/", "https://site.org"))
	assert.True(t, matchOrigin("*.site.org", "https://a.site.org"))
	assert.True(t, matchOrigin("localhost:*", "http://localhost:3000"))
	assert.False(t, matchOrigin("https://site.org", "http://site.org"))
	assert.False(t, matchOrigin("*.site.org", "https://site.org.evil.com"))
}

func TestParseTimezoneLocation(t *testing.T) {
	loc, err := parseTimezoneLocation("-06:00")
	require.NoError(t, err)
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, -6*3600, offset)

	_, err = parseTimezoneLocation("Mars/Olympus")
	assert.Error(t, err)
}

func TestHumanizeDuration(t *testing.T) {
	assert.Equal(t, "42s", humanizeDuration(42*time.Second))
	assert.Equal(t, "5m", humanizeDuration(5*time.Minute+10*time.Second))
	assert.Equal(t, "3h 0m", humanizeDuration(3*time.Hour))
	assert.Equal(t, "2d 1h 30m", humanizeDuration(49*time.Hour+30*time.Minute))
}
