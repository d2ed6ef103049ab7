package health

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/ministry-site/core/internal/pkg/cron"
	"github.com/ministry-site/core/internal/pkg/mail"
	"github.com/ministry-site/core/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMailer struct {
	enabled bool
	err     error
	sent    []mail.Message
}

func (s *stubMailer) Enabled() bool { return s.enabled }

func (s *stubMailer) Send(_ context.Context, msg mail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func TestHealth(t *testing.T) {
	db := testutil.NewDB(t)
	r, api, authMW := testutil.NewRouter()
	RegisterRoutes(api, Deps{DB: db, Scheduler: cron.New(nil)}, authMW)

	w := testutil.Do(r, "GET", "/api/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := testutil.JSON(t, w)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "connected", body["database"])
	assert.NotEmpty(t, body["timestamp"])
	assert.Equal(t, "disabled", body["redis"])

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w = testutil.Do(r, "GET", "/api/health", nil, "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "DEGRADED", testutil.JSON(t, w)["status"])
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthReportsRedis(t *testing.T) {
	db := testutil.NewDB(t)
	r, api, authMW := testutil.NewRouter()
	RegisterRoutes(api, Deps{DB: db, Redis: stubPinger{err: errors.New("refused")}, Scheduler: cron.New(nil)}, authMW)

	w := testutil.Do(r, "GET", "/api/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := testutil.JSON(t, w)
	assert.Equal(t, "DEGRADED", body["status"])
	assert.Equal(t, "connected", body["database"])
	assert.Equal(t, "disconnected", body["redis"])
}

func TestCronEndpoints(t *testing.T) {
	db := testutil.NewDB(t)
	sched := cron.New(nil)
	require.NoError(t, sched.Register(cron.Job{Name: "noop", Spec: "@hourly", Fn: func(context.Context) error { return nil }}))
	r, api, authMW := testutil.NewRouter()
	RegisterRoutes(api, Deps{DB: db, Scheduler: sched}, authMW)
	token := testutil.AdminToken(t)

	assert.Equal(t, http.StatusUnauthorized, testutil.Do(r, "GET", "/api/health/cron", nil, "").Code)

	w := testutil.Do(r, "GET", "/api/health/cron", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	data := testutil.JSON(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "noop", data[0].(map[string]interface{})["name"])

	assert.Equal(t, http.StatusOK, testutil.Do(r, "POST", "/api/health/cron/run/noop", nil, token).Code)
	assert.Equal(t, http.StatusNotFound, testutil.Do(r, "POST", "/api/health/cron/run/missing", nil, token).Code)
}

func TestEmailTest(t *testing.T) {
	db := testutil.NewDB(t)
	token := testutil.AdminToken(t)

	cases := []struct {
		name   string
		mailer *stubMailer
		admin  string
		code   int
	}{
		{"disabled", &stubMailer{}, "staff@x.com", http.StatusUnprocessableEntity},
		{"no admin", &stubMailer{enabled: true}, "", http.StatusUnprocessableEntity},
		{"send error", &stubMailer{enabled: true, err: errors.New("relay denied")}, "staff@x.com", http.StatusUnprocessableEntity},
		{"sent", &stubMailer{enabled: true}, "staff@x.com", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, api, authMW := testutil.NewRouter()
			RegisterRoutes(api, Deps{DB: db, Scheduler: cron.New(nil), Mailer: tc.mailer, AdminEmail: tc.admin}, authMW)
			w := testutil.Do(r, "POST", "/api/health/email/test", nil, token)
			assert.Equal(t, tc.code, w.Code, w.Body.String())
		})
	}
}
