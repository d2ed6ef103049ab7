package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ministry-site/core/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setup(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	db := testutil.NewDB(t)
	svc := NewService(db, testutil.NewSigner())
	svc.cost = bcrypt.MinCost

	created, err := svc.EnsureAdmin(context.Background(), "admin", "admin@example.com", "correct-horse", false)
	require.NoError(t, err)
	require.True(t, created)

	r, api, authMW := testutil.NewRouter()
	NewHandler(svc).RegisterRoutes(api, authMW)
	return r, svc
}

func TestLogin(t *testing.T) {
	r, _ := setup(t)

	w := testutil.Do(r, "POST", "/api/auth/login", gin.H{"username": " admin ", "password": "correct-horse"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := testutil.JSON(t, w)
	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, body["expires_at"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "admin", user["username"])
	assert.NotContains(t, w.Body.String(), "password")

	token := body["token"].(string)
	w = testutil.Do(r, "GET", "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin@example.com")
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	r, _ := setup(t)

	wrong := testutil.Do(r, "POST", "/api/auth/login", gin.H{"username": "admin", "password": "nope"}, "")
	missing := testutil.Do(r, "POST", "/api/auth/login", gin.H{"username": "ghost", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Equal(t, testutil.JSON(t, wrong)["message"], testutil.JSON(t, missing)["message"])
}

func TestLoginValidation(t *testing.T) {
	r, _ := setup(t)
	w := testutil.Do(r, "POST", "/api/auth/login", gin.H{}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.ElementsMatch(t, []string{"username", "password"}, testutil.FieldNames(t, w))
}

func TestMeRequiresToken(t *testing.T) {
	r, _ := setup(t)
	w := testutil.Do(r, "GET", "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePassword(t *testing.T) {
	r, svc := setup(t)
	token := testutil.AdminToken(t)

	w := testutil.Do(r, "PUT", "/api/auth/password", gin.H{"current_password": "wrong", "new_password": "another-horse"}, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = testutil.Do(r, "PUT", "/api/auth/password", gin.H{"current_password": "correct-horse", "new_password": "short"}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"new_password"}, testutil.FieldNames(t, w))

	w = testutil.Do(r, "PUT", "/api/auth/password", gin.H{"current_password": "correct-horse", "new_password": "another-horse"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, err := svc.Login(context.Background(), "admin", "correct-horse")
	assert.ErrorIs(t, err, errInvalidCredentials)
	_, err = svc.Login(context.Background(), "admin", "another-horse")
	assert.NoError(t, err)
}

func TestEnsureAdminReset(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	_, err := svc.EnsureAdmin(ctx, "admin", "admin@example.com", "brand-new-pass", false)
	assert.Error(t, err)

	created, err := svc.EnsureAdmin(ctx, "admin", "new@example.com", "brand-new-pass", true)
	require.NoError(t, err)
	assert.False(t, created)

	res, err := svc.Login(ctx, "admin", "brand-new-pass")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", res.User.Email)
}
