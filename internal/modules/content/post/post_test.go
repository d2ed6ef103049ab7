package post

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ministry-site/core/internal/models"
	"github.com/ministry-site/core/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	r, api, authMW := testutil.NewRouter()
	NewHandler(NewService(db), nil, testutil.Logger()).RegisterRoutes(api, authMW)
	return r, db
}

func seed(t *testing.T, db *gorm.DB, title, category string, status models.ContentStatus) models.PostModel {
	t.Helper()
	p := models.PostModel{Title: title, Category: category, Status: status, Content: "<p>" + title + " body</p>", Tags: "faith,hope"}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestPublicListHidesDrafts(t *testing.T) {
	r, db := setup(t)
	seed(t, db, "Published one", "devotional", models.StatusPublished)
	seed(t, db, "Secret draft", "devotional", models.StatusDraft)
	seed(t, db, "Published two", "teaching", models.StatusPublished)

	w := testutil.Do(r, "GET", "/api/blog", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := testutil.JSON(t, w)
	data := body["data"].([]interface{})
	assert.Len(t, data, 2)
	assert.NotContains(t, w.Body.String(), "Secret draft")
	assert.Equal(t, float64(2), body["pagination"].(map[string]interface{})["total"])

	w = testutil.Do(r, "GET", "/api/blog/admin/all", nil, testutil.AdminToken(t))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Secret draft")

	w = testutil.Do(r, "GET", "/api/blog/admin/all?status=draft", nil, testutil.AdminToken(t))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, testutil.JSON(t, w)["data"].([]interface{}), 1)

	w = testutil.Do(r, "GET", "/api/blog/admin/all?status=archived", nil, testutil.AdminToken(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutil.Do(r, "GET", "/api/blog/admin/all", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListFiltersAndPagination(t *testing.T) {
	r, db := setup(t)
	for i := 0; i < 5; i++ {
		seed(t, db, fmt.Sprintf("Grace %d", i), "teaching", models.StatusPublished)
	}
	seed(t, db, "Mercy", "devotional", models.StatusPublished)

	w := testutil.Do(r, "GET", "/api/blog?category=teaching&limit=2&offset=0", nil, "")
	body := testutil.JSON(t, w)
	assert.Len(t, body["data"].([]interface{}), 2)
	page := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(5), page["total"])
	assert.Equal(t, true, page["has_more"])

	first := body["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Grace 4", first["title"], "newest first")

	w = testutil.Do(r, "GET", "/api/blog?search=merc", nil, "")
	assert.Len(t, testutil.JSON(t, w)["data"].([]interface{}), 1)
}

func TestSearchMatchesWildcardsLiterally(t *testing.T) {
	r, db := setup(t)
	seed(t, db, "Give 100% to God", "teaching", models.StatusPublished)
	seed(t, db, "Grace", "teaching", models.StatusPublished)
	seed(t, db, "snake_case notes", "teaching", models.StatusPublished)

	w := testutil.Do(r, "GET", "/api/blog?search=%25", nil, "")
	data := testutil.JSON(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "Give 100% to God", data[0].(map[string]interface{})["title"])

	w = testutil.Do(r, "GET", "/api/blog?search=_", nil, "")
	data = testutil.JSON(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "snake_case notes", data[0].(map[string]interface{})["title"])

	w = testutil.Do(r, "GET", "/api/blog?search=G_ace", nil, "")
	assert.Empty(t, testutil.JSON(t, w)["data"].([]interface{}))
}

func TestCategories(t *testing.T) {
	r, db := setup(t)
	seed(t, db, "a", "teaching", models.StatusPublished)
	seed(t, db, "b", "teaching", models.StatusPublished)
	seed(t, db, "c", "devotional", models.StatusPublished)
	seed(t, db, "d", "devotional", models.StatusDraft)
	seed(t, db, "e", "devotional", models.StatusDraft)

	w := testutil.Do(r, "GET", "/api/blog/categories", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[{"category":"teaching","count":2},{"category":"devotional","count":1}]}`, w.Body.String())
}

func TestGetPublishedIncrementsViews(t *testing.T) {
	r, db := setup(t)
	p := seed(t, db, "Read me", "teaching", models.StatusPublished)
	draft := seed(t, db, "Hidden", "teaching", models.StatusDraft)

	for i := 1; i <= 3; i++ {
		w := testutil.Do(r, "GET", fmt.Sprintf("/api/blog/%d", p.ID), nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(i), testutil.JSON(t, w)["views"])
	}

	var stored models.PostModel
	require.NoError(t, db.First(&stored, p.ID).Error)
	assert.Equal(t, uint(3), stored.Views)

	assert.Equal(t, http.StatusNotFound, testutil.Do(r, "GET", fmt.Sprintf("/api/blog/%d", draft.ID), nil, "").Code)
	assert.Equal(t, http.StatusNotFound, testutil.Do(r, "GET", "/api/blog/9999", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, testutil.Do(r, "GET", "/api/blog/abc", nil, "").Code)

	w := testutil.Do(r, "GET", fmt.Sprintf("/api/blog/admin/%d", draft.ID), nil, testutil.AdminToken(t))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreate(t *testing.T) {
	r, db := setup(t)
	token := testutil.AdminToken(t)

	w := testutil.Do(r, "POST", "/api/blog", gin.H{"content": "x", "status": "archived"}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.ElementsMatch(t, []string{"title", "category", "status"}, testutil.FieldNames(t, w))

	w = testutil.Do(r, "POST", "/api/blog", gin.H{"title": "Hope", "category": "teaching", "content": "# Hope\n\nAnchor of the soul", "tags": "hope, faith ,hope"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := uint(testutil.JSON(t, w)["id"].(float64))

	var p models.PostModel
	require.NoError(t, db.First(&p, id).Error)
	assert.Equal(t, models.StatusDraft, p.Status)
	assert.Equal(t, "hope,faith", p.Tags)
	assert.Equal(t, "Hope Anchor of the soul", p.Excerpt)

	w = testutil.Do(r, "POST", "/api/blog", gin.H{"title": "x", "category": "y"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdate(t *testing.T) {
	r, db := setup(t)
	token := testutil.AdminToken(t)
	p := seed(t, db, "Old", "teaching", models.StatusDraft)
	path := fmt.Sprintf("/api/blog/%d", p.ID)

	w := testutil.Do(r, "PUT", path, gin.H{"title": "New", "status": "published"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := testutil.JSON(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "New", data["title"])
	assert.Equal(t, "published", data["status"])
	assert.Equal(t, "teaching", data["category"])

	w = testutil.Do(r, "PUT", path, gin.H{"views": 1000}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"views"}, testutil.FieldNames(t, w))

	w = testutil.Do(r, "PUT", path, gin.H{}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutil.Do(r, "PUT", path, gin.H{"title": "  "}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutil.Do(r, "PUT", "/api/blog/9999", gin.H{"title": "x"}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRemovesComments(t *testing.T) {
	r, db := setup(t)
	token := testutil.AdminToken(t)
	p := seed(t, db, "Doomed", "teaching", models.StatusPublished)
	require.NoError(t, db.Create(&models.CommentModel{PostID: p.ID, Author: "Ann", Content: "Amen"}).Error)

	w := testutil.Do(r, "DELETE", fmt.Sprintf("/api/blog/%d", p.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.CommentModel{}).Count(&count)
	assert.Zero(t, count)

	w = testutil.Do(r, "DELETE", fmt.Sprintf("/api/blog/%d", p.ID), nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIncrementViewsOnMissingRowIsHarmless(t *testing.T) {
	db := testutil.NewDB(t)
	assert.NoError(t, NewService(db).IncrementViews(context.Background(), 42))
}
