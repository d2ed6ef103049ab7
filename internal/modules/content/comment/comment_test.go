package comment

import (
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
	NewHandler(NewService(db)).RegisterRoutes(api, authMW)
	return r, db
}

func post(t *testing.T, db *gorm.DB, title string, status models.ContentStatus) models.PostModel {
	t.Helper()
	p := models.PostModel{Title: title, Category: "teaching", Status: status}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestCreateRequiresPublishedPost(t *testing.T) {
	r, db := setup(t)
	published := post(t, db, "Open", models.StatusPublished)
	draft := post(t, db, "Closed", models.StatusDraft)

	w := testutil.Do(r, "POST", "/api/comments", gin.H{"post_id": published.ID, "content": "  Amen  "}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := testutil.JSON(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Anonymous", data["author"])
	assert.Equal(t, "Amen", data["content"])

	w = testutil.Do(r, "POST", "/api/comments", gin.H{"post_id": draft.ID, "content": "Hi"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"post_id"}, testutil.FieldNames(t, w))

	w = testutil.Do(r, "POST", "/api/comments", gin.H{"post_id": 999, "content": "Hi"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutil.Do(r, "POST", "/api/comments", gin.H{"author": "Ann"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.ElementsMatch(t, []string{"post_id", "content"}, testutil.FieldNames(t, w))
}

func TestLatestReturnsThreeNewest(t *testing.T) {
	r, db := setup(t)
	p := post(t, db, "Busy", models.StatusPublished)
	for i := 1; i <= 5; i++ {
		require.NoError(t, db.Create(&models.CommentModel{PostID: p.ID, Author: "A", Content: fmt.Sprintf("c%d", i)}).Error)
	}

	w := testutil.Do(r, "GET", fmt.Sprintf("/api/comments/post/%d", p.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	data := testutil.JSON(t, w)["data"].([]interface{})
	require.Len(t, data, 3)
	assert.Equal(t, "c5", data[0].(map[string]interface{})["content"])
	assert.Equal(t, "c3", data[2].(map[string]interface{})["content"])
}

func TestLatestHidesUnpublishedPosts(t *testing.T) {
	r, db := setup(t)
	p := post(t, db, "Soon hidden", models.StatusPublished)
	require.NoError(t, db.Create(&models.CommentModel{PostID: p.ID, Author: "A", Content: "visible"}).Error)

	path := fmt.Sprintf("/api/comments/post/%d", p.ID)
	require.Equal(t, http.StatusOK, testutil.Do(r, "GET", path, nil, "").Code)

	require.NoError(t, db.Model(&p).Update("status", models.StatusDraft).Error)
	w := testutil.Do(r, "GET", path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "visible")

	empty := post(t, db, "Quiet", models.StatusPublished)
	w = testutil.Do(r, "GET", fmt.Sprintf("/api/comments/post/%d", empty.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, testutil.Do(r, "GET", "/api/comments/post/999", nil, "").Code)
}

func TestAdminListJoinsPostTitle(t *testing.T) {
	r, db := setup(t)
	a := post(t, db, "First", models.StatusPublished)
	b := post(t, db, "Second", models.StatusPublished)
	require.NoError(t, db.Create(&models.CommentModel{PostID: a.ID, Author: "A", Content: "on first"}).Error)
	require.NoError(t, db.Create(&models.CommentModel{PostID: b.ID, Author: "B", Content: "on second"}).Error)
	require.NoError(t, db.Create(&models.CommentModel{PostID: 777, Author: "C", Content: "orphan"}).Error)
	token := testutil.AdminToken(t)

	w := testutil.Do(r, "GET", "/api/comments", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := testutil.JSON(t, w)
	data := body["data"].([]interface{})
	require.Len(t, data, 3)
	assert.Nil(t, data[0].(map[string]interface{})["post_title"])
	assert.Equal(t, "Second", data[1].(map[string]interface{})["post_title"])

	w = testutil.Do(r, "GET", fmt.Sprintf("/api/comments?post_id=%d", a.ID), nil, token)
	data = testutil.JSON(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "First", data[0].(map[string]interface{})["post_title"])

	assert.Equal(t, http.StatusBadRequest, testutil.Do(r, "GET", "/api/comments?post_id=x", nil, token).Code)
	assert.Equal(t, http.StatusUnauthorized, testutil.Do(r, "GET", "/api/comments", nil, "").Code)
}

func TestDelete(t *testing.T) {
	r, db := setup(t)
	p := post(t, db, "P", models.StatusPublished)
	c := models.CommentModel{PostID: p.ID, Author: "A", Content: "bye"}
	require.NoError(t, db.Create(&c).Error)
	token := testutil.AdminToken(t)

	path := fmt.Sprintf("/api/comments/%d", c.ID)
	assert.Equal(t, http.StatusOK, testutil.Do(r, "DELETE", path, nil, token).Code)
	assert.Equal(t, http.StatusNotFound, testutil.Do(r, "DELETE", path, nil, token).Code)
}
