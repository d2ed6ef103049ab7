package aggregate

import (
	"context"
	"net/http"
	"testing"

	"github.com/ministry-site/core/internal/models"
	"github.com/ministry-site/core/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountByStatus(t *testing.T) {
	db := testutil.NewDB(t)
	for _, s := range []models.PrayerStatus{models.PrayerNew, models.PrayerNew, models.PrayerAnswered} {
		require.NoError(t, db.Create(&models.PrayerRequestModel{Category: "health", Request: "Please pray for me", Status: s}).Error)
	}

	counts, err := CountByStatus(context.Background(), db, &models.PrayerRequestModel{}, "new", "praying", "prayed", "answered")
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts.Total)
	assert.Equal(t, map[string]int64{"new": 2, "praying": 0, "prayed": 0, "answered": 1}, counts.ByStatus)
}

func TestOverview(t *testing.T) {
	db := testutil.NewDB(t)
	r, api, authMW := testutil.NewRouter()
	RegisterRoutes(api, db, authMW)

	require.NoError(t, db.Create(&models.PostModel{Title: "a", Category: "c", Status: models.StatusPublished, Views: 4}).Error)
	require.NoError(t, db.Create(&models.PostModel{Title: "b", Category: "c", Status: models.StatusDraft, Views: 1}).Error)
	require.NoError(t, db.Create(&models.VolumeModel{Title: "v", Category: "c", Status: models.StatusPublished, Downloads: 7}).Error)
	require.NoError(t, db.Create(&models.SubscriberModel{Email: "a@x.com", Status: models.SubscriberActive, UnsubscribeToken: "t1"}).Error)
	require.NoError(t, db.Create(&models.SubscriberModel{Email: "b@x.com", Status: models.SubscriberUnsubscribed, UnsubscribeToken: "t2"}).Error)

	assert.Equal(t, http.StatusUnauthorized, testutil.Do(r, "GET", "/api/stats/overview", nil, "").Code)

	w := testutil.Do(r, "GET", "/api/stats/overview", nil, testutil.AdminToken(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{
		"posts": {"published": 1, "drafts": 1},
		"volumes": {"published": 1, "drafts": 0},
		"comments": 0,
		"views": 5,
		"downloads": 7,
		"new_prayers": 0,
		"new_messages": 0,
		"active_subscribers": 1
	}`, w.Body.String())
}
