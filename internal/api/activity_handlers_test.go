package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sunlibapp/sunlib-server/internal/domain"
)

func TestActivityFeedOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	book := ts.seedCatalogBook(t, "Dune", 412)

	// Generate some activity: favorite, progress, finish.
	rec := ts.do(t, http.MethodPut, "/api/v1/books/"+book.ID+"/favorite", ts.member, SetFavoriteRequest{IsFavorite: true})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodPost, "/api/v1/books/"+book.ID+"/progress", ts.member, RecordProgressRequest{PageReading: 412})
	require.Equal(t, http.StatusOK, rec.Code)

	var feed struct {
		Activities []ActivityResponse `json:"activities"`
	}
	rec = ts.do(t, http.MethodGet, "/api/v1/activities", ts.member, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed.Activities, 2)

	// Newest first: the finish entry precedes the favorite.
	require.Equal(t, domain.ActionFinished, feed.Activities[0].Action)
	require.Equal(t, domain.ActionFavorite, feed.Activities[1].Action)
	require.Equal(t, "alice", feed.Activities[0].Username)
	require.Equal(t, "Dune", feed.Activities[0].TargetName)

	// Book feed filters to entries targeting the book.
	rec = ts.do(t, http.MethodGet, "/api/v1/books/"+book.ID+"/activities", ts.member, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed.Activities, 2)

	// User feed shows the member's actions.
	rec = ts.do(t, http.MethodGet, "/api/v1/users/"+ts.member.ID+"/activities", ts.member, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed.Activities, 2)

	// The admin generated nothing.
	rec = ts.do(t, http.MethodGet, "/api/v1/users/"+ts.admin.ID+"/activities", ts.member, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Empty(t, feed.Activities)
}

func TestReviewEmitsActivity(t *testing.T) {
	ts := newTestServer(t)
	book := ts.seedCatalogBook(t, "Solaris", 204)

	rec := ts.do(t, http.MethodPost, "/api/v1/books/"+book.ID+"/reviews", ts.member, AddReviewRequest{Message: "Strange and brilliant."})
	require.Equal(t, http.StatusCreated, rec.Code)

	var log domain.ReviewLog
	decodeData(t, rec, &log)
	require.Len(t, log.Entries, 1)
	require.Equal(t, "alice", log.Entries[0].Author)

	var feed struct {
		Activities []ActivityResponse `json:"activities"`
	}
	rec = ts.do(t, http.MethodGet, "/api/v1/books/"+book.ID+"/activities", ts.member, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed.Activities, 1)
	require.Equal(t, domain.ActionComment, feed.Activities[0].Action)
}
