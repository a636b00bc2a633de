package apitest

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasahq/darasa/core/meet"
	dummypush "github.com/darasahq/darasa/services/push/dummy"
)

func TestAPI_Meets(t *testing.T) {
	f := setup(t)
	f.profile(t, "t1", "Neema", "Mwangi")
	f.profile(t, "s1", "Amani", "Kalumbo")
	crs := f.course(t, "t1", "Algebra", "s1")
	base := "/v1/courses/" + crs.ID + "/meet"

	var meetID string

	t.Run("create", func(t *testing.T) {
		body := marshallObj(t, meet.NewMeet{Title: "Friday review session"})
		req, rec := newAuthRequest(http.MethodPost, base, f.token(t, "t1"), body)
		f.do(req, rec)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		got := decodeBody(t, rec)
		meetID, _ = got["id"].(string)
		assert.Equal(t, "Friday review session", got["title"])
		assert.Equal(t, f.conf.MeetBaseURL+"/"+crs.ID+"/join/"+meetID, got["alternateLink"])
	})

	t.Run("student create forbidden", func(t *testing.T) {
		body := marshallObj(t, meet.NewMeet{Title: "Secret session"})
		req, rec := newAuthRequest(http.MethodPost, base, f.token(t, "s1"), body)
		f.do(req, rec)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("student lists", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, base, f.token(t, "s1"))
		f.do(req, rec)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody(t, rec)["meets"], 1)
	})

	t.Run("non-member forbidden", func(t *testing.T) {
		f.profile(t, "x1", "Pendo", "Okonkwo")
		req, rec := newAuthRequest(http.MethodGet, base, f.token(t, "x1"))
		f.do(req, rec)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("patch title and start time", func(t *testing.T) {
		body := marshallObj(t, map[string]string{"title": "Monday review session", "startTime": "2026-08-31T14:00:00.000Z"})
		req, rec := newAuthRequest(http.MethodPatch, base+"/"+meetID+"?updateMask=title,startTime", f.token(t, "t1"), body)
		f.do(req, rec)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decodeBody(t, rec)
		assert.Equal(t, "Monday review session", got["title"])
		assert.Equal(t, "2026-08-31T14:00:00.000Z", got["startTime"])
	})

	t.Run("delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, base+"/"+meetID, f.token(t, "t1"))
		f.do(req, rec)
		assert.Equal(t, http.StatusAccepted, rec.Code)

		req, rec = newAuthRequest(http.MethodGet, base+"/"+meetID, f.token(t, "t1"))
		f.do(req, rec)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAPI_Notifications(t *testing.T) {
	f := setup(t)

	t.Run("send", func(t *testing.T) {
		dummypush.ClearSentMessages()
		body := marshallObj(t, map[string]interface{}{
			"title":        "Class cancelled",
			"body":         "No class tomorrow",
			"recipientIds": []string{"s1", "s2"},
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/notifications", f.token(t, "t1"), body)
		f.do(req, rec)

		require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
		require.Len(t, dummypush.SentMessages, 1)
		assert.Equal(t, "Class cancelled", dummypush.SentMessages[0].Title)
		assert.Equal(t, []string{"s1", "s2"}, dummypush.SentMessages[0].Recipients)
	})

	t.Run("recipients required", func(t *testing.T) {
		body := marshallObj(t, map[string]interface{}{"title": "Hi", "body": "There"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/notifications", f.token(t, "t1"), body)
		f.do(req, rec)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
