package apitest

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core/coursework"
)

func TestAPI_Submissions(t *testing.T) {
	f := setup(t)
	f.profile(t, "t1", "Neema", "Mwangi")
	f.profile(t, "s1", "Amani", "Kalumbo")
	f.profile(t, "s2", "Zawadi", "Tshisekedi")
	crs := f.course(t, "t1", "Algebra", "s1", "s2")

	cw, err := f.work.Create("t1", crs.ID, coursework.NewCourseWork{
		Title:     "Problem set 2",
		WorkType:  coursework.WorkTypeAssignment,
		State:     coursework.StatePublished,
		MaxPoints: null.IntFrom(100),
	})
	require.NoError(t, err)
	base := "/v1/courses/" + crs.ID + "/courseWork/" + cw.ID + "/studentSubmissions"

	t.Run("lazy creation on owner read", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, base+"/me", f.token(t, "s1"))
		f.do(req, rec)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decodeBody(t, rec)
		assert.Equal(t, "s1", got["id"])
		assert.Equal(t, "s1", got["userId"])
		assert.Equal(t, "CREATED", got["state"])
		assert.Nil(t, got["late"])
		assert.NotNil(t, got["assignmentSubmission"])
	})

	t.Run("teacher read does not create", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, base+"/s2", f.token(t, "t1"))
		f.do(req, rec)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("peer read forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, base+"/s1", f.token(t, "s2"))
		f.do(req, rec)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("turn in", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, base+"/me:turnIn", f.token(t, "s1"))
		f.do(req, rec)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "TURNED_IN", decodeBody(t, rec)["state"])
	})

	t.Run("student cannot return", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, base+"/s1:return", f.token(t, "s1"))
		f.do(req, rec)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("teacher returns", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, base+"/s1:return", f.token(t, "t1"))
		f.do(req, rec)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "RETURNED", decodeBody(t, rec)["state"])
	})

	t.Run("reclaim after resubmission", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, base+"/me:turnIn", f.token(t, "s1"))
		f.do(req, rec)
		require.Equal(t, http.StatusOK, rec.Code)

		req, rec = newAuthRequest(http.MethodPost, base+"/me:reclaim", f.token(t, "s1"))
		f.do(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "RECLAIMED_BY_STUDENT", decodeBody(t, rec)["state"])
	})

	t.Run("teacher grades", func(t *testing.T) {
		body := marshallObj(t, coursework.UpdateSubmission{AssignedGrade: null.IntFrom(95)})
		req, rec := newAuthRequest(http.MethodPatch, base+"/s1?updateMask=assignedGrade", f.token(t, "t1"), body)
		f.do(req, rec)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, float64(95), decodeBody(t, rec)["assignedGrade"])
	})

	t.Run("student cannot grade", func(t *testing.T) {
		body := marshallObj(t, coursework.UpdateSubmission{AssignedGrade: null.IntFrom(100)})
		req, rec := newAuthRequest(http.MethodPatch, base+"/me?updateMask=assignedGrade", f.token(t, "s1"), body)
		f.do(req, rec)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("teacher lists all", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, base, f.token(t, "t1"))
		f.do(req, rec)

		require.Equal(t, http.StatusOK, rec.Code)
		got := decodeBody(t, rec)
		assert.Len(t, got["studentSubmissions"], 1)
	})

	t.Run("unknown action verb", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, base+"/me:frobnicate", f.token(t, "s1"))
		f.do(req, rec)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("action without verb", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, base+"/me", f.token(t, "s1"))
		f.do(req, rec)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
