package apitest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/darasahq/darasa/apps/api/echo"
	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/announcement"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/coursework"
	"github.com/darasahq/darasa/core/identity"
	"github.com/darasahq/darasa/core/meet"
	"github.com/darasahq/darasa/core/profile"
	identitysvc "github.com/darasahq/darasa/services/identity"
	dummypush "github.com/darasahq/darasa/services/push/dummy"
	"github.com/darasahq/darasa/storage/inmem"
	testutil "github.com/darasahq/darasa/tests"
)

// fixture exposes the server plus the backing services so tests can seed
// state directly.
type fixture struct {
	server echoapi.Server
	conf   *core.Config

	profiles profile.Service
	courses  *course.Service
	work     *coursework.Service
	anns     *announcement.Service
	meets    *meet.Service
	revoked  identity.RevocationList
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := inmem.Open()
	require.NoError(t, err)
	conf := testutil.NewConfig()
	logger := testutil.NewLogger(conf)
	push := dummypush.NewService()
	dummypush.ClearSentMessages()

	profileRepo := inmem.NewProfileRepository(db)
	courseRepo := inmem.NewCourseRepository(db)
	revoked := inmem.NewRevocationList(db)

	f := &fixture{
		conf:     conf,
		profiles: profile.NewService(profileRepo),
		courses:  course.NewService(courseRepo, profileRepo, conf),
		work:     coursework.NewService(inmem.NewCourseWorkRepository(db), courseRepo, push, logger, conf),
		anns:     announcement.NewService(inmem.NewAnnouncementRepository(db), courseRepo, push, logger, conf),
		meets:    meet.NewService(inmem.NewMeetRepository(db), courseRepo, push, conf),
		revoked:  revoked,
	}

	f.server = echoapi.NewServer(echoapi.ServerDeps{
		Conf:            conf,
		Logger:          logger,
		Verifier:        identitysvc.NewVerifier(conf, revoked),
		ProfileSvc:      f.profiles,
		CourseSvc:       f.courses,
		CourseWorkSvc:   f.work,
		AnnouncementSvc: f.anns,
		MeetSvc:         f.meets,
		PushSvc:         push,
	})
	return f
}

func (f *fixture) token(t *testing.T, userID string) string {
	return testutil.GetToken(t, f.conf, userID)
}

func (f *fixture) profile(t *testing.T, id, givenName, familyName string) profile.UserProfile {
	t.Helper()
	p, err := f.profiles.Register(profile.NewUserProfile(id, givenName, familyName, id+"@test.cd", ""))
	require.NoError(t, err)
	return p
}

// course creates an active course owned by ownerID and enrolls the given
// students. Profiles must be registered beforehand.
func (f *fixture) course(t *testing.T, ownerID, name string, studentIDs ...string) course.Course {
	t.Helper()
	return testutil.CreateCourse(t, f.courses, ownerID, name, studentIDs...)
}

func (f *fixture) do(req *http.Request, rec *httptest.ResponseRecorder) {
	f.server.ServeHTTP(rec, req)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := make(map[string]interface{})
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
