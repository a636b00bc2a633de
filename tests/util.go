package testutil

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/profile"
	identitysvc "github.com/darasahq/darasa/services/identity"
	logsvc "github.com/darasahq/darasa/services/logger"
)

// NewConfig returns a self-contained configuration for tests. No environment
// or dotenv files are read.
func NewConfig() *core.Config {
	return &core.Config{
		Debug:            true,
		TestMode:         true,
		Env:              "TEST",
		Build:            "test",
		AppName:          "Darasa",
		SecretKey:        []byte("test-secret-key"),
		TokenExpiration:  time.Hour,
		FrontendBaseURL:  "http://localhost:3000",
		ClassroomBaseURL: "https://classroom.google.com",
		MeetBaseURL:      "https://getstream.io/video",
	}
}

// InitValidators wires the shared validator and translator, as the API app
// does at start-up. Call it once from TestMain.
func InitValidators() (*validator.Validate, ut.Translator) {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate, translator
}

// NewLogger returns a logger that keeps quiet and stays away from the
// error tracker.
func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	return logger
}

func CreateProfile(t *testing.T, repo profile.Repository, id, givenName, familyName string) profile.UserProfile {
	t.Helper()
	p := profile.NewUserProfile(id, givenName, familyName, id+"@test.cd", "")
	if err := repo.CreateIfNotExists(p); err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	return p
}

// CreateCourse creates an active course owned by ownerID and enrolls the
// given students.
func CreateCourse(t *testing.T, svc *course.Service, ownerID, name string, studentIDs ...string) course.Course {
	t.Helper()
	crs, err := svc.Create(ownerID, course.NewCourse{Name: name, CourseState: course.StateActive})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	for _, sid := range studentIDs {
		if _, err = svc.AddStudent(ownerID, crs.ID, sid, ""); err != nil {
			t.Fatalf("CreateCourse() enroll %s failed: %v", sid, err)
		}
	}
	return crs
}

func GetToken(t *testing.T, conf *core.Config, userID string) string {
	t.Helper()
	token, err := identitysvc.GenerateToken(conf, userID, userID+"@test.cd")
	if err != nil {
		t.Fatalf("GetToken() failed: %v", err)
	}
	return token
}
