package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/announcement"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/coursework"
	"github.com/darasahq/darasa/core/identity"
	"github.com/darasahq/darasa/core/meet"
	"github.com/darasahq/darasa/core/profile"
)

type (
	ServerDeps struct {
		Conf            *core.Config
		Logger          core.Logger
		Verifier        identity.Verifier
		ProfileSvc      profile.Service
		CourseSvc       *course.Service
		CourseWorkSvc   *coursework.Service
		AnnouncementSvc *announcement.Service
		MeetSvc         *meet.Service
		PushSvc         core.PushService
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	auth := bearerAuthMiddleware(s.deps.Verifier)

	registerProfileAPI(v1, auth, s.deps.ProfileSvc)
	registerCourseAPI(v1, auth, s.deps.CourseSvc)
	registerCourseWorkAPI(v1, auth, s.deps.CourseWorkSvc)
	registerSubmissionAPI(v1, auth, s.deps.CourseWorkSvc)
	registerAnnouncementAPI(v1, auth, s.deps.AnnouncementSvc)
	registerMeetAPI(v1, auth, s.deps.MeetSvc)
	registerNotificationAPI(v1, auth, s.deps.PushSvc)
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address()); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *server) Errors() <-chan error { return s.errs }

func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// signalShutdown requests a graceful shutdown, used when an integrity error
// is caught by the error handler.
func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Darasa API!")
}
