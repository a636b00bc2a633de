package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/darasahq/darasa/apps/api/echo"
	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/announcement"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/coursework"
	"github.com/darasahq/darasa/core/identity"
	"github.com/darasahq/darasa/core/meet"
	"github.com/darasahq/darasa/core/profile"
	identitysvc "github.com/darasahq/darasa/services/identity"
	logsvc "github.com/darasahq/darasa/services/logger"
	pushsvc "github.com/darasahq/darasa/services/push"
	dummypush "github.com/darasahq/darasa/services/push/dummy"
	"github.com/darasahq/darasa/storage/inmem"
	"github.com/darasahq/darasa/storage/postgres"
)

// repositories groups the storage layer handed to the domain services.
type repositories struct {
	profiles      profile.Repository
	courses       course.Repository
	work          coursework.Repository
	announcements announcement.Repository
	meets         meet.Repository
	revoked       identity.RevocationList

	close func() error
}

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up storage
	repos, err := setUpRepositories(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	defer func() {
		if err = repos.close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up push gateway
	var push core.PushService
	if conf.Debug || conf.TestMode {
		push = dummypush.NewService()
	} else {
		push = pushsvc.NewService(conf, logger)
	}

	// set up services
	profileSvc := profile.NewService(repos.profiles)
	courseSvc := course.NewService(repos.courses, repos.profiles, conf)
	workSvc := coursework.NewService(repos.work, repos.courses, push, logger, conf)
	annSvc := announcement.NewService(repos.announcements, repos.courses, push, logger, conf)
	meetSvc := meet.NewService(repos.meets, repos.courses, push, conf)
	verifier := identitysvc.NewVerifier(conf, repos.revoked)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:            conf,
			Logger:          logger,
			Verifier:        verifier,
			ProfileSvc:      profileSvc,
			CourseSvc:       courseSvc,
			CourseWorkSvc:   workSvc,
			AnnouncementSvc: annSvc,
			MeetSvc:         meetSvc,
			PushSvc:         push,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpRepositories opens the storage backend selected by the configuration.
// DEV and TEST runs fall back to the in-memory store when no database engine
// is configured.
func setUpRepositories(conf *core.Config) (*repositories, error) {
	if conf.Database.Engine != "postgres" {
		db, err := inmem.Open()
		if err != nil {
			return nil, err
		}
		return &repositories{
			profiles:      inmem.NewProfileRepository(db),
			courses:       inmem.NewCourseRepository(db),
			work:          inmem.NewCourseWorkRepository(db),
			announcements: inmem.NewAnnouncementRepository(db),
			meets:         inmem.NewMeetRepository(db),
			revoked:       inmem.NewRevocationList(db),
			close:         func() error { return nil },
		}, nil
	}

	if err := postgres.CreateIfNotExist(conf); err != nil {
		return nil, err
	}
	db, err := postgres.Open(conf)
	if err != nil {
		return nil, err
	}
	if err = postgres.Migrate(db.DB); err != nil {
		return nil, err
	}
	return &repositories{
		profiles:      postgres.NewProfileRepository(db),
		courses:       postgres.NewCourseRepository(db),
		work:          postgres.NewCourseWorkRepository(db),
		announcements: postgres.NewAnnouncementRepository(db),
		meets:         postgres.NewMeetRepository(db),
		revoked:       postgres.NewRevocationList(db),
		close:         db.Close,
	}, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
