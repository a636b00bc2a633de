package main

import (
	"fmt"
	"log"
	"os"

	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core/announcement"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/coursework"
	"github.com/darasahq/darasa/core/profile"
	logsvc "github.com/darasahq/darasa/services/logger"
	dummypush "github.com/darasahq/darasa/services/push/dummy"
	"github.com/darasahq/darasa/storage/postgres"
)

// seed loads a demo teacher, two students and a published course with one
// assignment and one announcement. Safe to re-run; duplicate profiles are
// reported as conflicts and skipped.
func (cli *commandLine) seed() error {
	seedLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "SEED : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		cli.conf,
	)
	seedLogger.Enable(false)
	push := dummypush.NewService()

	profileRepo := postgres.NewProfileRepository(cli.db)
	courseRepo := postgres.NewCourseRepository(cli.db)
	workRepo := postgres.NewCourseWorkRepository(cli.db)
	annRepo := postgres.NewAnnouncementRepository(cli.db)

	profileSvc := profile.NewService(profileRepo)
	courseSvc := course.NewService(courseRepo, profileRepo, cli.conf)
	workSvc := coursework.NewService(workRepo, courseRepo, push, seedLogger, cli.conf)
	annSvc := announcement.NewService(annRepo, courseRepo, push, seedLogger, cli.conf)

	teacherID := "seedteacher1"
	studentIDs := []string{"seedstudent1", "seedstudent2"}

	seeds := []profile.UserProfile{
		profile.NewUserProfile(teacherID, "Neema", "Mwangi", "neema.mwangi@darasa.app", ""),
		profile.NewUserProfile(studentIDs[0], "Amani", "Kalumbo", "amani.kalumbo@darasa.app", ""),
		profile.NewUserProfile(studentIDs[1], "Zawadi", "Tshisekedi", "zawadi.tshisekedi@darasa.app", ""),
	}
	for _, p := range seeds {
		if _, err := profileSvc.Register(p); err != nil {
			if err == profile.ErrExists {
				fmt.Printf("profile %s already exists, skipping\n", p.ID)
				continue
			}
			return err
		}
	}

	crs, err := courseSvc.Create(teacherID, course.NewCourse{
		Name:               "Intro to Distributed Systems",
		Section:            "CS-401",
		DescriptionHeading: "Consensus, replication and failure",
		Description:        "A first course on building systems that survive partial failure.",
		Room:               "B12",
		CourseState:        course.StateActive,
	})
	if err != nil {
		return err
	}
	for _, sid := range studentIDs {
		if _, err = courseSvc.AddStudent(teacherID, crs.ID, sid, ""); err != nil {
			return err
		}
	}

	if _, err = workSvc.Create(teacherID, crs.ID, coursework.NewCourseWork{
		Title:       "Paper review: The Part-Time Parliament",
		Description: "Summarize the Paxos protocol and its safety argument.",
		WorkType:    coursework.WorkTypeAssignment,
		State:       coursework.StatePublished,
		MaxPoints:   null.IntFrom(100),
	}); err != nil {
		return err
	}

	if _, err = annSvc.Create(teacherID, crs.ID, announcement.NewAnnouncement{
		Text: "Welcome to the course! The first assignment is up.",
	}); err != nil {
		return err
	}

	fmt.Printf("seeded course %s (enrollment code %s)\n", crs.ID, crs.EnrollmentCode)
	return nil
}
