// Package inmem is a mutex-guarded in-memory implementation of the
// repositories, used by tests and local development. Roster mutations take a
// per-course lock so concurrent membership changes on the same course are
// serialized instead of racing.
package inmem

import (
	"sync"

	"github.com/darasahq/darasa/core/announcement"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/coursework"
	"github.com/darasahq/darasa/core/meet"
	"github.com/darasahq/darasa/core/profile"
)

type (
	DB struct {
		profiles      *profileTable
		courses       *courseTable
		work          *workTable
		submissions   *submissionTable
		announcements *announcementTable
		meets         *meetTable
		revoked       *revocationTable
	}

	profileTable struct {
		t     map[string]*profile.UserProfile
		mutex sync.RWMutex
	}

	// courseEntry guards its course record with its own lock; the table
	// lock only protects the map itself.
	courseEntry struct {
		c     course.Course
		mutex sync.Mutex
	}

	courseTable struct {
		t     map[string]*courseEntry
		mutex sync.RWMutex
	}

	// work and sub-entities are keyed by (courseID, id)
	workTable struct {
		t     map[string]map[string]*coursework.CourseWork
		mutex sync.RWMutex
	}

	submissionTable struct {
		// outer key is courseID + "/" + courseWorkID
		t     map[string]map[string]*coursework.StudentSubmission
		mutex sync.RWMutex
	}

	announcementTable struct {
		t     map[string]map[string]*announcement.Announcement
		mutex sync.RWMutex
	}

	meetTable struct {
		t     map[string]map[string]*meet.Meet
		mutex sync.RWMutex
	}

	revocationTable struct {
		t     map[string]struct{}
		mutex sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		profiles:      &profileTable{t: make(map[string]*profile.UserProfile)},
		courses:       &courseTable{t: make(map[string]*courseEntry)},
		work:          &workTable{t: make(map[string]map[string]*coursework.CourseWork)},
		submissions:   &submissionTable{t: make(map[string]map[string]*coursework.StudentSubmission)},
		announcements: &announcementTable{t: make(map[string]map[string]*announcement.Announcement)},
		meets:         &meetTable{t: make(map[string]map[string]*meet.Meet)},
		revoked:       &revocationTable{t: make(map[string]struct{})},
	}
	return db, nil
}
