package course

import (
	"fmt"
	"math/rand"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/profile"
)

// State is a course lifecycle state.
type State string

const (
	StateActive      State = "ACTIVE"
	StateArchived    State = "ARCHIVED"
	StateProvisioned State = "PROVISIONED"
	StateDeclined    State = "DECLINED"
	StateSuspended   State = "SUSPENDED"
)

// DefaultListStates are the states a course list request filters on when the
// caller does not specify any.
var DefaultListStates = []State{StateActive, StateArchived, StateProvisioned, StateDeclined}

var validStates = map[State]struct{}{
	StateActive:      {},
	StateArchived:    {},
	StateProvisioned: {},
	StateDeclined:    {},
	StateSuspended:   {},
}

func (s State) IsValid() bool {
	_, ok := validStates[s]
	return ok
}

// course cover photos assigned round-robin-free at creation
var photoURLs = []string{
	"https://gstatic.com/classroom/themes/img_code.jpg",
	"https://gstatic.com/classroom/themes/img_breakfast.jpg",
	"https://gstatic.com/classroom/themes/img_bookclub.jpg",
	"https://gstatic.com/classroom/themes/img_reachout.jpg",
	"https://gstatic.com/classroom/themes/img_learnlanguage.jpg",
	"https://gstatic.com/classroom/themes/Honors.jpg",
	"https://gstatic.com/classroom/themes/Chemistry.jpg",
	"https://gstatic.com/classroom/themes/Design.jpg",
	"https://gstatic.com/classroom/themes/Geography.jpg",
	"https://gstatic.com/classroom/themes/WorldStudies.jpg",
}

// Course is a class with its roster. The roster lists are persisted with the
// course record and serialized inside it, joined with resolved profiles at
// read time.
type Course struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Section            string `json:"section,omitempty"`
	DescriptionHeading string `json:"descriptionHeading,omitempty"`
	Description        string `json:"description,omitempty"`
	Room               string `json:"room,omitempty"`
	OwnerID            string `json:"ownerId"`
	CreationTime       string `json:"creationTime"`
	UpdateTime         string `json:"updateTime"`
	EnrollmentCode     string `json:"enrollmentCode"`
	CourseState        State  `json:"courseState"`
	AlternateLink      string `json:"alternateLink"`
	PhotoURL           string `json:"photoUrl"`

	Teachers []Teacher `json:"teachers"`
	Students []Student `json:"students"`
}

func (c Course) Times() (string, string) { return c.CreationTime, c.UpdateTime }

// AlternateLink returns the course's web URL under the classroom frontend.
func alternateLink(baseURL, courseID string) string {
	return fmt.Sprintf("%s/c/%s", baseURL, courseID)
}

// Teacher is a teacher membership. CourseID and Profile are populated at read
// time, never persisted with the membership.
type Teacher struct {
	CourseID string               `json:"courseId,omitempty"`
	UserID   string               `json:"userId"`
	Profile  *profile.UserProfile `json:"profile,omitempty"`
}

// Student is a student membership, shaped like Teacher.
type Student struct {
	CourseID string               `json:"courseId,omitempty"`
	UserID   string               `json:"userId"`
	Profile  *profile.UserProfile `json:"profile,omitempty"`
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Name               string `json:"name" validate:"required"`
	Section            string `json:"section"`
	DescriptionHeading string `json:"descriptionHeading"`
	Description        string `json:"description"`
	Room               string `json:"room"`
	CourseState        State  `json:"courseState"`
}

func (nc *NewCourse) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.Section = core.CleanString(nc.Section)
	nc.DescriptionHeading = core.CleanString(nc.DescriptionHeading)
	nc.Description = core.CleanString(nc.Description)
	nc.Room = core.CleanString(nc.Room)

	if nc.CourseState != "" && !nc.CourseState.IsValid() {
		return core.NewValidationError(
			fmt.Errorf("invalid courseState: %q", nc.CourseState),
			core.FieldError{Field: "courseState", Error: "invalid course state"},
		)
	}
	return core.Validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing
// Course. Server-owned fields (id, ownerId, roster, enrollmentCode, times,
// links) are never caller-writable.
type UpdateCourse struct {
	Name               string `json:"name" validate:"required"`
	Section            string `json:"section"`
	DescriptionHeading string `json:"descriptionHeading"`
	Description        string `json:"description"`
	Room               string `json:"room"`
	CourseState        State  `json:"courseState"`
}

func (uc *UpdateCourse) Validate() error {
	uc.Name = core.CleanString(uc.Name)
	uc.Section = core.CleanString(uc.Section)
	uc.DescriptionHeading = core.CleanString(uc.DescriptionHeading)
	uc.Description = core.CleanString(uc.Description)
	uc.Room = core.CleanString(uc.Room)

	if uc.CourseState != "" && !uc.CourseState.IsValid() {
		return core.NewValidationError(
			fmt.Errorf("invalid courseState: %q", uc.CourseState),
			core.FieldError{Field: "courseState", Error: "invalid course state"},
		)
	}
	return core.Validate.Struct(uc)
}

func randomPhotoURL() string {
	return photoURLs[rand.Intn(len(photoURLs))]
}
