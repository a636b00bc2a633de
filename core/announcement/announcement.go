package announcement

import (
	"fmt"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/coursework"
)

// State is an announcement lifecycle state.
type State string

const (
	StatePublished State = "PUBLISHED"
	StateDraft     State = "DRAFT"
	StateDeleted   State = "DELETED"
)

func (s State) IsValid() bool {
	switch s {
	case StatePublished, StateDraft, StateDeleted:
		return true
	}
	return false
}

// DefaultListStates filter an announcement list when the caller specifies none.
var DefaultListStates = []State{StatePublished}

// Announcement is a post to a course's stream.
type Announcement struct {
	CourseID      string                `json:"courseId"`
	ID            string                `json:"id"`
	Text          string                `json:"text"`
	Materials     []coursework.Material `json:"materials,omitempty"`
	State         State                 `json:"state"`
	AlternateLink string                `json:"alternateLink"`
	CreationTime  string                `json:"creationTime"`
	UpdateTime    string                `json:"updateTime"`
	ScheduledTime string                `json:"scheduledTime,omitempty"`
	AssigneeMode  string                `json:"assigneeMode"`
	CreatorUserID string                `json:"creatorUserId"`
}

func (a Announcement) Times() (string, string) { return a.CreationTime, a.UpdateTime }

func alternateLink(baseURL, courseID, id string) string {
	return fmt.Sprintf("%s/c/%s/p/%s", baseURL, courseID, id)
}

// NewAnnouncement contains information needed to create a new Announcement.
type NewAnnouncement struct {
	Text          string                `json:"text" validate:"required"`
	Materials     []coursework.Material `json:"materials"`
	State         State                 `json:"state"`
	ScheduledTime string                `json:"scheduledTime"`
	AssigneeMode  string                `json:"assigneeMode"`
}

func (na *NewAnnouncement) Validate() error {
	na.Text = core.CleanString(na.Text)

	if err := core.Validate.Struct(na); err != nil {
		return err
	}
	if na.State != "" && !na.State.IsValid() {
		return core.NewValidationError(
			fmt.Errorf("invalid state: %q", na.State),
			core.FieldError{Field: "state", Error: "invalid state"},
		)
	}
	return nil
}

// UpdateAnnouncement defines the fields a masked announcement update may touch.
type UpdateAnnouncement struct {
	Text          *string `json:"text"`
	State         *State  `json:"state"`
	ScheduledTime *string `json:"scheduledTime"`
}

var announcementMaskFields = []string{"text", "state", "scheduledTime"}

func (ua *UpdateAnnouncement) apply(a *Announcement, mask core.FieldMask) error {
	if !mask.SubsetOf(announcementMaskFields...) {
		return core.NewValidationError(fmt.Errorf("updateMask names unknown fields: %v", mask.Paths()))
	}
	if mask.Has("text") && ua.Text != nil {
		text := core.CleanString(*ua.Text)
		if text == "" {
			return core.NewValidationError(
				fmt.Errorf("text cannot be blank"),
				core.FieldError{Field: "text", Error: "this field is required"},
			)
		}
		a.Text = text
	}
	if mask.Has("state") && ua.State != nil {
		if !ua.State.IsValid() {
			return core.NewValidationError(
				fmt.Errorf("invalid state: %q", *ua.State),
				core.FieldError{Field: "state", Error: "invalid state"},
			)
		}
		a.State = *ua.State
	}
	if mask.Has("scheduledTime") && ua.ScheduledTime != nil {
		a.ScheduledTime = *ua.ScheduledTime
	}
	return nil
}
