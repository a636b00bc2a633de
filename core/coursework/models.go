package coursework

import (
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core"
)

// WorkType discriminates which answer payload a course work's submissions
// carry. The matching union slot is required on the work and on each of its
// submissions; the other slots stay nil.
type WorkType string

const (
	WorkTypeAssignment     WorkType = "ASSIGNMENT"
	WorkTypeShortAnswer    WorkType = "SHORT_ANSWER_QUESTION"
	WorkTypeMultipleChoice WorkType = "MULTIPLE_CHOICE_QUESTION"
)

func (t WorkType) IsValid() bool {
	switch t {
	case WorkTypeAssignment, WorkTypeShortAnswer, WorkTypeMultipleChoice:
		return true
	}
	return false
}

// State is a course work lifecycle state.
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

// DefaultListStates filter a course work list when the caller specifies none:
// drafts and deleted work stay hidden by default.
var DefaultListStates = []State{StatePublished}

// Assignee modes
const (
	AssigneeModeAllStudents = "ALL_STUDENTS"
)

// Submission modification modes
const (
	ModifiableUntilTurnedIn = "MODIFIABLE_UNTIL_TURNED_IN"
	Modifiable              = "MODIFIABLE"
)

// Link is a URL material.
type Link struct {
	URL          string `json:"url" validate:"required"`
	Title        string `json:"title,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// Material is an attachment on course work or an assignment submission.
// Exactly one slot is set.
type Material struct {
	Link *Link `json:"link,omitempty"`
}

// MultipleChoiceQuestion carries the choice set of a multiple-choice work.
type MultipleChoiceQuestion struct {
	Choices []string `json:"choices"`
}

// CourseWork is an assignment or question posted to a course.
type CourseWork struct {
	CourseID                   string                  `json:"courseId"`
	ID                         string                  `json:"id"`
	Title                      string                  `json:"title"`
	Description                string                  `json:"description,omitempty"`
	Materials                  []Material              `json:"materials,omitempty"`
	State                      State                   `json:"state"`
	AlternateLink              string                  `json:"alternateLink"`
	CreationTime               string                  `json:"creationTime"`
	UpdateTime                 string                  `json:"updateTime"`
	DueDate                    *core.Date              `json:"dueDate,omitempty"`
	DueTime                    *core.TimeOfDay         `json:"dueTime,omitempty"`
	ScheduledTime              string                  `json:"scheduledTime,omitempty"`
	MaxPoints                  null.Int                `json:"maxPoints,omitempty"`
	WorkType                   WorkType                `json:"workType"`
	AssigneeMode               string                  `json:"assigneeMode"`
	SubmissionModificationMode string                  `json:"submissionModificationMode"`
	CreatorUserID              string                  `json:"creatorUserId"`
	TopicID                    string                  `json:"topicId,omitempty"`
	MultipleChoiceQuestion     *MultipleChoiceQuestion `json:"multipleChoiceQuestion,omitempty"`
}

func (cw CourseWork) Times() (string, string) { return cw.CreationTime, cw.UpdateTime }

// DueAt composes the work's due date and time into a single instant. The
// second return is false unless both parts are present.
func (cw CourseWork) DueAt() (time.Time, bool) {
	if cw.DueDate == nil || cw.DueTime == nil {
		return time.Time{}, false
	}
	return core.CombineDateTime(*cw.DueDate, *cw.DueTime), true
}

func workAlternateLink(baseURL, courseID, id string) string {
	return fmt.Sprintf("%s/c/%s/a/%s/details", baseURL, courseID, id)
}

// NewCourseWork contains information needed to create a new CourseWork.
type NewCourseWork struct {
	Title                      string                  `json:"title" validate:"required"`
	Description                string                  `json:"description"`
	Materials                  []Material              `json:"materials"`
	State                      State                   `json:"state"`
	DueDate                    *core.Date              `json:"dueDate"`
	DueTime                    *core.TimeOfDay         `json:"dueTime"`
	ScheduledTime              string                  `json:"scheduledTime"`
	MaxPoints                  null.Int                `json:"maxPoints"`
	WorkType                   WorkType                `json:"workType" validate:"required"`
	AssigneeMode               string                  `json:"assigneeMode"`
	SubmissionModificationMode string                  `json:"submissionModificationMode"`
	TopicID                    string                  `json:"topicId"`
	MultipleChoiceQuestion     *MultipleChoiceQuestion `json:"multipleChoiceQuestion"`
}

func (ncw *NewCourseWork) Validate() error {
	ncw.Title = core.CleanString(ncw.Title)
	ncw.Description = core.CleanString(ncw.Description)

	if err := core.Validate.Struct(ncw); err != nil {
		return err
	}
	if !ncw.WorkType.IsValid() {
		return core.NewValidationError(
			fmt.Errorf("invalid workType: %q", ncw.WorkType),
			core.FieldError{Field: "workType", Error: "invalid work type"},
		)
	}
	if ncw.State != "" && !ncw.State.IsValid() {
		return core.NewValidationError(
			fmt.Errorf("invalid state: %q", ncw.State),
			core.FieldError{Field: "state", Error: "invalid state"},
		)
	}
	if ncw.WorkType == WorkTypeMultipleChoice {
		if ncw.MultipleChoiceQuestion == nil || len(ncw.MultipleChoiceQuestion.Choices) == 0 {
			return core.NewValidationError(
				fmt.Errorf("multiple choice work requires choices"),
				core.FieldError{Field: "multipleChoiceQuestion", Error: "a non-empty choice set is required"},
			)
		}
	}
	return nil
}

// UpdateCourseWork defines the fields a masked course work update may touch.
// Nil pointers distinguish "absent" from zero values; Materials are replaced
// wholesale on every update regardless of the mask.
type UpdateCourseWork struct {
	Title                      *string         `json:"title"`
	Description                *string         `json:"description"`
	State                      *State          `json:"state"`
	DueDate                    *core.Date      `json:"dueDate"`
	DueTime                    *core.TimeOfDay `json:"dueTime"`
	ScheduledTime              *string         `json:"scheduledTime"`
	MaxPoints                  null.Int        `json:"maxPoints"`
	SubmissionModificationMode *string         `json:"submissionModificationMode"`
	TopicID                    *string         `json:"topicId"`
	Materials                  []Material      `json:"materials"`
}

// courseWorkMaskFields are the paths a course work updateMask may name.
var courseWorkMaskFields = []string{
	"title", "description", "state", "dueDate", "dueTime", "maxPoints",
	"scheduledTime", "submissionModificationMode", "topicId", "materials",
}

func (ucw *UpdateCourseWork) apply(cw *CourseWork, mask core.FieldMask) error {
	if !mask.SubsetOf(courseWorkMaskFields...) {
		return core.NewValidationError(fmt.Errorf("updateMask names unknown fields: %v", mask.Paths()))
	}
	if mask.Has("title") && ucw.Title != nil {
		title := core.CleanString(*ucw.Title)
		if title == "" {
			return core.NewValidationError(
				fmt.Errorf("title cannot be blank"),
				core.FieldError{Field: "title", Error: "this field is required"},
			)
		}
		cw.Title = title
	}
	if mask.Has("description") && ucw.Description != nil {
		cw.Description = core.CleanString(*ucw.Description)
	}
	if mask.Has("state") && ucw.State != nil {
		if !ucw.State.IsValid() {
			return core.NewValidationError(
				fmt.Errorf("invalid state: %q", *ucw.State),
				core.FieldError{Field: "state", Error: "invalid state"},
			)
		}
		cw.State = *ucw.State
	}
	if mask.Has("dueDate") {
		cw.DueDate = ucw.DueDate
	}
	if mask.Has("dueTime") {
		cw.DueTime = ucw.DueTime
	}
	if mask.Has("maxPoints") {
		cw.MaxPoints = ucw.MaxPoints
	}
	if mask.Has("scheduledTime") && ucw.ScheduledTime != nil {
		cw.ScheduledTime = *ucw.ScheduledTime
	}
	if mask.Has("submissionModificationMode") && ucw.SubmissionModificationMode != nil {
		cw.SubmissionModificationMode = *ucw.SubmissionModificationMode
	}
	if mask.Has("topicId") && ucw.TopicID != nil {
		cw.TopicID = *ucw.TopicID
	}

	// attachments are replaced wholesale, mask or not
	cw.Materials = ucw.Materials
	return nil
}
