package meet

import (
	"fmt"

	"github.com/darasahq/darasa/core"
)

// Meet is a scheduled video meeting attached to a course. The join link
// points at the external video provider; no signaling happens here.
type Meet struct {
	CourseID      string `json:"courseId"`
	ID            string `json:"id"`
	Title         string `json:"title"`
	CreationTime  string `json:"creationTime"`
	UpdateTime    string `json:"updateTime"`
	StartTime     string `json:"startTime,omitempty"`
	AlternateLink string `json:"alternateLink"`
	CreatorUserID string `json:"creatorUserId"`
}

func (m Meet) Times() (string, string) { return m.CreationTime, m.UpdateTime }

func alternateLink(baseURL, courseID, id string) string {
	return fmt.Sprintf("%s/%s/join/%s", baseURL, courseID, id)
}

// NewMeet contains information needed to create a new Meet.
type NewMeet struct {
	Title     string `json:"title" validate:"required"`
	StartTime string `json:"startTime"`
}

func (nm *NewMeet) Validate() error {
	nm.Title = core.CleanString(nm.Title)
	return core.Validate.Struct(nm)
}

// UpdateMeet defines the fields a masked meet update may touch.
type UpdateMeet struct {
	Title     *string `json:"title"`
	StartTime *string `json:"startTime"`
}

var meetMaskFields = []string{"title", "startTime"}

func (um *UpdateMeet) apply(m *Meet, mask core.FieldMask) error {
	if !mask.SubsetOf(meetMaskFields...) {
		return core.NewValidationError(fmt.Errorf("updateMask names unknown fields: %v", mask.Paths()))
	}
	if mask.Has("title") && um.Title != nil {
		title := core.CleanString(*um.Title)
		if title == "" {
			return core.NewValidationError(
				fmt.Errorf("title cannot be blank"),
				core.FieldError{Field: "title", Error: "this field is required"},
			)
		}
		m.Title = title
	}
	if mask.Has("startTime") && um.StartTime != nil {
		m.StartTime = *um.StartTime
	}
	return nil
}
