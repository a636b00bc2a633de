package coursework

import (
	"fmt"

	"github.com/volatiletech/null/v8"
)

// SubmissionState is a student submission lifecycle state.
//
// Transitions: CREATED -> TURNED_IN -> {RETURNED, RECLAIMED_BY_STUDENT}
// -> TURNED_IN (resubmission). RECLAIMED_BY_STUDENT is only reachable from
// TURNED_IN; RETURNED is a teacher-only transition.
type SubmissionState string

const (
	SubmissionCreated   SubmissionState = "CREATED"
	SubmissionTurnedIn  SubmissionState = "TURNED_IN"
	SubmissionReturned  SubmissionState = "RETURNED"
	SubmissionReclaimed SubmissionState = "RECLAIMED_BY_STUDENT"
)

func (s SubmissionState) IsValid() bool {
	switch s {
	case SubmissionCreated, SubmissionTurnedIn, SubmissionReturned, SubmissionReclaimed:
		return true
	}
	return false
}

// LateFilter narrows a submission list by the late flag.
type LateFilter string

const (
	LateOnly    LateFilter = "LATE_ONLY"
	NotLateOnly LateFilter = "NOT_LATE_ONLY"
)

// AssignmentSubmission holds a student's attachments for ASSIGNMENT work.
type AssignmentSubmission struct {
	Attachments []Material `json:"attachments"`
}

// ShortAnswerSubmission holds a student's answer for SHORT_ANSWER_QUESTION work.
type ShortAnswerSubmission struct {
	Answer string `json:"answer"`
}

// MultipleChoiceSubmission holds a student's answer for MULTIPLE_CHOICE_QUESTION work.
type MultipleChoiceSubmission struct {
	Answer string `json:"answer"`
}

// StudentSubmission is a student's work against a CourseWork. Its id equals
// the student's user id: one submission per student per work, created lazily
// on the student's first read. Exactly one answer union slot is populated,
// per the parent work's type.
type StudentSubmission struct {
	CourseID       string          `json:"courseId"`
	CourseWorkID   string          `json:"courseWorkId"`
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	CreationTime   string          `json:"creationTime"`
	UpdateTime     string          `json:"updateTime"`
	State          SubmissionState `json:"state"`
	Late           null.Bool       `json:"late"`
	DraftGrade     null.Int        `json:"draftGrade"`
	AssignedGrade  null.Int        `json:"assignedGrade"`
	AlternateLink  string          `json:"alternateLink"`
	CourseWorkType WorkType        `json:"courseWorkType"`

	AssignmentSubmission     *AssignmentSubmission     `json:"assignmentSubmission,omitempty"`
	ShortAnswerSubmission    *ShortAnswerSubmission    `json:"shortAnswerSubmission,omitempty"`
	MultipleChoiceSubmission *MultipleChoiceSubmission `json:"multipleChoiceSubmission,omitempty"`
}

func (s StudentSubmission) Times() (string, string) { return s.CreationTime, s.UpdateTime }

func submissionAlternateLink(baseURL, courseID, courseWorkID, id string) string {
	return fmt.Sprintf(
		"%s/c/%s/a/%s/submissions/by-status/and-sort-first-name/student/%s",
		baseURL, courseID, courseWorkID, id,
	)
}

// newSubmission builds the initial lazily-created submission for a student,
// populating the union slot matching the parent work's type.
func newSubmission(cw CourseWork, userID, now, baseURL string) StudentSubmission {
	sub := StudentSubmission{
		CourseID:       cw.CourseID,
		CourseWorkID:   cw.ID,
		ID:             userID,
		UserID:         userID,
		CreationTime:   now,
		UpdateTime:     now,
		State:          SubmissionCreated,
		AlternateLink:  submissionAlternateLink(baseURL, cw.CourseID, cw.ID, userID),
		CourseWorkType: cw.WorkType,
	}
	switch cw.WorkType {
	case WorkTypeAssignment:
		sub.AssignmentSubmission = &AssignmentSubmission{Attachments: []Material{}}
	case WorkTypeShortAnswer:
		sub.ShortAnswerSubmission = &ShortAnswerSubmission{}
	case WorkTypeMultipleChoice:
		sub.MultipleChoiceSubmission = &MultipleChoiceSubmission{}
	}
	return sub
}

// UpdateSubmission defines the fields a masked submission update may touch.
// Grade fields are teacher-only; answer fields are owner-student-only. The
// split is enforced by the service from the mask, not here.
type UpdateSubmission struct {
	DraftGrade               null.Int                  `json:"draftGrade"`
	AssignedGrade            null.Int                  `json:"assignedGrade"`
	ShortAnswerSubmission    *ShortAnswerSubmission    `json:"shortAnswerSubmission"`
	MultipleChoiceSubmission *MultipleChoiceSubmission `json:"multipleChoiceSubmission"`
}

var (
	// submissionGradeFields may only be updated by a teacher of the course.
	submissionGradeFields = []string{"draftGrade", "assignedGrade"}
	// submissionAnswerFields may only be updated by the owning student.
	submissionAnswerFields = []string{"shortAnswerSubmission.answer", "multipleChoiceSubmission.answer"}
)

// ModifyAttachmentsRequest adds attachments semantics for ASSIGNMENT work:
// the submission's attachment list is replaced wholesale.
type ModifyAttachmentsRequest struct {
	AddAttachments []Material `json:"addAttachments" validate:"required"`
}
