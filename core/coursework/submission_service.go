package coursework

import (
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
)

// SubmissionListOptions are the supported student submission list parameters.
type SubmissionListOptions struct {
	States   []SubmissionState
	UserID   string
	Late     LateFilter
	Page     int
	PageSize int
}

// GetSubmission fetches one submission. A student reading their own
// submission for the first time creates it lazily in state CREATED with the
// union slot matching the parent work's type.
func (svc *Service) GetSubmission(subjectID, courseID, courseWorkID, id string) (StudentSubmission, error) {
	crs, cw, err := svc.getWork(courseID, courseWorkID)
	if err != nil {
		return StudentSubmission{}, err
	}
	role := course.ResolveRole(subjectID, crs)

	sub, err := svc.repo.GetSubmission(courseID, courseWorkID, id)
	if err != nil {
		if errors.Cause(err) != ErrSubmissionNotFound {
			return StudentSubmission{}, err
		}
		if role != course.RoleStudent || subjectID != id {
			return StudentSubmission{}, err
		}
		return svc.lazyCreateSubmission(cw, subjectID)
	}

	switch {
	case role == course.RoleTeacher:
	case role == course.RoleStudent && sub.UserID == subjectID:
	default:
		return StudentSubmission{}, core.NewPermissionError("you do not have access to this submission")
	}
	return sub, nil
}

func (svc *Service) ListSubmissions(subjectID, courseID, courseWorkID string, opts SubmissionListOptions) (core.Page[StudentSubmission], error) {
	crs, _, err := svc.getWork(courseID, courseWorkID)
	if err != nil {
		return core.Page[StudentSubmission]{}, err
	}
	role := course.ResolveRole(subjectID, crs)
	if role == course.RoleNone {
		return core.Page[StudentSubmission]{}, core.NewPermissionError("you do not have access to this course")
	}

	wantState := make(map[SubmissionState]struct{}, len(opts.States))
	for _, s := range opts.States {
		wantState[s] = struct{}{}
	}

	all, err := svc.repo.QuerySubmissionsByCourseWork(courseID, courseWorkID)
	if err != nil {
		return core.Page[StudentSubmission]{}, err
	}

	matched := make([]StudentSubmission, 0, len(all))
	for _, sub := range all {
		// students only ever see their own submissions
		if role == course.RoleStudent && sub.UserID != subjectID {
			continue
		}
		if len(wantState) > 0 {
			if _, ok := wantState[sub.State]; !ok {
				continue
			}
		}
		if opts.UserID != "" && sub.UserID != opts.UserID {
			continue
		}
		switch opts.Late {
		case LateOnly:
			if !sub.Late.Valid || !sub.Late.Bool {
				continue
			}
		case NotLateOnly:
			if !sub.Late.Valid || sub.Late.Bool {
				continue
			}
		}
		matched = append(matched, sub)
	}

	if err = core.SortByTime(matched, core.OrderSpec{Field: core.SortByUpdateTime}); err != nil {
		return core.Page[StudentSubmission]{}, err
	}
	return core.Paginate(matched, opts.Page, opts.PageSize), nil
}

// PatchSubmission applies a masked update. Grade fields are teacher-only and
// answer fields are owner-student-only; a mask reaching outside the caller's
// permitted subset is rejected as forbidden even when the caller holds some
// permission.
func (svc *Service) PatchSubmission(subjectID, courseID, courseWorkID, id string, mask core.FieldMask, us UpdateSubmission) (StudentSubmission, error) {
	crs, cw, err := svc.getWork(courseID, courseWorkID)
	if err != nil {
		return StudentSubmission{}, err
	}
	sub, err := svc.repo.GetSubmission(courseID, courseWorkID, id)
	if err != nil {
		return StudentSubmission{}, err
	}

	allFields := append(append([]string{}, submissionGradeFields...), submissionAnswerFields...)
	if !mask.SubsetOf(allFields...) {
		return StudentSubmission{}, core.NewValidationError(errors.Errorf("updateMask names unknown fields: %v", mask.Paths()))
	}

	role := course.ResolveRole(subjectID, crs)
	wantsGrades := mask.Intersects(submissionGradeFields...)
	wantsAnswers := mask.Intersects(submissionAnswerFields...)

	if wantsGrades && role != course.RoleTeacher {
		return StudentSubmission{}, core.NewPermissionError("only a teacher can update grades")
	}
	if wantsAnswers && !(role == course.RoleStudent && sub.UserID == subjectID) {
		return StudentSubmission{}, core.NewPermissionError("only the submission owner can update answers")
	}

	if mask.Has("draftGrade") {
		sub.DraftGrade = us.DraftGrade
	}
	if mask.Has("assignedGrade") {
		sub.AssignedGrade = us.AssignedGrade
	}
	if mask.Has("shortAnswerSubmission.answer") {
		if cw.WorkType != WorkTypeShortAnswer {
			return StudentSubmission{}, core.NewValidationError(errors.New("shortAnswerSubmission does not apply to this work type"))
		}
		if us.ShortAnswerSubmission == nil {
			return StudentSubmission{}, core.NewValidationError(errors.New("shortAnswerSubmission is required by the updateMask"))
		}
		sub.ShortAnswerSubmission = &ShortAnswerSubmission{Answer: us.ShortAnswerSubmission.Answer}
	}
	if mask.Has("multipleChoiceSubmission.answer") {
		if cw.WorkType != WorkTypeMultipleChoice {
			return StudentSubmission{}, core.NewValidationError(errors.New("multipleChoiceSubmission does not apply to this work type"))
		}
		if us.MultipleChoiceSubmission == nil {
			return StudentSubmission{}, core.NewValidationError(errors.New("multipleChoiceSubmission is required by the updateMask"))
		}
		sub.MultipleChoiceSubmission = &MultipleChoiceSubmission{Answer: us.MultipleChoiceSubmission.Answer}
	}

	sub.UpdateTime = core.Now()
	return svc.repo.UpdateSubmission(sub)
}

// TurnIn marks the owner's submission turned in, computing the late flag
// against the work's due instant when both due date and time are set;
// otherwise the flag stays null, not false.
func (svc *Service) TurnIn(subjectID, courseID, courseWorkID, id string) (StudentSubmission, error) {
	_, cw, err := svc.getWork(courseID, courseWorkID)
	if err != nil {
		return StudentSubmission{}, err
	}
	sub, err := svc.repo.GetSubmission(courseID, courseWorkID, id)
	if err != nil {
		return StudentSubmission{}, err
	}
	if sub.UserID != subjectID {
		return StudentSubmission{}, core.NewPermissionError("only the submission owner can turn it in")
	}
	if sub.State == SubmissionTurnedIn {
		return StudentSubmission{}, core.NewValidationError(errors.New("submission is already turned in"))
	}

	if dueAt, ok := cw.DueAt(); ok {
		sub.Late = null.BoolFrom(core.IsPast(dueAt))
	}
	sub.State = SubmissionTurnedIn
	sub.UpdateTime = core.Now()
	return svc.repo.UpdateSubmission(sub)
}

// Reclaim hands a turned-in submission back to its owner for rework.
// Only reachable from TURNED_IN.
func (svc *Service) Reclaim(subjectID, courseID, courseWorkID, id string) (StudentSubmission, error) {
	_, _, err := svc.getWork(courseID, courseWorkID)
	if err != nil {
		return StudentSubmission{}, err
	}
	sub, err := svc.repo.GetSubmission(courseID, courseWorkID, id)
	if err != nil {
		return StudentSubmission{}, err
	}
	if sub.UserID != subjectID {
		return StudentSubmission{}, core.NewPermissionError("only the submission owner can reclaim it")
	}
	if sub.State != SubmissionTurnedIn {
		return StudentSubmission{}, core.NewPermissionError("only a turned in submission can be reclaimed")
	}

	sub.State = SubmissionReclaimed
	sub.UpdateTime = core.Now()
	return svc.repo.UpdateSubmission(sub)
}

// Return hands a turned-in submission back to the student, graded. Teacher-only.
func (svc *Service) Return(subjectID, courseID, courseWorkID, id string) (StudentSubmission, error) {
	crs, _, err := svc.getWork(courseID, courseWorkID)
	if err != nil {
		return StudentSubmission{}, err
	}
	sub, err := svc.repo.GetSubmission(courseID, courseWorkID, id)
	if err != nil {
		return StudentSubmission{}, err
	}
	if course.ResolveRole(subjectID, crs) != course.RoleTeacher {
		return StudentSubmission{}, core.NewPermissionError("only a teacher can return a submission")
	}
	if sub.State != SubmissionTurnedIn {
		return StudentSubmission{}, core.NewValidationError(errors.New("only a turned in submission can be returned"))
	}

	sub.State = SubmissionReturned
	sub.UpdateTime = core.Now()
	return svc.repo.UpdateSubmission(sub)
}

// ModifyAttachments replaces the attachment list of the owner's submission.
// Only valid for ASSIGNMENT work.
func (svc *Service) ModifyAttachments(subjectID, courseID, courseWorkID, id string, req ModifyAttachmentsRequest) (StudentSubmission, error) {
	_, cw, err := svc.getWork(courseID, courseWorkID)
	if err != nil {
		return StudentSubmission{}, err
	}
	sub, err := svc.repo.GetSubmission(courseID, courseWorkID, id)
	if err != nil {
		return StudentSubmission{}, err
	}
	if sub.UserID != subjectID {
		return StudentSubmission{}, core.NewPermissionError("only the submission owner can modify attachments")
	}
	if cw.WorkType != WorkTypeAssignment {
		return StudentSubmission{}, core.NewValidationError(errors.New("attachments only apply to assignment work"))
	}

	sub.AssignmentSubmission = &AssignmentSubmission{Attachments: req.AddAttachments}
	sub.UpdateTime = core.Now()
	return svc.repo.UpdateSubmission(sub)
}

// helpers

func (svc *Service) getWork(courseID, courseWorkID string) (course.Course, CourseWork, error) {
	crs, err := svc.courses.GetCourseByID(courseID)
	if err != nil {
		return course.Course{}, CourseWork{}, err
	}
	cw, err := svc.repo.GetCourseWork(courseID, courseWorkID)
	if err != nil {
		return course.Course{}, CourseWork{}, err
	}
	return crs, cw, nil
}

func (svc *Service) lazyCreateSubmission(cw CourseWork, userID string) (StudentSubmission, error) {
	sub := newSubmission(cw, userID, core.Now(), svc.conf.ClassroomBaseURL)
	if err := svc.repo.CreateSubmissionIfNotExists(sub); err != nil {
		if errors.Cause(err) == ErrSubmissionExists {
			// lost the race to a concurrent first read; the stored one wins
			return svc.repo.GetSubmission(cw.CourseID, cw.ID, userID)
		}
		return StudentSubmission{}, err
	}
	return sub, nil
}
