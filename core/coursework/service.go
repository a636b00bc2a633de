package coursework

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("course work not found")
	ErrWorkExists         = core.NewConflictError("course work with this id already exists")
	ErrSubmissionNotFound = core.NewNotFoundError("student submission not found")
	ErrSubmissionExists   = core.NewConflictError("student submission already exists")
)

type (
	// Repository persists course work and student submissions keyed by
	// (courseId, id). Creates are conditional: an existing key is reported
	// as a conflict, never overwritten.
	Repository interface {
		CreateCourseWorkIfNotExists(cw CourseWork) error
		GetCourseWork(courseID, id string) (CourseWork, error)
		QueryCourseWorkByCourse(courseID string) ([]CourseWork, error)
		UpdateCourseWork(cw CourseWork) (CourseWork, error)
		DeleteCourseWork(courseID, id string) error

		CreateSubmissionIfNotExists(sub StudentSubmission) error
		GetSubmission(courseID, courseWorkID, id string) (StudentSubmission, error)
		QuerySubmissionsByCourseWork(courseID, courseWorkID string) ([]StudentSubmission, error)
		UpdateSubmission(sub StudentSubmission) (StudentSubmission, error)
	}

	// CourseDirectory resolves courses for roster checks.
	CourseDirectory interface {
		GetCourseByID(id string) (course.Course, error)
	}

	Service struct {
		repo    Repository
		courses CourseDirectory
		push    core.PushService
		logger  core.Logger
		conf    *core.Config
	}
)

func NewService(repo Repository, courses CourseDirectory, push core.PushService, logger core.Logger, conf *core.Config) *Service {
	return &Service{repo: repo, courses: courses, push: push, logger: logger, conf: conf}
}

// ListOptions are the supported course work list parameters.
type ListOptions struct {
	States   []State
	OrderBy  string
	Page     int
	PageSize int
}

func (svc *Service) Create(subjectID, courseID string, ncw NewCourseWork) (CourseWork, error) {
	crs, err := svc.courses.GetCourseByID(courseID)
	if err != nil {
		return CourseWork{}, err
	}
	if course.ResolveRole(subjectID, crs) != course.RoleTeacher {
		return CourseWork{}, core.NewPermissionError("only a teacher can create course work")
	}
	if err = ncw.Validate(); err != nil {
		return CourseWork{}, err
	}

	state := ncw.State
	if state == "" {
		state = StateDraft
	}
	assigneeMode := ncw.AssigneeMode
	if assigneeMode == "" {
		assigneeMode = AssigneeModeAllStudents
	}
	modMode := ncw.SubmissionModificationMode
	if modMode == "" {
		modMode = ModifiableUntilTurnedIn
	}

	now := core.Now()
	cw := CourseWork{
		CourseID:                   courseID,
		Title:                      ncw.Title,
		Description:                ncw.Description,
		Materials:                  ncw.Materials,
		State:                      state,
		CreationTime:               now,
		UpdateTime:                 now,
		DueDate:                    ncw.DueDate,
		DueTime:                    ncw.DueTime,
		ScheduledTime:              ncw.ScheduledTime,
		MaxPoints:                  ncw.MaxPoints,
		WorkType:                   ncw.WorkType,
		AssigneeMode:               assigneeMode,
		SubmissionModificationMode: modMode,
		CreatorUserID:              subjectID,
		TopicID:                    ncw.TopicID,
		MultipleChoiceQuestion:     ncw.MultipleChoiceQuestion,
	}

	for attempt := 0; attempt < 3; attempt++ {
		cw.ID = core.GenerateID(core.EntityIDLength)
		cw.AlternateLink = workAlternateLink(svc.conf.ClassroomBaseURL, courseID, cw.ID)
		err = svc.repo.CreateCourseWorkIfNotExists(cw)
		if err == nil {
			// drafts stay invisible to students until published
			if cw.State == StatePublished {
				svc.notifyStudents(crs, fmt.Sprintf("New coursework: %s", cw.Title))
			}
			return cw, nil
		}
		if errors.Cause(err) != ErrWorkExists {
			return CourseWork{}, err
		}
	}
	return CourseWork{}, errors.New("could not allocate a course work id")
}

func (svc *Service) Get(subjectID, courseID, id string) (CourseWork, error) {
	crs, err := svc.courses.GetCourseByID(courseID)
	if err != nil {
		return CourseWork{}, err
	}
	cw, err := svc.repo.GetCourseWork(courseID, id)
	if err != nil {
		return CourseWork{}, err
	}
	role := course.ResolveRole(subjectID, crs)
	if role == course.RoleNone {
		return CourseWork{}, core.NewPermissionError("you do not have access to this course")
	}
	// unpublished work is invisible to students
	if role == course.RoleStudent && cw.State != StatePublished {
		return CourseWork{}, ErrNotFound
	}
	return cw, nil
}

func (svc *Service) List(subjectID, courseID string, opts ListOptions) (core.Page[CourseWork], error) {
	crs, err := svc.courses.GetCourseByID(courseID)
	if err != nil {
		return core.Page[CourseWork]{}, err
	}
	role := course.ResolveRole(subjectID, crs)
	if role == course.RoleNone {
		return core.Page[CourseWork]{}, core.NewPermissionError("you do not have access to this course")
	}

	spec, err := core.ParseOrderSpec(opts.OrderBy)
	if err != nil {
		return core.Page[CourseWork]{}, err
	}

	states := opts.States
	if len(states) == 0 {
		states = DefaultListStates
	}
	wantState := make(map[State]struct{}, len(states))
	for _, s := range states {
		wantState[s] = struct{}{}
	}

	all, err := svc.repo.QueryCourseWorkByCourse(courseID)
	if err != nil {
		return core.Page[CourseWork]{}, err
	}

	matched := make([]CourseWork, 0, len(all))
	for _, cw := range all {
		if _, ok := wantState[cw.State]; !ok {
			continue
		}
		if role == course.RoleStudent && cw.State != StatePublished {
			continue
		}
		matched = append(matched, cw)
	}

	if err = core.SortByTime(matched, spec); err != nil {
		return core.Page[CourseWork]{}, err
	}
	return core.Paginate(matched, opts.Page, opts.PageSize), nil
}

func (svc *Service) Patch(subjectID, courseID, id string, mask core.FieldMask, ucw UpdateCourseWork) (CourseWork, error) {
	crs, err := svc.courses.GetCourseByID(courseID)
	if err != nil {
		return CourseWork{}, err
	}
	cw, err := svc.repo.GetCourseWork(courseID, id)
	if err != nil {
		return CourseWork{}, err
	}
	if course.ResolveRole(subjectID, crs) != course.RoleTeacher {
		return CourseWork{}, core.NewPermissionError("only a teacher can modify course work")
	}

	prevState := cw.State
	if err = ucw.apply(&cw, mask); err != nil {
		return CourseWork{}, err
	}
	cw.UpdateTime = core.Now()

	updated, err := svc.repo.UpdateCourseWork(cw)
	if err != nil {
		return CourseWork{}, err
	}
	if prevState != StatePublished && updated.State == StatePublished {
		svc.notifyStudents(crs, fmt.Sprintf("New coursework: %s", updated.Title))
	}
	return updated, nil
}

// Delete removes course work. Allowed to any teacher of the course or to the
// work's original creator.
func (svc *Service) Delete(subjectID, courseID, id string) error {
	crs, err := svc.courses.GetCourseByID(courseID)
	if err != nil {
		return err
	}
	cw, err := svc.repo.GetCourseWork(courseID, id)
	if err != nil {
		return err
	}
	if course.ResolveRole(subjectID, crs) != course.RoleTeacher && cw.CreatorUserID != subjectID {
		return core.NewPermissionError("only a teacher or the creator can delete course work")
	}
	return svc.repo.DeleteCourseWork(courseID, id)
}

// notifyStudents fans a push out to all student members. Fire-and-forget:
// gateway failures are the push service's to log, never the mutation's.
func (svc *Service) notifyStudents(crs course.Course, body string) {
	if len(crs.Students) == 0 {
		return
	}
	recipients := make([]string, 0, len(crs.Students))
	for _, s := range crs.Students {
		recipients = append(recipients, s.UserID)
	}
	svc.push.SendMessages(&core.PushMessage{
		Title:      crs.Name,
		Body:       body,
		Recipients: recipients,
	})
}
