package announcement

import (
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("announcement not found")
	ErrExists   = core.NewConflictError("announcement with this id already exists")
)

type (
	// Repository persists announcements keyed by (courseId, id).
	Repository interface {
		CreateAnnouncementIfNotExists(a Announcement) error
		GetAnnouncement(courseID, id string) (Announcement, error)
		QueryAnnouncementsByCourse(courseID string) ([]Announcement, error)
		UpdateAnnouncement(a Announcement) (Announcement, error)
		DeleteAnnouncement(courseID, id string) error
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

// ListOptions are the supported announcement list parameters.
type ListOptions struct {
	States   []State
	OrderBy  string
	Page     int
	PageSize int
}

func (svc *Service) Create(subjectID, courseID string, na NewAnnouncement) (Announcement, error) {
	crs, err := svc.courses.GetCourseByID(courseID)
	if err != nil {
		return Announcement{}, err
	}
	if course.ResolveRole(subjectID, crs) != course.RoleTeacher {
		return Announcement{}, core.NewPermissionError("only a teacher can create announcements")
	}
	if err = na.Validate(); err != nil {
		return Announcement{}, err
	}

	state := na.State
	if state == "" {
		state = StatePublished
	}
	assigneeMode := na.AssigneeMode
	if assigneeMode == "" {
		assigneeMode = "ALL_STUDENTS"
	}

	now := core.Now()
	ann := Announcement{
		CourseID:      courseID,
		Text:          na.Text,
		Materials:     na.Materials,
		State:         state,
		CreationTime:  now,
		UpdateTime:    now,
		ScheduledTime: na.ScheduledTime,
		AssigneeMode:  assigneeMode,
		CreatorUserID: subjectID,
	}

	for attempt := 0; attempt < 3; attempt++ {
		ann.ID = core.GenerateID(core.EntityIDLength)
		ann.AlternateLink = alternateLink(svc.conf.ClassroomBaseURL, courseID, ann.ID)
		err = svc.repo.CreateAnnouncementIfNotExists(ann)
		if err == nil {
			// drafts stay invisible to students until published
			if ann.State == StatePublished {
				svc.notifyStudents(crs, ann.Text)
			}
			return ann, nil
		}
		if errors.Cause(err) != ErrExists {
			return Announcement{}, err
		}
	}
	return Announcement{}, errors.New("could not allocate an announcement id")
}

func (svc *Service) Get(subjectID, courseID, id string) (Announcement, error) {
	crs, err := svc.courses.GetCourseByID(courseID)
	if err != nil {
		return Announcement{}, err
	}
	ann, err := svc.repo.GetAnnouncement(courseID, id)
	if err != nil {
		return Announcement{}, err
	}
	role := course.ResolveRole(subjectID, crs)
	if role == course.RoleNone {
		return Announcement{}, core.NewPermissionError("you do not have access to this course")
	}
	if role == course.RoleStudent && ann.State != StatePublished {
		return Announcement{}, ErrNotFound
	}
	return ann, nil
}

func (svc *Service) List(subjectID, courseID string, opts ListOptions) (core.Page[Announcement], error) {
	crs, err := svc.courses.GetCourseByID(courseID)
	if err != nil {
		return core.Page[Announcement]{}, err
	}
	role := course.ResolveRole(subjectID, crs)
	if role == course.RoleNone {
		return core.Page[Announcement]{}, core.NewPermissionError("you do not have access to this course")
	}

	spec, err := core.ParseOrderSpec(opts.OrderBy)
	if err != nil {
		return core.Page[Announcement]{}, err
	}

	states := opts.States
	if len(states) == 0 {
		states = DefaultListStates
	}
	wantState := make(map[State]struct{}, len(states))
	for _, s := range states {
		wantState[s] = struct{}{}
	}

	all, err := svc.repo.QueryAnnouncementsByCourse(courseID)
	if err != nil {
		return core.Page[Announcement]{}, err
	}

	matched := make([]Announcement, 0, len(all))
	for _, ann := range all {
		if _, ok := wantState[ann.State]; !ok {
			continue
		}
		if role == course.RoleStudent && ann.State != StatePublished {
			continue
		}
		matched = append(matched, ann)
	}

	if err = core.SortByTime(matched, spec); err != nil {
		return core.Page[Announcement]{}, err
	}
	return core.Paginate(matched, opts.Page, opts.PageSize), nil
}

// Patch applies a masked update. Allowed to any teacher of the course or to
// the announcement's creator.
func (svc *Service) Patch(subjectID, courseID, id string, mask core.FieldMask, ua UpdateAnnouncement) (Announcement, error) {
	crs, err := svc.courses.GetCourseByID(courseID)
	if err != nil {
		return Announcement{}, err
	}
	ann, err := svc.repo.GetAnnouncement(courseID, id)
	if err != nil {
		return Announcement{}, err
	}
	if course.ResolveRole(subjectID, crs) != course.RoleTeacher && ann.CreatorUserID != subjectID {
		return Announcement{}, core.NewPermissionError("only a teacher or the creator can modify the announcement")
	}

	prevState := ann.State
	if err = ua.apply(&ann, mask); err != nil {
		return Announcement{}, err
	}
	ann.UpdateTime = core.Now()

	updated, err := svc.repo.UpdateAnnouncement(ann)
	if err != nil {
		return Announcement{}, err
	}
	if prevState != StatePublished && updated.State == StatePublished {
		svc.notifyStudents(crs, updated.Text)
	}
	return updated, nil
}

func (svc *Service) Delete(subjectID, courseID, id string) error {
	crs, err := svc.courses.GetCourseByID(courseID)
	if err != nil {
		return err
	}
	ann, err := svc.repo.GetAnnouncement(courseID, id)
	if err != nil {
		return err
	}
	if course.ResolveRole(subjectID, crs) != course.RoleTeacher && ann.CreatorUserID != subjectID {
		return core.NewPermissionError("only a teacher or the creator can delete the announcement")
	}
	return svc.repo.DeleteAnnouncement(courseID, id)
}

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
