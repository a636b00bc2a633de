package meet

import (
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("meet not found")
	ErrExists   = core.NewConflictError("meet with this id already exists")
)

type (
	// Repository persists meets keyed by (courseId, id).
	Repository interface {
		CreateMeetIfNotExists(m Meet) error
		GetMeet(courseID, id string) (Meet, error)
		QueryMeetsByCourse(courseID string) ([]Meet, error)
		UpdateMeet(m Meet) (Meet, error)
		DeleteMeet(courseID, id string) error
	}

	// CourseDirectory resolves courses for roster checks.
	CourseDirectory interface {
		GetCourseByID(id string) (course.Course, error)
	}

	Service struct {
		repo    Repository
		courses CourseDirectory
		push    core.PushService
		conf    *core.Config
	}
)

func NewService(repo Repository, courses CourseDirectory, push core.PushService, conf *core.Config) *Service {
	return &Service{repo: repo, courses: courses, push: push, conf: conf}
}

func (svc *Service) Create(subjectID, courseID string, nm NewMeet) (Meet, error) {
	crs, err := svc.courses.GetCourseByID(courseID)
	if err != nil {
		return Meet{}, err
	}
	if course.ResolveRole(subjectID, crs) != course.RoleTeacher {
		return Meet{}, core.NewPermissionError("only a teacher can create meets")
	}
	if err = nm.Validate(); err != nil {
		return Meet{}, err
	}

	now := core.Now()
	m := Meet{
		CourseID:      courseID,
		Title:         nm.Title,
		CreationTime:  now,
		UpdateTime:    now,
		StartTime:     nm.StartTime,
		CreatorUserID: subjectID,
	}

	for attempt := 0; attempt < 3; attempt++ {
		m.ID = core.GenerateID(core.EntityIDLength)
		m.AlternateLink = alternateLink(svc.conf.MeetBaseURL, courseID, m.ID)
		err = svc.repo.CreateMeetIfNotExists(m)
		if err == nil {
			svc.notifyStudents(crs, m.Title)
			return m, nil
		}
		if errors.Cause(err) != ErrExists {
			return Meet{}, err
		}
	}
	return Meet{}, errors.New("could not allocate a meet id")
}

func (svc *Service) Get(subjectID, courseID, id string) (Meet, error) {
	crs, err := svc.courses.GetCourseByID(courseID)
	if err != nil {
		return Meet{}, err
	}
	m, err := svc.repo.GetMeet(courseID, id)
	if err != nil {
		return Meet{}, err
	}
	if !course.IsMember(subjectID, crs) {
		return Meet{}, core.NewPermissionError("you do not have access to this course")
	}
	return m, nil
}

func (svc *Service) List(subjectID, courseID string, pg, pageSize int) (core.Page[Meet], error) {
	crs, err := svc.courses.GetCourseByID(courseID)
	if err != nil {
		return core.Page[Meet]{}, err
	}
	if !course.IsMember(subjectID, crs) {
		return core.Page[Meet]{}, core.NewPermissionError("you do not have access to this course")
	}

	all, err := svc.repo.QueryMeetsByCourse(courseID)
	if err != nil {
		return core.Page[Meet]{}, err
	}
	if err = core.SortByTime(all, core.OrderSpec{Field: core.SortByUpdateTime}); err != nil {
		return core.Page[Meet]{}, err
	}
	return core.Paginate(all, pg, pageSize), nil
}

func (svc *Service) Patch(subjectID, courseID, id string, mask core.FieldMask, um UpdateMeet) (Meet, error) {
	crs, err := svc.courses.GetCourseByID(courseID)
	if err != nil {
		return Meet{}, err
	}
	m, err := svc.repo.GetMeet(courseID, id)
	if err != nil {
		return Meet{}, err
	}
	if course.ResolveRole(subjectID, crs) != course.RoleTeacher {
		return Meet{}, core.NewPermissionError("only a teacher can modify meets")
	}

	if err = um.apply(&m, mask); err != nil {
		return Meet{}, err
	}
	m.UpdateTime = core.Now()
	return svc.repo.UpdateMeet(m)
}

func (svc *Service) Delete(subjectID, courseID, id string) error {
	crs, err := svc.courses.GetCourseByID(courseID)
	if err != nil {
		return err
	}
	if _, err = svc.repo.GetMeet(courseID, id); err != nil {
		return err
	}
	if course.ResolveRole(subjectID, crs) != course.RoleTeacher {
		return core.NewPermissionError("only a teacher can delete meets")
	}
	return svc.repo.DeleteMeet(courseID, id)
}

func (svc *Service) notifyStudents(crs course.Course, title string) {
	if len(crs.Students) == 0 {
		return
	}
	recipients := make([]string, 0, len(crs.Students))
	for _, s := range crs.Students {
		recipients = append(recipients, s.UserID)
	}
	svc.push.SendMessages(&core.PushMessage{
		Title:      crs.Name,
		Body:       title,
		Recipients: recipients,
	})
}
