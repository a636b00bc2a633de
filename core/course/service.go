package course

import (
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/profile"
)

var (
	// errors
	ErrNotFound     = core.NewNotFoundError("course not found")
	ErrCourseExists = core.NewConflictError("a course with this id already exists")
	ErrMemberExists = core.NewConflictError("user is already a member of this course")
	ErrNotTeacher   = core.NewNotFoundError("teacher not found")
	ErrNotStudent   = core.NewNotFoundError("student not found")
)

const enrollmentCodeLength = 7

type (
	// Repository persists courses and their rosters. Roster mutations are
	// serialized per course by the implementation so concurrent add/remove
	// calls on the same course cannot lose updates. Membership mutations
	// return ErrMemberExists / ErrNotTeacher / ErrNotStudent as appropriate.
	Repository interface {
		CreateCourseIfNotExists(c Course) error
		GetCourseByID(id string) (Course, error)
		QueryAllCourses() ([]Course, error)
		UpdateCourse(c Course) (Course, error)
		DeleteCourse(id string) error

		// AddTeacher and AddStudent reject a user already holding either
		// membership in the course.
		AddTeacher(courseID string, t Teacher) error
		AddStudent(courseID string, s Student) error
		RemoveTeacher(courseID, userID string) error
		RemoveStudent(courseID, userID string) error
	}

	// ProfileDirectory resolves user profiles for read-time roster joins.
	ProfileDirectory interface {
		GetByID(id string) (profile.UserProfile, error)
	}

	Service struct {
		repo     Repository
		profiles ProfileDirectory
		conf     *core.Config
	}
)

func NewService(repo Repository, profiles ProfileDirectory, conf *core.Config) *Service {
	return &Service{repo: repo, profiles: profiles, conf: conf}
}

// ListOptions are the supported course list filters.
type ListOptions struct {
	States    []State
	StudentID string
	TeacherID string
	Page      int
	PageSize  int
}

func (svc *Service) Create(ownerID string, nc NewCourse) (Course, error) {
	if err := nc.Validate(); err != nil {
		return Course{}, err
	}

	state := nc.CourseState
	if state == "" {
		state = StateProvisioned
	}

	now := core.Now()
	crs := Course{
		Name:               nc.Name,
		Section:            nc.Section,
		DescriptionHeading: nc.DescriptionHeading,
		Description:        nc.Description,
		Room:               nc.Room,
		OwnerID:            ownerID,
		CreationTime:       now,
		UpdateTime:         now,
		EnrollmentCode:     core.GenerateID(enrollmentCodeLength),
		CourseState:        state,
		PhotoURL:           randomPhotoURL(),
		Teachers:           []Teacher{{UserID: ownerID}},
	}

	// conditional create; on the unlikely id collision, regenerate and retry
	for attempt := 0; attempt < 3; attempt++ {
		crs.ID = core.GenerateID(core.EntityIDLength)
		crs.AlternateLink = alternateLink(svc.conf.ClassroomBaseURL, crs.ID)
		err := svc.repo.CreateCourseIfNotExists(crs)
		if err == nil {
			return svc.shape(crs), nil
		}
		if errors.Cause(err) != ErrCourseExists {
			return Course{}, err
		}
	}
	return Course{}, errors.New("could not allocate a course id")
}

func (svc *Service) Get(subjectID, id string) (Course, error) {
	crs, err := svc.repo.GetCourseByID(id)
	if err != nil {
		return Course{}, err
	}
	if !IsMember(subjectID, crs) {
		return Course{}, core.NewPermissionError("you do not have access to this course")
	}
	return svc.shape(crs), nil
}

func (svc *Service) List(subjectID string, opts ListOptions) (core.Page[Course], error) {
	states := opts.States
	if len(states) == 0 {
		states = DefaultListStates
	}
	wantState := make(map[State]struct{}, len(states))
	for _, s := range states {
		wantState[s] = struct{}{}
	}

	all, err := svc.repo.QueryAllCourses()
	if err != nil {
		return core.Page[Course]{}, err
	}

	matched := make([]Course, 0, len(all))
	for _, crs := range all {
		if !IsMember(subjectID, crs) {
			continue
		}
		if _, ok := wantState[crs.CourseState]; !ok {
			continue
		}
		if opts.StudentID != "" && ResolveRole(opts.StudentID, crs) != RoleStudent {
			continue
		}
		if opts.TeacherID != "" && ResolveRole(opts.TeacherID, crs) != RoleTeacher {
			continue
		}
		matched = append(matched, crs)
	}

	if err = core.SortByTime(matched, core.OrderSpec{Field: core.SortByUpdateTime}); err != nil {
		return core.Page[Course]{}, err
	}

	page := core.Paginate(matched, opts.Page, opts.PageSize)
	for i, crs := range page.Items {
		page.Items[i] = svc.shape(crs)
	}
	return page, nil
}

// Update replaces the caller-writable fields of the course. Server-owned
// fields (id, ownerId, roster, enrollmentCode, creationTime, alternateLink,
// photoUrl) are preserved verbatim; updateTime is refreshed.
func (svc *Service) Update(subjectID, id string, uc UpdateCourse) (Course, error) {
	crs, err := svc.repo.GetCourseByID(id)
	if err != nil {
		return Course{}, err
	}
	if ResolveRole(subjectID, crs) != RoleTeacher {
		return Course{}, core.NewPermissionError("only a teacher can modify the course")
	}
	if err = uc.Validate(); err != nil {
		return Course{}, err
	}

	crs.Name = uc.Name
	crs.Section = uc.Section
	crs.DescriptionHeading = uc.DescriptionHeading
	crs.Description = uc.Description
	crs.Room = uc.Room
	if uc.CourseState != "" {
		crs.CourseState = uc.CourseState
	}
	crs.UpdateTime = core.Now()

	crs, err = svc.repo.UpdateCourse(crs)
	if err != nil {
		return Course{}, err
	}
	return svc.shape(crs), nil
}

func (svc *Service) Delete(subjectID, id string) error {
	crs, err := svc.repo.GetCourseByID(id)
	if err != nil {
		return err
	}
	if crs.OwnerID != subjectID {
		return core.NewPermissionError("only the course owner can delete the course")
	}
	return svc.repo.DeleteCourse(id)
}

// Roster

func (svc *Service) ListTeachers(subjectID, courseID string, pg, pageSize int) (core.Page[Teacher], error) {
	crs, err := svc.repo.GetCourseByID(courseID)
	if err != nil {
		return core.Page[Teacher]{}, err
	}
	if !IsMember(subjectID, crs) {
		return core.Page[Teacher]{}, core.NewPermissionError("you do not have access to this course")
	}

	// roster order is preserved; no re-sort
	page := core.Paginate(crs.Teachers, pg, pageSize)
	for i, t := range page.Items {
		page.Items[i] = svc.shapeTeacher(crs.ID, t)
	}
	return page, nil
}

func (svc *Service) ListStudents(subjectID, courseID string, pg, pageSize int) (core.Page[Student], error) {
	crs, err := svc.repo.GetCourseByID(courseID)
	if err != nil {
		return core.Page[Student]{}, err
	}
	if !IsMember(subjectID, crs) {
		return core.Page[Student]{}, core.NewPermissionError("you do not have access to this course")
	}

	page := core.Paginate(crs.Students, pg, pageSize)
	for i, s := range page.Items {
		page.Items[i] = svc.shapeStudent(crs.ID, s)
	}
	return page, nil
}

func (svc *Service) GetTeacher(subjectID, courseID, userID string) (Teacher, error) {
	crs, err := svc.repo.GetCourseByID(courseID)
	if err != nil {
		return Teacher{}, err
	}
	var found *Teacher
	for i := range crs.Teachers {
		if crs.Teachers[i].UserID == userID {
			found = &crs.Teachers[i]
			break
		}
	}
	if found == nil {
		return Teacher{}, ErrNotTeacher
	}
	if ResolveRole(subjectID, crs) != RoleTeacher {
		return Teacher{}, core.NewPermissionError("only a teacher can view roster members")
	}
	return svc.shapeTeacher(crs.ID, *found), nil
}

func (svc *Service) GetStudent(subjectID, courseID, userID string) (Student, error) {
	crs, err := svc.repo.GetCourseByID(courseID)
	if err != nil {
		return Student{}, err
	}
	var found *Student
	for i := range crs.Students {
		if crs.Students[i].UserID == userID {
			found = &crs.Students[i]
			break
		}
	}
	if found == nil {
		return Student{}, ErrNotStudent
	}
	if ResolveRole(subjectID, crs) != RoleTeacher && subjectID != userID {
		return Student{}, core.NewPermissionError("only a teacher can view roster members")
	}
	return svc.shapeStudent(crs.ID, *found), nil
}

func (svc *Service) AddTeacher(subjectID, courseID, userID string) (Teacher, error) {
	crs, err := svc.repo.GetCourseByID(courseID)
	if err != nil {
		return Teacher{}, err
	}
	if ResolveRole(subjectID, crs) != RoleTeacher {
		return Teacher{}, core.NewPermissionError("only a teacher can add teachers")
	}
	t := Teacher{UserID: userID}
	if err = svc.repo.AddTeacher(courseID, t); err != nil {
		return Teacher{}, err
	}
	return svc.shapeTeacher(courseID, t), nil
}

// AddStudent enrolls userID in the course. A teacher may add any student
// directly; anyone else may only enroll themselves by presenting the course's
// enrollment code.
func (svc *Service) AddStudent(subjectID, courseID, userID, enrollmentCode string) (Student, error) {
	crs, err := svc.repo.GetCourseByID(courseID)
	if err != nil {
		return Student{}, err
	}
	if ResolveRole(subjectID, crs) != RoleTeacher {
		if subjectID != userID {
			return Student{}, core.NewPermissionError("only a teacher can add other students")
		}
		if enrollmentCode == "" || enrollmentCode != crs.EnrollmentCode {
			return Student{}, core.NewPermissionError("invalid enrollment code")
		}
	}
	s := Student{UserID: userID}
	if err = svc.repo.AddStudent(courseID, s); err != nil {
		return Student{}, err
	}
	return svc.shapeStudent(courseID, s), nil
}

func (svc *Service) RemoveTeacher(subjectID, courseID, userID string) error {
	crs, err := svc.repo.GetCourseByID(courseID)
	if err != nil {
		return err
	}
	if ResolveRole(subjectID, crs) != RoleTeacher {
		return core.NewPermissionError("only a teacher can remove teachers")
	}
	return svc.repo.RemoveTeacher(courseID, userID)
}

// RemoveStudent drops a student membership. Teachers may remove any student;
// a student may remove themselves.
func (svc *Service) RemoveStudent(subjectID, courseID, userID string) error {
	crs, err := svc.repo.GetCourseByID(courseID)
	if err != nil {
		return err
	}
	if ResolveRole(subjectID, crs) != RoleTeacher && subjectID != userID {
		return core.NewPermissionError("only a teacher can remove other students")
	}
	return svc.repo.RemoveStudent(courseID, userID)
}

// read-time joins

func (svc *Service) shape(crs Course) Course {
	for i, t := range crs.Teachers {
		crs.Teachers[i] = svc.shapeTeacher(crs.ID, t)
	}
	for i, s := range crs.Students {
		crs.Students[i] = svc.shapeStudent(crs.ID, s)
	}
	return crs
}

func (svc *Service) shapeTeacher(courseID string, t Teacher) Teacher {
	t.CourseID = courseID
	if p, err := svc.profiles.GetByID(t.UserID); err == nil {
		t.Profile = &p
	}
	return t
}

func (svc *Service) shapeStudent(courseID string, s Student) Student {
	s.CourseID = courseID
	if p, err := svc.profiles.GetByID(s.UserID); err == nil {
		s.Profile = &p
	}
	return s
}
