package inmem

import "github.com/darasahq/darasa/core/course"

type courseRepository struct {
	db *courseTable
}

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.courses}
}

// copyCourse deep-copies the roster slices so callers never alias stored state.
func copyCourse(c course.Course) course.Course {
	c.Teachers = append([]course.Teacher(nil), c.Teachers...)
	c.Students = append([]course.Student(nil), c.Students...)
	return c
}

func (r *courseRepository) CreateCourseIfNotExists(c course.Course) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.t[c.ID]; ok {
		return course.ErrCourseExists
	}
	r.db.t[c.ID] = &courseEntry{c: copyCourse(c)}
	return nil
}

func (r *courseRepository) GetCourseByID(id string) (course.Course, error) {
	entry, err := r.entry(id)
	if err != nil {
		return course.Course{}, err
	}

	entry.mutex.Lock()
	defer entry.mutex.Unlock()
	return copyCourse(entry.c), nil
}

func (r *courseRepository) QueryAllCourses() ([]course.Course, error) {
	r.db.mutex.RLock()
	entries := make([]*courseEntry, 0, len(r.db.t))
	for _, entry := range r.db.t {
		entries = append(entries, entry)
	}
	r.db.mutex.RUnlock()

	res := make([]course.Course, 0, len(entries))
	for _, entry := range entries {
		entry.mutex.Lock()
		res = append(res, copyCourse(entry.c))
		entry.mutex.Unlock()
	}
	return res, nil
}

// UpdateCourse replaces the course's scalar fields, leaving the stored roster
// untouched; the roster only moves through the membership methods.
func (r *courseRepository) UpdateCourse(c course.Course) (course.Course, error) {
	entry, err := r.entry(c.ID)
	if err != nil {
		return course.Course{}, err
	}

	entry.mutex.Lock()
	defer entry.mutex.Unlock()

	c.Teachers = entry.c.Teachers
	c.Students = entry.c.Students
	entry.c = c
	return copyCourse(entry.c), nil
}

func (r *courseRepository) DeleteCourse(id string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.t[id]; !ok {
		return course.ErrNotFound
	}
	delete(r.db.t, id)
	return nil
}

func (r *courseRepository) AddTeacher(courseID string, t course.Teacher) error {
	entry, err := r.entry(courseID)
	if err != nil {
		return err
	}

	entry.mutex.Lock()
	defer entry.mutex.Unlock()

	if course.IsMember(t.UserID, entry.c) {
		return course.ErrMemberExists
	}
	entry.c.Teachers = append(entry.c.Teachers, course.Teacher{UserID: t.UserID})
	return nil
}

func (r *courseRepository) AddStudent(courseID string, s course.Student) error {
	entry, err := r.entry(courseID)
	if err != nil {
		return err
	}

	entry.mutex.Lock()
	defer entry.mutex.Unlock()

	if course.IsMember(s.UserID, entry.c) {
		return course.ErrMemberExists
	}
	entry.c.Students = append(entry.c.Students, course.Student{UserID: s.UserID})
	return nil
}

func (r *courseRepository) RemoveTeacher(courseID, userID string) error {
	entry, err := r.entry(courseID)
	if err != nil {
		return err
	}

	entry.mutex.Lock()
	defer entry.mutex.Unlock()

	for i, t := range entry.c.Teachers {
		if t.UserID == userID {
			entry.c.Teachers = append(entry.c.Teachers[:i], entry.c.Teachers[i+1:]...)
			return nil
		}
	}
	return course.ErrNotTeacher
}

func (r *courseRepository) RemoveStudent(courseID, userID string) error {
	entry, err := r.entry(courseID)
	if err != nil {
		return err
	}

	entry.mutex.Lock()
	defer entry.mutex.Unlock()

	for i, s := range entry.c.Students {
		if s.UserID == userID {
			entry.c.Students = append(entry.c.Students[:i], entry.c.Students[i+1:]...)
			return nil
		}
	}
	return course.ErrNotStudent
}

func (r *courseRepository) entry(id string) (*courseEntry, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	entry, ok := r.db.t[id]
	if !ok {
		return nil, course.ErrNotFound
	}
	return entry, nil
}
