package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/course"
)

type courseRepository struct {
	db *sqlx.DB
}

func NewCourseRepository(db *sqlx.DB) course.Repository {
	return &courseRepository{db: db}
}

// The roster rides inside the document so a course and its memberships move
// atomically under one row lock.
func marshalCourse(c course.Course) ([]byte, error) {
	return json.Marshal(c)
}

func unmarshalCourse(raw []byte) (course.Course, error) {
	var c course.Course
	if err := json.Unmarshal(raw, &c); err != nil {
		return course.Course{}, errors.Wrap(err, "unmarshaling course")
	}
	return c, nil
}

func (r *courseRepository) CreateCourseIfNotExists(c course.Course) error {
	raw, err := marshalCourse(c)
	if err != nil {
		return err
	}
	res, err := r.db.Exec(`INSERT INTO course (id, doc) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`, c.ID, raw)
	if err != nil {
		return errors.Wrap(err, "inserting course")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.ErrCourseExists
	}
	return nil
}

func (r *courseRepository) GetCourseByID(id string) (course.Course, error) {
	var raw []byte
	err := r.db.Get(&raw, `SELECT doc FROM course WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return course.Course{}, course.ErrNotFound
	}
	if err != nil {
		return course.Course{}, errors.Wrap(err, "getting course")
	}
	return unmarshalCourse(raw)
}

func (r *courseRepository) QueryAllCourses() ([]course.Course, error) {
	var raws [][]byte
	if err := r.db.Select(&raws, `SELECT doc FROM course`); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	res := make([]course.Course, 0, len(raws))
	for _, raw := range raws {
		c, err := unmarshalCourse(raw)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}

// UpdateCourse replaces the course's scalar fields, preserving the stored
// roster; membership only moves through the roster methods.
func (r *courseRepository) UpdateCourse(c course.Course) (course.Course, error) {
	var updated course.Course
	err := r.withCourseLock(c.ID, func(tx *sqlx.Tx, stored course.Course) error {
		c.Teachers = stored.Teachers
		c.Students = stored.Students
		raw, err := marshalCourse(c)
		if err != nil {
			return err
		}
		if _, err = tx.Exec(`UPDATE course SET doc = $2 WHERE id = $1`, c.ID, raw); err != nil {
			return errors.Wrap(err, "updating course")
		}
		updated = c
		return nil
	})
	return updated, err
}

func (r *courseRepository) DeleteCourse(id string) error {
	res, err := r.db.Exec(`DELETE FROM course WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.ErrNotFound
	}
	return nil
}

func (r *courseRepository) AddTeacher(courseID string, t course.Teacher) error {
	return r.withCourseLock(courseID, func(tx *sqlx.Tx, stored course.Course) error {
		if course.IsMember(t.UserID, stored) {
			return course.ErrMemberExists
		}
		stored.Teachers = append(stored.Teachers, course.Teacher{UserID: t.UserID})
		return r.saveLocked(tx, stored)
	})
}

func (r *courseRepository) AddStudent(courseID string, s course.Student) error {
	return r.withCourseLock(courseID, func(tx *sqlx.Tx, stored course.Course) error {
		if course.IsMember(s.UserID, stored) {
			return course.ErrMemberExists
		}
		stored.Students = append(stored.Students, course.Student{UserID: s.UserID})
		return r.saveLocked(tx, stored)
	})
}

func (r *courseRepository) RemoveTeacher(courseID, userID string) error {
	return r.withCourseLock(courseID, func(tx *sqlx.Tx, stored course.Course) error {
		for i, t := range stored.Teachers {
			if t.UserID == userID {
				stored.Teachers = append(stored.Teachers[:i], stored.Teachers[i+1:]...)
				return r.saveLocked(tx, stored)
			}
		}
		return course.ErrNotTeacher
	})
}

func (r *courseRepository) RemoveStudent(courseID, userID string) error {
	return r.withCourseLock(courseID, func(tx *sqlx.Tx, stored course.Course) error {
		for i, s := range stored.Students {
			if s.UserID == userID {
				stored.Students = append(stored.Students[:i], stored.Students[i+1:]...)
				return r.saveLocked(tx, stored)
			}
		}
		return course.ErrNotStudent
	})
}

// withCourseLock runs fn inside a transaction holding a FOR UPDATE row lock
// on the course, serializing concurrent roster mutations per course.
func (r *courseRepository) withCourseLock(courseID string, fn func(tx *sqlx.Tx, stored course.Course) error) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var raw []byte
	err = tx.Get(&raw, `SELECT doc FROM course WHERE id = $1 FOR UPDATE`, courseID)
	if err == sql.ErrNoRows {
		return course.ErrNotFound
	}
	if err != nil {
		return errors.Wrap(err, "locking course")
	}

	stored, err := unmarshalCourse(raw)
	if err != nil {
		return err
	}
	if err = fn(tx, stored); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "committing course mutation")
}

func (r *courseRepository) saveLocked(tx *sqlx.Tx, c course.Course) error {
	raw, err := marshalCourse(c)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`UPDATE course SET doc = $2 WHERE id = $1`, c.ID, raw)
	return errors.Wrap(err, "updating course roster")
}
