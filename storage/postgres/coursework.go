package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/coursework"
)

type courseWorkRepository struct {
	db *sqlx.DB
}

func NewCourseWorkRepository(db *sqlx.DB) coursework.Repository {
	return &courseWorkRepository{db: db}
}

func (r *courseWorkRepository) CreateCourseWorkIfNotExists(cw coursework.CourseWork) error {
	raw, err := json.Marshal(cw)
	if err != nil {
		return errors.Wrap(err, "marshaling course work")
	}
	res, err := r.db.Exec(
		`INSERT INTO course_work (course_id, id, doc) VALUES ($1, $2, $3) ON CONFLICT (course_id, id) DO NOTHING`,
		cw.CourseID, cw.ID, raw,
	)
	if err != nil {
		return errors.Wrap(err, "inserting course work")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return coursework.ErrWorkExists
	}
	return nil
}

func (r *courseWorkRepository) GetCourseWork(courseID, id string) (coursework.CourseWork, error) {
	var raw []byte
	err := r.db.Get(&raw, `SELECT doc FROM course_work WHERE course_id = $1 AND id = $2`, courseID, id)
	if err == sql.ErrNoRows {
		return coursework.CourseWork{}, coursework.ErrNotFound
	}
	if err != nil {
		return coursework.CourseWork{}, errors.Wrap(err, "getting course work")
	}

	var cw coursework.CourseWork
	if err = json.Unmarshal(raw, &cw); err != nil {
		return coursework.CourseWork{}, errors.Wrap(err, "unmarshaling course work")
	}
	return cw, nil
}

func (r *courseWorkRepository) QueryCourseWorkByCourse(courseID string) ([]coursework.CourseWork, error) {
	var raws [][]byte
	if err := r.db.Select(&raws, `SELECT doc FROM course_work WHERE course_id = $1`, courseID); err != nil {
		return nil, errors.Wrap(err, "querying course work")
	}
	res := make([]coursework.CourseWork, 0, len(raws))
	for _, raw := range raws {
		var cw coursework.CourseWork
		if err := json.Unmarshal(raw, &cw); err != nil {
			return nil, errors.Wrap(err, "unmarshaling course work")
		}
		res = append(res, cw)
	}
	return res, nil
}

func (r *courseWorkRepository) UpdateCourseWork(cw coursework.CourseWork) (coursework.CourseWork, error) {
	raw, err := json.Marshal(cw)
	if err != nil {
		return coursework.CourseWork{}, errors.Wrap(err, "marshaling course work")
	}
	res, err := r.db.Exec(`UPDATE course_work SET doc = $3 WHERE course_id = $1 AND id = $2`, cw.CourseID, cw.ID, raw)
	if err != nil {
		return coursework.CourseWork{}, errors.Wrap(err, "updating course work")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return coursework.CourseWork{}, coursework.ErrNotFound
	}
	return cw, nil
}

func (r *courseWorkRepository) DeleteCourseWork(courseID, id string) error {
	res, err := r.db.Exec(`DELETE FROM course_work WHERE course_id = $1 AND id = $2`, courseID, id)
	if err != nil {
		return errors.Wrap(err, "deleting course work")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return coursework.ErrNotFound
	}
	return nil
}

// submissions

func (r *courseWorkRepository) CreateSubmissionIfNotExists(sub coursework.StudentSubmission) error {
	raw, err := json.Marshal(sub)
	if err != nil {
		return errors.Wrap(err, "marshaling submission")
	}
	res, err := r.db.Exec(
		`INSERT INTO student_submission (course_id, course_work_id, id, doc) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (course_id, course_work_id, id) DO NOTHING`,
		sub.CourseID, sub.CourseWorkID, sub.ID, raw,
	)
	if err != nil {
		return errors.Wrap(err, "inserting submission")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return coursework.ErrSubmissionExists
	}
	return nil
}

func (r *courseWorkRepository) GetSubmission(courseID, courseWorkID, id string) (coursework.StudentSubmission, error) {
	var raw []byte
	err := r.db.Get(&raw,
		`SELECT doc FROM student_submission WHERE course_id = $1 AND course_work_id = $2 AND id = $3`,
		courseID, courseWorkID, id,
	)
	if err == sql.ErrNoRows {
		return coursework.StudentSubmission{}, coursework.ErrSubmissionNotFound
	}
	if err != nil {
		return coursework.StudentSubmission{}, errors.Wrap(err, "getting submission")
	}

	var sub coursework.StudentSubmission
	if err = json.Unmarshal(raw, &sub); err != nil {
		return coursework.StudentSubmission{}, errors.Wrap(err, "unmarshaling submission")
	}
	return sub, nil
}

func (r *courseWorkRepository) QuerySubmissionsByCourseWork(courseID, courseWorkID string) ([]coursework.StudentSubmission, error) {
	var raws [][]byte
	err := r.db.Select(&raws,
		`SELECT doc FROM student_submission WHERE course_id = $1 AND course_work_id = $2`,
		courseID, courseWorkID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	res := make([]coursework.StudentSubmission, 0, len(raws))
	for _, raw := range raws {
		var sub coursework.StudentSubmission
		if err = json.Unmarshal(raw, &sub); err != nil {
			return nil, errors.Wrap(err, "unmarshaling submission")
		}
		res = append(res, sub)
	}
	return res, nil
}

func (r *courseWorkRepository) UpdateSubmission(sub coursework.StudentSubmission) (coursework.StudentSubmission, error) {
	raw, err := json.Marshal(sub)
	if err != nil {
		return coursework.StudentSubmission{}, errors.Wrap(err, "marshaling submission")
	}
	res, err := r.db.Exec(
		`UPDATE student_submission SET doc = $4 WHERE course_id = $1 AND course_work_id = $2 AND id = $3`,
		sub.CourseID, sub.CourseWorkID, sub.ID, raw,
	)
	if err != nil {
		return coursework.StudentSubmission{}, errors.Wrap(err, "updating submission")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return coursework.StudentSubmission{}, coursework.ErrSubmissionNotFound
	}
	return sub, nil
}
