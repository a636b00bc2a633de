package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/meet"
)

type meetRepository struct {
	db *sqlx.DB
}

func NewMeetRepository(db *sqlx.DB) meet.Repository {
	return &meetRepository{db: db}
}

func (r *meetRepository) CreateMeetIfNotExists(m meet.Meet) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "marshaling meet")
	}
	res, err := r.db.Exec(
		`INSERT INTO meet (course_id, id, doc) VALUES ($1, $2, $3) ON CONFLICT (course_id, id) DO NOTHING`,
		m.CourseID, m.ID, raw,
	)
	if err != nil {
		return errors.Wrap(err, "inserting meet")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return meet.ErrExists
	}
	return nil
}

func (r *meetRepository) GetMeet(courseID, id string) (meet.Meet, error) {
	var raw []byte
	err := r.db.Get(&raw, `SELECT doc FROM meet WHERE course_id = $1 AND id = $2`, courseID, id)
	if err == sql.ErrNoRows {
		return meet.Meet{}, meet.ErrNotFound
	}
	if err != nil {
		return meet.Meet{}, errors.Wrap(err, "getting meet")
	}

	var m meet.Meet
	if err = json.Unmarshal(raw, &m); err != nil {
		return meet.Meet{}, errors.Wrap(err, "unmarshaling meet")
	}
	return m, nil
}

func (r *meetRepository) QueryMeetsByCourse(courseID string) ([]meet.Meet, error) {
	var raws [][]byte
	if err := r.db.Select(&raws, `SELECT doc FROM meet WHERE course_id = $1`, courseID); err != nil {
		return nil, errors.Wrap(err, "querying meets")
	}
	res := make([]meet.Meet, 0, len(raws))
	for _, raw := range raws {
		var m meet.Meet
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, errors.Wrap(err, "unmarshaling meet")
		}
		res = append(res, m)
	}
	return res, nil
}

func (r *meetRepository) UpdateMeet(m meet.Meet) (meet.Meet, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return meet.Meet{}, errors.Wrap(err, "marshaling meet")
	}
	res, err := r.db.Exec(`UPDATE meet SET doc = $3 WHERE course_id = $1 AND id = $2`, m.CourseID, m.ID, raw)
	if err != nil {
		return meet.Meet{}, errors.Wrap(err, "updating meet")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return meet.Meet{}, meet.ErrNotFound
	}
	return m, nil
}

func (r *meetRepository) DeleteMeet(courseID, id string) error {
	res, err := r.db.Exec(`DELETE FROM meet WHERE course_id = $1 AND id = $2`, courseID, id)
	if err != nil {
		return errors.Wrap(err, "deleting meet")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return meet.ErrNotFound
	}
	return nil
}
