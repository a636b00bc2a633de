package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/announcement"
)

type announcementRepository struct {
	db *sqlx.DB
}

func NewAnnouncementRepository(db *sqlx.DB) announcement.Repository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) CreateAnnouncementIfNotExists(a announcement.Announcement) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return errors.Wrap(err, "marshaling announcement")
	}
	res, err := r.db.Exec(
		`INSERT INTO announcement (course_id, id, doc) VALUES ($1, $2, $3) ON CONFLICT (course_id, id) DO NOTHING`,
		a.CourseID, a.ID, raw,
	)
	if err != nil {
		return errors.Wrap(err, "inserting announcement")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return announcement.ErrExists
	}
	return nil
}

func (r *announcementRepository) GetAnnouncement(courseID, id string) (announcement.Announcement, error) {
	var raw []byte
	err := r.db.Get(&raw, `SELECT doc FROM announcement WHERE course_id = $1 AND id = $2`, courseID, id)
	if err == sql.ErrNoRows {
		return announcement.Announcement{}, announcement.ErrNotFound
	}
	if err != nil {
		return announcement.Announcement{}, errors.Wrap(err, "getting announcement")
	}

	var a announcement.Announcement
	if err = json.Unmarshal(raw, &a); err != nil {
		return announcement.Announcement{}, errors.Wrap(err, "unmarshaling announcement")
	}
	return a, nil
}

func (r *announcementRepository) QueryAnnouncementsByCourse(courseID string) ([]announcement.Announcement, error) {
	var raws [][]byte
	if err := r.db.Select(&raws, `SELECT doc FROM announcement WHERE course_id = $1`, courseID); err != nil {
		return nil, errors.Wrap(err, "querying announcements")
	}
	res := make([]announcement.Announcement, 0, len(raws))
	for _, raw := range raws {
		var a announcement.Announcement
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, errors.Wrap(err, "unmarshaling announcement")
		}
		res = append(res, a)
	}
	return res, nil
}

func (r *announcementRepository) UpdateAnnouncement(a announcement.Announcement) (announcement.Announcement, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return announcement.Announcement{}, errors.Wrap(err, "marshaling announcement")
	}
	res, err := r.db.Exec(`UPDATE announcement SET doc = $3 WHERE course_id = $1 AND id = $2`, a.CourseID, a.ID, raw)
	if err != nil {
		return announcement.Announcement{}, errors.Wrap(err, "updating announcement")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return announcement.Announcement{}, announcement.ErrNotFound
	}
	return a, nil
}

func (r *announcementRepository) DeleteAnnouncement(courseID, id string) error {
	res, err := r.db.Exec(`DELETE FROM announcement WHERE course_id = $1 AND id = $2`, courseID, id)
	if err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return announcement.ErrNotFound
	}
	return nil
}
