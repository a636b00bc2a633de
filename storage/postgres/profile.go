package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/profile"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) profile.Repository {
	return &profileRepository{db: db}
}

func (r *profileRepository) CreateIfNotExists(p profile.UserProfile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "marshaling profile")
	}
	res, err := r.db.Exec(`INSERT INTO user_profile (id, doc) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`, p.ID, raw)
	if err != nil {
		return errors.Wrap(err, "inserting profile")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return profile.ErrExists
	}
	return nil
}

func (r *profileRepository) GetByID(id string) (profile.UserProfile, error) {
	var raw []byte
	err := r.db.Get(&raw, `SELECT doc FROM user_profile WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return profile.UserProfile{}, profile.ErrNotFound
	}
	if err != nil {
		return profile.UserProfile{}, errors.Wrap(err, "getting profile")
	}

	var p profile.UserProfile
	if err = json.Unmarshal(raw, &p); err != nil {
		return profile.UserProfile{}, errors.Wrap(err, "unmarshaling profile")
	}
	return p, nil
}

func (r *profileRepository) GetByEmail(email string) (profile.UserProfile, error) {
	var raw []byte
	err := r.db.Get(&raw, `SELECT doc FROM user_profile WHERE doc->>'emailAddress' = $1`, email)
	if err == sql.ErrNoRows {
		return profile.UserProfile{}, profile.ErrNotFound
	}
	if err != nil {
		return profile.UserProfile{}, errors.Wrap(err, "getting profile by email")
	}

	var p profile.UserProfile
	if err = json.Unmarshal(raw, &p); err != nil {
		return profile.UserProfile{}, errors.Wrap(err, "unmarshaling profile")
	}
	return p, nil
}

func (r *profileRepository) Update(p profile.UserProfile) (profile.UserProfile, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return profile.UserProfile{}, errors.Wrap(err, "marshaling profile")
	}
	res, err := r.db.Exec(`UPDATE user_profile SET doc = $2 WHERE id = $1`, p.ID, raw)
	if err != nil {
		return profile.UserProfile{}, errors.Wrap(err, "updating profile")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return profile.UserProfile{}, profile.ErrNotFound
	}
	return p, nil
}
