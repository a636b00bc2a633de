package postgres

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/identity"
)

type revocationList struct {
	db *sqlx.DB
}

func NewRevocationList(db *sqlx.DB) identity.RevocationList {
	return &revocationList{db: db}
}

func (r *revocationList) IsRevoked(tokenID string) (bool, error) {
	var exists bool
	err := r.db.Get(&exists, `SELECT true FROM revoked_token WHERE id = $1`, tokenID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "checking revoked token")
	}
	return exists, nil
}

func (r *revocationList) Revoke(tokenID string) error {
	_, err := r.db.Exec(`INSERT INTO revoked_token (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, tokenID)
	return errors.Wrap(err, "revoking token")
}
