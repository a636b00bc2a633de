package inmem

import "github.com/darasahq/darasa/core/identity"

type revocationList struct {
	db *revocationTable
}

func NewRevocationList(db *DB) identity.RevocationList {
	return &revocationList{db: db.revoked}
}

func (r *revocationList) IsRevoked(tokenID string) (bool, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	_, ok := r.db.t[tokenID]
	return ok, nil
}

func (r *revocationList) Revoke(tokenID string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	r.db.t[tokenID] = struct{}{}
	return nil
}
