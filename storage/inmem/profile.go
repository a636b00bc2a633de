package inmem

import "github.com/darasahq/darasa/core/profile"

type profileRepository struct {
	db *profileTable
}

func NewProfileRepository(db *DB) profile.Repository {
	return &profileRepository{db: db.profiles}
}

func (r *profileRepository) CreateIfNotExists(p profile.UserProfile) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.t[p.ID]; ok {
		return profile.ErrExists
	}
	r.db.t[p.ID] = &p
	return nil
}

func (r *profileRepository) GetByID(id string) (profile.UserProfile, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if p, ok := r.db.t[id]; ok {
		return *p, nil
	}
	return profile.UserProfile{}, profile.ErrNotFound
}

func (r *profileRepository) GetByEmail(email string) (profile.UserProfile, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, p := range r.db.t {
		if p.EmailAddress == email {
			return *p, nil
		}
	}
	return profile.UserProfile{}, profile.ErrNotFound
}

func (r *profileRepository) Update(p profile.UserProfile) (profile.UserProfile, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.t[p.ID]; !ok {
		return profile.UserProfile{}, profile.ErrNotFound
	}
	r.db.t[p.ID] = &p
	return p, nil
}
