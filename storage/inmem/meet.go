package inmem

import "github.com/darasahq/darasa/core/meet"

type meetRepository struct {
	db *meetTable
}

func NewMeetRepository(db *DB) meet.Repository {
	return &meetRepository{db: db.meets}
}

func (r *meetRepository) CreateMeetIfNotExists(m meet.Meet) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	byID, ok := r.db.t[m.CourseID]
	if !ok {
		byID = make(map[string]*meet.Meet)
		r.db.t[m.CourseID] = byID
	}
	if _, ok = byID[m.ID]; ok {
		return meet.ErrExists
	}
	byID[m.ID] = &m
	return nil
}

func (r *meetRepository) GetMeet(courseID, id string) (meet.Meet, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if m, ok := r.db.t[courseID][id]; ok {
		return *m, nil
	}
	return meet.Meet{}, meet.ErrNotFound
}

func (r *meetRepository) QueryMeetsByCourse(courseID string) ([]meet.Meet, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	res := make([]meet.Meet, 0, len(r.db.t[courseID]))
	for _, m := range r.db.t[courseID] {
		res = append(res, *m)
	}
	return res, nil
}

func (r *meetRepository) UpdateMeet(m meet.Meet) (meet.Meet, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.t[m.CourseID][m.ID]; !ok {
		return meet.Meet{}, meet.ErrNotFound
	}
	r.db.t[m.CourseID][m.ID] = &m
	return m, nil
}

func (r *meetRepository) DeleteMeet(courseID, id string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.t[courseID][id]; !ok {
		return meet.ErrNotFound
	}
	delete(r.db.t[courseID], id)
	return nil
}
