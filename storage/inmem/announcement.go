package inmem

import "github.com/darasahq/darasa/core/announcement"

type announcementRepository struct {
	db *announcementTable
}

func NewAnnouncementRepository(db *DB) announcement.Repository {
	return &announcementRepository{db: db.announcements}
}

func (r *announcementRepository) CreateAnnouncementIfNotExists(a announcement.Announcement) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	byID, ok := r.db.t[a.CourseID]
	if !ok {
		byID = make(map[string]*announcement.Announcement)
		r.db.t[a.CourseID] = byID
	}
	if _, ok = byID[a.ID]; ok {
		return announcement.ErrExists
	}
	byID[a.ID] = &a
	return nil
}

func (r *announcementRepository) GetAnnouncement(courseID, id string) (announcement.Announcement, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if a, ok := r.db.t[courseID][id]; ok {
		return *a, nil
	}
	return announcement.Announcement{}, announcement.ErrNotFound
}

func (r *announcementRepository) QueryAnnouncementsByCourse(courseID string) ([]announcement.Announcement, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	res := make([]announcement.Announcement, 0, len(r.db.t[courseID]))
	for _, a := range r.db.t[courseID] {
		res = append(res, *a)
	}
	return res, nil
}

func (r *announcementRepository) UpdateAnnouncement(a announcement.Announcement) (announcement.Announcement, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.t[a.CourseID][a.ID]; !ok {
		return announcement.Announcement{}, announcement.ErrNotFound
	}
	r.db.t[a.CourseID][a.ID] = &a
	return a, nil
}

func (r *announcementRepository) DeleteAnnouncement(courseID, id string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.t[courseID][id]; !ok {
		return announcement.ErrNotFound
	}
	delete(r.db.t[courseID], id)
	return nil
}
