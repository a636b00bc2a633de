package inmem

import "github.com/darasahq/darasa/core/coursework"

type courseWorkRepository struct {
	work *workTable
	subs *submissionTable
}

func NewCourseWorkRepository(db *DB) coursework.Repository {
	return &courseWorkRepository{work: db.work, subs: db.submissions}
}

func (r *courseWorkRepository) CreateCourseWorkIfNotExists(cw coursework.CourseWork) error {
	r.work.mutex.Lock()
	defer r.work.mutex.Unlock()

	byID, ok := r.work.t[cw.CourseID]
	if !ok {
		byID = make(map[string]*coursework.CourseWork)
		r.work.t[cw.CourseID] = byID
	}
	if _, ok = byID[cw.ID]; ok {
		return coursework.ErrWorkExists
	}
	byID[cw.ID] = &cw
	return nil
}

func (r *courseWorkRepository) GetCourseWork(courseID, id string) (coursework.CourseWork, error) {
	r.work.mutex.RLock()
	defer r.work.mutex.RUnlock()

	if cw, ok := r.work.t[courseID][id]; ok {
		return *cw, nil
	}
	return coursework.CourseWork{}, coursework.ErrNotFound
}

func (r *courseWorkRepository) QueryCourseWorkByCourse(courseID string) ([]coursework.CourseWork, error) {
	r.work.mutex.RLock()
	defer r.work.mutex.RUnlock()

	res := make([]coursework.CourseWork, 0, len(r.work.t[courseID]))
	for _, cw := range r.work.t[courseID] {
		res = append(res, *cw)
	}
	return res, nil
}

func (r *courseWorkRepository) UpdateCourseWork(cw coursework.CourseWork) (coursework.CourseWork, error) {
	r.work.mutex.Lock()
	defer r.work.mutex.Unlock()

	if _, ok := r.work.t[cw.CourseID][cw.ID]; !ok {
		return coursework.CourseWork{}, coursework.ErrNotFound
	}
	r.work.t[cw.CourseID][cw.ID] = &cw
	return cw, nil
}

func (r *courseWorkRepository) DeleteCourseWork(courseID, id string) error {
	r.work.mutex.Lock()
	defer r.work.mutex.Unlock()

	if _, ok := r.work.t[courseID][id]; !ok {
		return coursework.ErrNotFound
	}
	delete(r.work.t[courseID], id)
	return nil
}

// submissions

func submissionKey(courseID, courseWorkID string) string {
	return courseID + "/" + courseWorkID
}

func (r *courseWorkRepository) CreateSubmissionIfNotExists(sub coursework.StudentSubmission) error {
	r.subs.mutex.Lock()
	defer r.subs.mutex.Unlock()

	key := submissionKey(sub.CourseID, sub.CourseWorkID)
	byID, ok := r.subs.t[key]
	if !ok {
		byID = make(map[string]*coursework.StudentSubmission)
		r.subs.t[key] = byID
	}
	if _, ok = byID[sub.ID]; ok {
		return coursework.ErrSubmissionExists
	}
	byID[sub.ID] = &sub
	return nil
}

func (r *courseWorkRepository) GetSubmission(courseID, courseWorkID, id string) (coursework.StudentSubmission, error) {
	r.subs.mutex.RLock()
	defer r.subs.mutex.RUnlock()

	if sub, ok := r.subs.t[submissionKey(courseID, courseWorkID)][id]; ok {
		return *sub, nil
	}
	return coursework.StudentSubmission{}, coursework.ErrSubmissionNotFound
}

func (r *courseWorkRepository) QuerySubmissionsByCourseWork(courseID, courseWorkID string) ([]coursework.StudentSubmission, error) {
	r.subs.mutex.RLock()
	defer r.subs.mutex.RUnlock()

	byID := r.subs.t[submissionKey(courseID, courseWorkID)]
	res := make([]coursework.StudentSubmission, 0, len(byID))
	for _, sub := range byID {
		res = append(res, *sub)
	}
	return res, nil
}

func (r *courseWorkRepository) UpdateSubmission(sub coursework.StudentSubmission) (coursework.StudentSubmission, error) {
	r.subs.mutex.Lock()
	defer r.subs.mutex.Unlock()

	key := submissionKey(sub.CourseID, sub.CourseWorkID)
	if _, ok := r.subs.t[key][sub.ID]; !ok {
		return coursework.StudentSubmission{}, coursework.ErrSubmissionNotFound
	}
	r.subs.t[key][sub.ID] = &sub
	return sub, nil
}
