package course

// Role is a subject's membership role in a course.
type Role int

const (
	RoleNone Role = iota
	RoleStudent
	RoleTeacher
)

func (r Role) String() string {
	switch r {
	case RoleTeacher:
		return "teacher"
	case RoleStudent:
		return "student"
	}
	return "none"
}

// ResolveRole decides the subject's role in the course. The teacher list is
// checked first so the teacher role dominates when a subject is erroneously in
// both lists. Pure read, no side effects.
func ResolveRole(subjectID string, c Course) Role {
	for _, t := range c.Teachers {
		if t.UserID == subjectID {
			return RoleTeacher
		}
	}
	for _, s := range c.Students {
		if s.UserID == subjectID {
			return RoleStudent
		}
	}
	return RoleNone
}

// IsMember reports whether the subject holds any role in the course.
func IsMember(subjectID string, c Course) bool {
	return ResolveRole(subjectID, c) != RoleNone
}
