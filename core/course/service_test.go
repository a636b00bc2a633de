package course_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/profile"
	"github.com/darasahq/darasa/storage/inmem"
	testutil "github.com/darasahq/darasa/tests"
)

func TestMain(m *testing.M) {
	testutil.InitValidators()
	os.Exit(m.Run())
}

func setup(t *testing.T) (*course.Service, profile.Repository) {
	t.Helper()
	db, err := inmem.Open()
	require.NoError(t, err)
	profileRepo := inmem.NewProfileRepository(db)
	svc := course.NewService(inmem.NewCourseRepository(db), profileRepo, testutil.NewConfig())
	return svc, profileRepo
}

func TestService_Create(t *testing.T) {
	svc, _ := setup(t)

	t.Run("defaults", func(t *testing.T) {
		crs, err := svc.Create("t1", course.NewCourse{Name: "Algebra"})
		require.NoError(t, err)

		assert.Len(t, crs.ID, core.EntityIDLength)
		assert.Equal(t, course.StateProvisioned, crs.CourseState)
		assert.Equal(t, "t1", crs.OwnerID)
		assert.Len(t, crs.EnrollmentCode, 7)
		assert.Equal(t, "https://classroom.google.com/c/"+crs.ID, crs.AlternateLink)
		assert.NotEmpty(t, crs.PhotoURL)
		assert.Equal(t, crs.CreationTime, crs.UpdateTime)

		require.Len(t, crs.Teachers, 1)
		assert.Equal(t, "t1", crs.Teachers[0].UserID)
		assert.Empty(t, crs.Students)
	})

	t.Run("explicit state", func(t *testing.T) {
		crs, err := svc.Create("t1", course.NewCourse{Name: "Geometry", CourseState: course.StateActive})
		require.NoError(t, err)
		assert.Equal(t, course.StateActive, crs.CourseState)
	})

	t.Run("name required", func(t *testing.T) {
		_, err := svc.Create("t1", course.NewCourse{})
		assert.Error(t, err)
	})

	t.Run("invalid state", func(t *testing.T) {
		_, err := svc.Create("t1", course.NewCourse{Name: "Algebra", CourseState: "PAUSED"})
		assert.IsType(t, &core.ValidationError{}, err)
	})
}

func TestService_Get(t *testing.T) {
	svc, profileRepo := setup(t)
	testutil.CreateProfile(t, profileRepo, "t1", "Neema", "Mwangi")
	crs := testutil.CreateCourse(t, svc, "t1", "Algebra", "s1")

	t.Run("teacher", func(t *testing.T) {
		got, err := svc.Get("t1", crs.ID)
		require.NoError(t, err)
		assert.Equal(t, crs.ID, got.ID)
		// roster memberships carry the course id and the resolved profile
		require.Len(t, got.Teachers, 1)
		assert.Equal(t, crs.ID, got.Teachers[0].CourseID)
		require.NotNil(t, got.Teachers[0].Profile)
		assert.Equal(t, "Neema Mwangi", got.Teachers[0].Profile.Name.FullName)
	})

	t.Run("student", func(t *testing.T) {
		_, err := svc.Get("s1", crs.ID)
		assert.NoError(t, err)
	})

	t.Run("non-member", func(t *testing.T) {
		_, err := svc.Get("stranger", crs.ID)
		assert.IsType(t, &core.PermissionError{}, err)
	})

	t.Run("unknown course", func(t *testing.T) {
		_, err := svc.Get("t1", "nope")
		assert.Equal(t, course.ErrNotFound, err)
	})
}

func TestService_List(t *testing.T) {
	svc, _ := setup(t)

	active := testutil.CreateCourse(t, svc, "t1", "Active", "s1")
	_, err := svc.Create("t1", course.NewCourse{Name: "Suspended", CourseState: course.StateSuspended})
	require.NoError(t, err)
	other := testutil.CreateCourse(t, svc, "t2", "Other")
	_ = other

	t.Run("default states exclude suspended", func(t *testing.T) {
		page, err := svc.List("t1", course.ListOptions{})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, active.ID, page.Items[0].ID)
	})

	t.Run("explicit states", func(t *testing.T) {
		page, err := svc.List("t1", course.ListOptions{States: []course.State{course.StateSuspended}})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Suspended", page.Items[0].Name)
	})

	t.Run("only member courses", func(t *testing.T) {
		page, err := svc.List("t2", course.ListOptions{})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Other", page.Items[0].Name)
	})

	t.Run("studentId filter", func(t *testing.T) {
		page, err := svc.List("s1", course.ListOptions{StudentID: "s1"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, active.ID, page.Items[0].ID)

		page, err = svc.List("t1", course.ListOptions{StudentID: "t1"})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})

	t.Run("teacherId filter", func(t *testing.T) {
		page, err := svc.List("t1", course.ListOptions{TeacherID: "t1"})
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
	})
}

func TestService_Update(t *testing.T) {
	svc, _ := setup(t)
	crs := testutil.CreateCourse(t, svc, "t1", "Algebra", "s1")

	t.Run("teacher updates writable fields", func(t *testing.T) {
		got, err := svc.Update("t1", crs.ID, course.UpdateCourse{
			Name:        "Algebra II",
			Room:        "B12",
			CourseState: course.StateArchived,
		})
		require.NoError(t, err)
		assert.Equal(t, "Algebra II", got.Name)
		assert.Equal(t, "B12", got.Room)
		assert.Equal(t, course.StateArchived, got.CourseState)

		// server-owned fields survive
		assert.Equal(t, crs.ID, got.ID)
		assert.Equal(t, crs.OwnerID, got.OwnerID)
		assert.Equal(t, crs.EnrollmentCode, got.EnrollmentCode)
		assert.Equal(t, crs.CreationTime, got.CreationTime)
		assert.Equal(t, crs.AlternateLink, got.AlternateLink)
	})

	t.Run("student forbidden", func(t *testing.T) {
		_, err := svc.Update("s1", crs.ID, course.UpdateCourse{Name: "Hijacked"})
		assert.IsType(t, &core.PermissionError{}, err)
	})

	t.Run("unknown course", func(t *testing.T) {
		_, err := svc.Update("t1", "nope", course.UpdateCourse{Name: "X"})
		assert.Equal(t, course.ErrNotFound, err)
	})
}

func TestService_Delete(t *testing.T) {
	svc, _ := setup(t)
	crs := testutil.CreateCourse(t, svc, "t1", "Algebra")
	_, err := svc.AddTeacher("t1", crs.ID, "t2")
	require.NoError(t, err)

	t.Run("co-teacher is not the owner", func(t *testing.T) {
		err := svc.Delete("t2", crs.ID)
		assert.IsType(t, &core.PermissionError{}, err)
	})

	t.Run("owner", func(t *testing.T) {
		require.NoError(t, svc.Delete("t1", crs.ID))
		_, err := svc.Get("t1", crs.ID)
		assert.Equal(t, course.ErrNotFound, err)
	})
}

func TestService_AddStudent(t *testing.T) {
	svc, _ := setup(t)
	crs := testutil.CreateCourse(t, svc, "t1", "Algebra")

	t.Run("teacher adds directly", func(t *testing.T) {
		s, err := svc.AddStudent("t1", crs.ID, "s1", "")
		require.NoError(t, err)
		assert.Equal(t, "s1", s.UserID)
		assert.Equal(t, crs.ID, s.CourseID)
	})

	t.Run("duplicate membership", func(t *testing.T) {
		_, err := svc.AddStudent("t1", crs.ID, "s1", "")
		assert.Equal(t, course.ErrMemberExists, err)
	})

	t.Run("self enroll with code", func(t *testing.T) {
		_, err := svc.AddStudent("s2", crs.ID, "s2", crs.EnrollmentCode)
		assert.NoError(t, err)
	})

	t.Run("self enroll with wrong code", func(t *testing.T) {
		_, err := svc.AddStudent("s3", crs.ID, "s3", "0000000")
		require.IsType(t, &core.PermissionError{}, err)
		assert.EqualError(t, err, "invalid enrollment code")
	})

	t.Run("enrolling someone else", func(t *testing.T) {
		_, err := svc.AddStudent("s2", crs.ID, "s4", crs.EnrollmentCode)
		assert.IsType(t, &core.PermissionError{}, err)
	})
}

func TestService_Roster(t *testing.T) {
	svc, _ := setup(t)
	crs := testutil.CreateCourse(t, svc, "t1", "Algebra", "s1", "s2")

	t.Run("list teachers", func(t *testing.T) {
		page, err := svc.ListTeachers("s1", crs.ID, 0, 0)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "t1", page.Items[0].UserID)
	})

	t.Run("list students preserves roster order", func(t *testing.T) {
		page, err := svc.ListStudents("t1", crs.ID, 0, 0)
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "s1", page.Items[0].UserID)
		assert.Equal(t, "s2", page.Items[1].UserID)
	})

	t.Run("non-member cannot list", func(t *testing.T) {
		_, err := svc.ListStudents("stranger", crs.ID, 0, 0)
		assert.IsType(t, &core.PermissionError{}, err)
	})

	t.Run("student reads own membership", func(t *testing.T) {
		s, err := svc.GetStudent("s1", crs.ID, "s1")
		require.NoError(t, err)
		assert.Equal(t, "s1", s.UserID)
	})

	t.Run("student cannot read another student", func(t *testing.T) {
		_, err := svc.GetStudent("s1", crs.ID, "s2")
		assert.IsType(t, &core.PermissionError{}, err)
	})

	t.Run("missing member wins over permission", func(t *testing.T) {
		_, err := svc.GetStudent("s1", crs.ID, "nobody")
		assert.Equal(t, course.ErrNotStudent, err)
	})

	t.Run("student removes themselves", func(t *testing.T) {
		require.NoError(t, svc.RemoveStudent("s2", crs.ID, "s2"))
		_, err := svc.GetStudent("t1", crs.ID, "s2")
		assert.Equal(t, course.ErrNotStudent, err)
	})

	t.Run("student cannot remove a teacher", func(t *testing.T) {
		err := svc.RemoveTeacher("s1", crs.ID, "t1")
		assert.IsType(t, &core.PermissionError{}, err)
	})

	t.Run("removing an unknown teacher", func(t *testing.T) {
		err := svc.RemoveTeacher("t1", crs.ID, "nobody")
		assert.Equal(t, course.ErrNotTeacher, err)
	})
}
