package announcement_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/announcement"
	"github.com/darasahq/darasa/core/course"
	dummypush "github.com/darasahq/darasa/services/push/dummy"
	"github.com/darasahq/darasa/storage/inmem"
	testutil "github.com/darasahq/darasa/tests"
)

func TestMain(m *testing.M) {
	testutil.InitValidators()
	os.Exit(m.Run())
}

func setup(t *testing.T) (*announcement.Service, course.Course) {
	t.Helper()
	db, err := inmem.Open()
	require.NoError(t, err)
	conf := testutil.NewConfig()

	courseRepo := inmem.NewCourseRepository(db)
	courseSvc := course.NewService(courseRepo, inmem.NewProfileRepository(db), conf)
	svc := announcement.NewService(
		inmem.NewAnnouncementRepository(db), courseRepo,
		dummypush.NewService(), testutil.NewLogger(conf), conf)

	crs := testutil.CreateCourse(t, courseSvc, "t1", "Algebra", "s1")
	dummypush.ClearSentMessages()
	return svc, crs
}

func TestService_Create(t *testing.T) {
	svc, crs := setup(t)

	t.Run("defaults and push", func(t *testing.T) {
		ann, err := svc.Create("t1", crs.ID, announcement.NewAnnouncement{Text: "Welcome everyone"})
		require.NoError(t, err)

		assert.Len(t, ann.ID, core.EntityIDLength)
		assert.Equal(t, announcement.StatePublished, ann.State)
		assert.Equal(t, "ALL_STUDENTS", ann.AssigneeMode)
		assert.Equal(t, "t1", ann.CreatorUserID)
		assert.Equal(t, "https://classroom.google.com/c/"+crs.ID+"/p/"+ann.ID, ann.AlternateLink)

		require.Len(t, dummypush.SentMessages, 1)
		msg := dummypush.SentMessages[0]
		assert.Equal(t, "Algebra", msg.Title)
		assert.Equal(t, "Welcome everyone", msg.Body)
		assert.Equal(t, []string{"s1"}, msg.Recipients)
	})

	t.Run("draft does not push", func(t *testing.T) {
		dummypush.ClearSentMessages()
		_, err := svc.Create("t1", crs.ID, announcement.NewAnnouncement{
			Text:  "Grades go out Friday",
			State: announcement.StateDraft,
		})
		require.NoError(t, err)
		assert.Empty(t, dummypush.SentMessages)
	})

	t.Run("text required", func(t *testing.T) {
		_, err := svc.Create("t1", crs.ID, announcement.NewAnnouncement{})
		assert.Error(t, err)
	})

	t.Run("student forbidden", func(t *testing.T) {
		_, err := svc.Create("s1", crs.ID, announcement.NewAnnouncement{Text: "Hi"})
		assert.IsType(t, &core.PermissionError{}, err)
	})
}

func TestService_Get(t *testing.T) {
	svc, crs := setup(t)

	draft, err := svc.Create("t1", crs.ID, announcement.NewAnnouncement{Text: "Draft", State: announcement.StateDraft})
	require.NoError(t, err)

	t.Run("teacher sees draft", func(t *testing.T) {
		_, err := svc.Get("t1", crs.ID, draft.ID)
		assert.NoError(t, err)
	})

	t.Run("draft hidden from student as missing", func(t *testing.T) {
		_, err := svc.Get("s1", crs.ID, draft.ID)
		assert.Equal(t, announcement.ErrNotFound, err)
	})

	t.Run("non-member forbidden", func(t *testing.T) {
		_, err := svc.Get("stranger", crs.ID, draft.ID)
		assert.IsType(t, &core.PermissionError{}, err)
	})
}

func TestService_List(t *testing.T) {
	svc, crs := setup(t)

	_, err := svc.Create("t1", crs.ID, announcement.NewAnnouncement{Text: "Published"})
	require.NoError(t, err)
	_, err = svc.Create("t1", crs.ID, announcement.NewAnnouncement{Text: "Draft", State: announcement.StateDraft})
	require.NoError(t, err)

	t.Run("default lists published only", func(t *testing.T) {
		page, err := svc.List("s1", crs.ID, announcement.ListOptions{})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Published", page.Items[0].Text)
	})

	t.Run("teacher lists drafts explicitly", func(t *testing.T) {
		page, err := svc.List("t1", crs.ID, announcement.ListOptions{States: []announcement.State{announcement.StateDraft}})
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
	})

	t.Run("student cannot list drafts even explicitly", func(t *testing.T) {
		page, err := svc.List("s1", crs.ID, announcement.ListOptions{States: []announcement.State{announcement.StateDraft}})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})
}

func TestService_Patch(t *testing.T) {
	svc, crs := setup(t)
	ann, err := svc.Create("t1", crs.ID, announcement.NewAnnouncement{Text: "Original"})
	require.NoError(t, err)

	mask, err := core.ParseFieldMask("text")
	require.NoError(t, err)

	t.Run("teacher updates text", func(t *testing.T) {
		text := "Corrected"
		got, err := svc.Patch("t1", crs.ID, ann.ID, mask, announcement.UpdateAnnouncement{Text: &text})
		require.NoError(t, err)
		assert.Equal(t, "Corrected", got.Text)
	})

	t.Run("publish transition pushes", func(t *testing.T) {
		draft, err := svc.Create("t1", crs.ID, announcement.NewAnnouncement{
			Text:  "Grades go out Friday",
			State: announcement.StateDraft,
		})
		require.NoError(t, err)

		stateMask, err := core.ParseFieldMask("state")
		require.NoError(t, err)

		dummypush.ClearSentMessages()
		published := announcement.StatePublished
		_, err = svc.Patch("t1", crs.ID, draft.ID, stateMask, announcement.UpdateAnnouncement{State: &published})
		require.NoError(t, err)

		require.Len(t, dummypush.SentMessages, 1)
		assert.Equal(t, "Grades go out Friday", dummypush.SentMessages[0].Body)
	})

	t.Run("blank text rejected", func(t *testing.T) {
		blank := " "
		_, err := svc.Patch("t1", crs.ID, ann.ID, mask, announcement.UpdateAnnouncement{Text: &blank})
		assert.IsType(t, &core.ValidationError{}, err)
	})

	t.Run("unknown mask field", func(t *testing.T) {
		badMask, err := core.ParseFieldMask("creatorUserId")
		require.NoError(t, err)
		_, err = svc.Patch("t1", crs.ID, ann.ID, badMask, announcement.UpdateAnnouncement{})
		assert.IsType(t, &core.ValidationError{}, err)
	})

	t.Run("student forbidden", func(t *testing.T) {
		text := "Hijacked"
		_, err := svc.Patch("s1", crs.ID, ann.ID, mask, announcement.UpdateAnnouncement{Text: &text})
		assert.IsType(t, &core.PermissionError{}, err)
	})
}

func TestService_Delete(t *testing.T) {
	svc, crs := setup(t)
	ann, err := svc.Create("t1", crs.ID, announcement.NewAnnouncement{Text: "Doomed"})
	require.NoError(t, err)

	t.Run("student forbidden", func(t *testing.T) {
		err := svc.Delete("s1", crs.ID, ann.ID)
		assert.IsType(t, &core.PermissionError{}, err)
	})

	t.Run("teacher", func(t *testing.T) {
		require.NoError(t, svc.Delete("t1", crs.ID, ann.ID))
		_, err := svc.Get("t1", crs.ID, ann.ID)
		assert.Equal(t, announcement.ErrNotFound, err)
	})
}
