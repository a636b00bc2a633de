package coursework_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/coursework"
)

// submissionFixture is a published assignment in a course with teacher t1 and
// students s1, s2.
func submissionFixture(t *testing.T, workType coursework.WorkType, due bool) (*coursework.Service, course.Course, coursework.CourseWork) {
	t.Helper()
	svc, courseSvc := setup(t)
	crs := createRosteredCourse(t, courseSvc)

	ncw := coursework.NewCourseWork{
		Title:    "Fixture work",
		WorkType: workType,
		State:    coursework.StatePublished,
	}
	if workType == coursework.WorkTypeMultipleChoice {
		ncw.MultipleChoiceQuestion = &coursework.MultipleChoiceQuestion{Choices: []string{"a", "b"}}
	}
	if due {
		ncw.DueDate = &core.Date{Year: 2020, Month: 1, Day: 15}
		ncw.DueTime = &core.TimeOfDay{Hours: 23, Minutes: 59}
	}
	cw, err := svc.Create("t1", crs.ID, ncw)
	require.NoError(t, err)
	return svc, crs, cw
}

func createRosteredCourse(t *testing.T, courseSvc *course.Service) course.Course {
	t.Helper()
	crs, err := courseSvc.Create("t1", course.NewCourse{Name: "Algebra", CourseState: course.StateActive})
	require.NoError(t, err)
	for _, sid := range []string{"s1", "s2"} {
		_, err = courseSvc.AddStudent("t1", crs.ID, sid, "")
		require.NoError(t, err)
	}
	return crs
}

func TestService_GetSubmission(t *testing.T) {
	svc, crs, cw := submissionFixture(t, coursework.WorkTypeAssignment, false)

	t.Run("lazy create on owner first read", func(t *testing.T) {
		sub, err := svc.GetSubmission("s1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)

		assert.Equal(t, "s1", sub.ID)
		assert.Equal(t, "s1", sub.UserID)
		assert.Equal(t, coursework.SubmissionCreated, sub.State)
		assert.Equal(t, coursework.WorkTypeAssignment, sub.CourseWorkType)
		assert.False(t, sub.Late.Valid)
		require.NotNil(t, sub.AssignmentSubmission)
		assert.Nil(t, sub.ShortAnswerSubmission)
		assert.Equal(t,
			"https://classroom.google.com/c/"+crs.ID+"/a/"+cw.ID+"/submissions/by-status/and-sort-first-name/student/s1",
			sub.AlternateLink)
	})

	t.Run("teacher reads the created submission", func(t *testing.T) {
		sub, err := svc.GetSubmission("t1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)
		assert.Equal(t, "s1", sub.UserID)
	})

	t.Run("teacher read does not create", func(t *testing.T) {
		_, err := svc.GetSubmission("t1", crs.ID, cw.ID, "s2")
		assert.Equal(t, coursework.ErrSubmissionNotFound, err)
	})

	t.Run("student cannot read a peer's submission", func(t *testing.T) {
		_, err := svc.GetSubmission("s2", crs.ID, cw.ID, "s1")
		assert.IsType(t, &core.PermissionError{}, err)
	})

	t.Run("unknown work", func(t *testing.T) {
		_, err := svc.GetSubmission("s1", crs.ID, "nope", "s1")
		assert.Equal(t, coursework.ErrNotFound, err)
	})
}

func TestService_TurnIn(t *testing.T) {
	t.Run("no due instant keeps late null", func(t *testing.T) {
		svc, crs, cw := submissionFixture(t, coursework.WorkTypeAssignment, false)
		_, err := svc.GetSubmission("s1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)

		sub, err := svc.TurnIn("s1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)
		assert.Equal(t, coursework.SubmissionTurnedIn, sub.State)
		assert.False(t, sub.Late.Valid)
	})

	t.Run("past due computes late", func(t *testing.T) {
		svc, crs, cw := submissionFixture(t, coursework.WorkTypeAssignment, true)
		_, err := svc.GetSubmission("s1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)

		sub, err := svc.TurnIn("s1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)
		assert.Equal(t, null.BoolFrom(true), sub.Late)
	})

	t.Run("already turned in", func(t *testing.T) {
		svc, crs, cw := submissionFixture(t, coursework.WorkTypeAssignment, false)
		_, err := svc.GetSubmission("s1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)
		_, err = svc.TurnIn("s1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)

		_, err = svc.TurnIn("s1", crs.ID, cw.ID, "s1")
		assert.IsType(t, &core.ValidationError{}, err)
	})

	t.Run("non-owner forbidden", func(t *testing.T) {
		svc, crs, cw := submissionFixture(t, coursework.WorkTypeAssignment, false)
		_, err := svc.GetSubmission("s1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)

		_, err = svc.TurnIn("s2", crs.ID, cw.ID, "s1")
		assert.IsType(t, &core.PermissionError{}, err)
	})
}

func TestService_Reclaim(t *testing.T) {
	svc, crs, cw := submissionFixture(t, coursework.WorkTypeAssignment, false)
	_, err := svc.GetSubmission("s1", crs.ID, cw.ID, "s1")
	require.NoError(t, err)

	t.Run("not turned in yet", func(t *testing.T) {
		_, err := svc.Reclaim("s1", crs.ID, cw.ID, "s1")
		assert.IsType(t, &core.PermissionError{}, err)
	})

	_, err = svc.TurnIn("s1", crs.ID, cw.ID, "s1")
	require.NoError(t, err)

	t.Run("non-owner forbidden", func(t *testing.T) {
		_, err := svc.Reclaim("s2", crs.ID, cw.ID, "s1")
		assert.IsType(t, &core.PermissionError{}, err)
	})

	t.Run("owner reclaims from turned in", func(t *testing.T) {
		sub, err := svc.Reclaim("s1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)
		assert.Equal(t, coursework.SubmissionReclaimed, sub.State)
	})

	t.Run("resubmission after reclaim", func(t *testing.T) {
		sub, err := svc.TurnIn("s1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)
		assert.Equal(t, coursework.SubmissionTurnedIn, sub.State)
	})
}

func TestService_Return(t *testing.T) {
	svc, crs, cw := submissionFixture(t, coursework.WorkTypeAssignment, false)
	_, err := svc.GetSubmission("s1", crs.ID, cw.ID, "s1")
	require.NoError(t, err)

	t.Run("not turned in yet", func(t *testing.T) {
		_, err := svc.Return("t1", crs.ID, cw.ID, "s1")
		assert.IsType(t, &core.ValidationError{}, err)
	})

	_, err = svc.TurnIn("s1", crs.ID, cw.ID, "s1")
	require.NoError(t, err)

	t.Run("owner cannot return", func(t *testing.T) {
		_, err := svc.Return("s1", crs.ID, cw.ID, "s1")
		assert.IsType(t, &core.PermissionError{}, err)
	})

	t.Run("teacher returns", func(t *testing.T) {
		sub, err := svc.Return("t1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)
		assert.Equal(t, coursework.SubmissionReturned, sub.State)
	})
}

func TestService_PatchSubmission(t *testing.T) {
	t.Run("teacher grades", func(t *testing.T) {
		svc, crs, cw := submissionFixture(t, coursework.WorkTypeAssignment, false)
		_, err := svc.GetSubmission("s1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)

		sub, err := svc.PatchSubmission("t1", crs.ID, cw.ID, "s1",
			mustMask(t, "draftGrade,assignedGrade"),
			coursework.UpdateSubmission{DraftGrade: null.IntFrom(80), AssignedGrade: null.IntFrom(75)})
		require.NoError(t, err)
		assert.Equal(t, null.IntFrom(80), sub.DraftGrade)
		assert.Equal(t, null.IntFrom(75), sub.AssignedGrade)
	})

	t.Run("student cannot touch grades", func(t *testing.T) {
		svc, crs, cw := submissionFixture(t, coursework.WorkTypeAssignment, false)
		_, err := svc.GetSubmission("s1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)

		_, err = svc.PatchSubmission("s1", crs.ID, cw.ID, "s1",
			mustMask(t, "draftGrade"),
			coursework.UpdateSubmission{DraftGrade: null.IntFrom(100)})
		assert.IsType(t, &core.PermissionError{}, err)
	})

	t.Run("owner answers a short answer question", func(t *testing.T) {
		svc, crs, cw := submissionFixture(t, coursework.WorkTypeShortAnswer, false)
		_, err := svc.GetSubmission("s1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)

		sub, err := svc.PatchSubmission("s1", crs.ID, cw.ID, "s1",
			mustMask(t, "shortAnswerSubmission.answer"),
			coursework.UpdateSubmission{ShortAnswerSubmission: &coursework.ShortAnswerSubmission{Answer: "42"}})
		require.NoError(t, err)
		require.NotNil(t, sub.ShortAnswerSubmission)
		assert.Equal(t, "42", sub.ShortAnswerSubmission.Answer)
	})

	t.Run("teacher cannot touch answers", func(t *testing.T) {
		svc, crs, cw := submissionFixture(t, coursework.WorkTypeShortAnswer, false)
		_, err := svc.GetSubmission("s1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)

		_, err = svc.PatchSubmission("t1", crs.ID, cw.ID, "s1",
			mustMask(t, "shortAnswerSubmission.answer"),
			coursework.UpdateSubmission{ShortAnswerSubmission: &coursework.ShortAnswerSubmission{Answer: "nope"}})
		assert.IsType(t, &core.PermissionError{}, err)
	})

	t.Run("mask crossing both subsets is forbidden for either caller", func(t *testing.T) {
		svc, crs, cw := submissionFixture(t, coursework.WorkTypeShortAnswer, false)
		_, err := svc.GetSubmission("s1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)

		mask := mustMask(t, "draftGrade,shortAnswerSubmission.answer")
		us := coursework.UpdateSubmission{
			DraftGrade:            null.IntFrom(10),
			ShortAnswerSubmission: &coursework.ShortAnswerSubmission{Answer: "42"},
		}

		_, err = svc.PatchSubmission("t1", crs.ID, cw.ID, "s1", mask, us)
		assert.IsType(t, &core.PermissionError{}, err)

		_, err = svc.PatchSubmission("s1", crs.ID, cw.ID, "s1", mask, us)
		assert.IsType(t, &core.PermissionError{}, err)
	})

	t.Run("answer slot must match the work type", func(t *testing.T) {
		svc, crs, cw := submissionFixture(t, coursework.WorkTypeShortAnswer, false)
		_, err := svc.GetSubmission("s1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)

		_, err = svc.PatchSubmission("s1", crs.ID, cw.ID, "s1",
			mustMask(t, "multipleChoiceSubmission.answer"),
			coursework.UpdateSubmission{MultipleChoiceSubmission: &coursework.MultipleChoiceSubmission{Answer: "a"}})
		assert.IsType(t, &core.ValidationError{}, err)
	})

	t.Run("unknown mask field", func(t *testing.T) {
		svc, crs, cw := submissionFixture(t, coursework.WorkTypeAssignment, false)
		_, err := svc.GetSubmission("s1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)

		_, err = svc.PatchSubmission("t1", crs.ID, cw.ID, "s1",
			mustMask(t, "state"), coursework.UpdateSubmission{})
		assert.IsType(t, &core.ValidationError{}, err)
	})
}

func TestService_ListSubmissions(t *testing.T) {
	svc, crs, cw := submissionFixture(t, coursework.WorkTypeAssignment, true)

	_, err := svc.GetSubmission("s1", crs.ID, cw.ID, "s1")
	require.NoError(t, err)
	_, err = svc.GetSubmission("s2", crs.ID, cw.ID, "s2")
	require.NoError(t, err)
	_, err = svc.TurnIn("s1", crs.ID, cw.ID, "s1")
	require.NoError(t, err)

	t.Run("teacher sees all", func(t *testing.T) {
		page, err := svc.ListSubmissions("t1", crs.ID, cw.ID, coursework.SubmissionListOptions{})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
	})

	t.Run("student sees only their own", func(t *testing.T) {
		page, err := svc.ListSubmissions("s1", crs.ID, cw.ID, coursework.SubmissionListOptions{})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "s1", page.Items[0].UserID)
	})

	t.Run("states filter", func(t *testing.T) {
		page, err := svc.ListSubmissions("t1", crs.ID, cw.ID, coursework.SubmissionListOptions{
			States: []coursework.SubmissionState{coursework.SubmissionTurnedIn},
		})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "s1", page.Items[0].UserID)
	})

	t.Run("late filter", func(t *testing.T) {
		page, err := svc.ListSubmissions("t1", crs.ID, cw.ID, coursework.SubmissionListOptions{
			Late: coursework.LateOnly,
		})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "s1", page.Items[0].UserID)

		// a null late flag matches neither filter
		page, err = svc.ListSubmissions("t1", crs.ID, cw.ID, coursework.SubmissionListOptions{
			Late: coursework.NotLateOnly,
		})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})

	t.Run("userId filter", func(t *testing.T) {
		page, err := svc.ListSubmissions("t1", crs.ID, cw.ID, coursework.SubmissionListOptions{UserID: "s2"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "s2", page.Items[0].UserID)
	})

	t.Run("non-member forbidden", func(t *testing.T) {
		_, err := svc.ListSubmissions("stranger", crs.ID, cw.ID, coursework.SubmissionListOptions{})
		assert.IsType(t, &core.PermissionError{}, err)
	})
}

func TestService_ModifyAttachments(t *testing.T) {
	t.Run("owner replaces attachments", func(t *testing.T) {
		svc, crs, cw := submissionFixture(t, coursework.WorkTypeAssignment, false)
		_, err := svc.GetSubmission("s1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)

		sub, err := svc.ModifyAttachments("s1", crs.ID, cw.ID, "s1", coursework.ModifyAttachmentsRequest{
			AddAttachments: []coursework.Material{{Link: &coursework.Link{URL: "https://example.com/essay"}}},
		})
		require.NoError(t, err)
		require.NotNil(t, sub.AssignmentSubmission)
		require.Len(t, sub.AssignmentSubmission.Attachments, 1)
		assert.Equal(t, "https://example.com/essay", sub.AssignmentSubmission.Attachments[0].Link.URL)
	})

	t.Run("non-owner forbidden", func(t *testing.T) {
		svc, crs, cw := submissionFixture(t, coursework.WorkTypeAssignment, false)
		_, err := svc.GetSubmission("s1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)

		_, err = svc.ModifyAttachments("t1", crs.ID, cw.ID, "s1", coursework.ModifyAttachmentsRequest{
			AddAttachments: []coursework.Material{},
		})
		assert.IsType(t, &core.PermissionError{}, err)
	})

	t.Run("only for assignment work", func(t *testing.T) {
		svc, crs, cw := submissionFixture(t, coursework.WorkTypeShortAnswer, false)
		_, err := svc.GetSubmission("s1", crs.ID, cw.ID, "s1")
		require.NoError(t, err)

		_, err = svc.ModifyAttachments("s1", crs.ID, cw.ID, "s1", coursework.ModifyAttachmentsRequest{
			AddAttachments: []coursework.Material{},
		})
		assert.IsType(t, &core.ValidationError{}, err)
	})
}
