package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/coursework"
)

type submissionAPI struct {
	service *coursework.Service
}

func registerSubmissionAPI(g *echo.Group, auth echo.MiddlewareFunc, svc *coursework.Service) {
	api := submissionAPI{service: svc}

	sg := g.Group("/courses/:courseId/courseWork/:courseWorkId/studentSubmissions", auth)
	sg.GET("", api.submissionList)
	sg.GET("/:id", api.submissionRetrieve)
	sg.PATCH("/:id", api.submissionUpdate)
	// colon-suffixed action verbs ride in the id path segment
	sg.POST("/:idAction", api.submissionAction)
}

func toSubmissionState(s string) (coursework.SubmissionState, error) {
	st := coursework.SubmissionState(s)
	if !st.IsValid() {
		return "", core.NewValidationError(errors.Errorf("invalid submission state: %q", s))
	}
	return st, nil
}

// Handlers

func (api *submissionAPI) submissionList(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	pr, err := bindPageRequest(ctx)
	if err != nil {
		return err
	}
	states, err := bindStates(ctx, "states", toSubmissionState)
	if err != nil {
		return err
	}

	page, err := api.service.ListSubmissions(
		ident.UserID, ctx.Param("courseId"), ctx.Param("courseWorkId"),
		coursework.SubmissionListOptions{
			States:   states,
			UserID:   resolveUserID(ident, ctx.QueryParam("userId")),
			Late:     coursework.LateFilter(ctx.QueryParam("late")),
			Page:     pr.Page,
			PageSize: pr.PageSize,
		},
	)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"studentSubmissions": page.Items, "nextPage": page.NextPage})
}

func (api *submissionAPI) submissionRetrieve(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	sub, err := api.service.GetSubmission(
		ident.UserID, ctx.Param("courseId"), ctx.Param("courseWorkId"),
		resolveUserID(ident, ctx.Param("id")))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *submissionAPI) submissionUpdate(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	mask, err := bindUpdateMask(ctx)
	if err != nil {
		return err
	}

	data := new(coursework.UpdateSubmission)
	if err = ctx.Bind(data); err != nil {
		return err
	}

	sub, err := api.service.PatchSubmission(
		ident.UserID, ctx.Param("courseId"), ctx.Param("courseWorkId"),
		resolveUserID(ident, ctx.Param("id")), mask, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sub)
}

// submissionAction dispatches POST …/{id}:turnIn, :return, :reclaim and
// :modifyAttachments. The verb shares the final path segment with the id.
func (api *submissionAPI) submissionAction(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}

	idAction := ctx.Param("idAction")
	sep := strings.LastIndex(idAction, ":")
	if sep < 0 {
		return echo.ErrNotFound
	}
	id := resolveUserID(ident, idAction[:sep])
	action := idAction[sep+1:]

	courseID := ctx.Param("courseId")
	courseWorkID := ctx.Param("courseWorkId")

	var sub coursework.StudentSubmission
	switch action {
	case "turnIn":
		sub, err = api.service.TurnIn(ident.UserID, courseID, courseWorkID, id)
	case "return":
		sub, err = api.service.Return(ident.UserID, courseID, courseWorkID, id)
	case "reclaim":
		sub, err = api.service.Reclaim(ident.UserID, courseID, courseWorkID, id)
	case "modifyAttachments":
		data := new(coursework.ModifyAttachmentsRequest)
		if err = ctx.Bind(data); err != nil {
			return err
		}
		sub, err = api.service.ModifyAttachments(ident.UserID, courseID, courseWorkID, id, *data)
	default:
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sub)
}
