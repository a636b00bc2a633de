package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/announcement"
)

type announcementAPI struct {
	service *announcement.Service
}

func registerAnnouncementAPI(g *echo.Group, auth echo.MiddlewareFunc, svc *announcement.Service) {
	api := announcementAPI{service: svc}

	ag := g.Group("/courses/:courseId/announcements", auth)
	ag.POST("", api.announcementCreate)
	ag.GET("", api.announcementList)
	ag.GET("/:id", api.announcementRetrieve)
	ag.PATCH("/:id", api.announcementUpdate)
	ag.DELETE("/:id", api.announcementDestroy)
}

func toAnnouncementState(s string) (announcement.State, error) {
	st := announcement.State(s)
	if !st.IsValid() {
		return "", core.NewValidationError(errors.Errorf("invalid announcementState: %q", s))
	}
	return st, nil
}

// Handlers

func (api *announcementAPI) announcementCreate(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}

	data := new(announcement.NewAnnouncement)
	if err = ctx.Bind(data); err != nil {
		return err
	}

	ann, err := api.service.Create(ident.UserID, ctx.Param("courseId"), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, ann)
}

func (api *announcementAPI) announcementList(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	pr, err := bindPageRequest(ctx)
	if err != nil {
		return err
	}
	states, err := bindStates(ctx, "announcementStates", toAnnouncementState)
	if err != nil {
		return err
	}

	page, err := api.service.List(ident.UserID, ctx.Param("courseId"), announcement.ListOptions{
		States:   states,
		OrderBy:  ctx.QueryParam("orderBy"),
		Page:     pr.Page,
		PageSize: pr.PageSize,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"announcements": page.Items, "nextPage": page.NextPage})
}

func (api *announcementAPI) announcementRetrieve(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	ann, err := api.service.Get(ident.UserID, ctx.Param("courseId"), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ann)
}

func (api *announcementAPI) announcementUpdate(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	mask, err := bindUpdateMask(ctx)
	if err != nil {
		return err
	}

	data := new(announcement.UpdateAnnouncement)
	if err = ctx.Bind(data); err != nil {
		return err
	}

	ann, err := api.service.Patch(ident.UserID, ctx.Param("courseId"), ctx.Param("id"), mask, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ann)
}

func (api *announcementAPI) announcementDestroy(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	if err = api.service.Delete(ident.UserID, ctx.Param("courseId"), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusAccepted)
}
