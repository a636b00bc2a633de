package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/coursework"
)

type courseWorkAPI struct {
	service *coursework.Service
}

func registerCourseWorkAPI(g *echo.Group, auth echo.MiddlewareFunc, svc *coursework.Service) {
	api := courseWorkAPI{service: svc}

	wg := g.Group("/courses/:courseId/courseWork", auth)
	wg.POST("", api.courseWorkCreate)
	wg.GET("", api.courseWorkList)
	wg.GET("/:id", api.courseWorkRetrieve)
	wg.PATCH("/:id", api.courseWorkUpdate)
	wg.DELETE("/:id", api.courseWorkDestroy)
}

func toCourseWorkState(s string) (coursework.State, error) {
	st := coursework.State(s)
	if !st.IsValid() {
		return "", core.NewValidationError(errors.Errorf("invalid courseWorkState: %q", s))
	}
	return st, nil
}

// Handlers

func (api *courseWorkAPI) courseWorkCreate(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}

	data := new(coursework.NewCourseWork)
	if err = ctx.Bind(data); err != nil {
		return err
	}

	cw, err := api.service.Create(ident.UserID, ctx.Param("courseId"), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, cw)
}

func (api *courseWorkAPI) courseWorkList(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	pr, err := bindPageRequest(ctx)
	if err != nil {
		return err
	}
	states, err := bindStates(ctx, "courseWorkStates", toCourseWorkState)
	if err != nil {
		return err
	}

	page, err := api.service.List(ident.UserID, ctx.Param("courseId"), coursework.ListOptions{
		States:   states,
		OrderBy:  ctx.QueryParam("orderBy"),
		Page:     pr.Page,
		PageSize: pr.PageSize,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"courseWork": page.Items, "nextPage": page.NextPage})
}

func (api *courseWorkAPI) courseWorkRetrieve(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	cw, err := api.service.Get(ident.UserID, ctx.Param("courseId"), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cw)
}

func (api *courseWorkAPI) courseWorkUpdate(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	mask, err := bindUpdateMask(ctx)
	if err != nil {
		return err
	}

	data := new(coursework.UpdateCourseWork)
	if err = ctx.Bind(data); err != nil {
		return err
	}

	cw, err := api.service.Patch(ident.UserID, ctx.Param("courseId"), ctx.Param("id"), mask, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cw)
}

func (api *courseWorkAPI) courseWorkDestroy(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	if err = api.service.Delete(ident.UserID, ctx.Param("courseId"), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusAccepted)
}
