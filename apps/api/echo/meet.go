package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa/core/meet"
)

type meetAPI struct {
	service *meet.Service
}

func registerMeetAPI(g *echo.Group, auth echo.MiddlewareFunc, svc *meet.Service) {
	api := meetAPI{service: svc}

	mg := g.Group("/courses/:courseId/meet", auth)
	mg.POST("", api.meetCreate)
	mg.GET("", api.meetList)
	mg.GET("/:id", api.meetRetrieve)
	mg.PATCH("/:id", api.meetUpdate)
	mg.DELETE("/:id", api.meetDestroy)
}

// Handlers

func (api *meetAPI) meetCreate(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}

	data := new(meet.NewMeet)
	if err = ctx.Bind(data); err != nil {
		return err
	}

	m, err := api.service.Create(ident.UserID, ctx.Param("courseId"), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, m)
}

func (api *meetAPI) meetList(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	pr, err := bindPageRequest(ctx)
	if err != nil {
		return err
	}

	page, err := api.service.List(ident.UserID, ctx.Param("courseId"), pr.Page, pr.PageSize)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"meets": page.Items, "nextPage": page.NextPage})
}

func (api *meetAPI) meetRetrieve(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	m, err := api.service.Get(ident.UserID, ctx.Param("courseId"), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *meetAPI) meetUpdate(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	mask, err := bindUpdateMask(ctx)
	if err != nil {
		return err
	}

	data := new(meet.UpdateMeet)
	if err = ctx.Bind(data); err != nil {
		return err
	}

	m, err := api.service.Patch(ident.UserID, ctx.Param("courseId"), ctx.Param("id"), mask, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *meetAPI) meetDestroy(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	if err = api.service.Delete(ident.UserID, ctx.Param("courseId"), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusAccepted)
}
