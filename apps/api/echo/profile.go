package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/profile"
)

type profileAPI struct {
	service profile.Service
}

func registerProfileAPI(g *echo.Group, auth echo.MiddlewareFunc, svc profile.Service) {
	api := profileAPI{service: svc}

	ug := g.Group("/users", auth)
	ug.POST("", api.profileRegister)
	ug.GET("/:id", api.profileRetrieve)
}

type registerProfileRequest struct {
	GivenName    string `json:"givenName" validate:"required"`
	FamilyName   string `json:"familyName" validate:"required"`
	EmailAddress string `json:"emailAddress" validate:"omitempty,email"`
	PhotoURL     string `json:"photoUrl"`
}

func (r *registerProfileRequest) Validate() error {
	r.GivenName = core.CleanString(r.GivenName)
	r.FamilyName = core.CleanString(r.FamilyName)
	r.EmailAddress = core.CleanString(r.EmailAddress, true /* lower */)
	return core.Validate.Struct(r)
}

// Handlers

// profileRegister creates the directory record for the authenticated subject.
// The profile id is the subject id; the email defaults to the token's email.
func (api *profileAPI) profileRegister(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}

	data := new(registerProfileRequest)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if err = data.Validate(); err != nil {
		return err
	}

	email := data.EmailAddress
	if email == "" {
		email = ident.Email
	}

	p, err := api.service.Register(
		profile.NewUserProfile(ident.UserID, data.GivenName, data.FamilyName, email, data.PhotoURL))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *profileAPI) profileRetrieve(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	p, err := api.service.Get(resolveUserID(ident, ctx.Param("id")))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}
