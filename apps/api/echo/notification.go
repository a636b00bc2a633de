package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa/core"
)

type notificationAPI struct {
	push core.PushService
}

func registerNotificationAPI(g *echo.Group, auth echo.MiddlewareFunc, push core.PushService) {
	api := notificationAPI{push: push}

	ng := g.Group("/notifications", auth)
	ng.POST("", api.notificationSend)
}

type sendNotificationRequest struct {
	Title        string   `json:"title" validate:"required"`
	Body         string   `json:"body" validate:"required"`
	RecipientIDs []string `json:"recipientIds" validate:"required,min=1"`
}

func (r *sendNotificationRequest) Validate() error {
	r.Title = core.CleanString(r.Title)
	r.Body = core.CleanString(r.Body)
	return core.Validate.Struct(r)
}

// notificationSend queues a direct push. Delivery is best effort; the
// request is accepted once the message is handed to the gateway client.
func (api *notificationAPI) notificationSend(ctx echo.Context) error {
	if _, err := contextIdentity(ctx); err != nil {
		return err
	}

	data := new(sendNotificationRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	api.push.SendMessages(&core.PushMessage{
		Title:      data.Title,
		Body:       data.Body,
		Recipients: data.RecipientIDs,
	})
	return ctx.NoContent(http.StatusAccepted)
}
