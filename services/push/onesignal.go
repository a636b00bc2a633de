// Package pushsvc delivers push notifications through the OneSignal HTTP API.
package pushsvc

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/darasahq/darasa/core"
)

const apiBaseURL = "https://onesignal.com/api/v1"

type service struct {
	client *resty.Client
	appID  string
	logger core.Logger
}

var _ core.PushService = (*service)(nil)

func NewService(conf *core.Config, logger core.Logger) core.PushService {
	client := resty.New().
		SetBaseURL(apiBaseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Authorization", "Basic "+conf.OneSignal.APIKey)
	return &service{
		client: client,
		appID:  conf.OneSignal.AppID,
		logger: logger,
	}
}

// notification is the OneSignal create-notification payload. Recipients are
// addressed by their external ids (our user ids).
type notification struct {
	AppID          string              `json:"app_id"`
	TargetChannel  string              `json:"target_channel"`
	IncludeAliases map[string][]string `json:"include_aliases"`
	Headings       map[string]string   `json:"headings"`
	Contents       map[string]string   `json:"contents"`
	IdempotencyKey string              `json:"idempotency_key"`
}

// SendMessages fans messages out concurrently. Gateway failures are logged,
// never returned: a push must not fail the mutation that triggered it.
func (svc *service) SendMessages(messages ...*core.PushMessage) {
	for _, msg := range messages {
		if msg.HasRecipients() && msg.HasContent() {
			go svc.send(*msg)
		}
	}
}

func (svc *service) send(msg core.PushMessage) {
	payload := notification{
		AppID:          svc.appID,
		TargetChannel:  "push",
		IncludeAliases: map[string][]string{"external_id": msg.Recipients},
		Headings:       map[string]string{"en": msg.Title},
		Contents:       map[string]string{"en": msg.Body},
		IdempotencyKey: uuid.NewString(),
	}

	resp, err := svc.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post("/notifications")
	if err != nil {
		svc.logger.Error(fmt.Sprintf("sending push notification: %v", err), err)
		return
	}
	if resp.IsError() {
		svc.logger.Error(
			fmt.Sprintf("push gateway returned %d", resp.StatusCode()),
			map[string]interface{}{"status": resp.StatusCode(), "body": resp.String()},
		)
	}
}
