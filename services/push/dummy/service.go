// Package dummypush records pushes in memory for tests; nothing leaves the
// process. Sends are synchronous so tests can assert on SentMessages
// immediately after the triggering call.
package dummypush

import "github.com/darasahq/darasa/core"

var SentMessages = make([]core.PushMessage, 0)

type service struct{}

var _ core.PushService = (*service)(nil)

func NewService() core.PushService {
	return &service{}
}

func (svc service) SendMessages(messages ...*core.PushMessage) {
	for _, msg := range messages {
		if msg.HasRecipients() && msg.HasContent() {
			SentMessages = append(SentMessages, *msg)
		}
	}
}

// ClearSentMessages resets the recorded messages between tests.
func ClearSentMessages() {
	SentMessages = SentMessages[:0]
}
