package core

// PushMessage is a push notification addressed to a set of users by their
// external ids. Delivery is best effort: senders must never propagate a
// gateway failure back to the mutation that triggered the notification.
type PushMessage struct {
	Title      string
	Body       string
	Recipients []string
}

func (m *PushMessage) HasRecipients() bool { return len(m.Recipients) > 0 }
func (m *PushMessage) HasContent() bool    { return m.Title != "" || m.Body != "" }

// PushService is any service that can fan notifications out to users.
type PushService interface {
	// SendMessages sends messages concurrently; failures are logged, not returned.
	SendMessages(messages ...*PushMessage)
}
