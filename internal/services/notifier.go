package services

// Notifier delivers outbound messages to sellers about their boost
// requests. Delivery is best-effort; callers log failures and move on.
type Notifier interface {
	Notify(to string, subject string, body string) error
}

// NoopNotifier drops every message. Used when notifications are disabled
// and in tests.
type NoopNotifier struct{}

func (NoopNotifier) Notify(to string, subject string, body string) error { return nil }
