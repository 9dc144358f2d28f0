package queue

import "context"

// Publisher emits account lifecycle events to the message broker. A Noop
// implementation stands in when no broker is configured.
type Publisher interface {
	Publish(ctx context.Context, exchange, key string, event any, reqID string) error
	Close() error
}

type NoopPub struct{}

func NewNoop() Publisher { return NoopPub{} }

func (NoopPub) Publish(ctx context.Context, exchange, key string, event any, reqID string) error {
	return nil
}
func (NoopPub) Close() error { return nil }

// Events published on the account.events topic exchange.

type AccountRegistered struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type AccountVerified struct {
	Email string `json:"email"`
}

type AccountLoggedIn struct {
	Email    string `json:"email"`
	Provider string `json:"provider"`
}
