package pkg

import "context"

// HandlerFunc processes a raw event payload received from a topic.
type HandlerFunc func(ctx context.Context, msg []byte) error

// Publisher pushes raw event payloads to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg []byte) error
}

// Subscriber delivers raw event payloads from a topic to a handler.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler HandlerFunc) error
}
