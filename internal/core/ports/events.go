package ports

import "context"

type Event interface {
	Type() string
}

type EventDispatcher interface {
	Dispatch(ctx context.Context, event Event) error
}
