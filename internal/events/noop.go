package events

import "context"

// NoopPublisher discards all events. Used when the server runs without a
// broker configured; mutations still persist, clients just see no live feed.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, topic string, event any) error { return nil }

func (NoopPublisher) Close() error { return nil }
