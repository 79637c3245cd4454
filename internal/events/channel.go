package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/groblegark/catalog/internal/model"
)

// ChannelState is the connection lifecycle state of a Channel.
type ChannelState int32

const (
	StateDisconnected ChannelState = iota
	StateConnecting
	StateConnected
	StateReconnecting
)

// String returns the string representation of the channel state.
func (s ChannelState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	}
	return "unknown"
}

// Channel turns the three raw product topics into a single live stream of
// typed CatalogEvent values. It owns the broker connection lifecycle:
// Connect subscribes to each topic exactly once, transport disruptions are
// retried at a fixed interval with automatic re-subscription, and events
// published while disconnected are never replayed. There is one logical
// consumer per Channel.
//
// Malformed payloads are dropped with a diagnostic; a single bad message
// never breaks the stream.
type Channel struct {
	url           string
	logger        *slog.Logger
	reconnectWait time.Duration

	state atomic.Int32

	mu      sync.Mutex
	sub     *NATSSubscriber
	cancels []func()
	out     chan CatalogEvent
	done    chan struct{}
	wg      sync.WaitGroup

	reconnects chan struct{}
}

// ChannelOption customizes a Channel.
type ChannelOption func(*Channel)

// WithReconnectWait sets the fixed delay between reconnection attempts.
func WithReconnectWait(d time.Duration) ChannelOption {
	return func(c *Channel) { c.reconnectWait = d }
}

// NewChannel creates a disconnected Channel for the given broker URL.
func NewChannel(url string, logger *slog.Logger, opts ...ChannelOption) *Channel {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Channel{
		url:           url,
		logger:        logger,
		reconnectWait: time.Second,
		reconnects:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Channel) State() ChannelState {
	return ChannelState(c.state.Load())
}

// Connect establishes the broker connection and subscribes to the three
// product topics once each. Calling Connect on a connected channel is a no-op.
func (c *Channel) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.State() {
	case StateConnected, StateConnecting, StateReconnecting:
		return nil
	}
	c.state.Store(int32(StateConnecting))

	sub, err := NewNATSSubscriber(c.url,
		nats.ReconnectWait(c.reconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			// Only a live connection transitions to reconnecting; a
			// disconnect we initiated ourselves stays disconnected.
			if c.state.CompareAndSwap(int32(StateConnected), int32(StateReconnecting)) {
				c.logger.Warn("event channel disconnected", "err", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			c.state.Store(int32(StateConnected))
			c.logger.Info("event channel reconnected")
			select {
			case c.reconnects <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		c.state.Store(int32(StateDisconnected))
		return err
	}

	out := make(chan CatalogEvent, 64)
	done := make(chan struct{})
	var cancels []func()

	for _, topic := range Topics {
		ch, cancel, err := sub.Subscribe(topic)
		if err != nil {
			for _, fn := range cancels {
				fn()
			}
			sub.Close()
			c.state.Store(int32(StateDisconnected))
			return fmt.Errorf("subscribing to %s: %w", topic, err)
		}
		cancels = append(cancels, cancel)

		c.wg.Add(1)
		go c.forward(topic, ch, out, done)
	}

	c.sub = sub
	c.cancels = cancels
	c.out = out
	c.done = done
	c.state.Store(int32(StateConnected))
	return nil
}

// forward decodes raw payloads from one topic into the shared event stream.
func (c *Channel) forward(topic string, in <-chan []byte, out chan<- CatalogEvent, done <-chan struct{}) {
	defer c.wg.Done()
	for data := range in {
		ev, err := decodeEvent(topic, data)
		if err != nil {
			c.logger.Warn("dropping malformed event", "topic", topic, "err", err)
			continue
		}
		select {
		case out <- ev:
		case <-done:
			return
		}
	}
}

// decodeEvent performs the strict tagged-variant decode at the channel
// boundary: full product for created/updated, bare ID for deleted.
func decodeEvent(topic string, data []byte) (CatalogEvent, error) {
	switch topic {
	case TopicProductCreated, TopicProductUpdated:
		var p model.Product
		if err := json.Unmarshal(data, &p); err != nil {
			return CatalogEvent{}, fmt.Errorf("decoding product: %w", err)
		}
		if !p.Persisted() {
			return CatalogEvent{}, fmt.Errorf("product event without id")
		}
		typ := EventCreated
		if topic == TopicProductUpdated {
			typ = EventUpdated
		}
		return CatalogEvent{Type: typ, Product: &p, ProductID: p.ID}, nil
	case TopicProductDeleted:
		var id int64
		if err := json.Unmarshal(data, &id); err != nil {
			return CatalogEvent{}, fmt.Errorf("decoding product id: %w", err)
		}
		if id == 0 {
			return CatalogEvent{}, fmt.Errorf("deleted event without id")
		}
		return CatalogEvent{Type: EventDeleted, ProductID: id}, nil
	}
	return CatalogEvent{}, fmt.Errorf("unknown topic %s", topic)
}

// Events returns the live event stream for the current connection. The
// channel is closed by Disconnect; after a later Connect, Events returns a
// fresh stream. Returns nil if the channel has never been connected.
func (c *Channel) Events() <-chan CatalogEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out
}

// Reconnects signals each time the underlying transport reconnected after a
// disruption. Consumers use it to re-fetch a snapshot, since events published
// during the gap are not replayed.
func (c *Channel) Reconnects() <-chan struct{} {
	return c.reconnects
}

// Disconnect tears down all subscriptions and the broker connection and
// closes the event stream. Idempotent.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.State() == StateDisconnected {
		return
	}
	// Mark disconnected first so the NATS disconnect callback does not flip
	// the state to reconnecting.
	c.state.Store(int32(StateDisconnected))

	for _, fn := range c.cancels {
		fn()
	}
	c.cancels = nil
	close(c.done)
	c.sub.Close()
	c.sub = nil

	c.wg.Wait()
	close(c.out)
}
