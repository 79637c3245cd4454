// Package events carries catalog mutations between the server and live
// clients. The server publishes the full post-mutation product on the created
// and updated topics, and the bare product ID on the deleted topic. Consumers
// use Channel to turn the three raw topic streams into one ordered stream of
// typed CatalogEvent values.
package events

import (
	"context"

	"github.com/groblegark/catalog/internal/model"
)

// Event topic constants
const (
	TopicProductCreated = "catalog.product.created"
	TopicProductUpdated = "catalog.product.updated"
	TopicProductDeleted = "catalog.product.deleted"
)

// Topics lists the three product topics a live client subscribes to.
var Topics = []string{TopicProductCreated, TopicProductUpdated, TopicProductDeleted}

// EventType discriminates the CatalogEvent variants.
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// CatalogEvent is a decoded live mutation. Product is set for created and
// updated events; ProductID is set for all three. The transport attaches no
// sequence numbers or timestamps: ordering is per-topic delivery order only.
type CatalogEvent struct {
	Type      EventType
	Product   *model.Product // nil for deleted
	ProductID int64
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
