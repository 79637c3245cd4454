// Package server implements the catalog HTTP API: authentication, product
// CRUD, and change event publication.
package server

import (
	"context"
	"log/slog"

	"github.com/groblegark/catalog/internal/events"
	"github.com/groblegark/catalog/internal/store"
)

// CatalogServer serves the catalog API backed by the given store and
// publishes product change events.
type CatalogServer struct {
	store     store.Store
	publisher events.Publisher
	auth      *Authenticator
	logger    *slog.Logger
}

// NewCatalogServer returns a new CatalogServer.
func NewCatalogServer(s store.Store, p events.Publisher, auth *Authenticator, logger *slog.Logger) *CatalogServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogServer{
		store:     s,
		publisher: p,
		auth:      auth,
		logger:    logger,
	}
}

// publishEvent publishes a product change event. Publication is best-effort;
// the mutation has already been persisted, so failures are logged and the
// request still succeeds.
func (s *CatalogServer) publishEvent(ctx context.Context, topic string, payload any) {
	if err := s.publisher.Publish(ctx, topic, payload); err != nil {
		s.logger.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

// inputError indicates invalid user input. The HTTP layer maps it to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
