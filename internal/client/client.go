// Package client provides a transport-agnostic interface for the catalog
// service and an HTTP/JSON implementation that talks to its REST API.
package client

import (
	"context"

	"github.com/groblegark/catalog/internal/model"
)

// CatalogClient is the interface the CLI commands use to talk to the catalog
// server. A successful mutation does not mean the visible list has updated:
// the list only changes when the corresponding live event arrives over the
// event channel.
type CatalogClient interface {
	// Login exchanges credentials for a bearer token and identity fields.
	Login(ctx context.Context, email, password string) (*model.Session, error)

	// FetchSnapshot returns the full product list in server order
	// (newest first).
	FetchSnapshot(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// Mutations. The returned product is the canonical server-side record.
	CreateProduct(ctx context.Context, draft *ProductDraft) (*model.Product, error)
	UpdateProduct(ctx context.Context, id int64, draft *ProductDraft) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// ProductDraft holds the client-editable product fields, i.e. a Product sans
// server-assigned identity.
type ProductDraft struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Active      bool    `json:"active"`
}

// Validate checks the draft against the product constraints before any
// transport call is made.
func (d *ProductDraft) Validate() error {
	return model.ValidateProduct(&model.Product{
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Active:      d.Active,
	})
}
