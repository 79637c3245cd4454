package store

import (
	"context"
	"errors"

	"github.com/groblegark/catalog/internal/model"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for the catalog.
type Store interface {
	// Products. CreateProduct assigns the ID on the passed record.
	// DeactivateProduct is the delete operation: the row is kept but marked
	// inactive, matching the catalog's soft-delete semantics.
	CreateProduct(ctx context.Context, p *model.Product) error
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	ListProducts(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error)
	UpdateProduct(ctx context.Context, p *model.Product) error
	DeactivateProduct(ctx context.Context, id int64) error

	// Users
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// Lifecycle
	Close() error
}
