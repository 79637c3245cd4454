package postgres

import (
	"database/sql"
	"errors"

	"github.com/groblegark/catalog/internal/model"
	"github.com/groblegark/catalog/internal/store"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanProduct scans a single row into a model.Product.
// The row must contain columns in the order defined by productColumns.
func scanProduct(row scannable) (*model.Product, error) {
	var p model.Product
	var description sql.NullString

	err := row.Scan(
		&p.ID,
		&p.Name,
		&description,
		&p.Price,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p.Description = description.String
	return &p, nil
}
