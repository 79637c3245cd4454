package model

import "time"

// Product is the core catalog record. IDs are assigned by the server on
// creation; an ID of 0 means the product has not been persisted yet and such
// a record must never appear in a catalog listing.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// Persisted reports whether the product has a server-assigned identity.
func (p *Product) Persisted() bool {
	return p.ID != 0
}

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	Search          string   // case-insensitive substring match on name
	MinPrice        *float64 // inclusive lower price bound
	MaxPrice        *float64 // inclusive upper price bound
	IncludeInactive bool     // include products marked inactive
	Limit           int      // 0 = no limit
}
