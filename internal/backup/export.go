package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/groblegark/catalog/internal/model"
	"github.com/groblegark/catalog/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version      string    `json:"version"`
	Type         string    `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	ProductCount int       `json:"product_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes every product from the store as JSONL to w. Inactive
// products are included so a restore loses nothing. Products are sorted by ID.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	products, err := s.ListProducts(ctx, model.ProductFilter{IncludeInactive: true})
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:      "1",
		Type:         "header",
		Timestamp:    time.Now().UTC(),
		ProductCount: len(products),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, p := range products {
		if err := enc.Encode(record{Type: "product", Data: p}); err != nil {
			return fmt.Errorf("encode product %d: %w", p.ID, err)
		}
	}

	return nil
}
