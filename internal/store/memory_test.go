package store

import (
	"context"
	"errors"
	"testing"

	"github.com/groblegark/catalog/internal/model"
)

func TestMemoryStore_CreateAssignsIDs(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	a := &model.Product{Name: "Mug", Price: 9.90, Active: true}
	b := &model.Product{Name: "Kettle", Price: 35, Active: true}
	if err := s.CreateProduct(ctx, a); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if err := s.CreateProduct(ctx, b); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if a.ID == 0 || b.ID == 0 || a.ID == b.ID {
		t.Fatalf("ids = %d, %d, want distinct non-zero", a.ID, b.ID)
	}
}

func TestMemoryStore_ListFilters(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, p := range []model.Product{
		{Name: "Mug", Price: 9.90, Active: true},
		{Name: "Kettle", Price: 35, Active: true},
		{Name: "Old Kettle", Price: 12, Active: false},
	} {
		cp := p
		if err := s.CreateProduct(ctx, &cp); err != nil {
			t.Fatalf("CreateProduct() error = %v", err)
		}
	}

	// Default listing excludes inactive and orders newest first.
	got, err := s.ListProducts(ctx, model.ProductFilter{})
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(got) != 2 || got[0].Name != "Kettle" || got[1].Name != "Mug" {
		t.Fatalf("ListProducts() = %v", got)
	}

	// Search is case-insensitive and include_inactive widens the set.
	got, err = s.ListProducts(ctx, model.ProductFilter{Search: "kettle", IncludeInactive: true})
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("search results = %v, want 2 kettles", got)
	}

	// Price bounds.
	min, max := 10.0, 40.0
	got, err = s.ListProducts(ctx, model.ProductFilter{MinPrice: &min, MaxPrice: &max})
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "Kettle" {
		t.Fatalf("price filtered = %v, want only Kettle", got)
	}
}

func TestMemoryStore_DeactivateKeepsRow(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	p := &model.Product{Name: "Mug", Price: 9.90, Active: true}
	if err := s.CreateProduct(ctx, p); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	if err := s.DeactivateProduct(ctx, p.ID); err != nil {
		t.Fatalf("DeactivateProduct() error = %v", err)
	}

	got, err := s.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProduct() after deactivate error = %v", err)
	}
	if got.Active {
		t.Error("product still active after deactivation")
	}

	if err := s.DeactivateProduct(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeactivateProduct(999) = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_Users(t *testing.T) {
	s := NewMemoryStore()
	s.SeedUser(model.User{ID: 1, Email: "admin@example.com", Name: "Admin", Role: model.RoleAdmin})

	u, err := s.GetUserByEmail(context.Background(), "admin@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if u.Role != model.RoleAdmin {
		t.Errorf("role = %v, want admin", u.Role)
	}

	if _, err := s.GetUserByEmail(context.Background(), "ghost@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user error = %v, want ErrNotFound", err)
	}
}
