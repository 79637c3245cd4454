package catalog

import (
	"reflect"
	"testing"

	"github.com/groblegark/catalog/internal/events"
	"github.com/groblegark/catalog/internal/model"
)

func product(id int64, name string, price float64, active bool) model.Product {
	return model.Product{ID: id, Name: name, Price: price, Active: active}
}

func created(p model.Product) events.CatalogEvent {
	return events.CatalogEvent{Type: events.EventCreated, Product: &p, ProductID: p.ID}
}

func updated(p model.Product) events.CatalogEvent {
	return events.CatalogEvent{Type: events.EventUpdated, Product: &p, ProductID: p.ID}
}

func deleted(id int64) events.CatalogEvent {
	return events.CatalogEvent{Type: events.EventDeleted, ProductID: id}
}

func ids(products []model.Product) []int64 {
	out := make([]int64, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestReconciler_InitializeThenCreate(t *testing.T) {
	r := NewReconciler()
	r.Initialize(nil)

	r.Apply(created(product(1, "Mug", 9.90, true)))

	got := r.Products()
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("Products() = %v, want [id:1]", got)
	}
}

func TestReconciler_CreatePrependsNewest(t *testing.T) {
	r := NewReconciler()
	r.Initialize([]model.Product{product(1, "Mug", 9.90, true)})

	r.Apply(created(product(2, "Kettle", 35, true)))

	if got, want := ids(r.Products()), []int64{2, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
}

func TestReconciler_IdempotentApply(t *testing.T) {
	base := []model.Product{product(1, "Mug", 9.90, true), product(2, "Kettle", 35, true)}
	evs := []events.CatalogEvent{
		created(product(3, "Pan", 20, true)),
		created(product(3, "Pan", 20, false)),
		updated(product(1, "Mug", 12.50, true)),
		deleted(2),
		deleted(99),
	}

	for _, ev := range evs {
		r := NewReconciler()
		r.Initialize(base)
		r.Apply(ev)
		once := r.Products()
		r.Apply(ev)
		twice := r.Products()

		if !reflect.DeepEqual(once, twice) {
			t.Errorf("apply(%v) not idempotent:\nonce:  %v\ntwice: %v", ev.Type, once, twice)
		}
	}
}

func TestReconciler_Convergence(t *testing.T) {
	// Created, Updated, Deleted for the same id leaves no entry, whatever
	// the list held beforehand.
	starts := [][]model.Product{
		nil,
		{product(5, "Pan", 20, true)},
		{product(1, "Mug", 9.90, true), product(5, "Pan", 20, true)},
	}
	for _, start := range starts {
		r := NewReconciler()
		r.Initialize(start)

		r.Apply(created(product(5, "Pan", 20, true)))
		r.Apply(updated(product(5, "Pan", 25, true)))
		r.Apply(deleted(5))

		for _, p := range r.Products() {
			if p.ID == 5 {
				t.Fatalf("id 5 still present after create/update/delete: %v", r.Products())
			}
		}
	}
}

func TestReconciler_UpdateBeforeCreate(t *testing.T) {
	// An update for an id the client never saw still surfaces the product.
	r := NewReconciler()
	r.Initialize([]model.Product{product(1, "Mug", 9.90, true)})

	r.Apply(updated(product(4, "Grinder", 89, true)))

	if got, want := ids(r.Products()), []int64{4, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
}

func TestReconciler_ActiveGating(t *testing.T) {
	r := NewReconciler()
	r.Initialize(nil)

	r.Apply(created(product(6, "Scale", 15, false)))
	if r.Len() != 0 {
		t.Fatalf("inactive create inserted a visible row: %v", r.Products())
	}

	// Activation via a later update must surface it.
	r.Apply(updated(product(6, "Scale", 15, true)))
	got := r.Products()
	if len(got) != 1 || got[0].ID != 6 || !got[0].Active {
		t.Fatalf("Products() = %v, want active id 6", got)
	}
}

func TestReconciler_UpdateKeepsPosition(t *testing.T) {
	r := NewReconciler()
	r.Initialize([]model.Product{
		product(1, "Mug", 9.90, true),
		product(2, "Kettle", 35, true),
		product(3, "Pan", 20, true),
	})

	r.Apply(updated(product(2, "Kettle", 29.99, true)))

	got := r.Products()
	if want := []int64{1, 2, 3}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
	if got[1].Price != 29.99 {
		t.Errorf("price = %v, want 29.99", got[1].Price)
	}
}

func TestReconciler_DeleteAbsentIsNoop(t *testing.T) {
	r := NewReconciler()
	start := []model.Product{product(1, "Mug", 9.90, true), product(2, "Kettle", 35, true)}
	r.Initialize(start)

	r.Apply(deleted(3))

	if got := r.Products(); !reflect.DeepEqual(got, start) {
		t.Fatalf("Products() = %v, want unchanged %v", got, start)
	}
}

func TestReconciler_DuplicateCreateReplacesInPlace(t *testing.T) {
	r := NewReconciler()
	r.Initialize([]model.Product{product(1, "Mug", 9.90, true), product(2, "Kettle", 35, true)})

	// Duplicate delivery with fresher attributes replaces, never duplicates.
	r.Apply(created(product(2, "Kettle Pro", 42, true)))

	got := r.Products()
	if want := []int64{1, 2}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
	if got[1].Name != "Kettle Pro" {
		t.Errorf("name = %q, want %q", got[1].Name, "Kettle Pro")
	}
}

func TestReconciler_ChangeSignal(t *testing.T) {
	r := NewReconciler()
	r.Initialize(nil)
	drain(r)

	r.Apply(created(product(1, "Mug", 9.90, true)))
	select {
	case <-r.Changes():
	default:
		t.Fatal("expected a change signal after a visible mutation")
	}

	// A no-op apply must not signal.
	r.Apply(deleted(99))
	select {
	case <-r.Changes():
		t.Fatal("unexpected change signal for a no-op apply")
	default:
	}
}

func drain(r *Reconciler) {
	select {
	case <-r.Changes():
	default:
	}
}

func TestReconciler_ProductsIsACopy(t *testing.T) {
	r := NewReconciler()
	r.Initialize([]model.Product{product(1, "Mug", 9.90, true)})

	snap := r.Products()
	snap[0].Name = "mutated"

	if got := r.Products()[0].Name; got != "Mug" {
		t.Fatalf("reconciler state mutated through a read: %q", got)
	}
}
