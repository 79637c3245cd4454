// Package catalog holds the client-side reconciliation engine: the component
// that owns the authoritative in-memory product list and merges the initial
// snapshot with live mutation events into one consistent view.
package catalog

import (
	"sync"

	"github.com/groblegark/catalog/internal/events"
	"github.com/groblegark/catalog/internal/model"
)

// Reconciler owns the authoritative product list. It is populated once per
// session from a snapshot and from then on mutated only by applying live
// events. All apply operations are idempotent and order-tolerant, so the
// list converges to server truth under duplicate or out-of-order delivery.
//
// Reads never observe a partially-applied mutation: Products returns a copy
// taken under the read lock.
type Reconciler struct {
	mu       sync.RWMutex
	products []model.Product

	// changes carries a coalesced "the list changed" signal. Capacity 1:
	// a pending signal already covers any further changes.
	changes chan struct{}
}

// NewReconciler returns an empty reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{
		changes: make(chan struct{}, 1),
	}
}

// Initialize replaces the authoritative list wholesale with the snapshot.
// It is also called again after an event-channel reconnect, since events
// published during the gap are not replayed.
func (r *Reconciler) Initialize(snapshot []model.Product) {
	r.mu.Lock()
	r.products = make([]model.Product, len(snapshot))
	copy(r.products, snapshot)
	r.mu.Unlock()
	r.notify()
}

// Apply merges one live event into the list:
//
//   - created: prepend, unless the id already exists (replace in place) or
//     the product is inactive (accepted but not shown until activated).
//   - updated: replace in place, keeping position; an update for an id the
//     client never saw is treated as a create, so a missed created event
//     still converges.
//   - deleted: remove if present; absence is not an error.
//
// Applying the same event twice yields the same list as applying it once.
func (r *Reconciler) Apply(ev events.CatalogEvent) {
	r.mu.Lock()
	changed := r.apply(ev)
	r.mu.Unlock()
	if changed {
		r.notify()
	}
}

func (r *Reconciler) apply(ev events.CatalogEvent) bool {
	switch ev.Type {
	case events.EventCreated, events.EventUpdated:
		// An update for an unseen id is handled exactly like a create, so
		// the two variants share one merge rule.
		return r.upsert(ev.Product)
	case events.EventDeleted:
		return r.remove(ev.ProductID)
	}
	return false
}

// upsert replaces an existing entry in place or inserts a new one at the
// front. Inserts of inactive products are gated; replacements are not, so an
// existing row updated to inactive stays visible (rendered as unavailable).
func (r *Reconciler) upsert(p *model.Product) bool {
	if p == nil || !p.Persisted() {
		return false
	}
	for i := range r.products {
		if r.products[i].ID == p.ID {
			if r.products[i] == *p {
				return false
			}
			r.products[i] = *p
			return true
		}
	}
	if !p.Active {
		return false
	}
	r.products = append([]model.Product{*p}, r.products...)
	return true
}

func (r *Reconciler) remove(id int64) bool {
	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return true
		}
	}
	return false
}

// Products returns a consistent copy of the authoritative list.
func (r *Reconciler) Products() []model.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Product, len(r.products))
	copy(out, r.products)
	return out
}

// Len returns the number of visible products.
func (r *Reconciler) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}

// Changes signals whenever the visible list changed. Signals are coalesced;
// consumers re-read Products on each signal.
func (r *Reconciler) Changes() <-chan struct{} {
	return r.changes
}

func (r *Reconciler) notify() {
	select {
	case r.changes <- struct{}{}:
	default:
	}
}
