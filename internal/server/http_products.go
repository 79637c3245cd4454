package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/groblegark/catalog/internal/events"
	"github.com/groblegark/catalog/internal/model"
	"github.com/groblegark/catalog/internal/store"
)

// productInput is the request body for create and update.
type productInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Active      bool    `json:"active"`
}

// handleListProducts handles GET /v1/products.
func (s *CatalogServer) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ProductFilter{
		Search:          q.Get("search"),
		IncludeInactive: q.Get("include_inactive") == "true",
	}
	if v := q.Get("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &f
		}
	}
	if v := q.Get("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &f
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}

	products, err := s.store.ListProducts(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	// Ensure products is never null in JSON output.
	if products == nil {
		products = []*model.Product{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

// handleGetProduct handles GET /v1/products/{id}.
func (s *CatalogServer) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, err := s.store.GetProduct(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// handleCreateProduct handles POST /v1/products.
func (s *CatalogServer) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	if !s.requireMutation(w, r) {
		return
	}

	var in productInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p := &model.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Active:      in.Active,
	}
	if err := model.ValidateProduct(p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateProduct(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	s.publishEvent(r.Context(), events.TopicProductCreated, p)

	writeJSON(w, http.StatusCreated, p)
}

// handleUpdateProduct handles PUT /v1/products/{id}.
func (s *CatalogServer) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	if !s.requireMutation(w, r) {
		return
	}

	id, ok := productID(w, r)
	if !ok {
		return
	}

	var in productInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p := &model.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Active:      in.Active,
	}
	if err := model.ValidateProduct(p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdateProduct(r.Context(), p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	s.publishEvent(r.Context(), events.TopicProductUpdated, p)

	writeJSON(w, http.StatusOK, p)
}

// handleDeleteProduct handles DELETE /v1/products/{id}. The product row is
// kept but marked inactive, and the deleted event carries only the ID.
func (s *CatalogServer) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if !s.requireMutation(w, r) {
		return
	}

	id, ok := productID(w, r)
	if !ok {
		return
	}

	if err := s.store.DeactivateProduct(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	s.publishEvent(r.Context(), events.TopicProductDeleted, id)

	w.WriteHeader(http.StatusNoContent)
}

// productID parses the {id} path segment. Returns false after writing the
// error response.
func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return id, true
}
