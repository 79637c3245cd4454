package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/groblegark/catalog/internal/model"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// All routes except GET /v1/health and POST /v1/auth/login require a valid
// Authorization: Bearer <token> header.
func (s *CatalogServer) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/login", s.handleLogin)
	mux.HandleFunc("GET /v1/products", s.handleListProducts)
	mux.HandleFunc("POST /v1/products", s.handleCreateProduct)
	mux.HandleFunc("GET /v1/products/{id}", s.handleGetProduct)
	mux.HandleFunc("PUT /v1/products/{id}", s.handleUpdateProduct)
	mux.HandleFunc("DELETE /v1/products/{id}", s.handleDeleteProduct)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return s.requestIDMiddleware(s.authMiddleware(mux))
}

// handleHealth handles GET /v1/health.
func (s *CatalogServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type sessionKey struct{}

// sessionFrom returns the authenticated session attached by authMiddleware.
func sessionFrom(ctx context.Context) *model.Session {
	sess, _ := ctx.Value(sessionKey{}).(*model.Session)
	return sess
}

// authMiddleware verifies the bearer token on every request and attaches the
// resulting session to the request context. GET /v1/health and
// POST /v1/auth/login are exempt.
func (s *CatalogServer) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/v1/health" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Method == http.MethodPost && r.URL.Path == "/v1/auth/login" {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}
		if !strings.HasPrefix(auth, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "invalid authorization scheme")
			return
		}

		sess, err := s.auth.Verify(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

// requireMutation rejects requests whose session role cannot mutate the
// catalog. Returns false after writing the error response.
func (s *CatalogServer) requireMutation(w http.ResponseWriter, r *http.Request) bool {
	sess := sessionFrom(r.Context())
	if sess == nil || !sess.Role.CanMutate() {
		writeError(w, http.StatusForbidden, "insufficient permissions")
		return false
	}
	return true
}

// requestIDMiddleware tags every request with a short ID and logs the method,
// path, status, and duration.
func (s *CatalogServer) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID, err := gonanoid.New(8)
		if err != nil {
			reqID = "unknown"
		}
		w.Header().Set("X-Request-Id", reqID)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Info("request completed",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// statusRecorder captures the response status code for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
