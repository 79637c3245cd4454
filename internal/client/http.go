package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/groblegark/catalog/internal/model"
)

// Transport error taxonomy. ErrUnauthorized means the credential was
// rejected; callers clear the session store and require re-authentication
// rather than retrying. ErrUnreachable means the request never completed.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnreachable  = errors.New("server unreachable")
)

// APIError represents a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps a 401 onto the ErrUnauthorized sentinel so callers can use
// errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// HTTPClient implements CatalogClient using the catalog HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a client targeting the given base URL
// (e.g. "http://localhost:8081"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*model.Session, error) {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Token string     `json:"token"`
		Email string     `json:"email"`
		Name  string     `json:"name"`
		Role  model.Role `json:"role"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &model.Session{Token: resp.Token, Email: resp.Email, Name: resp.Name, Role: resp.Role}, nil
}

func (c *HTTPClient) FetchSnapshot(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.MinPrice != nil {
		q.Set("min_price", strconv.FormatFloat(*filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice != nil {
		q.Set("max_price", strconv.FormatFloat(*filter.MaxPrice, 'f', -1, 64))
	}
	if filter.IncludeInactive {
		q.Set("include_inactive", "true")
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}

	path := "/v1/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp struct {
		Products []model.Product `json:"products"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func (c *HTTPClient) CreateProduct(ctx context.Context, draft *ProductDraft) (*model.Product, error) {
	var p model.Product
	if err := c.doJSON(ctx, http.MethodPost, "/v1/products", draft, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) UpdateProduct(ctx context.Context, id int64, draft *ProductDraft) (*model.Product, error) {
	var p model.Product
	if err := c.doJSON(ctx, http.MethodPut, "/v1/products/"+strconv.FormatInt(id, 10), draft, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) DeleteProduct(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/products/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// doJSON performs an HTTP request with optional JSON body and decodes the
// JSON response. If result is nil, the response body is discarded (for
// DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
