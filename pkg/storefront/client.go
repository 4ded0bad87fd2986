package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/pkg/types"
)

const (
	userIDHeader      = "x-user-id"
	idempotencyHeader = "Idempotency-Key"
	defaultTimeout    = 10 * time.Second
)

// APIError is a non-2xx answer from the storefront API.
type APIError struct {
	Status  int
	Message string
	Code    string
	Issues  []types.Issue
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront api: %d %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// CreateProductRequest is the body of POST /api/products.
type CreateProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	PriceSale   *decimal.Decimal `json:"priceSale,omitempty"`
	ImageURL    *string          `json:"imageUrl,omitempty"`
}

// Client talks to the storefront REST API on behalf of a single user.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	userID  string
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserID sets the x-user-id header. Without it the server treats the
// caller as the shared guest.
func WithUserID(userID string) ClientOption {
	return func(c *Client) { c.userID = strings.TrimSpace(userID) }
}

func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	c := &Client{baseURL: parsed, http: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]types.Product, error) {
	var out []types.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*types.Product, error) {
	var out types.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct posts a product. A non-empty idempotencyKey makes retries safe.
func (c *Client) CreateProduct(ctx context.Context, req CreateProductRequest, idempotencyKey string) (*types.Product, error) {
	var out types.Product
	if err := c.do(ctx, http.MethodPost, "/api/products", req, idempotencyKey, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCart(ctx context.Context) (*types.Cart, error) {
	return c.cartCall(ctx, http.MethodGet, "/api/cart", nil, "")
}

func (c *Client) AddToCart(ctx context.Context, productID string, quantity int, idempotencyKey string) (*types.Cart, error) {
	body := map[string]any{"productId": productID, "quantity": quantity}
	return c.cartCall(ctx, http.MethodPost, "/api/cart/add", body, idempotencyKey)
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID string, quantity int) (*types.Cart, error) {
	body := map[string]any{"itemId": itemID, "quantity": quantity}
	return c.cartCall(ctx, http.MethodPut, "/api/cart/update", body, "")
}

func (c *Client) RemoveFromCart(ctx context.Context, itemID string) (*types.Cart, error) {
	return c.cartCall(ctx, http.MethodDelete, "/api/cart/item/"+url.PathEscape(itemID), nil, "")
}

func (c *Client) ClearCart(ctx context.Context) (*types.Cart, error) {
	return c.cartCall(ctx, http.MethodDelete, "/api/cart/clear", nil, "")
}

func (c *Client) cartCall(ctx context.Context, method, path string, body any, idempotencyKey string) (*types.Cart, error) {
	var out types.Cart
	if err := c.do(ctx, method, path, body, idempotencyKey, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []types.CartLine{}
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, idempotencyKey string, dest any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set(userIDHeader, c.userID)
	}
	if idempotencyKey != "" {
		req.Header.Set(idempotencyHeader, idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body types.ErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
		apiErr.Code = body.Code
		apiErr.Issues = body.Issues
	}
	return apiErr
}
