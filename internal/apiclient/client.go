// internal/apiclient/client.go

// Package apiclient is a JSON client for the storefront API. It attaches the
// saved admin credential to admin paths only, and turns non-2xx responses
// into *Error values.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spicepop/storefront/internal/models"
)

// Error is a non-2xx API response. Its message is "<status>: <body>".
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialStore
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithCredentials(store CredentialStore) Option {
	return func(c *Client) { c.creds = store }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		creds:   &MemoryCredentials{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Paths that always need the admin credential.
var adminPrefixes = []string{
	"/api/orders",
	"/api/blog/all",
	"/api/auth/check",
	"/api/settings/",
	"/api/uploads",
}

// Paths that need it for writes only.
var adminWritePrefixes = []string{
	"/api/products",
	"/api/categories",
	"/api/blog",
}

// needsAuth reports whether a request should carry the admin credential.
// Placing an order is public even though listing orders is not.
func needsAuth(method, path string) bool {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if method == http.MethodPost && path == "/api/orders" {
		return false
	}
	for _, prefix := range adminPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	if method == http.MethodGet || method == http.MethodHead {
		return false
	}
	for _, prefix := range adminWritePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Do sends body as JSON and decodes a 2xx response into out when out is
// non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if needsAuth(method, path) {
		header, err := c.creds.Load()
		if err != nil {
			return fmt.Errorf("loading credentials: %w", err)
		}
		if header != "" {
			req.Header.Set("Authorization", header)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := strings.TrimSpace(string(data))
		if text == "" {
			text = http.StatusText(resp.StatusCode)
		}
		return &Error{StatusCode: resp.StatusCode, Body: text}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

type LoginResponse struct {
	User       models.User `json:"user"`
	AuthHeader string      `json:"authHeader"`
	Token      string      `json:"token"`
	ExpiresIn  int64       `json:"expiresIn"`
}

// Login authenticates and saves the returned Basic header for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.Do(ctx, http.MethodPost, "/api/auth/login", models.LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	if err := c.creds.Save(resp.AuthHeader); err != nil {
		return nil, fmt.Errorf("saving credentials: %w", err)
	}
	return &resp, nil
}

// Logout tells the server and forgets the saved credential either way.
func (c *Client) Logout(ctx context.Context) error {
	err := c.Do(ctx, http.MethodGet, "/api/logout", nil, nil)
	if clearErr := c.creds.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := c.Do(ctx, http.MethodGet, "/api/products", nil, &products)
	return products, err
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := c.Do(ctx, http.MethodGet, "/api/categories", nil, &categories)
	return categories, err
}

func (c *Client) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	var product models.Product
	if err := c.Do(ctx, http.MethodPost, "/api/products", req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// PlaceOrder submits the cart contents as a new order.
func (c *Client) PlaceOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	var order models.Order
	if err := c.Do(ctx, http.MethodPost, "/api/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := c.Do(ctx, http.MethodGet, "/api/orders", nil, &orders)
	return orders, err
}
