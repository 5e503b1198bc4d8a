// Package client talks to the QuickKart REST API. The bearer token is always
// passed explicitly; nothing is cached between calls.
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
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/quickkart/internal/models"
	"github.com/Skotchmaster/quickkart/internal/transport"
)

var ErrNoToken = errors.New("client: bearer token required")

// APIError carries the status and message of a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// WithHTTPClient swaps the underlying transport, mostly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	cp := *c
	cp.httpClient = hc
	return &cp
}

func (c *Client) Register(ctx context.Context, username, password string) (*transport.RegisterResponse, error) {
	var out transport.RegisterResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", "", transport.CredentialsRequest{Username: username, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*transport.LoginResponse, error) {
	var out transport.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", "", transport.CredentialsRequest{Username: username, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, name string, price float64, imageURL string) (*models.Product, error) {
	var out models.Product
	req := transport.CreateProductRequest{Name: name, Price: &price, ImageURL: imageURL}
	if err := c.do(ctx, http.MethodPost, "/api/products", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Cart(ctx context.Context, token string) ([]models.CartItem, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var out []models.CartItem
	if err := c.do(ctx, http.MethodGet, "/api/cart", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddToCart(ctx context.Context, token string, productID uuid.UUID) (*models.CartItem, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var out models.CartItem
	req := transport.AddToCartRequest{ProductID: productID.String()}
	if err := c.do(ctx, http.MethodPost, "/api/cart", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveFromCart(ctx context.Context, token string, productID uuid.UUID) (*transport.DeleteOneFromCartResponse, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var out transport.DeleteOneFromCartResponse
	path := "/api/cart/" + url.PathEscape(productID.String())
	if err := c.do(ctx, http.MethodDelete, path, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var er transport.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Message != "" {
			apiErr.Message = er.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
