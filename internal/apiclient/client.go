// Package apiclient is the remote adapter the state facade talks through:
// a thin JSON/HTTP client for the SalePoint API with bearer-token auth.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-salepoint/internal/model"

	"github.com/google/uuid"
)

// ErrUnauthorized marks responses the session manager must read as
// "not authenticated".
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-success API response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Credentials is the payload of a successful login.
type Credentials struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken sets the bearer token sent on subsequent requests; empty clears it.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Login(ctx context.Context, email, password string) (*Credentials, error) {
	var creds Credentials
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (c *Client) GoogleLogin(ctx context.Context, idToken string) (*Credentials, error) {
	var creds Credentials
	body := map[string]string{"token": idToken}
	if err := c.do(ctx, http.MethodPost, "/auth/google-login", body, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/users/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, name, avatar string) (*model.User, error) {
	var env struct {
		Data model.User `json:"data"`
	}
	body := map[string]string{"name": name, "avatar": avatar}
	if err := c.do(ctx, http.MethodPut, "/users/profile", body, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	var env struct {
		Data model.Product `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/products", p, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	var env struct {
		Data model.Product `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, "/products/"+p.ID.String(), p, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/products/"+id.String(), nil, nil)
}

func (c *Client) ListSales(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	if err := c.do(ctx, http.MethodGet, "/sales", nil, &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// CreateSale posts the line items and returns the created sale along with
// any product ids the server could not resolve.
func (c *Client) CreateSale(ctx context.Context, items []model.SaleItem) (*model.Sale, []uuid.UUID, error) {
	var env struct {
		Data    model.Sale  `json:"data"`
		Skipped []uuid.UUID `json:"skipped_product_ids"`
	}
	body := map[string]interface{}{"items": items}
	if err := c.do(ctx, http.MethodPost, "/sales", body, &env); err != nil {
		return nil, nil, err
	}
	return &env.Data, env.Skipped, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		if payload.Error == "" {
			payload.Error = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: payload.Error}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
