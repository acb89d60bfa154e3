package cartclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"food-order/models"
)

// API is the authenticated cart surface the mirror synchronizes against.
type API interface {
	List(ctx context.Context, userID int) ([]models.CartLine, error)
	Add(ctx context.Context, req models.AddCartRequest) (*models.CartLine, error)
	UpdateQuantity(ctx context.Context, lineID, quantity int) (*models.CartLine, error)
	Remove(ctx context.Context, lineID int) error
	ClearAll(ctx context.Context, userID int) error
	PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (*models.Order, error)
}

// Session is what a successful login or registration yields.
type Session struct {
	UserID int
	Email  string
	Token  string
}

// Client talks to the food-order HTTP API. The zero token is only good for
// the auth endpoints; use WithToken for everything else.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// WithToken returns a copy of c that sends token as its bearer credential.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", models.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &Session{UserID: resp.User.ID, Email: resp.User.Email, Token: resp.Token}, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	var resp models.AuthResponse
	req := models.RegisterRequest{Name: name, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &Session{UserID: resp.User.ID, Email: resp.User.Email, Token: resp.Token}, nil
}

func (c *Client) List(ctx context.Context, userID int) ([]models.CartLine, error) {
	var resp models.CartResponse
	if err := c.do(ctx, http.MethodGet, "/api/cart/"+strconv.Itoa(userID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Cart, nil
}

func (c *Client) Add(ctx context.Context, req models.AddCartRequest) (*models.CartLine, error) {
	var resp models.CartItemResponse
	if err := c.do(ctx, http.MethodPost, "/api/cart", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

func (c *Client) UpdateQuantity(ctx context.Context, lineID, quantity int) (*models.CartLine, error) {
	var resp models.CartItemResponse
	req := models.UpdateQuantityRequest{Quantity: quantity}
	if err := c.do(ctx, http.MethodPut, "/api/cart/"+strconv.Itoa(lineID), req, &resp); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

func (c *Client) Remove(ctx context.Context, lineID int) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/"+strconv.Itoa(lineID), nil, &models.MessageResponse{})
}

func (c *Client) ClearAll(ctx context.Context, userID int) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/all/"+strconv.Itoa(userID), nil, &models.MessageResponse{})
}

func (c *Client) PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (*models.Order, error) {
	var resp models.OrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/cart/orders", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

func (c *Client) ListOrders(ctx context.Context, userID int) ([]models.Order, error) {
	var resp models.OrdersResponse
	if err := c.do(ctx, http.MethodGet, "/api/cart/orders/"+strconv.Itoa(userID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

func (c *Client) GetOrder(ctx context.Context, userID int, orderID string) (*models.Order, error) {
	var resp models.OrderResponse
	path := fmt.Sprintf("/api/cart/orders/%d/%s", userID, url.PathEscape(orderID))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var failure models.ErrorResponse
		_ = json.Unmarshal(raw, &failure)
		return &APIError{Status: resp.StatusCode, Message: failure.Error}
	}

	var envelope struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if !envelope.Success {
		return &APIError{Status: resp.StatusCode, Message: "request was not successful"}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
