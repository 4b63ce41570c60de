// Package ledgerclient cliente HTTP de la API del Ledger (go-resty).
package ledgerclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// APIError error devuelto por la API con el sobre {code, message}.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// Is relaciona el código de la API con los errores de dominio.
func (e *APIError) Is(target error) bool {
	switch e.Code {
	case "VALIDATION", "INVALID_BODY":
		return target == domain.ErrInvalidInput
	case "NOT_FOUND":
		return target == domain.ErrNotFound
	case "INSUFFICIENT_STOCK":
		return target == domain.ErrInsufficientStock
	case "DUPLICATE":
		return target == domain.ErrDuplicate
	case "STORE_ERROR":
		return target == domain.ErrStore
	}
	return false
}

// Client acceso a la API del Ledger.
type Client struct {
	http *resty.Client
}

// New crea un cliente contra baseURL (p. ej. http://localhost:8080).
func New(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(15 * time.Second).
			SetHeader("Accept", "application/json"),
	}
}

// ListItems GET /api/items.
func (c *Client) ListItems(ctx context.Context, limit, offset int) (*dto.ItemListResponse, error) {
	var out dto.ItemListResponse
	req := c.http.R().SetContext(ctx).SetQueryParams(map[string]string{
		"limit":  strconv.Itoa(limit),
		"offset": strconv.Itoa(offset),
	})
	return &out, do(req.SetResult(&out), resty.MethodGet, "/api/items")
}

// GetItem GET /api/items/:id.
func (c *Client) GetItem(ctx context.Context, id int64) (*dto.ItemResponse, error) {
	var out dto.ItemResponse
	return &out, do(c.http.R().SetContext(ctx).SetResult(&out), resty.MethodGet, itemPath(id, ""))
}

// CreateItem POST /api/items.
func (c *Client) CreateItem(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	var out dto.ItemResponse
	req := c.http.R().SetContext(ctx).SetBody(in).SetResult(&out)
	return &out, do(req, resty.MethodPost, "/api/items")
}

// ApplyMovement POST /api/items/:id/movements.
func (c *Client) ApplyMovement(ctx context.Context, id int64, in dto.MovementRequest) (*dto.MovementResponse, error) {
	var out dto.MovementResponse
	req := c.http.R().SetContext(ctx).SetBody(in).SetResult(&out)
	return &out, do(req, resty.MethodPost, itemPath(id, "/movements"))
}

// History GET /api/items/:id/logs.
func (c *Client) History(ctx context.Context, id int64, limit, offset int) (*dto.LogListResponse, error) {
	var out dto.LogListResponse
	req := c.http.R().SetContext(ctx).SetResult(&out).SetQueryParams(map[string]string{
		"limit":  strconv.Itoa(limit),
		"offset": strconv.Itoa(offset),
	})
	return &out, do(req, resty.MethodGet, itemPath(id, "/logs"))
}

// LowStock GET /api/items/low-stock.
func (c *Client) LowStock(ctx context.Context) (*dto.LowStockResponse, error) {
	var out dto.LowStockResponse
	return &out, do(c.http.R().SetContext(ctx).SetResult(&out), resty.MethodGet, "/api/items/low-stock")
}

// Reconcile POST /api/items/:id/reconcile.
func (c *Client) Reconcile(ctx context.Context, id int64, repair bool) (*dto.ReconcileResponse, error) {
	var out dto.ReconcileResponse
	req := c.http.R().SetContext(ctx).SetResult(&out).SetQueryParam("repair", strconv.FormatBool(repair))
	return &out, do(req, resty.MethodPost, itemPath(id, "/reconcile"))
}

func itemPath(id int64, suffix string) string {
	return "/api/items/" + strconv.FormatInt(id, 10) + suffix
}

func do(req *resty.Request, method, path string) error {
	var apiErr dto.ErrorResponse
	resp, err := req.SetError(&apiErr).Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return &APIError{Status: resp.StatusCode(), Code: apiErr.Code, Message: apiErr.Message}
	}
	return nil
}
