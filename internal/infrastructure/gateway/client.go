// Package gateway is the single point of HTTP access to the remote backend.
// It normalizes every failure into one error type and validates payload
// shapes at the boundary; retry, caching and fallback belong to the stores.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/Aybis/maya-family/internal/model"
)

// APIError is the only error type this package returns. Status is the HTTP
// status code, or 0 for network-level failures.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("Network Error: %s", e.Message)
	}
	return fmt.Sprintf("API Error (%d): %s", e.Status, e.Message)
}

// Client talks to the Maya backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a gateway for the given base URL, e.g.
// "http://localhost:3000/api/v1".
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

func (c *Client) request(ctx context.Context, method, path string, body any, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Status: 0, Message: err.Error()}
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &APIError{Status: 0, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Status: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: resp.Status}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Status: 0, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// Health checks the backend health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.request(ctx, http.MethodGet, "/health", nil, nil)
}

// ListTransactions fetches all transactions. Records failing validation are
// dropped, not returned as errors.
func (c *Client) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	var raw []json.RawMessage
	if err := c.request(ctx, http.MethodGet, "/transaction/", nil, &raw); err != nil {
		return nil, err
	}
	return c.decodeTransactions(raw), nil
}

// CreateTransaction posts a draft and returns the server record. A response
// without a usable id counts as a failure.
func (c *Client) CreateTransaction(ctx context.Context, draft model.TransactionDraft) (model.Transaction, error) {
	var tx model.Transaction
	if err := c.request(ctx, http.MethodPost, "/transaction/", draft, &tx); err != nil {
		return model.Transaction{}, err
	}
	if tx.ID == "" {
		return model.Transaction{}, &APIError{Status: 0, Message: "create transaction: response missing id"}
	}
	return tx, nil
}

// ListWarehouseItems fetches all inventory items, dropping invalid records.
func (c *Client) ListWarehouseItems(ctx context.Context) ([]model.WarehouseItem, error) {
	var raw []json.RawMessage
	if err := c.request(ctx, http.MethodGet, "/warehouse/", nil, &raw); err != nil {
		return nil, err
	}
	return c.decodeItems(raw), nil
}

// CreateWarehouseItem posts a draft and returns the server record.
func (c *Client) CreateWarehouseItem(ctx context.Context, draft model.ItemDraft) (model.WarehouseItem, error) {
	var item model.WarehouseItem
	if err := c.request(ctx, http.MethodPost, "/warehouse/", draft, &item); err != nil {
		return model.WarehouseItem{}, err
	}
	if item.ID == "" {
		return model.WarehouseItem{}, &APIError{Status: 0, Message: "create item: response missing id"}
	}
	return item, nil
}

// UpdateWarehouseItem puts a patch to the only resource with a remote
// update endpoint.
func (c *Client) UpdateWarehouseItem(ctx context.Context, id string, patch model.ItemPatch) (model.WarehouseItem, error) {
	var item model.WarehouseItem
	if err := c.request(ctx, http.MethodPut, "/warehouse/"+url.PathEscape(id), patch, &item); err != nil {
		return model.WarehouseItem{}, err
	}
	if item.ID == "" {
		return model.WarehouseItem{}, &APIError{Status: 0, Message: "update item: response missing id"}
	}
	return item, nil
}

// MonthlyReport fetches the precomputed report, normalized field by field.
// month is a YYYY-MM key; empty means the backend's current month.
func (c *Client) MonthlyReport(ctx context.Context, month string) (model.MonthlyReport, error) {
	path := "/report/monthly"
	if month != "" {
		path += "?month=" + url.QueryEscape(month)
	}
	var payload map[string]any
	if err := c.request(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return model.MonthlyReport{}, err
	}
	return model.ReportFromPayload(payload), nil
}

// ScanInvoice sends a base64 data-URL image to the backend scanner. The
// result is returned untyped; normalization belongs to the AI adapter.
func (c *Client) ScanInvoice(ctx context.Context, imageData string) (map[string]any, error) {
	var payload map[string]any
	body := map[string]string{"image": imageData}
	if err := c.request(ctx, http.MethodPost, "/invoice/scan", body, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SendNotification posts a notification payload.
func (c *Client) SendNotification(ctx context.Context, notification any) error {
	return c.request(ctx, http.MethodPost, "/notification/", notification, nil)
}

// DummyTransactions fetches the demo-mode transaction mirror. Empty userID
// means all users.
func (c *Client) DummyTransactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	if userID == "" {
		userID = "all"
	}
	var raw []json.RawMessage
	if err := c.request(ctx, http.MethodGet, "/dummy/transactions/"+url.PathEscape(userID), nil, &raw); err != nil {
		return nil, err
	}
	return c.decodeTransactions(raw), nil
}

// DummyWarehouse fetches the demo-mode warehouse mirror.
func (c *Client) DummyWarehouse(ctx context.Context, userID string) ([]model.WarehouseItem, error) {
	if userID == "" {
		userID = "all"
	}
	var raw []json.RawMessage
	if err := c.request(ctx, http.MethodGet, "/dummy/warehouse/"+url.PathEscape(userID), nil, &raw); err != nil {
		return nil, err
	}
	return c.decodeItems(raw), nil
}

// DummyReport fetches the demo-mode report mirror.
func (c *Client) DummyReport(ctx context.Context, userID, month string) (model.MonthlyReport, error) {
	path := "/dummy/reports/" + url.PathEscape(userID)
	if month != "" {
		path += "/" + url.PathEscape(month)
	}
	var payload map[string]any
	if err := c.request(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return model.MonthlyReport{}, err
	}
	return model.ReportFromPayload(payload), nil
}

// DummyInvoiceScan fetches a canned scan result from the demo endpoint.
func (c *Client) DummyInvoiceScan(ctx context.Context) (map[string]any, error) {
	var payload map[string]any
	if err := c.request(ctx, http.MethodGet, "/dummy/invoice/scan", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) decodeTransactions(raw []json.RawMessage) []model.Transaction {
	out := make([]model.Transaction, 0, len(raw))
	for _, msg := range raw {
		var tx model.Transaction
		if err := json.Unmarshal(msg, &tx); err != nil {
			c.log.Debug().Err(err).Msg("dropping undecodable transaction record")
			continue
		}
		if err := tx.Validate(); err != nil {
			c.log.Debug().Err(err).Str("id", tx.ID).Msg("dropping invalid transaction record")
			continue
		}
		out = append(out, tx)
	}
	return out
}

func (c *Client) decodeItems(raw []json.RawMessage) []model.WarehouseItem {
	out := make([]model.WarehouseItem, 0, len(raw))
	for _, msg := range raw {
		var item model.WarehouseItem
		if err := json.Unmarshal(msg, &item); err != nil {
			c.log.Debug().Err(err).Msg("dropping undecodable warehouse record")
			continue
		}
		if err := item.Validate(); err != nil {
			c.log.Debug().Err(err).Str("id", item.ID).Msg("dropping invalid warehouse record")
			continue
		}
		out = append(out, item)
	}
	return out
}
