package external

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

	apperrors "liberia/internal/errors"
	"liberia/internal/models"
)

const ordersPath = "/wp-json/wc/v3/orders"

// AfterLayout is the timestamp format the orders endpoint accepts in "after".
const AfterLayout = "2006-01-02T15:04:05"

type WooCommerceConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	Timeout        time.Duration
	WebhookSecret  string
	SignatureMode  SignatureMode
}

// WooCommerceClient talks to the store's REST API with HTTP Basic auth.
type WooCommerceClient struct {
	baseURL    string
	key        string
	secret     string
	httpClient *http.Client
}

type ListOrdersParams struct {
	Page    int
	PerPage int
	After   time.Time
	OrderBy string
	Order   string
}

// OrderPage holds one page of orders as raw documents so callers can keep the
// verbatim payload and decode each order independently.
type OrderPage struct {
	Orders     []json.RawMessage
	Total      int
	TotalPages int
}

func NewWooCommerceClient(cfg WooCommerceConfig) *WooCommerceClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &WooCommerceClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		key:     cfg.ConsumerKey,
		secret:  cfg.ConsumerSecret,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Configured reports whether a store URL and credentials are set.
func (wc *WooCommerceClient) Configured() bool {
	return wc.baseURL != "" && wc.key != "" && wc.secret != ""
}

func (wc *WooCommerceClient) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, wc.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(wc.key, wc.secret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do sends req and maps transport failures and non-2xx answers to
// ErrUpstreamUnavailable. The caller closes the body.
func (wc *WooCommerceClient) do(req *http.Request) (*http.Response, error) {
	resp, err := wc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", apperrors.ErrUpstreamUnavailable, req.Method, req.URL.Path, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, req.URL.Path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("%w: unexpected status code: %d: %s",
			apperrors.ErrUpstreamUnavailable, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return resp, nil
}

// ListOrders fetches one page of orders.
func (wc *WooCommerceClient) ListOrders(ctx context.Context, p ListOrdersParams) (*OrderPage, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(p.PerPage))
	q.Set("page", strconv.Itoa(p.Page))
	if !p.After.IsZero() {
		q.Set("after", p.After.UTC().Format(AfterLayout))
	}
	if p.OrderBy != "" {
		q.Set("orderby", p.OrderBy)
	}
	if p.Order != "" {
		q.Set("order", p.Order)
	}

	req, err := wc.newRequest(ctx, http.MethodGet, ordersPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := wc.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders page %d: %w", p.Page, err)
	}
	defer resp.Body.Close()

	var orders []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		return nil, fmt.Errorf("%w: failed to decode orders page %d: %v", apperrors.ErrUpstreamUnavailable, p.Page, err)
	}

	page := &OrderPage{Orders: orders}
	page.Total, _ = strconv.Atoi(resp.Header.Get("X-WP-Total"))
	page.TotalPages, _ = strconv.Atoi(resp.Header.Get("X-WP-TotalPages"))
	return page, nil
}

// GetOrder fetches one order and returns it with its raw document.
func (wc *WooCommerceClient) GetOrder(ctx context.Context, id int64) (*models.WooOrder, []byte, error) {
	req, err := wc.newRequest(ctx, http.MethodGet, fmt.Sprintf("%s/%d", ordersPath, id), nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := wc.do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get order %d: %w", id, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read order %d: %v", apperrors.ErrUpstreamUnavailable, id, err)
	}
	var order models.WooOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, nil, fmt.Errorf("failed to decode order %d: %w", id, err)
	}
	return &order, raw, nil
}

// UpdateOrder pushes a partial update. Metadata entries are merged upstream
// by key.
func (wc *WooCommerceClient) UpdateOrder(ctx context.Context, id int64, update models.OrderUpdate) error {
	req, err := wc.newRequest(ctx, http.MethodPut, fmt.Sprintf("%s/%d", ordersPath, id), update)
	if err != nil {
		return err
	}
	resp, err := wc.do(req)
	if err != nil {
		return fmt.Errorf("failed to update order %d: %w", id, err)
	}
	resp.Body.Close()
	return nil
}

// DeleteOrder trashes the order, or removes it for good when force is set.
func (wc *WooCommerceClient) DeleteOrder(ctx context.Context, id int64, force bool) error {
	path := fmt.Sprintf("%s/%d?force=%t", ordersPath, id, force)
	req, err := wc.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	resp, err := wc.do(req)
	if err != nil {
		return fmt.Errorf("failed to delete order %d: %w", id, err)
	}
	resp.Body.Close()
	return nil
}
