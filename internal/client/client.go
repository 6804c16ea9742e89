// Package client talks to the inventory backend over REST/JSON.
package client

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

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/andresuchdata/intellichain/internal/config"
	"github.com/andresuchdata/intellichain/internal/domain"
	"github.com/andresuchdata/intellichain/internal/metrics"
)

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(cfg config.BackendConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout(),
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *Client) Stores(ctx context.Context) ([]domain.Store, error) {
	var stores []domain.Store
	if err := c.get(ctx, "stores", "/api/stores", &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

func (c *Client) StoreProducts(ctx context.Context, storeID string) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.get(ctx, "store_products", storePath(storeID, "products"), &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) StoreAlerts(ctx context.Context, storeID string) ([]domain.Alert, error) {
	var alerts []domain.Alert
	if err := c.get(ctx, "store_alerts", storePath(storeID, "alerts"), &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (c *Client) StoreInsights(ctx context.Context, storeID string) ([]domain.AIInsight, error) {
	var insights []domain.AIInsight
	if err := c.get(ctx, "store_insights", storePath(storeID, "insights"), &insights); err != nil {
		return nil, err
	}
	return insights, nil
}

func (c *Client) AnalyticsOverview(ctx context.Context) (*domain.AnalyticsOverview, error) {
	var overview domain.AnalyticsOverview
	if err := c.get(ctx, "analytics_overview", "/api/analytics/overview", &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

func (c *Client) EmergencyDashboard(ctx context.Context) (*domain.EmergencyDashboard, error) {
	var dashboard domain.EmergencyDashboard
	if err := c.get(ctx, "emergency_dashboard", "/api/emergency/dashboard", &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (c *Client) ExecuteRebalance(ctx context.Context, suggestion domain.RebalanceSuggestion) (*domain.CommandResult, error) {
	var result domain.CommandResult
	if err := c.post(ctx, "rebalance_execute", "/api/rebalance/execute", suggestion, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) PlaceWarehouseOrder(ctx context.Context, order domain.WarehouseOrder) (*domain.CommandResult, error) {
	var result domain.CommandResult
	if err := c.post(ctx, "warehouse_place_order", "/api/warehouse/place-order", order, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func storePath(storeID, resource string) string {
	return "/api/stores/" + url.PathEscape(storeID) + "/" + resource
}

func (c *Client) get(ctx context.Context, endpoint, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", endpoint, err)
	}
	return c.do(req, endpoint, out)
}

func (c *Client) post(ctx context.Context, endpoint, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: encode body: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, endpoint, out)
}

func (c *Client) do(req *http.Request, endpoint string, out any) error {
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.BackendRequestDuration.WithLabelValues(endpoint, "error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	metrics.BackendRequestDuration.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		log.Debug().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Msg("backend: non-2xx response")
		return fmt.Errorf("%s: %w: %d", endpoint, domain.ErrBackendStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", endpoint, err)
	}
	return nil
}
