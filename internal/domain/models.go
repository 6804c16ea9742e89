// internal/domain/models.go
package domain

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend speaks plain JSON numbers for money.
	decimal.MarshalJSONWithoutQuotes = true
}

// Trend is the sales direction reported by the backend for a product.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Severity is shared by alerts and insights.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type AlertType string

const (
	AlertLowStock          AlertType = "low_stock"
	AlertPredictedShortage AlertType = "predicted_shortage"
	AlertHolidayDemand     AlertType = "holiday_demand"
)

// Role is the cosmetic role picked at login.
type Role string

const (
	RoleStoreManager     Role = "store_manager"
	RoleWarehouseManager Role = "warehouse_manager"
)

// Store represents a store location
type Store struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Location   string          `json:"location"`
	Manager    string          `json:"manager"`
	TotalValue decimal.Decimal `json:"totalValue"`
	AlertCount int             `json:"alertCount"`
}

// Product is a store-level stock record as served by the backend.
type Product struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Category            string          `json:"category"`
	CurrentStock        int             `json:"currentStock"`
	MinThreshold        int             `json:"minThreshold"`
	MaxCapacity         int             `json:"maxCapacity"`
	Price               decimal.Decimal `json:"price"`
	LastRestocked       string          `json:"lastRestocked"`
	PredictedOutOfStock string          `json:"predictedOutOfStock"`
	Trend               Trend           `json:"trend"`
	HolidayImpact       float64         `json:"holidayImpact"`
}

// Alert is a stock warning for a single product.
type Alert struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"storeId"`
	ProductID string    `json:"productId"`
	Type      AlertType `json:"type"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	Timestamp Timestamp `json:"timestamp"`
}

type AIInsight struct {
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Action   string   `json:"action"`
}

// RebalanceSuggestion is a proposed store-to-store transfer.
type RebalanceSuggestion struct {
	FromStore   string  `json:"from_store"`
	ToStore     string  `json:"to_store"`
	ProductName string  `json:"product_name"`
	TransferQty float64 `json:"transfer_qty"`
	Distance    float64 `json:"distance"`
	Priority    float64 `json:"priority"`
}

// Key identifies a suggestion while a transfer is in flight.
func (s RebalanceSuggestion) Key() string {
	return s.FromStore + "-" + s.ToStore + "-" + s.ProductName
}

// WarehouseOrder is a proposed replenishment from the central warehouse.
type WarehouseOrder struct {
	StoreID           string  `json:"store_id"`
	ProductName       string  `json:"product_name"`
	ProductID         string  `json:"product_id"`
	OrderQty          float64 `json:"order_qty"`
	Urgency           string  `json:"urgency"`
	EstimatedDelivery string  `json:"estimated_delivery"`
	WarehouseLocation string  `json:"warehouse_location"`
}

type EmergencyDashboard struct {
	CriticalShortages      int                   `json:"critical_shortages"`
	PendingTransfers       int                   `json:"pending_transfers"`
	PendingWarehouseOrders int                   `json:"pending_warehouse_orders"`
	RebalanceSuggestions   []RebalanceSuggestion `json:"rebalance_suggestions"`
	WarehouseOrders        []WarehouseOrder      `json:"warehouse_orders"`
}

// CommandResult is the backend reply to a transfer or warehouse order command.
type CommandResult struct {
	Success    bool   `json:"success"`
	TransferID string `json:"transfer_id,omitempty"`
	OrderID    string `json:"order_id,omitempty"`
	Message    string `json:"message"`
}

// AnalyticsOverview aggregates stock levels across every store.
type AnalyticsOverview struct {
	TotalProducts      int     `json:"totalProducts"`
	LowStockCount      int     `json:"lowStockCount"`
	CriticalStockCount int     `json:"criticalStockCount"`
	AvgStockLevel      float64 `json:"avgStockLevel"`
}

// Session is the local login state. It is never sent to the backend.
type Session struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Role       Role      `json:"role"`
	Location   string    `json:"location"`
	LoggedInAt time.Time `json:"logged_in_at"`
}

func (s *Session) IsWarehouseManager() bool {
	return s != nil && s.Role == RoleWarehouseManager
}

// StoreLabel returns the display name of a store for the session's role.
func (s *Session) StoreLabel(store Store) string {
	if s.IsWarehouseManager() {
		return store.Name + " - Warehouse"
	}
	return store.Name
}

// ParseRole returns the role for a label (case-insensitive).
func ParseRole(label string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(label))) {
	case RoleStoreManager:
		return RoleStoreManager, true
	case RoleWarehouseManager:
		return RoleWarehouseManager, true
	}
	return "", false
}

var backendTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseBackendTime accepts RFC3339 as well as the zone-less ISO timestamps the backend emits.
func ParseBackendTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range backendTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PredictedOutAt returns the parsed predicted stock-out time.
func (p Product) PredictedOutAt() (time.Time, bool) {
	return ParseBackendTime(p.PredictedOutOfStock)
}

// RestockedAt returns the parsed last restock date.
func (p Product) RestockedAt() (time.Time, bool) {
	return ParseBackendTime(p.LastRestocked)
}

// Timestamp accepts both RFC3339 and zone-less ISO timestamps when decoding.
// It encodes as RFC3339.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	raw := strings.Trim(string(data), `"`)
	parsed, ok := ParseBackendTime(raw)
	if !ok {
		return fmt.Errorf("invalid timestamp %q", raw)
	}
	t.Time = parsed
	return nil
}
