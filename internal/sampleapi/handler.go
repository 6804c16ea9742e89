package sampleapi

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/intellichain/internal/domain"
)

const (
	suggestionListLimit = 10
	dashboardListLimit  = 5
	backendTimeLayout   = "2006-01-02T15:04:05"
)

type Handler struct {
	data       *Dataset
	predictor  *Predictor
	rebalancer *Rebalancer
	now        func() time.Time
}

func NewHandler(data *Dataset) *Handler {
	return &Handler{
		data:       data,
		predictor:  NewPredictor(),
		rebalancer: NewRebalancer(),
		now:        time.Now,
	}
}

// WithClock replaces the handler's clock.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Health).Methods("GET")
	router.HandleFunc("/api/stores", h.ListStores).Methods("GET")
	router.HandleFunc("/api/stores/{id}/products", h.StoreProducts).Methods("GET")
	router.HandleFunc("/api/stores/{id}/alerts", h.StoreAlerts).Methods("GET")
	router.HandleFunc("/api/stores/{id}/insights", h.StoreInsights).Methods("GET")
	router.HandleFunc("/api/analytics/overview", h.AnalyticsOverview).Methods("GET")
	router.HandleFunc("/api/rebalance/suggestions", h.RebalanceSuggestions).Methods("GET")
	router.HandleFunc("/api/rebalance/execute", h.ExecuteRebalance).Methods("POST")
	router.HandleFunc("/api/warehouse/orders", h.WarehouseOrders).Methods("GET")
	router.HandleFunc("/api/warehouse/place-order", h.PlaceWarehouseOrder).Methods("POST")
	router.HandleFunc("/api/emergency/dashboard", h.EmergencyDashboard).Methods("GET")
}

// Router returns a mux router with every route registered.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListStores(w http.ResponseWriter, r *http.Request) {
	stores := make([]domain.Store, 0, len(h.data.Stores))
	for _, s := range h.data.Stores {
		alertCount := 0
		for _, p := range h.data.StoreProducts(s.ID) {
			if p.CurrentStock <= p.MinThreshold {
				alertCount++
			}
		}
		stores = append(stores, domain.Store{
			ID:         s.ID,
			Name:       s.Name,
			Location:   s.Location,
			Manager:    s.Manager,
			TotalValue: s.TotalValue,
			AlertCount: alertCount,
		})
	}
	writeJSON(w, http.StatusOK, stores)
}

func (h *Handler) StoreProducts(w http.ResponseWriter, r *http.Request) {
	storeID, ok := h.storeID(w, r)
	if !ok {
		return
	}

	now := h.now()
	records := h.data.StoreProducts(storeID)
	products := make([]domain.Product, 0, len(records))
	for _, p := range records {
		predicted := h.predictor.PredictShortage(p.DailySales, p.CurrentStock, now)
		products = append(products, domain.Product{
			ID:                  p.ID,
			Name:                p.Name,
			Category:            p.Category,
			CurrentStock:        p.CurrentStock,
			MinThreshold:        p.MinThreshold,
			MaxCapacity:         p.MaxCapacity,
			Price:               p.Price,
			LastRestocked:       p.LastRestocked,
			PredictedOutOfStock: predicted.Format(backendTimeLayout),
			Trend:               p.Trend,
			HolidayImpact:       p.HolidayImpact,
		})
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) StoreAlerts(w http.ResponseWriter, r *http.Request) {
	storeID, ok := h.storeID(w, r)
	if !ok {
		return
	}

	now := h.now()
	alerts := make([]domain.Alert, 0)
	for _, p := range h.data.StoreProducts(storeID) {
		if p.CurrentStock > p.MinThreshold {
			continue
		}
		severity := domain.SeverityMedium
		if float64(p.CurrentStock) <= float64(p.MinThreshold)*0.5 {
			severity = domain.SeverityHigh
		}
		alerts = append(alerts, domain.Alert{
			ID:        "alert_" + p.ID,
			StoreID:   storeID,
			ProductID: p.ID,
			Type:      domain.AlertLowStock,
			Message:   fmt.Sprintf("%s running low - only %d units left", p.Name, p.CurrentStock),
			Severity:  severity,
			Timestamp: domain.NewTimestamp(now),
		})
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (h *Handler) StoreInsights(w http.ResponseWriter, r *http.Request) {
	storeID, ok := h.storeID(w, r)
	if !ok {
		return
	}

	lowStock, holidayDemand := 0, 0
	for _, p := range h.data.StoreProducts(storeID) {
		if p.CurrentStock <= p.MinThreshold {
			lowStock++
		}
		if p.HolidayImpact > 1.5 {
			holidayDemand++
		}
	}

	predictionSeverity := domain.SeverityMedium
	if lowStock > 2 {
		predictionSeverity = domain.SeverityHigh
	}

	insights := []domain.AIInsight{
		{
			Type:     "prediction",
			Title:    "Stock Shortage Prediction",
			Message:  fmt.Sprintf("%d products predicted to run out within 3 days", lowStock),
			Severity: predictionSeverity,
			Action:   "Review restock schedule",
		},
		{
			Type:     "holiday",
			Title:    "Holiday Demand Analysis",
			Message:  fmt.Sprintf("%d products show increased holiday demand patterns", holidayDemand),
			Severity: domain.SeverityMedium,
			Action:   "Increase order quantities",
		},
		{
			Type:     "trend",
			Title:    "Sales Trend Analysis",
			Message:  "Dairy products showing 15% increase in demand this week",
			Severity: domain.SeverityLow,
			Action:   "Monitor closely",
		},
	}
	writeJSON(w, http.StatusOK, insights)
}

func (h *Handler) AnalyticsOverview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Overview(h.data))
}

// Overview counts products at or below threshold (low) and at or below half
// of it (critical) across every store.
func Overview(ds *Dataset) domain.AnalyticsOverview {
	overview := domain.AnalyticsOverview{TotalProducts: len(ds.Products)}
	if len(ds.Products) == 0 {
		return overview
	}

	var ratioSum float64
	for _, p := range ds.Products {
		if p.CurrentStock <= p.MinThreshold {
			overview.LowStockCount++
		}
		if float64(p.CurrentStock) <= float64(p.MinThreshold)*0.5 {
			overview.CriticalStockCount++
		}
		if p.MaxCapacity > 0 {
			ratioSum += float64(p.CurrentStock) / float64(p.MaxCapacity)
		}
	}
	overview.AvgStockLevel = math.Round(ratioSum/float64(len(ds.Products))*1000) / 10
	return overview
}

func (h *Handler) RebalanceSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, head(h.rebalancer.FindOpportunities(h.data), suggestionListLimit))
}

func (h *Handler) WarehouseOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, head(h.rebalancer.WarehouseOrders(h.data, h.now()), suggestionListLimit))
}

func (h *Handler) EmergencyDashboard(w http.ResponseWriter, r *http.Request) {
	suggestions := h.rebalancer.FindOpportunities(h.data)
	orders := h.rebalancer.WarehouseOrders(h.data, h.now())

	critical := 0
	for _, p := range h.data.Products {
		if float64(p.CurrentStock) <= float64(p.MinThreshold)*0.5 {
			critical++
		}
	}

	writeJSON(w, http.StatusOK, domain.EmergencyDashboard{
		CriticalShortages:      critical,
		PendingTransfers:       len(suggestions),
		PendingWarehouseOrders: len(orders),
		RebalanceSuggestions:   head(suggestions, dashboardListLimit),
		WarehouseOrders:        head(orders, dashboardListLimit),
	})
}

func (h *Handler) ExecuteRebalance(w http.ResponseWriter, r *http.Request) {
	var req domain.RebalanceSuggestion
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FromStore == "" || req.ToStore == "" || req.ProductName == "" {
		writeError(w, http.StatusBadRequest, "from_store, to_store and product_name are required")
		return
	}

	transferID := "T" + h.now().Format("20060102150405")
	log.Info().
		Str("transfer_id", transferID).
		Str("from_store", req.FromStore).
		Str("to_store", req.ToStore).
		Str("product", req.ProductName).
		Msg("sample backend: transfer initiated")

	writeJSON(w, http.StatusOK, domain.CommandResult{
		Success:    true,
		TransferID: transferID,
		Message: fmt.Sprintf("Transfer of %s units of %s from %s to %s initiated",
			formatQty(req.TransferQty), req.ProductName, req.FromStore, req.ToStore),
	})
}

func (h *Handler) PlaceWarehouseOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.WarehouseOrder
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.StoreID == "" || req.ProductName == "" {
		writeError(w, http.StatusBadRequest, "store_id and product_name are required")
		return
	}

	orderID := "WO" + h.now().Format("20060102150405")
	log.Info().
		Str("order_id", orderID).
		Str("store_id", req.StoreID).
		Str("product", req.ProductName).
		Str("urgency", req.Urgency).
		Msg("sample backend: warehouse order placed")

	writeJSON(w, http.StatusOK, domain.CommandResult{
		Success: true,
		OrderID: orderID,
		Message: fmt.Sprintf("Warehouse order for %s units of %s to %s placed successfully",
			formatQty(req.OrderQty), req.ProductName, req.StoreID),
	})
}

func (h *Handler) storeID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := mux.Vars(r)["id"]
	if _, ok := h.data.Store(id); !ok {
		writeError(w, http.StatusNotFound, "store not found")
		return "", false
	}
	return id, true
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func formatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("sample backend: encode response failed")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
