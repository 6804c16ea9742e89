package handlers

import (
	"time"

	"github.com/andresuchdata/intellichain/internal/domain"
	"github.com/andresuchdata/intellichain/internal/state"
)

// StoreView is a store with the display label for the current session.
type StoreView struct {
	domain.Store
	Label string `json:"label"`
}

// DashboardView is everything one dashboard screen renders.
type DashboardView struct {
	Stores           []StoreView               `json:"stores"`
	SelectedStore    *StoreView                `json:"selected_store"`
	Overview         domain.InventoryOverview  `json:"overview"`
	Alerts           domain.Page[domain.Alert] `json:"alerts"`
	Insights         []domain.AIInsight        `json:"insights"`
	Categories       []string                  `json:"categories"`
	Filters          domain.FilterOptions      `json:"filters"`
	RejectedProducts []string                  `json:"rejected_products"`
	Error            string                    `json:"error,omitempty"`
	Loading          bool                      `json:"loading"`
	LastUpdated      *time.Time                `json:"last_updated"`
	Session          *domain.Session           `json:"session"`
	EmergencyPanel   bool                      `json:"emergency_panel"`
}

func newDashboardView(s state.State, alertsPageSize int) DashboardView {
	stores := make([]StoreView, 0, len(s.Stores))
	var selected *StoreView
	for _, st := range s.Stores {
		view := StoreView{Store: st, Label: s.Session.StoreLabel(st)}
		stores = append(stores, view)
		if st.ID == s.SelectedStoreID {
			v := view
			selected = &v
		}
	}

	var lastUpdated *time.Time
	if !s.LastUpdated.IsZero() {
		t := s.LastUpdated
		lastUpdated = &t
	}

	return DashboardView{
		Stores:           stores,
		SelectedStore:    selected,
		Overview:         domain.Summarize(s.Filtered),
		Alerts:           domain.Paginate(s.Alerts, 1, alertsPageSize),
		Insights:         nonNil(s.Insights),
		Categories:       nonNil(s.Categories),
		Filters:          s.Filters,
		RejectedProducts: nonNil(s.Rejected),
		Error:            s.Error,
		Loading:          s.Loading,
		LastUpdated:      lastUpdated,
		Session:          s.Session,
		EmergencyPanel:   s.Session.IsWarehouseManager(),
	}
}

func productViews(products []domain.Product) []domain.ProductView {
	views := make([]domain.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, domain.NewProductView(p))
	}
	return views
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return make([]T, 0)
	}
	return items
}
